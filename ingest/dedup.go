// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingest

import "github.com/poiesic/harvest/core"

// dedupe drops items that are near-identical to an earlier item.
// Identity is the canonical key over normalized title and content
// prefix. Input order is preserved and the first occurrence wins, so
// given items in plan priority order the higher-priority source's copy
// is the one kept. Returns the surviving items and the drop count.
func dedupe(items []*core.ContentItem) ([]*core.ContentItem, int) {
	if len(items) < 2 {
		return items, 0
	}

	seen := make(map[core.Fingerprint]struct{}, len(items))
	kept := make([]*core.ContentItem, 0, len(items))
	for _, item := range items {
		key := item.CanonicalKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, item)
	}
	return kept, len(items) - len(kept)
}
