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


package storage

import (
	"fmt"

	"github.com/poiesic/harvest/core"
)

// MarshalCacheEnvelope serializes a CacheEnvelope to bytes.
func MarshalCacheEnvelope(envelope *core.CacheEnvelope) []byte {
	buf := make([]byte, core.CacheEnvelopeMUS.Size(*envelope))
	core.CacheEnvelopeMUS.Marshal(*envelope, buf)
	return buf
}

// UnmarshalCacheEnvelope deserializes a CacheEnvelope from bytes.
func UnmarshalCacheEnvelope(data []byte) (*core.CacheEnvelope, error) {
	envelope, _, err := core.CacheEnvelopeMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &envelope, nil
}

// MarshalContentItem serializes a ContentItem to bytes.
func MarshalContentItem(item *core.ContentItem) []byte {
	buf := make([]byte, core.ContentItemMUS.Size(*item))
	core.ContentItemMUS.Marshal(*item, buf)
	return buf
}

// UnmarshalContentItem deserializes a ContentItem from bytes.
func UnmarshalContentItem(data []byte) (*core.ContentItem, error) {
	item, _, err := core.ContentItemMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &item, nil
}
