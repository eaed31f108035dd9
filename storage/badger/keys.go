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

package badger

import (
	"encoding/binary"

	"github.com/poiesic/harvest/core"
)

const cacheKeyPrefix = "cache:"

// cacheKey builds the BadgerDB key for a cache entry. Entries are
// namespaced per source type so that two sources querying the same
// fingerprint never collide.
func cacheKey(namespace string, fp core.Fingerprint) []byte {
	key := make([]byte, 0, len(cacheKeyPrefix)+len(namespace)+1+8)
	key = append(key, cacheKeyPrefix...)
	key = append(key, namespace...)
	key = append(key, ':')
	key = binary.BigEndian.AppendUint64(key, uint64(fp))
	return key
}
