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

package registry

import (
	"fmt"

	"github.com/poiesic/askbase/core"
)

// MarshalCollectionRecord serializes a CollectionRecord to bytes.
func MarshalCollectionRecord(record *core.CollectionRecord) []byte {
	buf := make([]byte, core.CollectionRecordMUS.Size(*record))
	core.CollectionRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalCollectionRecord deserializes a CollectionRecord from bytes.
func UnmarshalCollectionRecord(data []byte) (*core.CollectionRecord, error) {
	record, _, err := core.CollectionRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return &record, nil
}
