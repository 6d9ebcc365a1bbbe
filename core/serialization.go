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

package core

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// CollectionRecordMUS serializes CollectionRecord values for durable storage.
// Timestamps are stored as microseconds since the Unix epoch.
var CollectionRecordMUS mus.Serializer[CollectionRecord] = collectionRecordSer{}

type collectionRecordSer struct{}

func (collectionRecordSer) Marshal(r CollectionRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.Collection, bs)
	n += ord.String.Marshal(r.SessionKey, bs[n:])
	n += varint.Int64.Marshal(r.CreatedAt.UnixMicro(), bs[n:])
	return
}

func (collectionRecordSer) Unmarshal(bs []byte) (r CollectionRecord, n int, err error) {
	var n1 int
	r.Collection, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	r.SessionKey, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.CreatedAt = time.UnixMicro(micros).UTC()
	return
}

func (collectionRecordSer) Size(r CollectionRecord) (size int) {
	size = ord.String.Size(r.Collection)
	size += ord.String.Size(r.SessionKey)
	size += varint.Int64.Size(r.CreatedAt.UnixMicro())
	return
}

func (collectionRecordSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}
