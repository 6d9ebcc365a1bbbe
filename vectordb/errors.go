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


package vectordb

import "errors"

var (
	// ErrUnavailable indicates the backing index could not be reached or
	// answered with a server-side failure. Callers surface it as a degraded
	// response for queries and a hard failure for ingestion.
	ErrUnavailable = errors.New("vector index unavailable")

	// ErrCollectionNotFound indicates the requested collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrDimensionMismatch indicates an existing collection was created with
	// a different vector size than the one configured. This is a fatal
	// configuration error and is never retried.
	ErrDimensionMismatch = errors.New("collection vector size mismatch")
)
