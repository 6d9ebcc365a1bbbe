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

// Package registry defines the durable directory of session collections.
//
// The vector database only knows collection names. The registry remembers
// which session created each collection and when, which is what the
// stale-collection sweep and session cleanup need. Records are serialized
// with the MUS format for compact binary storage.
//
// The badger subpackage provides the BadgerDB-backed implementation.
package registry
