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

// Package collection manages the lifecycle of session-scoped vector
// collections.
//
// Each session gets its own physically isolated collection, named
// deterministically from the session token, so two sessions never observe
// each other's chunks. The manager is the sole owner of collection create
// and delete operations; ingestion and retrieval go through it rather than
// touching the vector index directly.
//
// Creation timestamps live in a durable registry, which drives the
// stale-collection sweep and survives process restarts.
package collection
