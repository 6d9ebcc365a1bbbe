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

// Package generate produces grounded answers from retrieved context.
//
// The generator builds a prompt restricted to the session's retrieved
// chunks, instructs the model to cite sources by positional index, and
// walks an ordered chain of candidate models. Each attempt runs under its
// own deadline; failures are classified (server error, timeout, other)
// and drive progression to the next candidate. When every candidate fails
// the caller receives fixed degraded copy plus a diagnostics block, never
// a raw upstream error.
package generate
