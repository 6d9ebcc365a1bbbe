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

// Package ingestion turns raw documents into chunks and writes them into a
// session's collection.
//
// The Chunker splits text into overlapping passages, preferring paragraph,
// line, sentence, and word boundaries in that order. The Pipeline processes
// the documents of one batch concurrently, isolating per-document failures
// so one bad file never sinks the rest of the upload.
package ingestion
