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

// Package qdrant implements the vectordb.Index interface against a Qdrant
// vector database.
//
// Collection lifecycle operations (list, inspect, create, delete) use the
// Qdrant collections REST API directly. Point storage and similarity search
// delegate to the langchaingo Qdrant vector store, which embeds chunk content
// with the configured embedder before writing.
package qdrant
