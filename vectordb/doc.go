// Package vectordb defines the contract between askbase and the backing
// vector index.
//
// The Index interface covers collection lifecycle (list, inspect, create,
// delete) plus chunk upsert and similarity search. Distance computation is
// never reimplemented here; it belongs to the index service.
//
// Two implementations exist:
//
//   - vectordb/qdrant: production implementation against a Qdrant server,
//     combining its collections REST API with the langchaingo vector store
//     for embedding-aware upsert and search
//   - vectordb/mock: in-memory test double with deterministic word-overlap
//     scoring
package vectordb
