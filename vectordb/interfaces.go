package vectordb

import (
	"context"

	"github.com/poiesic/askbase/core"
)

// CollectionInfo describes a collection as reported by the backing index.
type CollectionInfo struct {
	Name        string `json:"name"`
	PointsCount uint64 `json:"pointsCount"`
	VectorSize  int    `json:"vectorSize"`
}

// Index is the similarity-search contract over the backing vector index.
// The collection manager and the retriever are its only callers; no other
// package touches the index client directly.
//
// Implementations must be thread-safe and support concurrent access.
type Index interface {
	// ListCollections returns the names of all collections in the index.
	ListCollections(ctx context.Context) ([]string, error)

	// CollectionInfo returns stored-point count and vector size for a
	// collection. Returns ErrCollectionNotFound if it does not exist.
	CollectionInfo(ctx context.Context, name string) (*CollectionInfo, error)

	// EnsureCollection creates the collection with the given vector size if
	// it does not exist. Creating an already-existing collection is a no-op;
	// an existing collection with a different vector size is a fatal
	// configuration error reported as ErrDimensionMismatch.
	EnsureCollection(ctx context.Context, name string, vectorSize int) error

	// DeleteCollection removes the collection. Returns whether a deletion
	// occurred; false means there was nothing to delete and is not an error.
	DeleteCollection(ctx context.Context, name string) (bool, error)

	// Upsert embeds and stores chunks in the named collection.
	// Writing to an existing collection appends rather than recreating it.
	Upsert(ctx context.Context, name string, chunks []core.Chunk) error

	// Search returns up to k chunks most similar to the query, ordered by
	// non-increasing similarity. An empty result is valid and meaningful.
	Search(ctx context.Context, name, query string, k int) ([]core.RetrievedChunk, error)
}
