package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/poiesic/askbase/core"
	"github.com/poiesic/askbase/vectordb"
)

// MockIndex is an in-memory vectordb.Index for testing.
//
// Search uses deterministic word-overlap scoring instead of real embeddings,
// so tests can predict which chunks rank highest for a query. Behavior can be
// overridden per method through the function fields.
type MockIndex struct {
	mu          sync.Mutex
	collections map[string]*mockCollection

	// Optional overrides
	SearchFunc func(ctx context.Context, name, query string, k int) ([]core.RetrievedChunk, error)
	UpsertFunc func(ctx context.Context, name string, chunks []core.Chunk) error
}

type mockCollection struct {
	vectorSize int
	chunks     []core.Chunk
}

var _ vectordb.Index = (*MockIndex)(nil)

// NewMockIndex creates an empty in-memory index.
func NewMockIndex() *MockIndex {
	return &MockIndex{
		collections: make(map[string]*mockCollection),
	}
}

// ListCollections returns the names of all collections, sorted for
// deterministic assertions.
func (m *MockIndex) ListCollections(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CollectionInfo returns point count and vector size for a collection.
func (m *MockIndex) CollectionInfo(ctx context.Context, name string) (*vectordb.CollectionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", vectordb.ErrCollectionNotFound, name)
	}
	return &vectordb.CollectionInfo{
		Name:        name,
		PointsCount: uint64(len(col.chunks)),
		VectorSize:  col.vectorSize,
	}, nil
}

// EnsureCollection creates the collection if absent.
func (m *MockIndex) EnsureCollection(ctx context.Context, name string, vectorSize int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if col, ok := m.collections[name]; ok {
		if col.vectorSize != vectorSize {
			return fmt.Errorf("%w: collection %q has size %d, configured %d",
				vectordb.ErrDimensionMismatch, name, col.vectorSize, vectorSize)
		}
		return nil
	}
	m.collections[name] = &mockCollection{vectorSize: vectorSize}
	return nil
}

// DeleteCollection removes the collection, reporting whether it existed.
func (m *MockIndex) DeleteCollection(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.collections[name]
	delete(m.collections, name)
	return ok, nil
}

// Upsert appends chunks to the named collection.
func (m *MockIndex) Upsert(ctx context.Context, name string, chunks []core.Chunk) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, name, chunks)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[name]
	if !ok {
		return fmt.Errorf("%w: %s", vectordb.ErrCollectionNotFound, name)
	}
	col.chunks = append(col.chunks, chunks...)
	return nil
}

// Search returns up to k chunks ranked by word overlap with the query.
func (m *MockIndex) Search(ctx context.Context, name, query string, k int) ([]core.RetrievedChunk, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, name, query, k)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", vectordb.ErrCollectionNotFound, name)
	}

	type scored struct {
		chunk core.Chunk
		score float32
	}
	candidates := make([]scored, 0, len(col.chunks))
	for _, chunk := range col.chunks {
		candidates = append(candidates, scored{
			chunk: chunk,
			score: overlapScore(query, chunk.Content),
		})
	}

	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}

	results := make([]core.RetrievedChunk, len(candidates))
	for i, c := range candidates {
		results[i] = core.RetrievedChunk{
			Chunk: c.chunk,
			Rank:  i + 1,
			Score: c.score,
		}
	}
	return results, nil
}

// ChunkCount reports how many chunks a collection holds. Zero for absent
// collections.
func (m *MockIndex) ChunkCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[name]
	if !ok {
		return 0
	}
	return len(col.chunks)
}

// overlapScore scores content by the fraction of query words it contains.
func overlapScore(query, content string) float32 {
	queryWords := strings.Fields(strings.ToLower(query))
	if len(queryWords) == 0 {
		return 0
	}

	contentWords := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(content)) {
		contentWords[strings.Trim(word, ".,!?;:")] = true
	}

	var hits int
	for _, word := range queryWords {
		if contentWords[strings.Trim(word, ".,!?;:")] {
			hits++
		}
	}
	return float32(hits) / float32(len(queryWords))
}
