package collection

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/askbase/core"
	registrybadger "github.com/poiesic/askbase/registry/badger"
	vdbmock "github.com/poiesic/askbase/vectordb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, opts ...Option) (*Manager, *vdbmock.MockIndex) {
	t.Helper()

	index := vdbmock.NewMockIndex()
	reg, backend, err := registrybadger.NewMemoryRegistry()
	require.NoError(t, err)
	t.Cleanup(func() {
		reg.Close()
		backend.Close()
	})

	manager, err := NewManager(index, reg, opts...)
	require.NoError(t, err)
	return manager, index
}

func testChunks(contents ...string) []core.Chunk {
	chunks := make([]core.Chunk, len(contents))
	for i, content := range contents {
		chunks[i] = core.Chunk{
			Content: content,
			Metadata: core.ChunkMetadata{
				Source:      "doc.txt",
				SourceType:  core.SourceTypeFile,
				ChunkIndex:  i,
				TotalChunks: len(contents),
			},
		}
	}
	return chunks
}

func TestNewManager(t *testing.T) {
	index := vdbmock.NewMockIndex()
	reg, backend, err := registrybadger.NewMemoryRegistry()
	require.NoError(t, err)
	defer func() { reg.Close(); backend.Close() }()

	t.Run("valid configuration", func(t *testing.T) {
		manager, err := NewManager(index, reg)
		require.NoError(t, err)
		assert.NotNil(t, manager)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewManager(nil, reg)
		assert.Equal(t, ErrIndexRequired, err)
	})

	t.Run("nil registry", func(t *testing.T) {
		_, err := NewManager(index, nil)
		assert.Equal(t, ErrRegistryRequired, err)
	})
}

func TestCollectionName(t *testing.T) {
	manager, _ := newTestManager(t)

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, manager.CollectionName("sess-1"), manager.CollectionName("sess-1"))
	})

	t.Run("distinct sessions get distinct names", func(t *testing.T) {
		assert.NotEqual(t, manager.CollectionName("sess-1"), manager.CollectionName("sess-2"))
	})

	t.Run("collision after sanitization still isolated", func(t *testing.T) {
		// Both sanitize to "abc" but must not share a collection.
		assert.NotEqual(t, manager.CollectionName("a-b-c"), manager.CollectionName("a_b_c"))
	})

	t.Run("sanitized token is embedded", func(t *testing.T) {
		name := manager.CollectionName("sess!@#42")
		assert.Contains(t, name, "sess42")
		assert.True(t, strings.HasPrefix(name, DefaultBaseName+"_"))
	})
}

func TestSanitizeSession(t *testing.T) {
	tests := []struct {
		name    string
		session string
		want    string
	}{
		{"alphanumeric unchanged", "abc123", "abc123"},
		{"special characters stripped", "a-b_c.d!e", "abcde"},
		{"length capped", strings.Repeat("x", 100), strings.Repeat("x", 32)},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeSession(tt.session))
		})
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("absent collection is not found", func(t *testing.T) {
		manager, _ := newTestManager(t)
		_, err := manager.Resolve(ctx, "sess-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty collection is not found", func(t *testing.T) {
		manager, _ := newTestManager(t)
		_, err := manager.Ensure(ctx, "sess-1")
		require.NoError(t, err)

		_, err = manager.Resolve(ctx, "sess-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("populated collection resolves", func(t *testing.T) {
		manager, _ := newTestManager(t)
		require.NoError(t, manager.WriteChunks(ctx, "sess-1", testChunks("hello world")))

		name, err := manager.Resolve(ctx, "sess-1")
		require.NoError(t, err)
		assert.Equal(t, manager.CollectionName("sess-1"), name)
	})

	t.Run("empty session rejected", func(t *testing.T) {
		manager, _ := newTestManager(t)
		_, err := manager.Resolve(ctx, "")
		assert.ErrorIs(t, err, core.ErrEmptySessionID)
	})
}

func TestEnsureIdempotent(t *testing.T) {
	ctx := context.Background()
	manager, index := newTestManager(t)

	first, err := manager.Ensure(ctx, "sess-1")
	require.NoError(t, err)

	second, err := manager.Ensure(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 0, index.ChunkCount(first))
}

func TestWriteChunks(t *testing.T) {
	ctx := context.Background()
	manager, index := newTestManager(t)

	before := time.Now().UTC()
	chunks := testChunks("first passage", "second passage")
	require.NoError(t, manager.WriteChunks(ctx, "sess-1", chunks))

	name := manager.CollectionName("sess-1")
	assert.Equal(t, 2, index.ChunkCount(name))

	// Chunks are stamped in place
	for _, chunk := range chunks {
		assert.Equal(t, "sess-1", chunk.Metadata.SessionID)
		assert.False(t, chunk.Metadata.CreatedAt.Before(before))
	}

	assert.Equal(t, []string{"sess-1"}, manager.Active())

	t.Run("subsequent writes append", func(t *testing.T) {
		require.NoError(t, manager.WriteChunks(ctx, "sess-1", testChunks("third passage")))
		assert.Equal(t, 3, index.ChunkCount(name))
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		require.NoError(t, manager.WriteChunks(ctx, "sess-1", nil))
		assert.Equal(t, 3, index.ChunkCount(name))
	})
}

func TestSessionIsolation(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	require.NoError(t, manager.WriteChunks(ctx, "sess-a", testChunks("alpha content")))
	require.NoError(t, manager.WriteChunks(ctx, "sess-b", testChunks("beta content")))

	nameA, err := manager.Resolve(ctx, "sess-a")
	require.NoError(t, err)
	nameB, err := manager.Resolve(ctx, "sess-b")
	require.NoError(t, err)
	assert.NotEqual(t, nameA, nameB)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	require.NoError(t, manager.WriteChunks(ctx, "sess-1", testChunks("hello")))

	existed, err := manager.Delete(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, existed)

	// Second delete has nothing to clean up and is not an error
	existed, err = manager.Delete(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = manager.Resolve(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, manager.Active())
}

func TestSweepStale(t *testing.T) {
	ctx := context.Background()

	index := vdbmock.NewMockIndex()
	reg, backend, err := registrybadger.NewMemoryRegistry()
	require.NoError(t, err)
	defer func() { reg.Close(); backend.Close() }()

	manager, err := NewManager(index, reg)
	require.NoError(t, err)

	require.NoError(t, manager.WriteChunks(ctx, "old-sess", testChunks("old data")))
	require.NoError(t, manager.WriteChunks(ctx, "new-sess", testChunks("new data")))

	// Backdate the old session's registry record to 25 hours ago
	oldName := manager.CollectionName("old-sess")
	record, err := reg.Get(ctx, oldName)
	require.NoError(t, err)
	record.CreatedAt = time.Now().UTC().Add(-25 * time.Hour)
	require.NoError(t, reg.Put(ctx, record))

	swept, err := manager.SweepStale(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	_, err = manager.Resolve(ctx, "old-sess")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = manager.Resolve(ctx, "new-sess")
	assert.NoError(t, err)
}
