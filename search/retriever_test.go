package search

import (
	"context"
	"testing"

	"github.com/poiesic/askbase/collection"
	"github.com/poiesic/askbase/core"
	registrybadger "github.com/poiesic/askbase/registry/badger"
	vdbmock "github.com/poiesic/askbase/vectordb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRetriever(t *testing.T) (*Retriever, *collection.Manager) {
	t.Helper()

	index := vdbmock.NewMockIndex()
	reg, backend, err := registrybadger.NewMemoryRegistry()
	require.NoError(t, err)
	t.Cleanup(func() {
		reg.Close()
		backend.Close()
	})

	manager, err := collection.NewManager(index, reg)
	require.NoError(t, err)

	retriever, err := NewRetriever(manager)
	require.NoError(t, err)
	return retriever, manager
}

func ingestSentences(t *testing.T, manager *collection.Manager, session string, sentences ...string) {
	t.Helper()
	chunks := make([]core.Chunk, len(sentences))
	for i, sentence := range sentences {
		chunks[i] = core.Chunk{
			Content: sentence,
			Metadata: core.ChunkMetadata{
				Source:      "facts.txt",
				SourceType:  core.SourceTypeFile,
				ChunkIndex:  i,
				TotalChunks: len(sentences),
			},
		}
	}
	require.NoError(t, manager.WriteChunks(context.Background(), session, chunks))
}

func TestNewRetriever(t *testing.T) {
	t.Run("nil manager", func(t *testing.T) {
		_, err := NewRetriever(nil)
		assert.Equal(t, ErrManagerRequired, err)
	})
}

func TestRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("no knowledge base", func(t *testing.T) {
		retriever, _ := newTestRetriever(t)
		_, err := retriever.Retrieve(ctx, "never-ingested", "anything", 4)
		assert.ErrorIs(t, err, ErrNoKnowledgeBase)
	})

	t.Run("invalid limit", func(t *testing.T) {
		retriever, _ := newTestRetriever(t)
		for _, k := range []int{0, -1} {
			_, err := retriever.Retrieve(ctx, "sess-1", "query", k)
			assert.ErrorIs(t, err, ErrInvalidLimit)
		}
	})

	t.Run("empty session rejected", func(t *testing.T) {
		retriever, _ := newTestRetriever(t)
		_, err := retriever.Retrieve(ctx, "", "query", 4)
		assert.ErrorIs(t, err, core.ErrEmptySessionID)
	})

	t.Run("best match ranks first", func(t *testing.T) {
		retriever, manager := newTestRetriever(t)
		ingestSentences(t, manager, "sess-1",
			"Paris is the capital of France.",
			"Berlin is the capital of Germany.",
			"The mitochondria is the powerhouse of the cell.",
		)

		results, err := retriever.Retrieve(ctx, "sess-1", "What is the capital of France?", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Contains(t, results[0].Chunk.Content, "Paris")
		assert.Equal(t, 1, results[0].Rank)
	})

	t.Run("never returns more than k", func(t *testing.T) {
		retriever, manager := newTestRetriever(t)
		ingestSentences(t, manager, "sess-1",
			"one fact", "two facts", "three facts", "four facts", "five facts",
		)

		results, err := retriever.Retrieve(ctx, "sess-1", "facts", 3)
		require.NoError(t, err)
		assert.Len(t, results, 3)
		for i, result := range results {
			assert.Equal(t, i+1, result.Rank)
			if i > 0 {
				assert.LessOrEqual(t, result.Score, results[i-1].Score)
			}
		}
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		retriever, manager := newTestRetriever(t)
		ingestSentences(t, manager, "sess-a", "alpha secret data")
		ingestSentences(t, manager, "sess-b", "beta secret data")

		results, err := retriever.Retrieve(ctx, "sess-a", "secret data", 10)
		require.NoError(t, err)
		for _, result := range results {
			assert.NotContains(t, result.Chunk.Content, "beta")
		}
	})
}
