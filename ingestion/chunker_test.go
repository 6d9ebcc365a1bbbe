package ingestion

import (
	"strings"
	"testing"

	"github.com/poiesic/askbase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkerSplit(t *testing.T) {
	chunker := NewChunker()

	t.Run("short text yields one chunk", func(t *testing.T) {
		chunks, err := chunker.Split("Paris is the capital of France.", core.ChunkMetadata{
			Source:     "note.txt",
			SourceType: core.SourceTypeText,
		})
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "Paris is the capital of France.", chunks[0].Content)
		assert.Equal(t, 0, chunks[0].Metadata.ChunkIndex)
		assert.Equal(t, 1, chunks[0].Metadata.TotalChunks)
		assert.Equal(t, "note.txt", chunks[0].Metadata.Source)
	})

	t.Run("blank input yields zero chunks", func(t *testing.T) {
		for _, input := range []string{"", "   ", "\n\n\t"} {
			chunks, err := chunker.Split(input, core.ChunkMetadata{})
			require.NoError(t, err)
			assert.Empty(t, chunks)
		}
	})

	t.Run("long text is split with bounded chunk size", func(t *testing.T) {
		paragraphs := make([]string, 10)
		for i := range paragraphs {
			paragraphs[i] = strings.Repeat("The quick brown fox jumps over the lazy dog. ", 10)
		}
		text := strings.Join(paragraphs, "\n\n")

		chunks, err := chunker.Split(text, core.ChunkMetadata{SourceType: core.SourceTypeFile})
		require.NoError(t, err)
		require.Greater(t, len(chunks), 1)

		for i, chunk := range chunks {
			assert.LessOrEqual(t, len(chunk.Content), DefaultChunkSize)
			assert.Equal(t, i, chunk.Metadata.ChunkIndex)
			assert.Equal(t, len(chunks), chunk.Metadata.TotalChunks)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		text := strings.Repeat("Sentence one. Sentence two. Sentence three. ", 100)
		first, err := chunker.Split(text, core.ChunkMetadata{})
		require.NoError(t, err)
		second, err := chunker.Split(text, core.ChunkMetadata{})
		require.NoError(t, err)
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Content, second[i].Content)
		}
	})

	t.Run("content is preserved across chunks", func(t *testing.T) {
		text := strings.Repeat("A distinctive sentence about topic number one. ", 60)
		chunks, err := chunker.Split(text, core.ChunkMetadata{})
		require.NoError(t, err)

		// Every chunk's content must appear in the original text; overlap
		// duplicates content but never invents it.
		for _, chunk := range chunks {
			assert.Contains(t, text, chunk.Content)
		}
	})
}

func TestChunkerOptions(t *testing.T) {
	chunker := NewChunker(WithChunkSize(100), WithChunkOverlap(20))

	text := strings.Repeat("word ", 200)
	chunks, err := chunker.Split(text, core.ChunkMetadata{})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 100)
	}
}
