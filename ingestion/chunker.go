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

package ingestion

import (
	"strings"

	"github.com/poiesic/askbase/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// DefaultChunkSize is the maximum chunk length in characters.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is how many characters consecutive chunks share.
	DefaultChunkOverlap = 200
)

// chunkSeparators are tried in priority order: paragraph, line, sentence,
// word, then a hard character cut.
var chunkSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunker splits raw text into overlapping passages with positional metadata.
// Splitting is deterministic: identical input and configuration always
// produce identical chunk boundaries.
type Chunker struct {
	splitter textsplitter.RecursiveCharacter
}

// ChunkerOption configures a Chunker.
type ChunkerOption func(*chunkerConfig)

type chunkerConfig struct {
	chunkSize    int
	chunkOverlap int
}

// WithChunkSize sets the maximum chunk length in characters.
// Default is DefaultChunkSize.
func WithChunkSize(size int) ChunkerOption {
	return func(c *chunkerConfig) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the overlap window between consecutive chunks.
// Default is DefaultChunkOverlap.
func WithChunkOverlap(overlap int) ChunkerOption {
	return func(c *chunkerConfig) {
		if overlap >= 0 {
			c.chunkOverlap = overlap
		}
	}
}

// NewChunker creates a chunker with the given options.
func NewChunker(opts ...ChunkerOption) *Chunker {
	cfg := chunkerConfig{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(cfg.chunkSize),
			textsplitter.WithChunkOverlap(cfg.chunkOverlap),
			textsplitter.WithSeparators(chunkSeparators),
		),
	}
}

// Split breaks text into chunks carrying the provided provenance metadata
// plus positional indices. Blank input yields zero chunks, not an error.
func (c *Chunker) Split(text string, provenance core.ChunkMetadata) ([]core.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	parts, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, err
	}

	chunks := make([]core.Chunk, 0, len(parts))
	for i, part := range parts {
		metadata := provenance
		metadata.ChunkIndex = i
		metadata.TotalChunks = len(parts)
		chunks = append(chunks, core.Chunk{
			Content:  part,
			Metadata: metadata,
		})
	}
	return chunks, nil
}
