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


package core

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - SourceType must be valid (file, text, or website)
//   - ChunkIndex must be below TotalChunks
//
// NOT validated (populated by the collection manager on write):
//   - SessionID
//   - CreatedAt
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if err := ValidateSourceType(chunk.Metadata.SourceType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, err)
	}

	if chunk.Metadata.ChunkIndex < 0 || chunk.Metadata.ChunkIndex >= chunk.Metadata.TotalChunks {
		return fmt.Errorf("%w: %w: index %d of %d",
			ErrInvalidChunk, ErrChunkIndexOutOfRange,
			chunk.Metadata.ChunkIndex, chunk.Metadata.TotalChunks)
	}

	return nil
}

// ValidateSourceType validates that a SourceType has a recognised value.
func ValidateSourceType(st SourceType) error {
	switch st {
	case SourceTypeFile, SourceTypeText, SourceTypeWebsite:
		return nil
	default:
		return fmt.Errorf("%w: value %q", ErrInvalidSourceType, st)
	}
}

// ValidateSessionID validates that a session identifier is usable.
// Session tokens are opaque; the only domain rule is non-emptiness.
func ValidateSessionID(sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	return nil
}
