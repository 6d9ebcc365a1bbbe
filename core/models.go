package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Key is a deterministic 64-bit identifier derived from text content.
type Key uint64

// KeyFromContent generates a deterministic Key from text using BLAKE2b hashing.
// Identical content always produces the same Key.
func KeyFromContent(text string) Key {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Key(binary.LittleEndian.Uint64(sum))
}

// String returns the key as fixed-width lowercase hex.
func (k Key) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}

// SourceType identifies where ingested content came from.
type SourceType string

const (
	// SourceTypeFile marks content extracted from an uploaded file.
	SourceTypeFile SourceType = "file"
	// SourceTypeText marks content pasted directly by the caller.
	SourceTypeText SourceType = "text"
	// SourceTypeWebsite marks content scraped from a web page.
	SourceTypeWebsite SourceType = "website"
)

// ChunkMetadata carries provenance and positional information for a chunk.
type ChunkMetadata struct {
	Source      string // filename, URL, or synthetic id
	SourceType  SourceType
	SessionID   string // stamped by the collection manager on write
	ChunkIndex  int    // position within the source document, zero-based
	TotalChunks int    // chunk count of the source document
	CreatedAt   time.Time
	Title       string // optional, website provenance
	URL         string // optional, website provenance
}

// Chunk is a bounded-length passage of source text plus provenance metadata.
// It is the unit of storage and retrieval.
type Chunk struct {
	Content  string
	Metadata ChunkMetadata
}

// RetrievedChunk is a chunk returned by similarity search.
// Rank is 1-based and matches the citation index used in generated answers.
type RetrievedChunk struct {
	Chunk Chunk
	Rank  int
	Score float32
}

// Source is a citation entry attached to an answer.
// ID matches the [n] citation indices in the answer text.
type Source struct {
	ID         int        `json:"id"`
	Source     string     `json:"source"`
	SourceType SourceType `json:"sourceType,omitempty"`
	Title      string     `json:"title,omitempty"`
}

// AttemptOutcome classifies the result of a single generation attempt.
type AttemptOutcome int

const (
	// OutcomeSuccess means the model returned a completion.
	OutcomeSuccess AttemptOutcome = iota + 1
	// OutcomeServerError means the upstream model service failed (5xx).
	OutcomeServerError
	// OutcomeTimeout means the attempt exceeded its deadline.
	OutcomeTimeout
	// OutcomeOther covers every remaining failure class.
	OutcomeOther
)

// String returns the outcome as a stable lowercase label.
func (o AttemptOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeServerError:
		return "server_error"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeOther:
		return "other_error"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the outcome as its label.
func (o AttemptOutcome) MarshalJSON() ([]byte, error) {
	return []byte(`"` + o.String() + `"`), nil
}

// GenerationAttempt records one model tried within a single answer request.
// Attempts live only for the duration of the request.
type GenerationAttempt struct {
	Model     string         `json:"model"`
	StartedAt time.Time      `json:"startedAt"`
	Outcome   AttemptOutcome `json:"outcome"`
	Err       string         `json:"error,omitempty"`
}

// AnswerState is the terminal state of an answer request.
type AnswerState string

const (
	// StateNoKnowledgeBase means the session has no collection to search.
	StateNoKnowledgeBase AnswerState = "no_knowledge_base"
	// StateNoMatch means retrieval found no relevant chunks.
	StateNoMatch AnswerState = "no_match"
	// StateAnswered means a model produced a grounded answer.
	StateAnswered AnswerState = "answered"
	// StateDegraded means every candidate model failed.
	StateDegraded AnswerState = "degraded"
)

// Diagnostics is the side channel attached to every answer.
// It never carries raw upstream payloads, only classification-derived data.
type Diagnostics struct {
	State     AnswerState         `json:"state"`
	Model     string              `json:"model,omitempty"` // model that produced the answer
	Attempts  []GenerationAttempt `json:"attempts,omitempty"`
	LastError string              `json:"lastError,omitempty"`
}

// Answer is the result of one answer request.
type Answer struct {
	Text        string      `json:"answer"`
	Sources     []Source    `json:"sources"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// CollectionRecord is the durable registry entry for a session collection.
// CreatedAt is the explicit creation timestamp consulted by stale sweeps,
// stored here instead of being parsed back out of the collection name.
type CollectionRecord struct {
	Collection string
	SessionKey string
	CreatedAt  time.Time
}
