package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer produces chat completions from an OpenAI-compatible service.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends a system and user message pair to the named model and
	// returns the completion text. The model identifier is passed per call so
	// a single client can serve a fallback chain of candidate models.
	// Cancellation and deadlines on ctx are propagated to the underlying
	// request; a completion arriving after ctx is done is discarded.
	Complete(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and Completer instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Completer returns the chat completion service.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	Close() error
}
