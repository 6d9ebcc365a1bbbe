package qdrant

import (
	"context"

	"github.com/poiesic/askbase/ai"
)

// embedderAdapter exposes an ai.Embedder through the langchaingo embedder
// interface expected by the vector store.
type embedderAdapter struct {
	embedder ai.Embedder
}

func (a *embedderAdapter) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return a.embedder.EmbedTexts(ctx, texts)
}

func (a *embedderAdapter) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return a.embedder.EmbedText(ctx, text)
}
