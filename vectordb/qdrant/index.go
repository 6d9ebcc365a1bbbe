package qdrant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/poiesic/askbase/ai"
	"github.com/poiesic/askbase/core"
	"github.com/poiesic/askbase/vectordb"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	lcqdrant "github.com/tmc/langchaingo/vectorstores/qdrant"
)

// Metadata payload keys stored alongside each chunk.
const (
	metaSource      = "source"
	metaSourceType  = "sourceType"
	metaSessionID   = "sessionId"
	metaChunkIndex  = "chunkIndex"
	metaTotalChunks = "totalChunks"
	metaCreatedAt   = "createdAt"
	metaTitle       = "title"
	metaURL         = "url"
)

// Index implements vectordb.Index against a Qdrant server.
//
// Collection lifecycle goes through the REST collections API; point upsert
// and similarity search go through the langchaingo Qdrant store, which embeds
// content with the configured embedder.
type Index struct {
	client   *client
	apiKey   string
	embedder embeddings.Embedder
	logger   *slog.Logger
}

var _ vectordb.Index = (*Index)(nil)

// Option configures an Index.
type Option func(*Index)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
	}
}

// WithRequestTimeout bounds every collections API request.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(ix *Index) {
		ix.client.httpc.Timeout = timeout
	}
}

// NewIndex creates an Index for the Qdrant server at rawURL.
//
// Returns vectordb.Index interface to enforce abstraction.
func NewIndex(rawURL, apiKey string, embedder ai.Embedder, opts ...Option) (vectordb.Index, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("qdrant: server URL required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("qdrant: embedder required")
	}

	baseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("qdrant: invalid server URL %q: %w", rawURL, err)
	}

	ix := &Index{
		client:   newClient(baseURL, apiKey, defaultRequestTimeout),
		apiKey:   apiKey,
		embedder: &embedderAdapter{embedder},
		logger:   slog.Default().With("component", "qdrant-index"),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix, nil
}

// ListCollections returns the names of all collections on the server.
func (ix *Index) ListCollections(ctx context.Context) ([]string, error) {
	return ix.client.listCollections(ctx)
}

// CollectionInfo returns point count and vector size for a collection.
func (ix *Index) CollectionInfo(ctx context.Context, name string) (*vectordb.CollectionInfo, error) {
	return ix.client.collectionInfo(ctx, name)
}

// EnsureCollection creates the collection if absent. An existing collection
// with a different vector size is reported as ErrDimensionMismatch.
func (ix *Index) EnsureCollection(ctx context.Context, name string, vectorSize int) error {
	info, err := ix.client.collectionInfo(ctx, name)
	switch {
	case err == nil:
		if info.VectorSize != vectorSize {
			return fmt.Errorf("%w: collection %q has size %d, configured %d",
				vectordb.ErrDimensionMismatch, name, info.VectorSize, vectorSize)
		}
		return nil
	case isNotFound(err):
		ix.logger.Info("creating collection", "collection", name, "vectorSize", vectorSize)
		return ix.client.createCollection(ctx, name, vectorSize)
	default:
		return err
	}
}

// DeleteCollection removes the collection, reporting whether it existed.
func (ix *Index) DeleteCollection(ctx context.Context, name string) (bool, error) {
	return ix.client.deleteCollection(ctx, name)
}

// Upsert embeds and appends chunks to the named collection.
// The collection must already exist.
func (ix *Index) Upsert(ctx context.Context, name string, chunks []core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	store, err := ix.store(name)
	if err != nil {
		return err
	}

	docs := make([]schema.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = schema.Document{
			PageContent: chunk.Content,
			Metadata:    metadataPayload(chunk.Metadata),
		}
	}

	if _, err := store.AddDocuments(ctx, docs); err != nil {
		return fmt.Errorf("%w: upsert into %q: %v", vectordb.ErrUnavailable, name, err)
	}
	ix.logger.Debug("upserted chunks", "collection", name, "chunks", len(chunks))
	return nil
}

// Search returns up to k chunks from the collection ranked by similarity.
func (ix *Index) Search(ctx context.Context, name, query string, k int) ([]core.RetrievedChunk, error) {
	store, err := ix.store(name)
	if err != nil {
		return nil, err
	}

	docs, err := store.SimilaritySearch(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("%w: search in %q: %v", vectordb.ErrUnavailable, name, err)
	}

	results := make([]core.RetrievedChunk, 0, len(docs))
	for i, doc := range docs {
		results = append(results, core.RetrievedChunk{
			Chunk: core.Chunk{
				Content:  doc.PageContent,
				Metadata: metadataFromPayload(doc.Metadata),
			},
			Rank:  i + 1,
			Score: doc.Score,
		})
	}
	return results, nil
}

// store builds a langchaingo store bound to one collection. Construction is
// cheap; no network round trip happens until the store is used.
func (ix *Index) store(name string) (lcqdrant.Store, error) {
	store, err := lcqdrant.New(
		lcqdrant.WithURL(*ix.client.baseURL),
		lcqdrant.WithAPIKey(ix.apiKey),
		lcqdrant.WithCollectionName(name),
		lcqdrant.WithEmbedder(ix.embedder),
	)
	if err != nil {
		return lcqdrant.Store{}, fmt.Errorf("qdrant: store for %q: %w", name, err)
	}
	return store, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, vectordb.ErrCollectionNotFound)
}

func metadataPayload(md core.ChunkMetadata) map[string]any {
	payload := map[string]any{
		metaSource:      md.Source,
		metaSourceType:  string(md.SourceType),
		metaSessionID:   md.SessionID,
		metaChunkIndex:  md.ChunkIndex,
		metaTotalChunks: md.TotalChunks,
		metaCreatedAt:   md.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if md.Title != "" {
		payload[metaTitle] = md.Title
	}
	if md.URL != "" {
		payload[metaURL] = md.URL
	}
	return payload
}

func metadataFromPayload(payload map[string]any) core.ChunkMetadata {
	md := core.ChunkMetadata{
		Source:      payloadString(payload, metaSource),
		SourceType:  core.SourceType(payloadString(payload, metaSourceType)),
		SessionID:   payloadString(payload, metaSessionID),
		ChunkIndex:  payloadInt(payload, metaChunkIndex),
		TotalChunks: payloadInt(payload, metaTotalChunks),
		Title:       payloadString(payload, metaTitle),
		URL:         payloadString(payload, metaURL),
	}
	if raw := payloadString(payload, metaCreatedAt); raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			md.CreatedAt = ts
		}
	}
	return md
}

func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

// payloadInt tolerates the numeric types JSON decoding produces.
func payloadInt(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
