package search

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/askbase/collection"
	"github.com/poiesic/askbase/core"
)

// DefaultLimit is how many chunks a retrieval returns when the caller does
// not ask for a specific count.
const DefaultLimit = 4

// Retriever resolves a session's knowledge base and returns the chunks most
// similar to a query.
type Retriever struct {
	manager *collection.Manager
	logger  *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(manager *collection.Manager, opts ...Option) (*Retriever, error) {
	if manager == nil {
		return nil, ErrManagerRequired
	}

	r := &Retriever{
		manager: manager,
		logger:  slog.Default().With("component", "retriever"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve returns up to k chunks from the session's knowledge base ranked
// by descending similarity to the query. An empty result is meaningful: the
// knowledge base exists but holds nothing relevant. A missing knowledge base
// is reported as ErrNoKnowledgeBase instead.
func (r *Retriever) Retrieve(ctx context.Context, session, query string, k int) ([]core.RetrievedChunk, error) {
	if k <= 0 {
		return nil, ErrInvalidLimit
	}
	if err := core.ValidateSessionID(session); err != nil {
		return nil, err
	}

	results, err := r.manager.Search(ctx, session, query, k)
	if err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			return nil, ErrNoKnowledgeBase
		}
		r.logger.Error("retrieval failed", "session", collection.SanitizeSession(session), "err", err)
		return nil, err
	}

	// The index bounds results to k, but keep the contract independent of
	// backend behavior.
	if len(results) > k {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	r.logger.Debug("retrieved chunks", "session", collection.SanitizeSession(session), "results", len(results), "k", k)
	return results, nil
}
