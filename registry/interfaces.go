package registry

import (
	"context"

	"github.com/poiesic/askbase/core"
)

// CollectionRegistry tracks the session collections this service has created.
// It is the authority on creation timestamps: stale-collection sweeps consult
// the registry rather than decoding ages out of collection names.
// Implementations must be thread-safe and support concurrent access.
type CollectionRegistry interface {
	// Put stores or replaces the record for a collection.
	Put(ctx context.Context, record *core.CollectionRecord) error

	// Get retrieves the record for a collection by its full name.
	// Returns ErrNotFound if the collection was never registered.
	Get(ctx context.Context, collection string) (*core.CollectionRecord, error)

	// Delete removes the record for a collection.
	// Deleting an unregistered collection is not an error.
	Delete(ctx context.Context, collection string) error

	// List returns all registered collection records.
	List(ctx context.Context) ([]*core.CollectionRecord, error)

	// ListBySession returns the records for all collections belonging to
	// one session key.
	ListBySession(ctx context.Context, sessionKey string) ([]*core.CollectionRecord, error)

	// Close closes the registry and releases resources.
	Close() error
}
