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

package collection

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/poiesic/askbase/core"
	"github.com/poiesic/askbase/registry"
	"github.com/poiesic/askbase/vectordb"
)

const (
	// DefaultBaseName is the fixed prefix shared by all session collections.
	DefaultBaseName = "knowledge_base"

	// DefaultVectorSize matches the embedding model's output dimensionality.
	DefaultVectorSize = 384

	// DefaultMaxAge is how long a session collection may live before a
	// sweep reclaims it.
	DefaultMaxAge = 24 * time.Hour
)

// Manager owns the mapping from session identity to an isolated vector
// collection. It is the only component that creates or deletes collections;
// ingestion and retrieval go through it.
type Manager struct {
	index      vectordb.Index
	registry   registry.CollectionRegistry
	baseName   string
	vectorSize int
	logger     *slog.Logger

	mu     sync.RWMutex
	active map[string]string // session -> collection name
}

// Option configures a Manager.
type Option func(*Manager) error

// WithBaseName sets the fixed base name composed into collection names.
// Default is DefaultBaseName.
func WithBaseName(baseName string) Option {
	return func(m *Manager) error {
		if baseName == "" {
			baseName = DefaultBaseName
		}
		m.baseName = baseName
		return nil
	}
}

// WithVectorSize sets the embedding dimensionality collections are created
// with. Default is DefaultVectorSize.
func WithVectorSize(size int) Option {
	return func(m *Manager) error {
		if size < 1 {
			size = DefaultVectorSize
		}
		m.vectorSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewManager creates a new collection manager.
func NewManager(index vectordb.Index, reg registry.CollectionRegistry, opts ...Option) (*Manager, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if reg == nil {
		return nil, ErrRegistryRequired
	}

	m := &Manager{
		index:      index,
		registry:   reg,
		baseName:   DefaultBaseName,
		vectorSize: DefaultVectorSize,
		logger:     slog.Default().With("component", "collection-manager"),
		active:     make(map[string]string),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// CollectionName returns the deterministic collection name for a session.
func (m *Manager) CollectionName(session string) string {
	return collectionName(m.baseName, session)
}

// Resolve returns the collection name for a session if the collection exists
// and holds at least one point. An absent collection and an empty one are
// both reported as ErrNotFound; callers cannot tell them apart.
func (m *Manager) Resolve(ctx context.Context, session string) (string, error) {
	if err := core.ValidateSessionID(session); err != nil {
		return "", err
	}
	name := m.CollectionName(session)

	names, err := m.index.ListCollections(ctx)
	if err != nil {
		return "", err
	}
	if !slices.Contains(names, name) {
		return "", ErrNotFound
	}

	info, err := m.index.CollectionInfo(ctx, name)
	if err != nil {
		if errors.Is(err, vectordb.ErrCollectionNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if info.PointsCount == 0 {
		return "", ErrNotFound
	}
	return name, nil
}

// Ensure creates the session's collection if absent and returns its name.
// Calling it for an existing collection is a no-op; the collection keeps the
// vector size it was created with, and a size conflict is surfaced as
// vectordb.ErrDimensionMismatch.
func (m *Manager) Ensure(ctx context.Context, session string) (string, error) {
	if err := core.ValidateSessionID(session); err != nil {
		return "", err
	}
	name := m.CollectionName(session)

	if err := m.index.EnsureCollection(ctx, name, m.vectorSize); err != nil {
		return "", err
	}

	// Register the creation timestamp on first sight. An already-registered
	// collection keeps its original timestamp.
	if _, err := m.registry.Get(ctx, name); errors.Is(err, registry.ErrNotFound) {
		record := &core.CollectionRecord{
			Collection: name,
			SessionKey: session,
			CreatedAt:  time.Now().UTC(),
		}
		if err := m.registry.Put(ctx, record); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	return name, nil
}

// WriteChunks stamps each chunk with the session identity and a creation
// timestamp, then appends them to the session's collection, creating it
// first if needed. The session is tracked as active until deleted.
func (m *Manager) WriteChunks(ctx context.Context, session string, chunks []core.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	name, err := m.Ensure(ctx, session)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for i := range chunks {
		chunks[i].Metadata.SessionID = session
		if chunks[i].Metadata.CreatedAt.IsZero() {
			chunks[i].Metadata.CreatedAt = now
		}
	}

	if err := m.index.Upsert(ctx, name, chunks); err != nil {
		return err
	}

	m.mu.Lock()
	m.active[session] = name
	m.mu.Unlock()

	m.logger.Info("wrote chunks", "session", SanitizeSession(session), "collection", name, "chunks", len(chunks))
	return nil
}

// Search runs a similarity search in the session's collection. Resolve
// semantics apply: an absent or empty collection is ErrNotFound.
func (m *Manager) Search(ctx context.Context, session, query string, k int) ([]core.RetrievedChunk, error) {
	name, err := m.Resolve(ctx, session)
	if err != nil {
		return nil, err
	}
	return m.index.Search(ctx, name, query, k)
}

// Delete removes the session's collection and its registry records.
// Reports whether anything was actually deleted; false signals there was
// nothing to clean up, not a failure.
func (m *Manager) Delete(ctx context.Context, session string) (bool, error) {
	if err := core.ValidateSessionID(session); err != nil {
		return false, err
	}
	name := m.CollectionName(session)

	existed, err := m.index.DeleteCollection(ctx, name)
	if err != nil {
		return false, err
	}
	if err := m.registry.Delete(ctx, name); err != nil {
		return existed, err
	}

	// The session may have collections registered under an older base name;
	// clean those up too.
	records, err := m.registry.ListBySession(ctx, session)
	if err != nil {
		return existed, err
	}
	for _, record := range records {
		deleted, err := m.index.DeleteCollection(ctx, record.Collection)
		if err != nil {
			m.logger.Warn("failed to delete collection", "collection", record.Collection, "err", err)
			continue
		}
		existed = existed || deleted
		if err := m.registry.Delete(ctx, record.Collection); err != nil {
			m.logger.Warn("failed to deregister collection", "collection", record.Collection, "err", err)
		}
	}

	m.mu.Lock()
	delete(m.active, session)
	m.mu.Unlock()

	return existed, nil
}

// SweepStale deletes every registered collection older than maxAge and
// returns how many were removed. Failures on individual collections are
// logged and do not abort the rest of the sweep.
func (m *Manager) SweepStale(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	cutoff := time.Now().UTC().Add(-maxAge)

	records, err := m.registry.List(ctx)
	if err != nil {
		return 0, err
	}

	var swept int
	for _, record := range records {
		if !record.CreatedAt.Before(cutoff) {
			continue
		}

		if _, err := m.index.DeleteCollection(ctx, record.Collection); err != nil {
			m.logger.Warn("sweep failed for collection", "collection", record.Collection, "err", err)
			continue
		}
		if err := m.registry.Delete(ctx, record.Collection); err != nil {
			m.logger.Warn("failed to deregister swept collection", "collection", record.Collection, "err", err)
			continue
		}

		m.mu.Lock()
		delete(m.active, record.SessionKey)
		m.mu.Unlock()

		m.logger.Info("swept stale collection", "collection", record.Collection, "age", time.Since(record.CreatedAt).Round(time.Minute))
		swept++
	}
	return swept, nil
}

// Collections returns info for every collection in the index, for the debug
// surface. Collections that vanish between listing and inspection are
// skipped.
func (m *Manager) Collections(ctx context.Context) ([]vectordb.CollectionInfo, error) {
	names, err := m.index.ListCollections(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]vectordb.CollectionInfo, 0, len(names))
	for _, name := range names {
		info, err := m.index.CollectionInfo(ctx, name)
		if err != nil {
			if errors.Is(err, vectordb.ErrCollectionNotFound) {
				continue
			}
			return nil, err
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

// Active returns the sessions that have written chunks and not been deleted,
// sorted for deterministic output.
func (m *Manager) Active() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]string, 0, len(m.active))
	for session := range m.active {
		sessions = append(sessions, session)
	}
	slices.Sort(sessions)
	return sessions
}
