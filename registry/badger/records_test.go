package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/askbase/core"
	"github.com/poiesic/askbase/registry"
)

func TestCollectionStoreBasics(t *testing.T) {
	store, backend, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer func() { store.Close(); backend.Close() }()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	record := &core.CollectionRecord{
		Collection: "knowledge_base_sess1_deadbeef",
		SessionKey: "sess1",
		CreatedAt:  now,
	}

	if err := store.Put(ctx, record); err != nil {
		t.Fatalf("Failed to put record: %v", err)
	}

	got, err := store.Get(ctx, record.Collection)
	if err != nil {
		t.Fatalf("Failed to get record: %v", err)
	}
	if got.SessionKey != "sess1" {
		t.Fatalf("Expected 'sess1', got '%s'", got.SessionKey)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("Expected %v, got %v", now, got.CreatedAt)
	}
}

func TestCollectionStoreGetMissing(t *testing.T) {
	store, backend, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer func() { store.Close(); backend.Close() }()

	_, err = store.Get(context.Background(), "never_registered")
	if !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestCollectionStoreDelete(t *testing.T) {
	store, backend, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer func() { store.Close(); backend.Close() }()

	ctx := context.Background()
	record := &core.CollectionRecord{
		Collection: "knowledge_base_sess1_deadbeef",
		SessionKey: "sess1",
		CreatedAt:  time.Now().UTC(),
	}

	if err := store.Put(ctx, record); err != nil {
		t.Fatalf("Failed to put record: %v", err)
	}
	if err := store.Delete(ctx, record.Collection); err != nil {
		t.Fatalf("Failed to delete record: %v", err)
	}

	if _, err := store.Get(ctx, record.Collection); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	// Session index must be gone too
	records, err := store.ListBySession(ctx, "sess1")
	if err != nil {
		t.Fatalf("Failed to list by session: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("Expected empty session listing, got %d records", len(records))
	}

	// Deleting again is not an error
	if err := store.Delete(ctx, record.Collection); err != nil {
		t.Fatalf("Second delete should be a no-op, got %v", err)
	}
}

func TestCollectionStoreList(t *testing.T) {
	store, backend, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer func() { store.Close(); backend.Close() }()

	ctx := context.Background()
	now := time.Now().UTC()

	records := []*core.CollectionRecord{
		{Collection: "knowledge_base_sess1_aa11", SessionKey: "sess1", CreatedAt: now},
		{Collection: "knowledge_base_sess2_bb22", SessionKey: "sess2", CreatedAt: now},
		{Collection: "scratch_sess1_cc33", SessionKey: "sess1", CreatedAt: now},
	}
	for _, record := range records {
		if err := store.Put(ctx, record); err != nil {
			t.Fatalf("Failed to put record: %v", err)
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list records: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(all))
	}

	sess1, err := store.ListBySession(ctx, "sess1")
	if err != nil {
		t.Fatalf("Failed to list by session: %v", err)
	}
	if len(sess1) != 2 {
		t.Fatalf("Expected 2 records for sess1, got %d", len(sess1))
	}
	for _, record := range sess1 {
		if record.SessionKey != "sess1" {
			t.Fatalf("Expected session 'sess1', got '%s'", record.SessionKey)
		}
	}
}

func TestCollectionStorePutReplacesSession(t *testing.T) {
	store, backend, err := NewMemoryRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	defer func() { store.Close(); backend.Close() }()

	ctx := context.Background()
	now := time.Now().UTC()

	if err := store.Put(ctx, &core.CollectionRecord{
		Collection: "knowledge_base_x", SessionKey: "old", CreatedAt: now,
	}); err != nil {
		t.Fatalf("Failed to put record: %v", err)
	}
	if err := store.Put(ctx, &core.CollectionRecord{
		Collection: "knowledge_base_x", SessionKey: "new", CreatedAt: now,
	}); err != nil {
		t.Fatalf("Failed to replace record: %v", err)
	}

	oldRecords, err := store.ListBySession(ctx, "old")
	if err != nil {
		t.Fatalf("Failed to list by session: %v", err)
	}
	if len(oldRecords) != 0 {
		t.Fatalf("Expected stale index entry to be removed, got %d records", len(oldRecords))
	}

	newRecords, err := store.ListBySession(ctx, "new")
	if err != nil {
		t.Fatalf("Failed to list by session: %v", err)
	}
	if len(newRecords) != 1 {
		t.Fatalf("Expected 1 record for new session, got %d", len(newRecords))
	}
}
