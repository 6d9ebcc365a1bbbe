package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/askbase/core"
	"github.com/poiesic/askbase/registry"
)

// CollectionStore implements registry.CollectionRegistry for BadgerDB.
type CollectionStore struct {
	backend *Backend
}

var _ registry.CollectionRegistry = (*CollectionStore)(nil)

// NewCollectionStore creates a new CollectionStore.
func NewCollectionStore(backend *Backend) (*CollectionStore, error) {
	return &CollectionStore{
		backend: backend,
	}, nil
}

// Close releases resources. CollectionStore has no resources of its own;
// the backend is closed by its owner.
func (s *CollectionStore) Close() error {
	return nil
}

// Put stores or replaces the record for a collection.
func (s *CollectionStore) Put(ctx context.Context, record *core.CollectionRecord) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCollectionKey(record.Collection)

		// Drop a stale session index entry if the record moved sessions.
		old, err := readRecord(tx, key)
		if err != nil {
			return err
		}
		if old != nil && old.SessionKey != record.SessionKey {
			if err := tx.Delete(makeSessionKey(old.SessionKey, old.Collection)); err != nil {
				return err
			}
		}

		if err := tx.Set(key, registry.MarshalCollectionRecord(record)); err != nil {
			return err
		}
		indexKey := makeSessionKey(record.SessionKey, record.Collection)
		if err := tx.Set(indexKey, []byte(record.Collection)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get retrieves the record for a collection by its full name.
func (s *CollectionStore) Get(ctx context.Context, collection string) (*core.CollectionRecord, error) {
	var result *core.CollectionRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readRecord(tx, makeCollectionKey(collection))
		if err != nil {
			return err
		}
		if result == nil {
			return registry.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// Delete removes the record for a collection. Missing records are ignored.
func (s *CollectionStore) Delete(ctx context.Context, collection string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCollectionKey(collection)

		// Read the record first to clean up the session index.
		record, err := readRecord(tx, key)
		if err != nil {
			return err
		}
		if record == nil {
			return nil
		}

		if err := tx.Delete(makeSessionKey(record.SessionKey, record.Collection)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// List returns all registered collection records.
func (s *CollectionStore) List(ctx context.Context) ([]*core.CollectionRecord, error) {
	var results []*core.CollectionRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(collectionRecordPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var record *core.CollectionRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = registry.UnmarshalCollectionRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	return results, err
}

// ListBySession returns the records for all collections of one session key.
func (s *CollectionStore) ListBySession(ctx context.Context, sessionKey string) ([]*core.CollectionRecord, error) {
	var results []*core.CollectionRecord
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := makePartialSessionKey(sessionKey)
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var collection string
			err := iter.Item().Value(func(val []byte) error {
				collection = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			record, err := readRecord(tx, makeCollectionKey(collection))
			if err != nil {
				return err
			}
			if record != nil {
				results = append(results, record)
			}
		}
		return nil
	}, false)
	return results, err
}

// readRecord reads a collection record from the transaction.
func readRecord(tx *badger.Txn, key []byte) (*core.CollectionRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.CollectionRecord
	err = item.Value(func(val []byte) error {
		var err error
		record, err = registry.UnmarshalCollectionRecord(val)
		return err
	})
	return record, err
}
