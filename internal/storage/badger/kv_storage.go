package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/interfaces"
)

// KVStorage implements the KeyValueStorage interface on Badger. Expiry is
// delegated to Badger entry TTLs, which keeps the event dedupe window and
// context cache bounded without a sweeper.
type KVStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.KeyValueStorage = (*KVStorage)(nil)

// NewKVStorage creates a new KVStorage instance
func NewKVStorage(db *BadgerDB, logger arbor.ILogger) *KVStorage {
	return &KVStorage{db: db, logger: logger}
}

// normalizeKey converts a key to lowercase for case-insensitive storage
func (s *KVStorage) normalizeKey(key string) []byte {
	return []byte(strings.ToLower(strings.TrimSpace(key)))
}

// Get retrieves a value by key (case-insensitive)
func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.DB().View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.normalizeKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", interfaces.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key: %w", err)
	}
	return value, nil
}

// Set inserts or updates a key/value pair without expiry
func (s *KVStorage) Set(ctx context.Context, key, value string) error {
	err := s.db.DB().Update(func(txn *badger.Txn) error {
		return txn.Set(s.normalizeKey(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

// SetWithTTL inserts or updates a key/value pair that expires after ttl
func (s *KVStorage) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	err := s.db.DB().Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(s.normalizeKey(key), []byte(value)).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("failed to set key with ttl: %w", err)
	}
	return nil
}

// Has reports whether the key exists and has not expired
func (s *KVStorage) Has(ctx context.Context, key string) bool {
	err := s.db.DB().View(func(txn *badger.Txn) error {
		_, err := txn.Get(s.normalizeKey(key))
		return err
	})
	return err == nil
}

// Delete removes a key; deleting a missing key is not an error
func (s *KVStorage) Delete(ctx context.Context, key string) error {
	err := s.db.DB().Update(func(txn *badger.Txn) error {
		return txn.Delete(s.normalizeKey(key))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

// Close releases the underlying store
func (s *KVStorage) Close() error {
	return s.db.Close()
}
