package distcache

import (
	"context"
	"fmt"

	memdb "github.com/hashicorp/go-memdb"
)

const (
	memoryTable = "entries"
	memoryIndex = "id"
)

type storedEntry struct {
	Key   string
	Value []byte
}

// MemoryStore is an in-process Store on go-memdb. It is the reference Store used by
// tests and single process deployments; writes are transactional so PutIfAbsent is
// atomic.
type MemoryStore struct {
	db *memdb.MemDB
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() (*MemoryStore, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			memoryTable: {
				Name: memoryTable,
				Indexes: map[string]*memdb.IndexSchema{
					memoryIndex: {
						Name:    memoryIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("distcache: create memory store: %w", err)
	}
	return &MemoryStore{db: db}, nil
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	txn := m.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(memoryTable, memoryIndex, key)
	if err != nil || raw == nil {
		return nil, false, err
	}
	return raw.(*storedEntry).Value, true, nil
}

// PutIfAbsent implements Store.
func (m *MemoryStore) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	txn := m.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(memoryTable, memoryIndex, key)
	if err != nil {
		return false, err
	} else if existing != nil {
		return false, nil
	}

	stored := &storedEntry{Key: key, Value: append([]byte(nil), value...)}
	if err := txn.Insert(memoryTable, stored); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

// Scan implements Store.
func (m *MemoryStore) Scan(ctx context.Context, fn func(key string, value []byte) bool) error {
	txn := m.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(memoryTable, memoryIndex)
	if err != nil {
		return err
	}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		entry := raw.(*storedEntry)
		if !fn(entry.Key, entry.Value) {
			return nil
		}
	}
	return nil
}
