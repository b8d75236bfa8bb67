// Package memstore is the reference Storage backend: an in-process
// key-value map per table, sorted on demand by scans, approximating the
// snapshot-isolated transactions the storage.Transaction contract
// promises without needing a persisted write-ahead log. It is grounded
// on the teacher's BadgerDB-backed store (same Table/key scheme) but
// keeps everything in memory, with a read-write lock standing in for
// Badger's true MVCC.
package memstore

import (
	"bytes"
	"sort"
	"sync"

	"github.com/rdfquad/rdfquad/internal/storage"
)

// Store is an in-memory implementation of storage.Storage. Each table is
// an unordered key-value map; writes accumulate in a per-transaction delta
// and are only merged into the committed state on Commit, giving
// writers isolation from concurrent readers for the lifetime of the
// transaction.
type Store struct {
	mu     sync.RWMutex
	tables [storage.TableCount]map[string][]byte
}

// New creates an empty in-memory store.
func New() *Store {
	s := &Store{}
	for i := range s.tables {
		s.tables[i] = make(map[string][]byte)
	}
	return s
}

func (s *Store) Begin(writable bool) (storage.Transaction, error) {
	if writable {
		s.mu.Lock()
		return &writeTxn{store: s, delta: make([]tableDelta, storage.TableCount)}, nil
	}
	s.mu.RLock()
	return &readTxn{store: s}, nil
}

func (s *Store) Close() error { return nil }
func (s *Store) Sync() error  { return nil }

// TotalQuads implements storage.Stats using the SPOG index's entry count.
func (s *Store) TotalQuads() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.tables[storage.TableSPOG]))
}

// PredicateCount is unsupported by the reference store; callers should
// fall back to a uniform estimate.
func (s *Store) PredicateCount([17]byte) int64 { return -1 }

type tableDelta struct {
	set    map[string][]byte
	delete map[string]struct{}
}

func (d *tableDelta) ensure() {
	if d.set == nil {
		d.set = make(map[string][]byte)
		d.delete = make(map[string]struct{})
	}
}

type readTxn struct {
	store *Store
}

func (t *readTxn) Get(table storage.Table, key []byte) ([]byte, error) {
	if v, ok := t.store.tables[table][string(key)]; ok {
		return v, nil
	}
	return nil, storage.ErrNotFound
}

func (t *readTxn) Set(storage.Table, []byte, []byte) error { return storage.ErrTransactionRO }
func (t *readTxn) Delete(storage.Table, []byte) error      { return storage.ErrTransactionRO }

func (t *readTxn) Scan(table storage.Table, start, end []byte) (storage.Iterator, error) {
	return newSliceIterator(t.store.tables[table], nil, start, end), nil
}

func (t *readTxn) Commit() error {
	t.store.mu.RUnlock()
	return nil
}

func (t *readTxn) Rollback() error {
	t.store.mu.RUnlock()
	return nil
}

type writeTxn struct {
	store *Store
	delta []tableDelta
	done  bool
}

func (t *writeTxn) Get(table storage.Table, key []byte) ([]byte, error) {
	d := &t.delta[table]
	k := string(key)
	if d.delete != nil {
		if _, deleted := d.delete[k]; deleted {
			return nil, storage.ErrNotFound
		}
	}
	if d.set != nil {
		if v, ok := d.set[k]; ok {
			return v, nil
		}
	}
	if v, ok := t.store.tables[table][k]; ok {
		return v, nil
	}
	return nil, storage.ErrNotFound
}

func (t *writeTxn) Set(table storage.Table, key, value []byte) error {
	d := &t.delta[table]
	d.ensure()
	k := string(key)
	delete(d.delete, k)
	cp := append([]byte(nil), value...)
	d.set[k] = cp
	return nil
}

func (t *writeTxn) Delete(table storage.Table, key []byte) error {
	d := &t.delta[table]
	d.ensure()
	k := string(key)
	delete(d.set, k)
	d.delete[k] = struct{}{}
	return nil
}

func (t *writeTxn) Scan(table storage.Table, start, end []byte) (storage.Iterator, error) {
	return newSliceIterator(t.store.tables[table], &t.delta[table], start, end), nil
}

func (t *writeTxn) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.store.mu.Unlock()
	for table, d := range t.delta {
		if d.set == nil && d.delete == nil {
			continue
		}
		m := t.store.tables[table]
		for k := range d.delete {
			delete(m, k)
		}
		for k, v := range d.set {
			m[k] = v
		}
	}
	return nil
}

func (t *writeTxn) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

// newSliceIterator produces a sorted, prefix-bounded view over a
// committed table map overlaid with an in-flight transaction's delta (if
// any), matching what a committed read would see after the writer's
// pending Set/Delete calls are applied.
func newSliceIterator(base map[string][]byte, delta *tableDelta, start, end []byte) *sliceIterator {
	merged := make(map[string][]byte, len(base))
	for k, v := range base {
		merged[k] = v
	}
	if delta != nil {
		for k := range delta.delete {
			delete(merged, k)
		}
		for k, v := range delta.set {
			merged[k] = v
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		if start != nil && k < string(start) {
			continue
		}
		if end != nil && bytes.Compare([]byte(k), end) >= 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &sliceIterator{keys: keys, values: merged, pos: -1}
}

type sliceIterator struct {
	keys   []string
	values map[string][]byte
	pos    int
}

func (it *sliceIterator) Next() bool {
	it.pos++
	return it.pos < len(it.keys)
}

func (it *sliceIterator) Key() []byte {
	if it.pos < 0 || it.pos >= len(it.keys) {
		return nil
	}
	return []byte(it.keys[it.pos])
}

func (it *sliceIterator) Value() ([]byte, error) {
	if it.pos < 0 || it.pos >= len(it.keys) {
		return nil, storage.ErrNotFound
	}
	return it.values[it.keys[it.pos]], nil
}

func (it *sliceIterator) Close() error { return nil }
