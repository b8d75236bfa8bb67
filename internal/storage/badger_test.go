package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBadgerStorageSetGetScan(t *testing.T) {
	dir := t.TempDir()
	s, err := NewBadgerStorage(dir)
	require.NoError(t, err)
	defer s.Close()

	txn, err := s.Begin(true)
	require.NoError(t, err)

	require.NoError(t, txn.Set(TableSPO, []byte("a"), []byte("1")))
	require.NoError(t, txn.Set(TableSPO, []byte("b"), []byte("2")))
	require.NoError(t, txn.Set(TablePOS, []byte("a"), []byte("other-table")))
	require.NoError(t, txn.Commit())

	txn, err = s.Begin(false)
	require.NoError(t, err)
	defer txn.Rollback()

	v, err := txn.Get(TableSPO, []byte("a"))
	require.NoError(t, err)
	require.Equal(t, []byte("1"), v)

	_, err = txn.Get(TableSPO, []byte("missing"))
	require.ErrorIs(t, err, ErrNotFound)

	it, err := txn.Scan(TableSPO, nil, nil)
	require.NoError(t, err)
	defer it.Close()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.Equal(t, []string{"a", "b"}, keys)
}

func TestBadgerStorageReadOnlyRejectsWrites(t *testing.T) {
	dir := t.TempDir()
	s, err := NewBadgerStorage(dir)
	require.NoError(t, err)
	defer s.Close()

	txn, err := s.Begin(false)
	require.NoError(t, err)
	defer txn.Rollback()

	err = txn.Set(TableSPO, []byte("a"), []byte("1"))
	require.ErrorIs(t, err, ErrTransactionRO)
}
