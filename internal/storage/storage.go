// Package storage defines the pluggable key-value contract the engine's
// quad store is built on, plus the 11-table layout (3 default-graph
// indexes, 6 named-graph indexes, and 2 metadata tables) every concrete
// backend must expose.
package storage

import "errors"

var (
	// ErrNotFound is returned by Transaction.Get when the key is absent.
	ErrNotFound = errors.New("storage: key not found")
	// ErrTransactionRO is returned by Set/Delete on a read-only transaction.
	ErrTransactionRO = errors.New("storage: transaction is read-only")
)

// Storage is the interface a concrete key-value backend implements. The
// reference backend is an in-memory map-per-table store (package memstore);
// badgerstore provides a persisted alternative over BadgerDB.
type Storage interface {
	// Begin starts a new transaction with snapshot isolation.
	Begin(writable bool) (Transaction, error)
	// Close releases all resources held by the storage.
	Close() error
	// Sync flushes any buffered writes to durable storage. A no-op for
	// backends with no write buffering.
	Sync() error
}

// Transaction is a snapshot-isolated view over one Table's keyspace at a
// time, scoped to the table passed to each call.
type Transaction interface {
	Get(table Table, key []byte) ([]byte, error)
	Set(table Table, key, value []byte) error
	Delete(table Table, key []byte) error
	// Scan iterates [start, end) within table in key order. A nil start
	// begins at the first key; a nil end continues to the last key in
	// the table.
	Scan(table Table, start, end []byte) (Iterator, error)
	Commit() error
	Rollback() error
}

// Iterator walks key-value pairs returned by Transaction.Scan.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() ([]byte, error)
	Close() error
}

// Table names one of the 11 column families the quad store maintains.
type Table byte

const (
	// TableID2Str maps an ObjectID's hash bytes to the original lexical
	// string, for terms whose encoding does not inline their value.
	TableID2Str Table = iota

	// Default-graph indexes: every permutation of (subject, predicate,
	// object) lets any triple pattern with at least one bound position
	// resolve to a single prefix scan.
	TableSPO
	TablePOS
	TableOSP

	// Named-graph indexes: the same three permutations, each additionally
	// suffixed by graph (used for scans whose graph is unbound), plus the
	// three rotations that put the graph term first (used for scans scoped
	// to one bound graph), so either kind is still a single prefix scan.
	TableSPOG
	TablePOSG
	TableOSPG
	TableGSPO
	TableGPOS
	TableGOSP

	// TableGraphs tracks the set of named graphs that have at least one
	// quad, so `GRAPH ?g {}` can enumerate graphs without a full scan.
	TableGraphs

	// TableCount is the total number of tables; used to size per-table
	// bookkeeping, never itself a valid Table value.
	TableCount
)

func (t Table) String() string {
	switch t {
	case TableID2Str:
		return "id2str"
	case TableSPO:
		return "spo"
	case TablePOS:
		return "pos"
	case TableOSP:
		return "osp"
	case TableSPOG:
		return "spog"
	case TablePOSG:
		return "posg"
	case TableOSPG:
		return "ospg"
	case TableGSPO:
		return "gspo"
	case TableGPOS:
		return "gpos"
	case TableGOSP:
		return "gosp"
	case TableGraphs:
		return "graphs"
	default:
		return "unknown"
	}
}

// TablePrefix returns the single-byte namespace prefix for a table.
func TablePrefix(table Table) []byte {
	return []byte{byte(table)}
}

// PrefixKey namespaces key under table.
func PrefixKey(table Table, key []byte) []byte {
	out := make([]byte, 1+len(key))
	out[0] = byte(table)
	copy(out[1:], key)
	return out
}

// Stats exposes cardinality estimates the optimizer's join-reordering
// heuristic consults; a Storage backend may implement this optional
// interface to supply real counts instead of the optimizer's defaults.
type Stats interface {
	// TotalQuads is the total number of quads currently stored.
	TotalQuads() int64
	// PredicateCount estimates how many quads use the given predicate id,
	// or -1 if no estimate is available.
	PredicateCount(predicate [17]byte) int64
}
