package quadstore

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/rdfquad/rdfquad/internal/storage"
	"github.com/rdfquad/rdfquad/pkg/encoding"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// Store manages the RDF quad store's 9 indexes (plus its id2str and
// graphs tables) atop any storage.Storage
// backend (the in-memory reference store, or BadgerDB).
type Store struct {
	backend storage.Storage

	// decodeCache fronts the id2str lookup every bound result term goes
	// through, keyed by the raw object ID bytes: hot terms (rdf:type,
	// common predicates) are decoded from storage once and replayed
	// instead of round-tripping through the backend on every row.
	decodeCache *ristretto.Cache[string, rdf.Term]
}

// New wraps a storage.Storage backend with quad-store semantics.
func New(backend storage.Storage) *Store {
	cache, err := ristretto.NewCache(&ristretto.Config[string, rdf.Term]{
		NumCounters: 1e6,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		// Decode caching is a pure read-path optimization; fall back to
		// uncached decode rather than fail store construction over it.
		cache = nil
	}
	return &Store{backend: backend, decodeCache: cache}
}

func (s *Store) Close() error {
	if s.decodeCache != nil {
		s.decodeCache.Close()
	}
	return s.backend.Close()
}

// InsertQuad adds a quad, writing to every index permutation it
// participates in (3 default-graph indexes when Graph is the default
// graph, always the 6 named-graph-keyed indexes).
func (s *Store) InsertQuad(quad *rdf.Quad) error {
	txn, err := s.backend.Begin(true)
	if err != nil {
		return err
	}
	defer txn.Rollback()

	if err := s.insertQuadTxn(txn, quad); err != nil {
		return err
	}
	return txn.Commit()
}

// InsertQuadsBatch inserts many quads in a single transaction.
func (s *Store) InsertQuadsBatch(quads []*rdf.Quad) error {
	txn, err := s.backend.Begin(true)
	if err != nil {
		return err
	}
	defer txn.Rollback()

	for _, q := range quads {
		if err := s.insertQuadTxn(txn, q); err != nil {
			return err
		}
	}
	return txn.Commit()
}

func (s *Store) insertQuadTxn(txn storage.Transaction, quad *rdf.Quad) error {
	sID := encoding.ObjectIDFromTerm(quad.Subject)
	pID := encoding.ObjectIDFromTerm(quad.Predicate)
	oID := encoding.ObjectIDFromTerm(quad.Object)
	gID := encoding.ObjectIDFromTerm(quad.Graph)

	if err := s.storeID2Str(txn, sID, quad.Subject); err != nil {
		return fmt.Errorf("quadstore: subject: %w", err)
	}
	if err := s.storeID2Str(txn, pID, quad.Predicate); err != nil {
		return fmt.Errorf("quadstore: predicate: %w", err)
	}
	if err := s.storeID2Str(txn, oID, quad.Object); err != nil {
		return fmt.Errorf("quadstore: object: %w", err)
	}
	if err := s.storeID2Str(txn, gID, quad.Graph); err != nil {
		return fmt.Errorf("quadstore: graph: %w", err)
	}

	empty := []byte{}
	isDefaultGraph := quad.Graph.Type() == rdf.TermTypeDefaultGraph

	if isDefaultGraph {
		if err := txn.Set(storage.TableSPO, encodeQuadKey(sID, pID, oID), empty); err != nil {
			return err
		}
		if err := txn.Set(storage.TablePOS, encodeQuadKey(pID, oID, sID), empty); err != nil {
			return err
		}
		if err := txn.Set(storage.TableOSP, encodeQuadKey(oID, sID, pID), empty); err != nil {
			return err
		}
	}

	if err := txn.Set(storage.TableSPOG, encodeQuadKey(sID, pID, oID, gID), empty); err != nil {
		return err
	}
	if err := txn.Set(storage.TablePOSG, encodeQuadKey(pID, oID, sID, gID), empty); err != nil {
		return err
	}
	if err := txn.Set(storage.TableOSPG, encodeQuadKey(oID, sID, pID, gID), empty); err != nil {
		return err
	}
	if err := txn.Set(storage.TableGSPO, encodeQuadKey(gID, sID, pID, oID), empty); err != nil {
		return err
	}
	if err := txn.Set(storage.TableGPOS, encodeQuadKey(gID, pID, oID, sID), empty); err != nil {
		return err
	}
	if err := txn.Set(storage.TableGOSP, encodeQuadKey(gID, oID, sID, pID), empty); err != nil {
		return err
	}

	if !isDefaultGraph {
		if err := txn.Set(storage.TableGraphs, gID[:], empty); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) storeID2Str(txn storage.Transaction, id encoding.ObjectID, term rdf.Term) error {
	if id == encoding.DefaultGraphObjectID {
		return nil
	}
	record := encodeTermRecord(term)
	_, err := txn.Get(storage.TableID2Str, id[1:])
	if err == nil {
		return nil // already present; quads sharing a term are common
	}
	if err != storage.ErrNotFound {
		return err
	}
	return txn.Set(storage.TableID2Str, id[1:], record)
}

// DeleteQuad removes a quad from every index it was written to.
// id2str entries are never removed: they may still be referenced by
// other quads and the store does no reference counting.
func (s *Store) DeleteQuad(quad *rdf.Quad) error {
	txn, err := s.backend.Begin(true)
	if err != nil {
		return err
	}
	defer txn.Rollback()

	sID := encoding.ObjectIDFromTerm(quad.Subject)
	pID := encoding.ObjectIDFromTerm(quad.Predicate)
	oID := encoding.ObjectIDFromTerm(quad.Object)
	gID := encoding.ObjectIDFromTerm(quad.Graph)

	isDefaultGraph := quad.Graph.Type() == rdf.TermTypeDefaultGraph
	if isDefaultGraph {
		if err := txn.Delete(storage.TableSPO, encodeQuadKey(sID, pID, oID)); err != nil {
			return err
		}
		if err := txn.Delete(storage.TablePOS, encodeQuadKey(pID, oID, sID)); err != nil {
			return err
		}
		if err := txn.Delete(storage.TableOSP, encodeQuadKey(oID, sID, pID)); err != nil {
			return err
		}
	}
	if err := txn.Delete(storage.TableSPOG, encodeQuadKey(sID, pID, oID, gID)); err != nil {
		return err
	}
	if err := txn.Delete(storage.TablePOSG, encodeQuadKey(pID, oID, sID, gID)); err != nil {
		return err
	}
	if err := txn.Delete(storage.TableOSPG, encodeQuadKey(oID, sID, pID, gID)); err != nil {
		return err
	}
	if err := txn.Delete(storage.TableGSPO, encodeQuadKey(gID, sID, pID, oID)); err != nil {
		return err
	}
	if err := txn.Delete(storage.TableGPOS, encodeQuadKey(gID, pID, oID, sID)); err != nil {
		return err
	}
	if err := txn.Delete(storage.TableGOSP, encodeQuadKey(gID, oID, sID, pID)); err != nil {
		return err
	}

	return txn.Commit()
}

// Count returns the number of quads in the store, via the SPOG index.
func (s *Store) Count() (int64, error) {
	txn, err := s.backend.Begin(false)
	if err != nil {
		return 0, err
	}
	defer txn.Rollback()

	it, err := txn.Scan(storage.TableSPOG, nil, nil)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	var n int64
	for it.Next() {
		n++
	}
	return n, nil
}
