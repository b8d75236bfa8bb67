package quadstore

import (
	"fmt"

	"github.com/rdfquad/rdfquad/internal/storage"
	"github.com/rdfquad/rdfquad/pkg/encoding"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// PatternTerm is either a bound rdf.Term or an unbound Variable in one
// position of a Pattern.
type PatternTerm interface{ isPatternTerm() }

// Variable names an unbound position in a Pattern.
type Variable struct{ Name string }

func (Variable) isPatternTerm() {}

// Bound wraps a concrete rdf.Term as a bound pattern position.
type Bound struct{ Term rdf.Term }

func (Bound) isPatternTerm() {}

// Pattern is a quad pattern: each position is either Bound or a
// Variable. A nil Graph means "match any graph" (the quad's actual graph
// is returned, it does not special-case the default graph).
type Pattern struct {
	Subject, Predicate, Object, Graph PatternTerm
}

// QuadIterator streams quads matching a Pattern.
type QuadIterator interface {
	Next() bool
	Quad() (*rdf.Quad, error)
	Close() error
}

// Query selects the cheapest index for pattern's bound positions and
// returns an iterator over matches. Index choice: when Graph is unbound
// (nil or a Variable) a graph-suffixed index (SPOG/POSG/OSPG) is used,
// so quads of every graph match; when Graph is bound, a graph-prefixed
// index (GSPO/GPOS/GOSP) turns the graph and the other bound positions
// into the longest possible key prefix.
func (s *Store) Query(pattern *Pattern) (QuadIterator, error) {
	txn, err := s.backend.Begin(false)
	if err != nil {
		return nil, err
	}

	table, order := selectIndex(pattern)
	prefix, err := buildScanPrefix(pattern, order)
	if err != nil {
		txn.Rollback()
		return nil, err
	}

	// end is the first key past every key that starts with prefix.
	var end []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] != 0xff {
			end = append(append([]byte(nil), prefix[:i]...), prefix[i]+1)
			break
		}
	}

	it, err := txn.Scan(table, prefix, end)
	if err != nil {
		txn.Rollback()
		return nil, err
	}

	return &quadIterator{txn: txn, it: it, order: order, store: s}, nil
}

// selectIndex picks an index table and the SPOG-position order its keys
// are written in, preferring the index that makes the pattern's bound
// positions a contiguous key prefix.
func selectIndex(p *Pattern) (storage.Table, []int) {
	sBound := isBound(p.Subject)
	pBound := isBound(p.Predicate)
	oBound := isBound(p.Object)
	gBound := isBound(p.Graph)

	if !gBound {
		switch {
		case sBound && pBound:
			return storage.TableSPOG, []int{0, 1, 2, 3}
		case pBound && oBound:
			return storage.TablePOSG, []int{1, 2, 0, 3}
		case oBound && sBound:
			return storage.TableOSPG, []int{2, 0, 1, 3}
		case sBound:
			return storage.TableSPOG, []int{0, 1, 2, 3}
		case pBound:
			return storage.TablePOSG, []int{1, 2, 0, 3}
		case oBound:
			return storage.TableOSPG, []int{2, 0, 1, 3}
		default:
			return storage.TableSPOG, []int{0, 1, 2, 3}
		}
	}

	switch {
	case sBound && pBound:
		return storage.TableGSPO, []int{3, 0, 1, 2}
	case pBound && oBound:
		return storage.TableGPOS, []int{3, 1, 2, 0}
	case oBound && sBound:
		return storage.TableGOSP, []int{3, 2, 0, 1}
	case sBound:
		return storage.TableGSPO, []int{3, 0, 1, 2}
	case pBound:
		return storage.TableGPOS, []int{3, 1, 2, 0}
	case oBound:
		return storage.TableGOSP, []int{3, 2, 0, 1}
	default:
		return storage.TableGSPO, []int{3, 0, 1, 2}
	}
}

func isBound(t PatternTerm) bool {
	_, ok := t.(Bound)
	return ok
}

// buildScanPrefix encodes the bound terms in order's sequence into a key
// prefix, stopping at the first unbound position.
func buildScanPrefix(p *Pattern, order []int) ([]byte, error) {
	positions := [4]PatternTerm{p.Subject, p.Predicate, p.Object, p.Graph}

	var prefix []byte
	for _, idx := range order {
		term := positions[idx]
		b, ok := term.(Bound)
		if !ok {
			break
		}
		id := encoding.ObjectIDFromTerm(b.Term)
		prefix = append(prefix, id[:]...)
	}
	return prefix, nil
}

type quadIterator struct {
	txn    storage.Transaction
	it     storage.Iterator
	order  []int
	store  *Store
	closed bool
}

func (qi *quadIterator) Next() bool {
	if qi.closed {
		return false
	}
	return qi.it.Next()
}

func (qi *quadIterator) Quad() (*rdf.Quad, error) {
	key := qi.it.Key()
	if len(key) < len(qi.order)*encoding.ObjectIDWidth {
		return nil, fmt.Errorf("quadstore: truncated index key")
	}

	var ids [4]encoding.ObjectID
	hasGraph := len(qi.order) > 3
	for i, idx := range qi.order {
		var id encoding.ObjectID
		copy(id[:], key[i*encoding.ObjectIDWidth:(i+1)*encoding.ObjectIDWidth])
		ids[idx] = id
	}

	subject, err := qi.decode(ids[0])
	if err != nil {
		return nil, fmt.Errorf("quadstore: decode subject: %w", err)
	}
	predicate, err := qi.decode(ids[1])
	if err != nil {
		return nil, fmt.Errorf("quadstore: decode predicate: %w", err)
	}
	object, err := qi.decode(ids[2])
	if err != nil {
		return nil, fmt.Errorf("quadstore: decode object: %w", err)
	}

	var graph rdf.Term
	if hasGraph {
		graph, err = qi.decode(ids[3])
		if err != nil {
			return nil, fmt.Errorf("quadstore: decode graph: %w", err)
		}
	} else {
		graph = rdf.NewDefaultGraph()
	}

	return &rdf.Quad{Subject: subject, Predicate: predicate, Object: object, Graph: graph}, nil
}

func (qi *quadIterator) decode(id encoding.ObjectID) (rdf.Term, error) {
	kind := id.Kind()
	if kind == rdf.TermTypeDefaultGraph {
		return rdf.NewDefaultGraph(), nil
	}

	cache := qi.store.decodeCache
	key := string(id[:])
	if cache != nil {
		if term, ok := cache.Get(key); ok {
			return term, nil
		}
	}

	record, err := qi.txn.Get(storage.TableID2Str, id[1:])
	if err != nil {
		return nil, err
	}
	term, err := decodeTermRecord(kind, record)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache.Set(key, term, 1)
	}
	return term, nil
}

func (qi *quadIterator) Close() error {
	if qi.closed {
		return nil
	}
	qi.closed = true
	qi.it.Close()
	return qi.txn.Rollback()
}
