package physicalplan

import (
	"github.com/rdfquad/rdfquad/internal/functions"
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// scanIterator streams quadstore matches for one triple pattern,
// projecting each position's Variable name into a Binding. Grounded on
// the teacher's scanIterator in pkg/sparql/executor/executor.go.
type scanIterator struct {
	quadIter quadstore.QuadIterator
	pattern  *quadstore.Pattern
	current  functions.Binding
}

func newScanIterator(p logicalplan.Scan, store *quadstore.Store) (*scanIterator, error) {
	quadIter, err := store.Query(p.Pattern)
	if err != nil {
		return nil, err
	}
	return &scanIterator{quadIter: quadIter, pattern: p.Pattern}, nil
}

func (it *scanIterator) Next() (bool, error) {
	if !it.quadIter.Next() {
		return false, nil
	}
	quad, err := it.quadIter.Quad()
	if err != nil {
		return false, err
	}
	binding := functions.Binding{}
	bindPosition(binding, it.pattern.Subject, quad.Subject)
	bindPosition(binding, it.pattern.Predicate, quad.Predicate)
	bindPosition(binding, it.pattern.Object, quad.Object)
	bindPosition(binding, it.pattern.Graph, quad.Graph)
	it.current = binding
	return true, nil
}

func bindPosition(binding functions.Binding, patternTerm quadstore.PatternTerm, actual rdf.Term) {
	v, ok := patternTerm.(quadstore.Variable)
	if !ok || v.Name == "" {
		return
	}
	binding[v.Name] = actual
}

func (it *scanIterator) Binding() functions.Binding { return it.current }
func (it *scanIterator) Close() error               { return it.quadIter.Close() }
