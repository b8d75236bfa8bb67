package physicalplan

import (
	"github.com/rdfquad/rdfquad/internal/functions"
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// joinIterator is a nested-loop join: for every left row it rebuilds the
// right subtree from scratch and keeps only rows whose shared variables
// agree, exactly as the teacher's nestedLoopJoinIterator does. The
// optimizer is responsible for ordering Left/Right by selectivity; this
// operator does not itself choose a join algorithm (nested loop is the
// only one implemented).
type joinIterator struct {
	left      BindingIterator
	rightPlan logicalplan.Plan
	store     *quadstore.Store

	currentLeft  functions.Binding
	currentRight BindingIterator
	result       functions.Binding
}

func newJoinIterator(p logicalplan.Join, store *quadstore.Store) (*joinIterator, error) {
	left, err := Build(p.Left, store)
	if err != nil {
		return nil, err
	}
	return &joinIterator{left: left, rightPlan: p.Right, store: store}, nil
}

func (it *joinIterator) Next() (bool, error) {
	for {
		if it.currentRight != nil {
			ok, err := it.currentRight.Next()
			if err != nil {
				return false, err
			}
			if ok {
				merged := mergeBindings(it.currentLeft, it.currentRight.Binding())
				if merged != nil {
					it.result = merged
					return true, nil
				}
				continue
			}
			it.currentRight.Close()
			it.currentRight = nil
		}

		ok, err := it.left.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		it.currentLeft = it.left.Binding()

		rightIter, err := Build(it.rightPlan, it.store)
		if err != nil {
			return false, err
		}
		it.currentRight = rightIter
	}
}

func (it *joinIterator) Binding() functions.Binding { return it.result }

func (it *joinIterator) Close() error {
	if it.currentRight != nil {
		it.currentRight.Close()
	}
	return it.left.Close()
}

// mergeBindings returns a binding with both sides' variables, or nil if
// a shared variable is bound to different terms in left and right.
func mergeBindings(left, right functions.Binding) functions.Binding {
	result := left.Clone()
	for name, term := range right {
		if existing, ok := result[name]; ok {
			if !termsCompatible(existing, term) {
				return nil
			}
			continue
		}
		result[name] = term
	}
	return result
}

func termsCompatible(a, b rdf.Term) bool { return a.Equals(b) }
