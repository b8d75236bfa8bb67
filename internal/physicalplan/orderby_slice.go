package physicalplan

import (
	"sort"

	"github.com/rdfquad/rdfquad/internal/functions"
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/quadstore"
)

// newOrderByIterator drains Input and sorts by Conditions in priority
// order; a row whose key expression errors sorts as if unbound (last),
// since SPARQL ORDER BY must still produce a total order over all rows.
func newOrderByIterator(p logicalplan.OrderBy, store *quadstore.Store) (BindingIterator, error) {
	input, err := Build(p.Input, store)
	if err != nil {
		return nil, err
	}
	rows, err := drain(input)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, cond := range p.Conditions {
			ti, ierr := functions.Eval(cond.Expr, rows[i])
			tj, jerr := functions.Eval(cond.Expr, rows[j])
			switch {
			case ierr != nil && jerr != nil:
				continue
			case ierr != nil:
				return false
			case jerr != nil:
				return true
			}
			cmp := functions.CompareTerms(ti, tj)
			if cmp == 0 {
				continue
			}
			if cond.Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	return newSliceIterator(rows), nil
}

// newSliceIteratorPlan implements LIMIT/OFFSET by skipping then capping
// the input stream, without materializing it (unlike Distinct/OrderBy,
// slicing needs no knowledge of later rows).
type limitOffsetIterator struct {
	input   BindingIterator
	offset  int64
	limit   int64
	skipped int64
	emitted int64
}

func newSliceIteratorPlan(p logicalplan.Slice, store *quadstore.Store) (BindingIterator, error) {
	input, err := Build(p.Input, store)
	if err != nil {
		return nil, err
	}
	return &limitOffsetIterator{input: input, offset: p.Offset, limit: p.Limit}, nil
}

func (it *limitOffsetIterator) Next() (bool, error) {
	if it.limit >= 0 && it.emitted >= it.limit {
		return false, nil
	}
	for it.skipped < it.offset {
		ok, err := it.input.Next()
		if err != nil || !ok {
			return false, err
		}
		it.skipped++
	}
	ok, err := it.input.Next()
	if err != nil || !ok {
		return false, err
	}
	it.emitted++
	return true, nil
}

func (it *limitOffsetIterator) Binding() functions.Binding { return it.input.Binding() }
func (it *limitOffsetIterator) Close() error                { return it.input.Close() }
