// Package physicalplan implements the pull-based Volcano iterators that
// execute a logicalplan.Plan tree, grounded on the teacher's
// pkg/sparql/executor/executor.go createIterator dispatch and its
// scanIterator/nestedLoopJoinIterator/filterIterator/... family, but
// operating over internal/functions.Binding and internal/quadstore
// instead of the teacher's pkg/store types.
package physicalplan

import (
	"github.com/rdfquad/rdfquad/internal/functions"
)

// BindingIterator is the execution-time contract every physical
// operator implements: a classic pull-based Next/Binding/Close cycle.
type BindingIterator interface {
	Next() (bool, error)
	Binding() functions.Binding
	Close() error
}

// drain materializes an iterator fully; used by operators that
// inherently need to see every input row before producing output
// (Distinct's hash set, OrderBy's sort, GroupBy's partitioning).
func drain(it BindingIterator) ([]functions.Binding, error) {
	var out []functions.Binding
	for {
		ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, it.Binding().Clone())
	}
	return out, it.Close()
}

// sliceIterator replays a pre-materialized slice of bindings; the
// terminal form several operators below (distinct/orderBy/groupBy)
// reduce to once they've drained their input.
type sliceIterator struct {
	rows []functions.Binding
	pos  int
}

func newSliceIterator(rows []functions.Binding) *sliceIterator {
	return &sliceIterator{rows: rows, pos: -1}
}

func (it *sliceIterator) Next() (bool, error) {
	it.pos++
	return it.pos < len(it.rows), nil
}

func (it *sliceIterator) Binding() functions.Binding { return it.rows[it.pos] }
func (it *sliceIterator) Close() error                { return nil }
