package physicalplan

import (
	"golang.org/x/sync/errgroup"

	"github.com/rdfquad/rdfquad/internal/functions"
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/quadstore"
)

// leftJoinIterator implements SPARQL OPTIONAL (§18.2): every left row is
// emitted at least once, either merged with a compatible (and
// Filter-passing) right row, or on its own with the right side's
// variables left unbound when no such row exists.
type leftJoinIterator struct {
	left      BindingIterator
	rightPlan logicalplan.Plan
	filter    functions.Expr
	store     *quadstore.Store

	currentLeft    functions.Binding
	currentRight   BindingIterator
	matchedAny     bool
	result         functions.Binding
}

func newLeftJoinIterator(p logicalplan.LeftJoin, store *quadstore.Store) (*leftJoinIterator, error) {
	left, err := Build(p.Left, store)
	if err != nil {
		return nil, err
	}
	return &leftJoinIterator{left: left, rightPlan: p.Right, filter: p.Filter, store: store}, nil
}

func (it *leftJoinIterator) Next() (bool, error) {
	for {
		if it.currentRight != nil {
			ok, err := it.currentRight.Next()
			if err != nil {
				return false, err
			}
			if ok {
				merged := mergeBindings(it.currentLeft, it.currentRight.Binding())
				if merged == nil {
					continue
				}
				if it.filter != nil {
					passed, err := functions.EBV(it.filter, merged)
					if err != nil || !passed {
						continue
					}
				}
				it.matchedAny = true
				it.result = merged
				return true, nil
			}
			it.currentRight.Close()
			it.currentRight = nil
			if !it.matchedAny {
				it.result = it.currentLeft
				return true, nil
			}
		}

		ok, err := it.left.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		it.currentLeft = it.left.Binding()
		it.matchedAny = false

		rightIter, err := Build(it.rightPlan, it.store)
		if err != nil {
			return false, err
		}
		it.currentRight = rightIter
	}
}

func (it *leftJoinIterator) Binding() functions.Binding { return it.result }

func (it *leftJoinIterator) Close() error {
	if it.currentRight != nil {
		it.currentRight.Close()
	}
	return it.left.Close()
}

// unionIterator concatenates both branches' rows. Neither branch
// depends on the other's output, so both are built and drained
// concurrently via errgroup — the tradeoff is that Union becomes an
// eager, materializing operator rather than a streaming one.
type unionIterator struct {
	rows []functions.Binding
	pos  int
}

func newUnionIterator(p logicalplan.Union, store *quadstore.Store) (*unionIterator, error) {
	var leftRows, rightRows []functions.Binding
	g := new(errgroup.Group)
	g.Go(func() error {
		rows, err := buildAndDrain(p.Left, store)
		if err != nil {
			return err
		}
		leftRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := buildAndDrain(p.Right, store)
		if err != nil {
			return err
		}
		rightRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	rows := make([]functions.Binding, 0, len(leftRows)+len(rightRows))
	rows = append(rows, leftRows...)
	rows = append(rows, rightRows...)
	return &unionIterator{rows: rows, pos: -1}, nil
}

func (it *unionIterator) Next() (bool, error) {
	it.pos++
	return it.pos < len(it.rows), nil
}

func (it *unionIterator) Binding() functions.Binding { return it.rows[it.pos] }
func (it *unionIterator) Close() error                { return nil }

// buildAndDrain builds plan's physical iterator and drains it fully,
// closing it before returning.
func buildAndDrain(plan logicalplan.Plan, store *quadstore.Store) ([]functions.Binding, error) {
	it, err := Build(plan, store)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	return drain(it)
}

// minusIterator implements SPARQL MINUS (§18.3): a left row is dropped
// if there exists some right row sharing at least one variable with it
// and compatible on all shared variables. Right is materialized once
// since Left is re-tested against the full set for every row.
type minusIterator struct {
	left        BindingIterator
	rightRows   []functions.Binding
	result      functions.Binding
}

// newMinusIterator builds Left and drains Right concurrently via
// errgroup, since Right must be fully materialized before Next can test
// any Left row but neither side depends on the other to build.
func newMinusIterator(p logicalplan.Minus, store *quadstore.Store) (*minusIterator, error) {
	var left BindingIterator
	var rightRows []functions.Binding
	g := new(errgroup.Group)
	g.Go(func() error {
		l, err := Build(p.Left, store)
		if err != nil {
			return err
		}
		left = l
		return nil
	})
	g.Go(func() error {
		rows, err := buildAndDrain(p.Right, store)
		if err != nil {
			return err
		}
		rightRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		if left != nil {
			left.Close()
		}
		return nil, err
	}
	return &minusIterator{left: left, rightRows: rightRows}, nil
}

func (it *minusIterator) Next() (bool, error) {
	for {
		ok, err := it.left.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		candidate := it.left.Binding()
		if !it.excludedBy(candidate) {
			it.result = candidate
			return true, nil
		}
	}
}

func (it *minusIterator) excludedBy(left functions.Binding) bool {
	for _, right := range it.rightRows {
		shared := false
		compatible := true
		for name, term := range right {
			if existing, ok := left[name]; ok {
				shared = true
				if !termsCompatible(existing, term) {
					compatible = false
					break
				}
			}
		}
		if shared && compatible {
			return true
		}
	}
	return false
}

func (it *minusIterator) Binding() functions.Binding { return it.result }
func (it *minusIterator) Close() error                { return it.left.Close() }

// graphIterator restricts Input to rows whose quad scans were already
// bound to a fixed graph (GraphTerm case is compiled straight into the
// wrapped Input's Scan patterns by the planner); when GraphVar is set
// it simply exposes the graph binding the inner scans produced.
type graphIterator struct {
	input BindingIterator
}

func newGraphIterator(p logicalplan.Graph, store *quadstore.Store) (*graphIterator, error) {
	input, err := Build(p.Input, store)
	if err != nil {
		return nil, err
	}
	return &graphIterator{input: input}, nil
}

func (it *graphIterator) Next() (bool, error)            { return it.input.Next() }
func (it *graphIterator) Binding() functions.Binding { return it.input.Binding() }
func (it *graphIterator) Close() error                { return it.input.Close() }
