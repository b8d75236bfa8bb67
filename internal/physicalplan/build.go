package physicalplan

import (
	"fmt"

	"github.com/rdfquad/rdfquad/internal/functions"
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/quadstore"
)

// Build compiles a logicalplan.Plan into an executable BindingIterator
// tree, opening quad-pattern scans against store as it goes. Mirrors the
// teacher's Executor.createIterator dispatch switch.
func Build(plan logicalplan.Plan, store *quadstore.Store) (BindingIterator, error) {
	switch p := plan.(type) {
	case logicalplan.Unit:
		return newSliceIterator([]functions.Binding{{}}), nil
	case logicalplan.Scan:
		return newScanIterator(p, store)
	case logicalplan.Join:
		return newJoinIterator(p, store)
	case logicalplan.LeftJoin:
		return newLeftJoinIterator(p, store)
	case logicalplan.Union:
		return newUnionIterator(p, store)
	case logicalplan.Minus:
		return newMinusIterator(p, store)
	case logicalplan.Filter:
		return newFilterIterator(p, store)
	case logicalplan.Extend:
		return newExtendIterator(p, store)
	case logicalplan.Graph:
		return newGraphIterator(p, store)
	case logicalplan.Path:
		return newPathIterator(p, store)
	case logicalplan.Project:
		return newProjectIterator(p, store)
	case logicalplan.Distinct:
		return newDistinctIterator(p, store)
	case logicalplan.Reduced:
		return Build(p.Input, store)
	case logicalplan.OrderBy:
		return newOrderByIterator(p, store)
	case logicalplan.Slice:
		return newSliceIteratorPlan(p, store)
	case logicalplan.GroupBy:
		return newGroupByIterator(p, store)
	default:
		return nil, fmt.Errorf("physicalplan: unsupported plan node %T", plan)
	}
}
