// Package optimizer rewrites a logicalplan.Plan tree before execution:
// today that means reordering Joins by estimated selectivity so the most
// restrictive side becomes the left (outer) input of the nested-loop
// join, grounded on the teacher's
// internal/sparql/optimizer/optimizer.go (Optimizer.reorderBySelectivity/
// estimateSelectivity), generalized to consult a storage.Stats backend
// instead of hardcoded constants when one is available.
package optimizer

import (
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/internal/storage"
)

// Optimizer holds optional cardinality statistics used to cost scans.
type Optimizer struct {
	stats storage.Stats
}

// New creates an Optimizer. stats may be nil, in which case selectivity
// estimates fall back to the teacher's fixed per-position constants.
func New(stats storage.Stats) *Optimizer {
	return &Optimizer{stats: stats}
}

// Optimize rewrites plan, returning an equivalent tree with Join
// branches reordered for lower expected cost. It recurses into every
// plan node so nested joins (e.g. under a Filter or Graph) are also
// reordered.
func (o *Optimizer) Optimize(plan logicalplan.Plan) logicalplan.Plan {
	switch p := plan.(type) {
	case logicalplan.Join:
		left := o.Optimize(p.Left)
		right := o.Optimize(p.Right)
		if o.cost(right) < o.cost(left) {
			left, right = right, left
		}
		return logicalplan.Join{Left: left, Right: right}
	case logicalplan.LeftJoin:
		return logicalplan.LeftJoin{Left: o.Optimize(p.Left), Right: o.Optimize(p.Right), Filter: p.Filter}
	case logicalplan.Union:
		return logicalplan.Union{Left: o.Optimize(p.Left), Right: o.Optimize(p.Right)}
	case logicalplan.Minus:
		return logicalplan.Minus{Left: o.Optimize(p.Left), Right: o.Optimize(p.Right)}
	case logicalplan.Filter:
		return logicalplan.Filter{Input: o.Optimize(p.Input), Expr: p.Expr}
	case logicalplan.Extend:
		return logicalplan.Extend{Input: o.Optimize(p.Input), Var: p.Var, Expr: p.Expr}
	case logicalplan.Graph:
		return logicalplan.Graph{Input: o.Optimize(p.Input), GraphVar: p.GraphVar, GraphTerm: p.GraphTerm}
	case logicalplan.Project:
		return logicalplan.Project{Input: o.Optimize(p.Input), Vars: p.Vars}
	case logicalplan.Distinct:
		return logicalplan.Distinct{Input: o.Optimize(p.Input)}
	case logicalplan.Reduced:
		return logicalplan.Reduced{Input: o.Optimize(p.Input)}
	case logicalplan.OrderBy:
		return logicalplan.OrderBy{Input: o.Optimize(p.Input), Conditions: p.Conditions}
	case logicalplan.Slice:
		return logicalplan.Slice{Input: o.Optimize(p.Input), Offset: p.Offset, Limit: p.Limit}
	case logicalplan.GroupBy:
		return logicalplan.GroupBy{Input: o.Optimize(p.Input), Keys: p.Keys, Aggregates: p.Aggregates}
	default:
		return plan // Scan, Path: leaves
	}
}

// cost estimates a plan subtree's relative output cardinality. Join
// costs multiply both sides (a nested-loop join scans the right side
// once per left row); everything else defers to scanSelectivity for its
// leaves.
func (o *Optimizer) cost(plan logicalplan.Plan) float64 {
	switch p := plan.(type) {
	case logicalplan.Scan:
		return o.scanSelectivity(p)
	case logicalplan.Join:
		return o.cost(p.Left) * o.cost(p.Right)
	case logicalplan.LeftJoin:
		return o.cost(p.Left)
	case logicalplan.Filter:
		return o.cost(p.Input) * 0.5
	case logicalplan.Union:
		return o.cost(p.Left) + o.cost(p.Right)
	default:
		return 1.0
	}
}

// scanSelectivity estimates a pattern's result fraction. Grounded on the
// teacher's estimateSelectivity constants (bound subject/predicate/
// object each independently reduce the estimate by a fixed factor);
// generalized to use Stats.PredicateCount when a bound predicate and a
// Stats implementation are both available, since a predicate's actual
// selectivity varies far more across real datasets than a flat 0.1
// constant captures.
func (o *Optimizer) scanSelectivity(scan logicalplan.Scan) float64 {
	selectivity := 1.0
	p := scan.Pattern

	if isBound(p.Subject) {
		selectivity *= 0.01
	}
	if isBound(p.Object) {
		selectivity *= 0.1
	}
	if isBound(p.Predicate) {
		if o.stats != nil {
			if b, ok := p.Predicate.(quadstore.Bound); ok {
				total := o.stats.TotalQuads()
				if total > 0 {
					id := predicateObjectID(b)
					count := o.stats.PredicateCount(id)
					if count >= 0 {
						selectivity *= float64(count) / float64(total)
						return selectivity
					}
				}
			}
		}
		selectivity *= 0.1
	}
	return selectivity
}

func isBound(t quadstore.PatternTerm) bool {
	_, ok := t.(quadstore.Bound)
	return ok
}
