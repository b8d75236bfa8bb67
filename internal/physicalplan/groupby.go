package physicalplan

import (
	"fmt"
	"strings"

	"github.com/rdfquad/rdfquad/internal/functions"
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// newGroupByIterator drains Input, partitions rows by Keys, and
// evaluates each GroupAggregate per partition. Groups are emitted in
// first-seen order, since SPARQL does not mandate a GROUP BY row order
// (ORDER BY, if present, is layered on top by the logical plan).
func newGroupByIterator(p logicalplan.GroupBy, store *quadstore.Store) (BindingIterator, error) {
	input, err := Build(p.Input, store)
	if err != nil {
		return nil, err
	}
	rows, err := drain(input)
	if err != nil {
		return nil, err
	}

	type group struct {
		key  functions.Binding
		rows []functions.Binding
	}
	var order []string
	groups := make(map[string]*group)

	for _, row := range rows {
		keyBinding := functions.Binding{}
		var sig strings.Builder
		for i, keyExpr := range p.Keys {
			term, err := functions.Eval(keyExpr, row)
			if err != nil {
				term = nil
			}
			if name, ok := keyExpr.(functions.VarExpr); ok && term != nil {
				keyBinding[name.Name] = term
			}
			fmt.Fprintf(&sig, "%d:", i)
			if term != nil {
				sig.WriteString(term.String())
			}
			sig.WriteByte('\x1f')
		}
		k := sig.String()
		g, ok := groups[k]
		if !ok {
			g = &group{key: keyBinding}
			groups[k] = g
			order = append(order, k)
		}
		g.rows = append(g.rows, row)
	}

	if len(order) == 0 && len(p.Keys) == 0 {
		// No GROUP BY and no rows: aggregates like COUNT(*) still produce
		// one row over the empty group (SPARQL §18.5.1.1).
		order = []string{""}
		groups[""] = &group{key: functions.Binding{}}
	}

	out := make([]functions.Binding, 0, len(order))
	for _, k := range order {
		g := groups[k]
		result := g.key.Clone()
		for _, agg := range p.Aggregates {
			term, err := evalAggregate(agg.Expr, g.rows)
			if err == nil {
				result[agg.Var] = term
			}
		}
		out = append(out, result)
	}
	return newSliceIterator(out), nil
}

func evalAggregate(agg functions.AggregateExpr, rows []functions.Binding) (rdf.Term, error) {
	values := make([]rdf.Term, 0, len(rows))
	if agg.Arg != nil {
		seen := make(map[string]bool)
		for _, row := range rows {
			term, err := functions.Eval(agg.Arg, row)
			if err != nil {
				continue
			}
			if agg.Distinct {
				key := term.String()
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			values = append(values, term)
		}
	}

	switch strings.ToUpper(agg.Name) {
	case "COUNT":
		if agg.Arg == nil {
			return rdf.NewIntegerLiteral(int64(len(rows))), nil
		}
		return rdf.NewIntegerLiteral(int64(len(values))), nil
	case "SUM":
		var sum float64
		for _, v := range values {
			if f, ok := numericValue(v); ok {
				sum += f
			}
		}
		return rdf.NewDoubleLiteral(sum), nil
	case "AVG":
		if len(values) == 0 {
			return rdf.NewIntegerLiteral(0), nil
		}
		var sum float64
		for _, v := range values {
			if f, ok := numericValue(v); ok {
				sum += f
			}
		}
		return rdf.NewDoubleLiteral(sum / float64(len(values))), nil
	case "MIN":
		return extremum(values, true)
	case "MAX":
		return extremum(values, false)
	case "SAMPLE":
		if len(values) == 0 {
			return nil, fmt.Errorf("SAMPLE over empty group")
		}
		return values[0], nil
	case "GROUP_CONCAT":
		parts := make([]string, len(values))
		for i, v := range values {
			if lit, ok := v.(*rdf.Literal); ok {
				parts[i] = lit.Value
			} else {
				parts[i] = v.String()
			}
		}
		return rdf.NewLiteral(strings.Join(parts, " ")), nil
	default:
		return nil, fmt.Errorf("unsupported aggregate %s", agg.Name)
	}
}

func numericValue(term rdf.Term) (float64, bool) {
	lit, ok := term.(*rdf.Literal)
	if !ok {
		return 0, false
	}
	return functions.NumericValue(lit)
}

func extremum(values []rdf.Term, min bool) (rdf.Term, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("MIN/MAX over empty group")
	}
	best := values[0]
	for _, v := range values[1:] {
		cmp := functions.CompareTerms(v, best)
		if (min && cmp < 0) || (!min && cmp > 0) {
			best = v
		}
	}
	return best, nil
}
