package engine

import (
	"fmt"
	"strings"

	"github.com/rdfquad/rdfquad/internal/logicalplan"
)

// QueryExplanation describes the optimized plan tree in human-readable
// form, analogous to a SQL engine's EXPLAIN output.
type QueryExplanation struct {
	Tree string
}

func newExplanation(plan logicalplan.Plan) *QueryExplanation {
	var sb strings.Builder
	describe(&sb, plan, 0)
	return &QueryExplanation{Tree: sb.String()}
}

func describe(sb *strings.Builder, plan logicalplan.Plan, depth int) {
	indent := strings.Repeat("  ", depth)
	switch p := plan.(type) {
	case logicalplan.Unit:
		fmt.Fprintf(sb, "%sUnit\n", indent)
	case logicalplan.Scan:
		fmt.Fprintf(sb, "%sScan(%v %v %v)\n", indent, p.Pattern.Subject, p.Pattern.Predicate, p.Pattern.Object)
	case logicalplan.Join:
		fmt.Fprintf(sb, "%sJoin\n", indent)
		describe(sb, p.Left, depth+1)
		describe(sb, p.Right, depth+1)
	case logicalplan.LeftJoin:
		fmt.Fprintf(sb, "%sLeftJoin\n", indent)
		describe(sb, p.Left, depth+1)
		describe(sb, p.Right, depth+1)
	case logicalplan.Union:
		fmt.Fprintf(sb, "%sUnion\n", indent)
		describe(sb, p.Left, depth+1)
		describe(sb, p.Right, depth+1)
	case logicalplan.Minus:
		fmt.Fprintf(sb, "%sMinus\n", indent)
		describe(sb, p.Left, depth+1)
		describe(sb, p.Right, depth+1)
	case logicalplan.Filter:
		fmt.Fprintf(sb, "%sFilter\n", indent)
		describe(sb, p.Input, depth+1)
	case logicalplan.Extend:
		fmt.Fprintf(sb, "%sExtend(?%s)\n", indent, p.Var)
		describe(sb, p.Input, depth+1)
	case logicalplan.Graph:
		fmt.Fprintf(sb, "%sGraph\n", indent)
		describe(sb, p.Input, depth+1)
	case logicalplan.Path:
		fmt.Fprintf(sb, "%sPath\n", indent)
	case logicalplan.Project:
		fmt.Fprintf(sb, "%sProject(%v)\n", indent, p.Vars)
		describe(sb, p.Input, depth+1)
	case logicalplan.Distinct:
		fmt.Fprintf(sb, "%sDistinct\n", indent)
		describe(sb, p.Input, depth+1)
	case logicalplan.Reduced:
		fmt.Fprintf(sb, "%sReduced\n", indent)
		describe(sb, p.Input, depth+1)
	case logicalplan.OrderBy:
		fmt.Fprintf(sb, "%sOrderBy\n", indent)
		describe(sb, p.Input, depth+1)
	case logicalplan.Slice:
		fmt.Fprintf(sb, "%sSlice(offset=%d limit=%d)\n", indent, p.Offset, p.Limit)
		describe(sb, p.Input, depth+1)
	case logicalplan.GroupBy:
		fmt.Fprintf(sb, "%sGroupBy\n", indent)
		describe(sb, p.Input, depth+1)
	default:
		fmt.Fprintf(sb, "%s?\n", indent)
	}
}
