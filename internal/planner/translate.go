// Package planner translates the AST produced by
// internal/sparql/parser into the internal/logicalplan.Plan algebra
// internal/optimizer and internal/physicalplan operate on, and into the
// engine.ConstructTemplate shape CONSTRUCT needs. This is the glue the
// engine package doc calls "an external parser" — kept separate from
// both so either side can change
// independently (a different surface grammar could drive the same
// planner as long as it produces this AST).
package planner

import (
	"fmt"

	"github.com/rdfquad/rdfquad/internal/functions"
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/internal/sparql/parser"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// Form identifies which of SELECT/ASK/CONSTRUCT/DESCRIBE a Compiled
// plan answers.
type Form int

const (
	FormSelect Form = iota
	FormAsk
	FormConstruct
	FormDescribe
)

// Compiled is a parsed-and-translated query, ready for engine.Engine.
type Compiled struct {
	Form      Form
	Plan      logicalplan.Plan
	Variables []string // SELECT projection, in query order (nil for SELECT *)
	Template  []ConstructTemplate
}

// ConstructTemplate mirrors engine.ConstructTemplate; callers that want
// an engine.Engine to execute a CONSTRUCT pass these straight through
// (kept as a distinct type here so this package does not import
// engine).
type ConstructTemplate struct {
	Subject, Predicate, Object TemplateTerm
}

// TemplateTerm is either a fixed term or a variable reference.
type TemplateTerm struct {
	Term rdf.Term
	Var  string
}

// Compile parses query text and translates it to a logical plan.
func Compile(queryText string) (*Compiled, error) {
	p := parser.NewParser(queryText)
	q, err := p.Parse()
	if err != nil {
		return nil, fmt.Errorf("planner: parse: %w", err)
	}
	return CompileQuery(q)
}

// CompileQuery translates an already-parsed query.
func CompileQuery(q *parser.Query) (*Compiled, error) {
	switch q.QueryType {
	case parser.QueryTypeSelect:
		return compileSelect(q.Select)
	case parser.QueryTypeAsk:
		plan, err := buildBasic(q.Ask.Where, defaultGraphTerm())
		if err != nil {
			return nil, err
		}
		return &Compiled{Form: FormAsk, Plan: plan}, nil
	case parser.QueryTypeConstruct:
		return compileConstruct(q.Construct)
	default:
		return nil, fmt.Errorf("planner: unsupported query type %v", q.QueryType)
	}
}

func compileSelect(sq *parser.SelectQuery) (*Compiled, error) {
	plan, err := buildBasic(sq.Where, defaultGraphTerm())
	if err != nil {
		return nil, err
	}

	if len(sq.GroupBy) > 0 || hasAggregates(sq.Variables) {
		plan, err = addGroupBy(plan, sq)
		if err != nil {
			return nil, err
		}
	}

	for _, having := range sq.Having {
		expr, err := translateExpr(having.Expression)
		if err != nil {
			return nil, err
		}
		plan = logicalplan.Filter{Input: plan, Expr: expr}
	}

	if len(sq.OrderBy) > 0 {
		conditions := make([]logicalplan.OrderCondition, 0, len(sq.OrderBy))
		for _, oc := range sq.OrderBy {
			expr, err := translateExpr(oc.Expression)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, logicalplan.OrderCondition{Expr: expr, Descending: !oc.Ascending})
		}
		plan = logicalplan.OrderBy{Input: plan, Conditions: conditions}
	}

	variables := variableNames(sq.Variables)
	if variables != nil {
		plan = logicalplan.Project{Input: plan, Vars: variables}
	}

	if sq.Distinct {
		plan = logicalplan.Distinct{Input: plan}
	}

	if sq.Limit != nil || sq.Offset != nil {
		limit := int64(-1)
		if sq.Limit != nil {
			limit = int64(*sq.Limit)
		}
		var offset int64
		if sq.Offset != nil {
			offset = int64(*sq.Offset)
		}
		plan = logicalplan.Slice{Input: plan, Offset: offset, Limit: limit}
	}

	return &Compiled{Form: FormSelect, Plan: plan, Variables: variables}, nil
}

func compileConstruct(cq *parser.ConstructQuery) (*Compiled, error) {
	plan, err := buildBasic(cq.Where, defaultGraphTerm())
	if err != nil {
		return nil, err
	}
	template := make([]ConstructTemplate, 0, len(cq.Template))
	for _, tp := range cq.Template {
		template = append(template, ConstructTemplate{
			Subject:   translateTemplateTerm(tp.Subject),
			Predicate: translateTemplateTerm(tp.Predicate),
			Object:    translateTemplateTerm(tp.Object),
		})
	}
	return &Compiled{Form: FormConstruct, Plan: plan, Template: template}, nil
}

func translateTemplateTerm(tv parser.TermOrVariable) TemplateTerm {
	if tv.IsVariable() {
		return TemplateTerm{Var: tv.Variable.Name}
	}
	return TemplateTerm{Term: tv.Term}
}

// variableNames extracts each projection entry's output variable name,
// in query order, whether it is a plain "?x" or a computed
// "(expr AS ?x)" projection.
func variableNames(vars []*parser.SelectVariable) []string {
	if vars == nil {
		return nil // SELECT *
	}
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Variable.Name
	}
	return names
}

func defaultGraphTerm() quadstore.PatternTerm {
	return quadstore.Bound{Term: rdf.NewDefaultGraph()}
}

// buildBasic translates gp's own contents (patterns, filters, binds,
// children) into a plan, ignoring gp.Type — the caller (top-level query
// compile, or the parent group pattern iterating its Children) is
// responsible for combining that plan into its surroundings according
// to gp.Type (Basic/Union/Optional/Minus/Graph).
func buildBasic(gp *parser.GraphPattern, graph quadstore.PatternTerm) (logicalplan.Plan, error) {
	if gp == nil {
		return logicalplan.Unit{}, nil
	}

	var plan logicalplan.Plan
	for _, tp := range gp.Patterns {
		if tp.Path != nil {
			pathPlan, err := toPathPlan(tp, graph)
			if err != nil {
				return nil, err
			}
			plan = joinOrSet(plan, pathPlan)
			continue
		}
		pattern, err := toPattern(tp, graph)
		if err != nil {
			return nil, err
		}
		plan = joinOrSet(plan, logicalplan.Scan{Pattern: pattern})
	}

	for _, child := range gp.Children {
		switch child.Type {
		case parser.GraphPatternTypeUnion:
			if len(child.Children) != 2 {
				return nil, fmt.Errorf("planner: UNION pattern must have exactly two branches, got %d", len(child.Children))
			}
			left, err := buildBasic(child.Children[0], graph)
			if err != nil {
				return nil, err
			}
			right, err := buildBasic(child.Children[1], graph)
			if err != nil {
				return nil, err
			}
			plan = joinOrSet(plan, logicalplan.Union{Left: left, Right: right})

		case parser.GraphPatternTypeOptional:
			inner, err := buildBasic(child, graph)
			if err != nil {
				return nil, err
			}
			plan = logicalplan.LeftJoin{Left: requireBase(plan), Right: inner}

		case parser.GraphPatternTypeMinus:
			inner, err := buildBasic(child, graph)
			if err != nil {
				return nil, err
			}
			plan = logicalplan.Minus{Left: requireBase(plan), Right: inner}

		case parser.GraphPatternTypeGraph:
			childGraph, graphVar := graphPatternTerm(child.Graph)
			inner, err := buildBasic(child, childGraph)
			if err != nil {
				return nil, err
			}
			plan = joinOrSet(plan, logicalplan.Graph{Input: inner, GraphVar: graphVar, GraphTerm: childGraph})

		default: // nested basic group pattern
			inner, err := buildBasic(child, graph)
			if err != nil {
				return nil, err
			}
			plan = joinOrSet(plan, inner)
		}
	}

	for _, f := range gp.Filters {
		if f.Expression == nil {
			continue // EXISTS/NOT EXISTS: parsed but not yet compiled, see DESIGN.md
		}
		expr, err := translateExpr(f.Expression)
		if err != nil {
			return nil, err
		}
		plan = logicalplan.Filter{Input: requireBase(plan), Expr: expr}
	}

	for _, b := range gp.Binds {
		expr, err := translateExpr(b.Expression)
		if err != nil {
			return nil, err
		}
		plan = logicalplan.Extend{Input: requireBase(plan), Var: b.Variable.Name, Expr: expr}
	}

	return requireBase(plan), nil
}

func joinOrSet(plan logicalplan.Plan, next logicalplan.Plan) logicalplan.Plan {
	if plan == nil {
		return next
	}
	return logicalplan.Join{Left: plan, Right: next}
}

func requireBase(plan logicalplan.Plan) logicalplan.Plan {
	if plan == nil {
		return logicalplan.Unit{}
	}
	return plan
}

func graphPatternTerm(g *parser.GraphTerm) (quadstore.PatternTerm, string) {
	if g == nil {
		return defaultGraphTerm(), ""
	}
	if g.Variable != nil {
		return quadstore.Variable{Name: g.Variable.Name}, g.Variable.Name
	}
	return quadstore.Bound{Term: g.IRI}, ""
}

func toPattern(tp *parser.TriplePattern, graph quadstore.PatternTerm) (*quadstore.Pattern, error) {
	s, err := toPatternTerm(tp.Subject)
	if err != nil {
		return nil, err
	}
	p, err := toPatternTerm(tp.Predicate)
	if err != nil {
		return nil, err
	}
	o, err := toPatternTerm(tp.Object)
	if err != nil {
		return nil, err
	}
	return &quadstore.Pattern{Subject: s, Predicate: p, Object: o, Graph: graph}, nil
}

func toPatternTerm(tv parser.TermOrVariable) (quadstore.PatternTerm, error) {
	if tv.IsVariable() {
		return quadstore.Variable{Name: tv.Variable.Name}, nil
	}
	if tv.Term == nil {
		return nil, fmt.Errorf("planner: triple pattern position has neither term nor variable")
	}
	return quadstore.Bound{Term: tv.Term}, nil
}

// toPathPlan translates a triple pattern whose predicate used property
// path syntax into a logicalplan.Path node.
func toPathPlan(tp *parser.TriplePattern, graph quadstore.PatternTerm) (logicalplan.Plan, error) {
	s, err := toPatternTerm(tp.Subject)
	if err != nil {
		return nil, err
	}
	o, err := toPatternTerm(tp.Object)
	if err != nil {
		return nil, err
	}
	expr, err := toPathExpr(tp.Path)
	if err != nil {
		return nil, err
	}
	return logicalplan.Path{Subject: s, Object: o, Graph: graph, Expr: expr}, nil
}

func toPathExpr(p parser.PathExpr) (logicalplan.PathExpr, error) {
	switch e := p.(type) {
	case parser.PathIRI:
		return logicalplan.PathIRI{Predicate: quadstore.Bound{Term: e.IRI}}, nil
	case parser.PathInverse:
		inner, err := toPathExpr(e.Path)
		if err != nil {
			return nil, err
		}
		return logicalplan.PathInverse{Path: inner}, nil
	case parser.PathSeq:
		left, err := toPathExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := toPathExpr(e.Right)
		if err != nil {
			return nil, err
		}
		return logicalplan.PathSeq{Left: left, Right: right}, nil
	case parser.PathAlt:
		left, err := toPathExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := toPathExpr(e.Right)
		if err != nil {
			return nil, err
		}
		return logicalplan.PathAlt{Left: left, Right: right}, nil
	case parser.PathZeroOrMore:
		inner, err := toPathExpr(e.Path)
		if err != nil {
			return nil, err
		}
		return logicalplan.PathZeroOrMore{Path: inner}, nil
	case parser.PathOneOrMore:
		inner, err := toPathExpr(e.Path)
		if err != nil {
			return nil, err
		}
		return logicalplan.PathOneOrMore{Path: inner}, nil
	case parser.PathZeroOrOne:
		inner, err := toPathExpr(e.Path)
		if err != nil {
			return nil, err
		}
		return logicalplan.PathZeroOrOne{Path: inner}, nil
	case parser.PathNegatedPropertySet:
		forward := make([]quadstore.PatternTerm, len(e.Forward))
		for i, iri := range e.Forward {
			forward[i] = quadstore.Bound{Term: iri}
		}
		inverse := make([]quadstore.PatternTerm, len(e.Inverse))
		for i, iri := range e.Inverse {
			inverse[i] = quadstore.Bound{Term: iri}
		}
		return logicalplan.PathNegatedPropertySet{Forward: forward, Inverse: inverse}, nil
	default:
		return nil, fmt.Errorf("planner: unsupported path expression %T", p)
	}
}

// hasAggregates reports whether any SELECT-list entry contains an
// aggregate call, needed because a query can use aggregates (e.g. a bare
// "SELECT (COUNT(*) AS ?n)") without an explicit GROUP BY, per SPARQL
// §18.5.1.1's implicit single group.
func hasAggregates(vars []*parser.SelectVariable) bool {
	for _, v := range vars {
		if v.Expression != nil && exprHasAggregate(v.Expression) {
			return true
		}
	}
	return false
}

func exprHasAggregate(expr parser.Expression) bool {
	switch e := expr.(type) {
	case *parser.FunctionCallExpression:
		if aggregateNames[e.Function] {
			return true
		}
		for _, a := range e.Arguments {
			if exprHasAggregate(a) {
				return true
			}
		}
	case *parser.BinaryExpression:
		return exprHasAggregate(e.Left) || exprHasAggregate(e.Right)
	case *parser.UnaryExpression:
		return exprHasAggregate(e.Operand)
	}
	return false
}

// addGroupBy wires an explicit GROUP BY clause's keys, plus any
// "(aggregate AS ?var)" SELECT-list projections, into a GroupBy node.
func addGroupBy(plan logicalplan.Plan, sq *parser.SelectQuery) (logicalplan.Plan, error) {
	keys := make([]functions.Expr, 0, len(sq.GroupBy))
	for _, gc := range sq.GroupBy {
		switch {
		case gc.Variable != nil:
			keys = append(keys, functions.VarExpr{Name: gc.Variable.Name})
		case gc.Expression != nil:
			expr, err := translateExpr(gc.Expression)
			if err != nil {
				return nil, err
			}
			keys = append(keys, expr)
		}
	}

	var aggregates []logicalplan.GroupAggregate
	for _, sv := range sq.Variables {
		if sv.Expression == nil {
			continue
		}
		aggExpr, err := translateAggregateExpr(sv.Expression)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, logicalplan.GroupAggregate{Var: sv.Variable.Name, Expr: aggExpr})
	}

	return logicalplan.GroupBy{Input: plan, Keys: keys, Aggregates: aggregates}, nil
}

// translateAggregateExpr translates a SELECT-list projection expression
// that must resolve to a single aggregate call, per SPARQL §18.5.1.1.
func translateAggregateExpr(expr parser.Expression) (functions.AggregateExpr, error) {
	call, ok := expr.(*parser.FunctionCallExpression)
	if !ok || !aggregateNames[call.Function] {
		return functions.AggregateExpr{}, fmt.Errorf("planner: GROUP BY projection must be a single aggregate call, got %T", expr)
	}
	var arg functions.Expr
	if len(call.Arguments) == 1 {
		if v, ok := call.Arguments[0].(*parser.VariableExpression); ok && v.Variable.Name == "*" {
			arg = nil // COUNT(*)
		} else {
			a, err := translateExpr(call.Arguments[0])
			if err != nil {
				return functions.AggregateExpr{}, err
			}
			arg = a
		}
	}
	return functions.AggregateExpr{Name: call.Function, Arg: arg, Distinct: call.Distinct}, nil
}

func translateExpr(expr parser.Expression) (functions.Expr, error) {
	switch e := expr.(type) {
	case *parser.LiteralExpression:
		return functions.TermExpr{Term: e.Literal}, nil
	case *parser.VariableExpression:
		return functions.VarExpr{Name: e.Variable.Name}, nil
	case *parser.UnaryExpression:
		operand, err := translateExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		return functions.CallExpr{Name: unaryOpName(e.Operator), Args: []functions.Expr{operand}}, nil
	case *parser.BinaryExpression:
		left, err := translateExpr(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := translateExpr(e.Right)
		if err != nil {
			return nil, err
		}
		return functions.CallExpr{Name: binaryOpName(e.Operator), Args: []functions.Expr{left, right}}, nil
	case *parser.FunctionCallExpression:
		return translateFunctionCall(e)
	case *parser.InExpression:
		return translateIn(e)
	case *parser.ExistsExpression:
		return nil, fmt.Errorf("planner: EXISTS/NOT EXISTS filters are not yet compiled")
	default:
		return nil, fmt.Errorf("planner: unsupported expression %T", expr)
	}
}

// translateIn expands "x IN (a, b, c)" to "x = a || x = b || x = c" and
// "x NOT IN (...)" to the negation of that, since functions.operators
// has no direct IN kernel and the expansion is exact for a SPARQL
// expression (no side effects, each arm re-evaluates x).
func translateIn(e *parser.InExpression) (functions.Expr, error) {
	target, err := translateExpr(e.Expression)
	if err != nil {
		return nil, err
	}
	if len(e.Values) == 0 {
		return functions.TermExpr{Term: rdf.NewBooleanLiteral(e.Not)}, nil
	}
	var disjunction functions.Expr
	for _, v := range e.Values {
		val, err := translateExpr(v)
		if err != nil {
			return nil, err
		}
		eq := functions.CallExpr{Name: "=", Args: []functions.Expr{target, val}}
		if disjunction == nil {
			disjunction = eq
		} else {
			disjunction = functions.CallExpr{Name: "OR", Args: []functions.Expr{disjunction, eq}}
		}
	}
	if e.Not {
		return functions.CallExpr{Name: "NOT", Args: []functions.Expr{disjunction}}, nil
	}
	return disjunction, nil
}

var aggregateNames = map[string]bool{
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true,
	"MAX": true, "SAMPLE": true, "GROUP_CONCAT": true,
}

func translateFunctionCall(e *parser.FunctionCallExpression) (functions.Expr, error) {
	if aggregateNames[e.Function] {
		return nil, fmt.Errorf("planner: aggregate %s used outside GROUP BY translation", e.Function)
	}
	args := make([]functions.Expr, 0, len(e.Arguments))
	for _, a := range e.Arguments {
		arg, err := translateExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return functions.CallExpr{Name: e.Function, Args: args}, nil
}

func unaryOpName(op parser.Operator) string {
	switch op {
	case parser.OpNot:
		return "NOT"
	default:
		return "UMINUS"
	}
}

func binaryOpName(op parser.Operator) string {
	switch op {
	case parser.OpAnd:
		return "AND"
	case parser.OpOr:
		return "OR"
	case parser.OpEqual:
		return "="
	case parser.OpNotEqual:
		return "!="
	case parser.OpLessThan:
		return "<"
	case parser.OpLessThanOrEqual:
		return "<="
	case parser.OpGreaterThan:
		return ">"
	case parser.OpGreaterThanOrEqual:
		return ">="
	case parser.OpAdd:
		return "+"
	case parser.OpSubtract:
		return "-"
	case parser.OpMultiply:
		return "*"
	case parser.OpDivide:
		return "/"
	default:
		return "="
	}
}
