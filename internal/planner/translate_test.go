package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfquad/rdfquad/internal/logicalplan"
)

func TestCompileSelectBasicPattern(t *testing.T) {
	compiled, err := Compile(`SELECT ?s ?o WHERE { ?s <http://example.org/likes> ?o }`)
	require.NoError(t, err)
	require.Equal(t, FormSelect, compiled.Form)
	require.Equal(t, []string{"s", "o"}, compiled.Variables)

	proj, ok := compiled.Plan.(logicalplan.Project)
	require.True(t, ok, "expected a Project node wrapping the scan")
	require.Equal(t, []string{"s", "o"}, proj.Vars)
	_, ok = proj.Input.(logicalplan.Scan)
	require.True(t, ok, "expected the Project's input to be a single Scan")
}

func TestCompileSelectStarHasNoProjection(t *testing.T) {
	compiled, err := Compile(`SELECT * WHERE { ?s ?p ?o }`)
	require.NoError(t, err)
	require.Nil(t, compiled.Variables)
	_, ok := compiled.Plan.(logicalplan.Scan)
	require.True(t, ok, "SELECT * should not wrap the scan in a Project")
}

func TestCompileSelectDistinct(t *testing.T) {
	compiled, err := Compile(`SELECT DISTINCT ?s WHERE { ?s ?p ?o }`)
	require.NoError(t, err)
	_, ok := compiled.Plan.(logicalplan.Distinct)
	require.True(t, ok, "DISTINCT should wrap the plan in a Distinct node")
}

func TestCompileSelectLimitOffset(t *testing.T) {
	compiled, err := Compile(`SELECT ?s WHERE { ?s ?p ?o } LIMIT 10 OFFSET 5`)
	require.NoError(t, err)
	slice, ok := compiled.Plan.(logicalplan.Slice)
	require.True(t, ok, "LIMIT/OFFSET should wrap the plan in a Slice node")
	require.Equal(t, int64(10), slice.Limit)
	require.Equal(t, int64(5), slice.Offset)
}

func TestCompileTwoPatternsJoin(t *testing.T) {
	compiled, err := Compile(`SELECT ?s WHERE { ?s <http://example.org/a> ?x . ?x <http://example.org/b> ?o }`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	_, ok := proj.Input.(logicalplan.Join)
	require.True(t, ok, "two triple patterns in the same group should join")
}

func TestCompileOptional(t *testing.T) {
	compiled, err := Compile(`SELECT ?s ?o WHERE { ?s <http://example.org/a> ?x OPTIONAL { ?x <http://example.org/b> ?o } }`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	_, ok := proj.Input.(logicalplan.LeftJoin)
	require.True(t, ok, "OPTIONAL should translate to a LeftJoin")
}

func TestCompileMinus(t *testing.T) {
	compiled, err := Compile(`SELECT ?s WHERE { ?s <http://example.org/a> ?x MINUS { ?x <http://example.org/b> ?o } }`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	_, ok := proj.Input.(logicalplan.Minus)
	require.True(t, ok, "MINUS should translate to a Minus node")
}

func TestCompileUnion(t *testing.T) {
	compiled, err := Compile(`SELECT ?s WHERE { { ?s <http://example.org/a> ?o } UNION { ?s <http://example.org/b> ?o } }`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	_, ok := proj.Input.(logicalplan.Union)
	require.True(t, ok, "UNION should translate to a Union node")
}

func TestCompileFilter(t *testing.T) {
	compiled, err := Compile(`SELECT ?s WHERE { ?s <http://example.org/age> ?age FILTER(?age > 18) }`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	filter, ok := proj.Input.(logicalplan.Filter)
	require.True(t, ok, "FILTER should translate to a Filter node")
	require.NotNil(t, filter.Expr)
}

func TestCompileBind(t *testing.T) {
	compiled, err := Compile(`SELECT ?s ?doubled WHERE { ?s <http://example.org/n> ?n BIND(?n * 2 AS ?doubled) }`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	extend, ok := proj.Input.(logicalplan.Extend)
	require.True(t, ok, "BIND should translate to an Extend node")
	require.Equal(t, "doubled", extend.Var)
}

func TestCompileOrderBy(t *testing.T) {
	compiled, err := Compile(`SELECT ?s ?n WHERE { ?s <http://example.org/n> ?n } ORDER BY DESC(?n)`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	orderBy, ok := proj.Input.(logicalplan.OrderBy)
	require.True(t, ok, "ORDER BY should translate to an OrderBy node")
	require.Len(t, orderBy.Conditions, 1)
	require.True(t, orderBy.Conditions[0].Descending)
}

func TestCompileGroupBy(t *testing.T) {
	compiled, err := Compile(`SELECT ?s WHERE { ?s <http://example.org/n> ?n } GROUP BY ?s`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	groupBy, ok := proj.Input.(logicalplan.GroupBy)
	require.True(t, ok, "GROUP BY should translate to a GroupBy node")
	require.Len(t, groupBy.Keys, 1)
}

func TestCompileGroupByWithAggregateProjection(t *testing.T) {
	compiled, err := Compile(`SELECT ?x (COUNT(?o) AS ?c) WHERE { ?x <http://example.org/p> ?o } GROUP BY ?x`)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "c"}, compiled.Variables)

	proj := compiled.Plan.(logicalplan.Project)
	groupBy, ok := proj.Input.(logicalplan.GroupBy)
	require.True(t, ok, "GROUP BY with aggregate projection should translate to a GroupBy node")
	require.Len(t, groupBy.Keys, 1)
	require.Len(t, groupBy.Aggregates, 1)
	require.Equal(t, "c", groupBy.Aggregates[0].Var)
	require.Equal(t, "COUNT", groupBy.Aggregates[0].Expr.Name)
}

func TestCompileAggregateWithoutExplicitGroupBy(t *testing.T) {
	compiled, err := Compile(`SELECT (COUNT(*) AS ?n) WHERE { ?s ?p ?o }`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	groupBy, ok := proj.Input.(logicalplan.GroupBy)
	require.True(t, ok, "a bare aggregate projection implies a single group per SPARQL 18.5.1.1")
	require.Empty(t, groupBy.Keys)
	require.Len(t, groupBy.Aggregates, 1)
	require.Nil(t, groupBy.Aggregates[0].Expr.Arg, "COUNT(*) has no argument expression")
}

func TestCompilePropertyPathPlus(t *testing.T) {
	compiled, err := Compile(`SELECT ?y WHERE { <http://example.org/a> <http://example.org/p>+ ?y }`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	path, ok := proj.Input.(logicalplan.Path)
	require.True(t, ok, "a '+' predicate should translate to a Path node")
	_, ok = path.Expr.(logicalplan.PathOneOrMore)
	require.True(t, ok, "'+' should compile to PathOneOrMore")
}

func TestCompilePropertyPathSequenceAndInverse(t *testing.T) {
	compiled, err := Compile(`SELECT ?y WHERE { ?x <http://example.org/p1>/^<http://example.org/p2> ?y }`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	path, ok := proj.Input.(logicalplan.Path)
	require.True(t, ok, "a '/' predicate should translate to a Path node")
	seq, ok := path.Expr.(logicalplan.PathSeq)
	require.True(t, ok, "'/' should compile to PathSeq")
	_, ok = seq.Right.(logicalplan.PathInverse)
	require.True(t, ok, "'^' should compile to PathInverse")
}

func TestCompilePlainIRIPredicateStaysAScan(t *testing.T) {
	compiled, err := Compile(`SELECT ?o WHERE { ?s <http://example.org/p> ?o }`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	_, ok := proj.Input.(logicalplan.Scan)
	require.True(t, ok, "a plain IRI predicate should not be routed through the path evaluator")
}

func TestCompileAsk(t *testing.T) {
	compiled, err := Compile(`ASK { ?s <http://example.org/a> ?o }`)
	require.NoError(t, err)
	require.Equal(t, FormAsk, compiled.Form)
	require.Nil(t, compiled.Variables)
}

func TestCompileConstruct(t *testing.T) {
	compiled, err := Compile(`CONSTRUCT { ?s <http://example.org/copy> ?o } WHERE { ?s <http://example.org/a> ?o }`)
	require.NoError(t, err)
	require.Equal(t, FormConstruct, compiled.Form)
	require.Len(t, compiled.Template, 1)
	require.Equal(t, "s", compiled.Template[0].Subject.Var)
	require.NotNil(t, compiled.Template[0].Predicate.Term)
	require.Equal(t, "o", compiled.Template[0].Object.Var)
}

func TestCompileInExpandsToDisjunction(t *testing.T) {
	compiled, err := Compile(`SELECT ?s WHERE { ?s <http://example.org/tag> ?t FILTER(?t IN (1, 2)) }`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	filter, ok := proj.Input.(logicalplan.Filter)
	require.True(t, ok)
	require.NotNil(t, filter.Expr)
}

func TestCompileExistsFilterIsSilentlyDropped(t *testing.T) {
	// The parser accepts FILTER EXISTS/NOT EXISTS but discards the
	// pattern (ast.Filter carries no Expression for it), so translation
	// succeeds without adding a Filter node for it. See DESIGN.md.
	compiled, err := Compile(`SELECT ?s WHERE { ?s <http://example.org/a> ?o FILTER EXISTS { ?o <http://example.org/b> ?z } }`)
	require.NoError(t, err)
	proj := compiled.Plan.(logicalplan.Project)
	_, ok := proj.Input.(logicalplan.Filter)
	require.False(t, ok, "FILTER EXISTS has no Expression to translate, so no Filter node is added")
}

func TestCompileInvalidSyntax(t *testing.T) {
	_, err := Compile(`SELECT ?s WHERE {`)
	require.Error(t, err)
}
