package physicalplan

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfquad/rdfquad/internal/functions"
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/memstore"
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

func newTestStore(t *testing.T) *quadstore.Store {
	store := quadstore.New(memstore.New())
	alice := rdf.NewNamedNode("http://example.org/alice")
	bob := rdf.NewNamedNode("http://example.org/bob")
	carol := rdf.NewNamedNode("http://example.org/carol")
	knows := rdf.NewNamedNode("http://example.org/knows")
	age := rdf.NewNamedNode("http://example.org/age")

	quads := []*rdf.Quad{
		rdf.NewQuad(alice, knows, bob, rdf.NewDefaultGraph()),
		rdf.NewQuad(bob, knows, carol, rdf.NewDefaultGraph()),
		rdf.NewQuad(alice, age, rdf.NewIntegerLiteral(30), rdf.NewDefaultGraph()),
		rdf.NewQuad(bob, age, rdf.NewIntegerLiteral(25), rdf.NewDefaultGraph()),
	}
	require.NoError(t, store.InsertQuadsBatch(quads))
	return store
}

func collect(t *testing.T, it BindingIterator) []functions.Binding {
	var out []functions.Binding
	for {
		ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		out = append(out, it.Binding().Clone())
	}
	require.NoError(t, it.Close())
	return out
}

func TestScanAndFilter(t *testing.T) {
	store := newTestStore(t)
	age := rdf.NewNamedNode("http://example.org/age")

	plan := logicalplan.Filter{
		Input: logicalplan.Scan{Pattern: &quadstore.Pattern{
			Subject:   quadstore.Variable{Name: "s"},
			Predicate: quadstore.Bound{Term: age},
			Object:    quadstore.Variable{Name: "a"},
			Graph:     quadstore.Bound{Term: rdf.NewDefaultGraph()},
		}},
		Expr: functions.CallExpr{Name: ">", Args: []functions.Expr{
			functions.VarExpr{Name: "a"},
			functions.TermExpr{Term: rdf.NewIntegerLiteral(26)},
		}},
	}

	it, err := Build(plan, store)
	require.NoError(t, err)
	rows := collect(t, it)
	require.Len(t, rows, 1)
	require.Equal(t, "http://example.org/alice", rows[0]["s"].String())
}

func TestJoin(t *testing.T) {
	store := newTestStore(t)
	knows := rdf.NewNamedNode("http://example.org/knows")
	age := rdf.NewNamedNode("http://example.org/age")
	dg := quadstore.Bound{Term: rdf.NewDefaultGraph()}

	plan := logicalplan.Join{
		Left: logicalplan.Scan{Pattern: &quadstore.Pattern{
			Subject: quadstore.Variable{Name: "s"}, Predicate: quadstore.Bound{Term: knows},
			Object: quadstore.Variable{Name: "o"}, Graph: dg,
		}},
		Right: logicalplan.Scan{Pattern: &quadstore.Pattern{
			Subject: quadstore.Variable{Name: "s"}, Predicate: quadstore.Bound{Term: age},
			Object: quadstore.Variable{Name: "a"}, Graph: dg,
		}},
	}

	it, err := Build(plan, store)
	require.NoError(t, err)
	rows := collect(t, it)
	require.Len(t, rows, 2)
}

func TestOneOrMorePath(t *testing.T) {
	store := newTestStore(t)
	knows := rdf.NewNamedNode("http://example.org/knows")
	dg := quadstore.Bound{Term: rdf.NewDefaultGraph()}

	plan := logicalplan.Path{
		Subject: quadstore.Bound{Term: rdf.NewNamedNode("http://example.org/alice")},
		Object:  quadstore.Variable{Name: "reached"},
		Graph:   dg,
		Expr:    logicalplan.PathOneOrMore{Path: logicalplan.PathIRI{Predicate: quadstore.Bound{Term: knows}}},
	}

	it, err := Build(plan, store)
	require.NoError(t, err)
	rows := collect(t, it)

	var reached []string
	for _, r := range rows {
		reached = append(reached, r["reached"].String())
	}
	sort.Strings(reached)
	require.Equal(t, []string{"http://example.org/bob", "http://example.org/carol"}, reached)
}

func TestUnion(t *testing.T) {
	store := newTestStore(t)
	knows := rdf.NewNamedNode("http://example.org/knows")
	age := rdf.NewNamedNode("http://example.org/age")
	dg := quadstore.Bound{Term: rdf.NewDefaultGraph()}

	plan := logicalplan.Union{
		Left: logicalplan.Scan{Pattern: &quadstore.Pattern{
			Subject: quadstore.Variable{Name: "s"}, Predicate: quadstore.Bound{Term: knows},
			Object: quadstore.Variable{Name: "o"}, Graph: dg,
		}},
		Right: logicalplan.Scan{Pattern: &quadstore.Pattern{
			Subject: quadstore.Variable{Name: "s"}, Predicate: quadstore.Bound{Term: age},
			Object: quadstore.Variable{Name: "o"}, Graph: dg,
		}},
	}

	it, err := Build(plan, store)
	require.NoError(t, err)
	rows := collect(t, it)
	require.Len(t, rows, 4, "both branches' rows should appear, concurrency notwithstanding")
}

func TestMinus(t *testing.T) {
	store := newTestStore(t)
	knows := rdf.NewNamedNode("http://example.org/knows")
	age := rdf.NewNamedNode("http://example.org/age")
	dg := quadstore.Bound{Term: rdf.NewDefaultGraph()}

	plan := logicalplan.Minus{
		Left: logicalplan.Scan{Pattern: &quadstore.Pattern{
			Subject: quadstore.Variable{Name: "s"}, Predicate: quadstore.Bound{Term: knows},
			Object: quadstore.Variable{Name: "o"}, Graph: dg,
		}},
		Right: logicalplan.Scan{Pattern: &quadstore.Pattern{
			Subject: quadstore.Variable{Name: "s"}, Predicate: quadstore.Bound{Term: age},
			Object: quadstore.Variable{Name: "o"}, Graph: dg,
		}},
	}

	it, err := Build(plan, store)
	require.NoError(t, err)
	rows := collect(t, it)
	require.Len(t, rows, 2, "s/o are shared names but no right row agrees with a left row on both, so nothing is excluded")
}

func TestDistinctAndSlice(t *testing.T) {
	store := newTestStore(t)
	knows := rdf.NewNamedNode("http://example.org/knows")
	dg := quadstore.Bound{Term: rdf.NewDefaultGraph()}

	base := logicalplan.Scan{Pattern: &quadstore.Pattern{
		Subject: quadstore.Variable{Name: "s"}, Predicate: quadstore.Bound{Term: knows},
		Object: quadstore.Variable{Name: "o"}, Graph: dg,
	}}

	it, err := Build(logicalplan.Distinct{Input: base}, store)
	require.NoError(t, err)
	require.Len(t, collect(t, it), 2)

	it, err = Build(logicalplan.Slice{Input: base, Offset: 1, Limit: 1}, store)
	require.NoError(t, err)
	require.Len(t, collect(t, it), 1)
}
