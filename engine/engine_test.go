package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfquad/rdfquad/internal/functions"
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/memstore"
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

func newTestEngine(t *testing.T) (*Engine, *quadstore.Store) {
	store := quadstore.New(memstore.New())
	alice := rdf.NewNamedNode("http://example.org/alice")
	bob := rdf.NewNamedNode("http://example.org/bob")
	knows := rdf.NewNamedNode("http://example.org/knows")
	require.NoError(t, store.InsertQuad(rdf.NewQuad(alice, knows, bob, rdf.NewDefaultGraph())))
	return New(store), store
}

func TestSelect(t *testing.T) {
	eng, _ := newTestEngine(t)
	knows := rdf.NewNamedNode("http://example.org/knows")

	plan := logicalplan.Scan{Pattern: &quadstore.Pattern{
		Subject:   quadstore.Variable{Name: "s"},
		Predicate: quadstore.Bound{Term: knows},
		Object:    quadstore.Variable{Name: "o"},
		Graph:     quadstore.Bound{Term: rdf.NewDefaultGraph()},
	}}

	result, err := eng.Select(context.Background(), plan, []string{"s", "o"})
	require.NoError(t, err)
	require.Len(t, result.Bindings, 1)
	require.Equal(t, "http://example.org/alice", result.Bindings[0]["s"].String())
}

func TestAsk(t *testing.T) {
	eng, _ := newTestEngine(t)
	knows := rdf.NewNamedNode("http://example.org/knows")
	missing := rdf.NewNamedNode("http://example.org/missing")

	yes, err := eng.Ask(context.Background(), logicalplan.Scan{Pattern: &quadstore.Pattern{
		Subject: quadstore.Variable{Name: "s"}, Predicate: quadstore.Bound{Term: knows},
		Object: quadstore.Variable{Name: "o"}, Graph: quadstore.Bound{Term: rdf.NewDefaultGraph()},
	}})
	require.NoError(t, err)
	require.True(t, yes.Value)

	no, err := eng.Ask(context.Background(), logicalplan.Scan{Pattern: &quadstore.Pattern{
		Subject: quadstore.Variable{Name: "s"}, Predicate: quadstore.Bound{Term: missing},
		Object: quadstore.Variable{Name: "o"}, Graph: quadstore.Bound{Term: rdf.NewDefaultGraph()},
	}})
	require.NoError(t, err)
	require.False(t, no.Value)
}

func TestConstruct(t *testing.T) {
	eng, _ := newTestEngine(t)
	knows := rdf.NewNamedNode("http://example.org/knows")
	likes := rdf.NewNamedNode("http://example.org/likes")

	plan := logicalplan.Scan{Pattern: &quadstore.Pattern{
		Subject: quadstore.Variable{Name: "s"}, Predicate: quadstore.Bound{Term: knows},
		Object: quadstore.Variable{Name: "o"}, Graph: quadstore.Bound{Term: rdf.NewDefaultGraph()},
	}}

	graph, err := eng.Construct(context.Background(), plan, []ConstructTemplate{
		{Subject: TemplateTerm{Var: "s"}, Predicate: TemplateTerm{Term: likes}, Object: TemplateTerm{Var: "o"}},
	})
	require.NoError(t, err)
	require.Len(t, graph.Triples, 1)
	require.Equal(t, likes, graph.Triples[0].Predicate)
}

func TestExplain(t *testing.T) {
	eng, _ := newTestEngine(t)
	knows := rdf.NewNamedNode("http://example.org/knows")

	plan := logicalplan.Filter{
		Input: logicalplan.Scan{Pattern: &quadstore.Pattern{
			Subject: quadstore.Variable{Name: "s"}, Predicate: quadstore.Bound{Term: knows},
			Object: quadstore.Variable{Name: "o"}, Graph: quadstore.Bound{Term: rdf.NewDefaultGraph()},
		}},
		Expr: functions.CallExpr{Name: "BOUND", Args: []functions.Expr{functions.VarExpr{Name: "o"}}},
	}
	explanation := eng.Explain(plan)
	require.Contains(t, explanation.Tree, "Filter")
	require.Contains(t, explanation.Tree, "Scan")
}
