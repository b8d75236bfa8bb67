package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

func TestOptimizePutsMoreSelectiveScanOnLeft(t *testing.T) {
	unbound := logicalplan.Scan{Pattern: &quadstore.Pattern{
		Subject:   quadstore.Variable{Name: "s"},
		Predicate: quadstore.Variable{Name: "p"},
		Object:    quadstore.Variable{Name: "o"},
	}}
	fullyBound := logicalplan.Scan{Pattern: &quadstore.Pattern{
		Subject:   quadstore.Bound{Term: rdf.NewNamedNode("http://example.org/a")},
		Predicate: quadstore.Bound{Term: rdf.NewNamedNode("http://example.org/p")},
		Object:    quadstore.Bound{Term: rdf.NewNamedNode("http://example.org/o")},
	}}

	plan := logicalplan.Join{Left: unbound, Right: fullyBound}

	opt := New(nil)
	result := opt.Optimize(plan).(logicalplan.Join)

	require.Equal(t, fullyBound, result.Left)
	require.Equal(t, unbound, result.Right)
}
