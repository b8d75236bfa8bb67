package quadstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfquad/rdfquad/internal/memstore"
	"github.com/rdfquad/rdfquad/internal/storage"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

func backends(t *testing.T) map[string]storage.Storage {
	return map[string]storage.Storage{
		"memstore": memstore.New(),
		"badger":   badgerBackend(t),
	}
}

func badgerBackend(t *testing.T) storage.Storage {
	dir := t.TempDir()
	s, err := storage.NewBadgerStorage(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndQueryAcrossBackends(t *testing.T) {
	alice := rdf.NewNamedNode("http://example.org/alice")
	bob := rdf.NewNamedNode("http://example.org/bob")
	name := rdf.NewNamedNode("http://xmlns.com/foaf/0.1/name")
	g1 := rdf.NewNamedNode("http://example.org/g1")

	quads := []*rdf.Quad{
		rdf.NewQuad(alice, name, rdf.NewLiteral("Alice"), rdf.NewDefaultGraph()),
		rdf.NewQuad(bob, name, rdf.NewLiteral("Bob"), rdf.NewDefaultGraph()),
		rdf.NewQuad(alice, name, rdf.NewLiteral("Alicia"), g1),
	}

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			store := New(backend)
			require.NoError(t, store.InsertQuadsBatch(quads))

			count, err := store.Count()
			require.NoError(t, err)
			require.EqualValues(t, 3, count)

			// Subject, predicate and graph bound: find alice's default-graph name.
			it, err := store.Query(&Pattern{
				Subject:   Bound{alice},
				Predicate: Bound{name},
				Object:    Variable{"o"},
				Graph:     Bound{rdf.NewDefaultGraph()},
			})
			require.NoError(t, err)
			defer it.Close()

			var got []string
			for it.Next() {
				q, err := it.Quad()
				require.NoError(t, err)
				lit, ok := q.Object.(*rdf.Literal)
				require.True(t, ok)
				got = append(got, lit.Value)
			}
			require.Equal(t, []string{"Alice"}, got)
		})
	}
}

func TestDeleteQuad(t *testing.T) {
	alice := rdf.NewNamedNode("http://example.org/alice")
	name := rdf.NewNamedNode("http://xmlns.com/foaf/0.1/name")

	store := New(memstore.New())
	q := rdf.NewQuad(alice, name, rdf.NewLiteral("Alice"), rdf.NewDefaultGraph())
	require.NoError(t, store.InsertQuad(q))

	count, err := store.Count()
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	require.NoError(t, store.DeleteQuad(q))

	count, err = store.Count()
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestNamedGraphScan(t *testing.T) {
	alice := rdf.NewNamedNode("http://example.org/alice")
	name := rdf.NewNamedNode("http://xmlns.com/foaf/0.1/name")
	g1 := rdf.NewNamedNode("http://example.org/g1")

	store := New(memstore.New())
	require.NoError(t, store.InsertQuad(rdf.NewQuad(alice, name, rdf.NewLiteral("Alicia"), g1)))

	it, err := store.Query(&Pattern{
		Subject:   Variable{"s"},
		Predicate: Variable{"p"},
		Object:    Variable{"o"},
		Graph:     Bound{g1},
	})
	require.NoError(t, err)
	defer it.Close()

	n := 0
	for it.Next() {
		q, err := it.Quad()
		require.NoError(t, err)
		require.Equal(t, rdf.TermTypeNamedNode, q.Graph.Type())
		n++
	}
	require.Equal(t, 1, n)
}
