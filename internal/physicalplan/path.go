package physicalplan

import (
	"github.com/rdfquad/rdfquad/internal/functions"
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// pathIterator evaluates a property path expression (§9) between
// Subject and Object, materializing the matching (subject, object) term
// pairs once and replaying them as bindings. ZeroOrMore/OneOrMore are
// the operators with no finite relational expansion — they are
// evaluated by BFS closure over the edge relation their inner
// expression defines, the one genuinely custom physical operator this
// engine needs beyond ordinary joins/scans. The other combinators
// (seq/alt/inverse/zeroOrOne/negated-set) are evaluated here too, by
// direct pair-set composition, rather than being pre-compiled into
// plain Scan/Join/Union trees by the optimizer — a simplification noted
// in DESIGN.md: it trades the optimizer's ability to push selectivity
// into those sub-cases for a single, uniform path evaluator.
type pathIterator struct {
	pairs   []pair
	subject quadstore.PatternTerm
	object  quadstore.PatternTerm
	pos     int
}

type pair struct{ s, o rdf.Term }

func newPathIterator(p logicalplan.Path, store *quadstore.Store) (*pathIterator, error) {
	pairs, err := evalPath(p.Expr, p.Graph, store)
	if err != nil {
		return nil, err
	}

	// Push down any already-bound Subject/Object endpoints.
	filtered := pairs[:0]
	for _, pr := range pairs {
		if b, ok := p.Subject.(quadstore.Bound); ok && !b.Term.Equals(pr.s) {
			continue
		}
		if b, ok := p.Object.(quadstore.Bound); ok && !b.Term.Equals(pr.o) {
			continue
		}
		filtered = append(filtered, pr)
	}

	return &pathIterator{pairs: filtered, subject: p.Subject, object: p.Object, pos: -1}, nil
}

func (it *pathIterator) Next() (bool, error) {
	it.pos++
	return it.pos < len(it.pairs), nil
}

func (it *pathIterator) Binding() functions.Binding {
	pr := it.pairs[it.pos]
	binding := functions.Binding{}
	if v, ok := it.subject.(quadstore.Variable); ok {
		binding[v.Name] = pr.s
	}
	if v, ok := it.object.(quadstore.Variable); ok {
		binding[v.Name] = pr.o
	}
	return binding
}

func (it *pathIterator) Close() error { return nil }

// evalPath computes the full set of (subject, object) pairs a path
// expression matches within graph.
func evalPath(expr logicalplan.PathExpr, graph quadstore.PatternTerm, store *quadstore.Store) ([]pair, error) {
	switch e := expr.(type) {
	case logicalplan.PathIRI:
		return scanPairs(quadstore.Variable{Name: "s"}, e.Predicate, quadstore.Variable{Name: "o"}, graph, store)

	case logicalplan.PathInverse:
		inner, err := evalPath(e.Path, graph, store)
		if err != nil {
			return nil, err
		}
		out := make([]pair, len(inner))
		for i, pr := range inner {
			out[i] = pair{s: pr.o, o: pr.s}
		}
		return out, nil

	case logicalplan.PathSeq:
		left, err := evalPath(e.Left, graph, store)
		if err != nil {
			return nil, err
		}
		right, err := evalPath(e.Right, graph, store)
		if err != nil {
			return nil, err
		}
		return composeSeq(left, right), nil

	case logicalplan.PathAlt:
		left, err := evalPath(e.Left, graph, store)
		if err != nil {
			return nil, err
		}
		right, err := evalPath(e.Right, graph, store)
		if err != nil {
			return nil, err
		}
		return dedupPairs(append(left, right...)), nil

	case logicalplan.PathZeroOrOne:
		inner, err := evalPath(e.Path, graph, store)
		if err != nil {
			return nil, err
		}
		out := append([]pair{}, inner...)
		for _, n := range nodesOf(inner) {
			out = append(out, pair{s: n, o: n})
		}
		return dedupPairs(out), nil

	case logicalplan.PathZeroOrMore:
		return bfsClosure(e.Path, graph, store, true)

	case logicalplan.PathOneOrMore:
		return bfsClosure(e.Path, graph, store, false)

	case logicalplan.PathNegatedPropertySet:
		return negatedPropertySetPairs(e, graph, store)

	default:
		return nil, nil
	}
}

func scanPairs(s, p, o, graph quadstore.PatternTerm, store *quadstore.Store) ([]pair, error) {
	pattern := &quadstore.Pattern{Subject: s, Predicate: p, Object: o, Graph: graph}
	it, err := store.Query(pattern)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []pair
	for it.Next() {
		q, err := it.Quad()
		if err != nil {
			return nil, err
		}
		out = append(out, pair{s: q.Subject, o: q.Object})
	}
	return out, nil
}

func composeSeq(left, right []pair) []pair {
	byMid := make(map[string][]rdf.Term)
	for _, pr := range right {
		byMid[pr.s.String()] = append(byMid[pr.s.String()], pr.o)
	}
	var out []pair
	for _, pr := range left {
		for _, end := range byMid[pr.o.String()] {
			out = append(out, pair{s: pr.s, o: end})
		}
	}
	return out
}

func dedupPairs(pairs []pair) []pair {
	seen := make(map[string]bool, len(pairs))
	out := pairs[:0]
	for _, pr := range pairs {
		key := pr.s.String() + "\x1f" + pr.o.String()
		if !seen[key] {
			seen[key] = true
			out = append(out, pr)
		}
	}
	return out
}

func nodesOf(pairs []pair) []rdf.Term {
	seen := make(map[string]bool)
	var out []rdf.Term
	for _, pr := range pairs {
		for _, t := range []rdf.Term{pr.s, pr.o} {
			k := t.String()
			if !seen[k] {
				seen[k] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// bfsClosure computes the transitive closure of inner's edge relation:
// ZeroOrMore additionally includes every node paired with itself.
func bfsClosure(inner logicalplan.PathExpr, graph quadstore.PatternTerm, store *quadstore.Store, includeZero bool) ([]pair, error) {
	edges, err := evalPath(inner, graph, store)
	if err != nil {
		return nil, err
	}
	adjacency := make(map[string][]rdf.Term)
	for _, e := range edges {
		adjacency[e.s.String()] = append(adjacency[e.s.String()], e.o)
	}

	var out []pair
	for _, start := range nodesOf(edges) {
		visited := map[string]bool{start.String(): true}
		queue := []rdf.Term{start}
		reached := map[string]rdf.Term{}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range adjacency[cur.String()] {
				k := next.String()
				if visited[k] {
					continue
				}
				visited[k] = true
				reached[k] = next
				queue = append(queue, next)
			}
		}
		if includeZero {
			out = append(out, pair{s: start, o: start})
		}
		for _, n := range reached {
			out = append(out, pair{s: start, o: n})
		}
	}
	return dedupPairs(out), nil
}

// negatedPropertySetPairs evaluates "!(iri1|...|^iriN|...)": every quad
// whose predicate is not in Forward contributes an (s, o) pair in the
// path's own direction, and every quad whose predicate is not in
// Inverse contributes an (o, s) pair reversed, since "^iri" inside a
// negated set means the traversal direction flips for that arm only.
func negatedPropertySetPairs(e logicalplan.PathNegatedPropertySet, graph quadstore.PatternTerm, store *quadstore.Store) ([]pair, error) {
	pairs, err := excludedPredicatePairs(e.Forward, graph, store, false)
	if err != nil {
		return nil, err
	}
	if len(e.Inverse) > 0 {
		inversePairs, err := excludedPredicatePairs(e.Inverse, graph, store, true)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, inversePairs...)
	}
	return dedupPairs(pairs), nil
}

func excludedPredicatePairs(excludedTerms []quadstore.PatternTerm, graph quadstore.PatternTerm, store *quadstore.Store, reverse bool) ([]pair, error) {
	excluded := make(map[string]bool, len(excludedTerms))
	for _, f := range excludedTerms {
		if b, ok := f.(quadstore.Bound); ok {
			excluded[b.Term.String()] = true
		}
	}
	pattern := &quadstore.Pattern{
		Subject:   quadstore.Variable{Name: "s"},
		Predicate: quadstore.Variable{Name: "p"},
		Object:    quadstore.Variable{Name: "o"},
		Graph:     graph,
	}
	it, err := store.Query(pattern)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []pair
	for it.Next() {
		q, err := it.Quad()
		if err != nil {
			return nil, err
		}
		if excluded[q.Predicate.String()] {
			continue
		}
		if reverse {
			out = append(out, pair{s: q.Object, o: q.Subject})
		} else {
			out = append(out, pair{s: q.Subject, o: q.Object})
		}
	}
	return out, nil
}
