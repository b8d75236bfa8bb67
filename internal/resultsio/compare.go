package resultsio

import (
	"sort"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// CompareResults reports whether expected and actual are the same
// multiset of bindings, ignoring row order — the comparison the W3C
// query-evaluation tests require (result order is only significant when
// the query carries ORDER BY, which these bindings don't encode).
func CompareResults(expected, actual []map[string]rdf.Term) bool {
	if len(expected) != len(actual) {
		return false
	}

	sorted := func(bindings []map[string]rdf.Term) []string {
		strs := make([]string, len(bindings))
		for i, b := range bindings {
			strs[i] = bindingKey(b)
		}
		sort.Strings(strs)
		return strs
	}

	expectedKeys := sorted(expected)
	actualKeys := sorted(actual)
	for i := range expectedKeys {
		if expectedKeys[i] != actualKeys[i] {
			return false
		}
	}
	return true
}

func bindingKey(binding map[string]rdf.Term) string {
	vars := make([]string, 0, len(binding))
	for v := range binding {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	var key string
	for i, v := range vars {
		if i > 0 {
			key += "|"
		}
		key += v + "=" + binding[v].String()
	}
	return key
}
