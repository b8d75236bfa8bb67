package physicalplan

import (
	"sort"
	"strings"

	"github.com/rdfquad/rdfquad/internal/functions"
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/quadstore"
)

// projectIterator restricts each row to a fixed variable list.
type projectIterator struct {
	input BindingIterator
	vars  []string
}

func newProjectIterator(p logicalplan.Project, store *quadstore.Store) (*projectIterator, error) {
	input, err := Build(p.Input, store)
	if err != nil {
		return nil, err
	}
	return &projectIterator{input: input, vars: p.Vars}, nil
}

func (it *projectIterator) Next() (bool, error) { return it.input.Next() }

func (it *projectIterator) Binding() functions.Binding {
	full := it.input.Binding()
	out := make(functions.Binding, len(it.vars))
	for _, name := range it.vars {
		if term, ok := full[name]; ok {
			out[name] = term
		}
	}
	return out
}

func (it *projectIterator) Close() error { return it.input.Close() }

// newDistinctIterator drains Input and returns a replay iterator over
// the first occurrence of each distinct binding signature, grounded on
// the teacher's distinctIterator hashing approach (bindingSignature).
func newDistinctIterator(p logicalplan.Distinct, store *quadstore.Store) (BindingIterator, error) {
	input, err := Build(p.Input, store)
	if err != nil {
		return nil, err
	}
	rows, err := drain(input)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(rows))
	var unique []functions.Binding
	for _, row := range rows {
		sig := bindingSignature(row)
		if !seen[sig] {
			seen[sig] = true
			unique = append(unique, row)
		}
	}
	return newSliceIterator(unique), nil
}

func bindingSignature(binding functions.Binding) string {
	parts := make([]string, 0, len(binding))
	for name, term := range binding {
		parts = append(parts, name+"="+term.String())
	}
	sort.Strings(parts)
	return strings.Join(parts, "\x1f")
}
