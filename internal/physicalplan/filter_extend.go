package physicalplan

import (
	"github.com/rdfquad/rdfquad/internal/functions"
	"github.com/rdfquad/rdfquad/internal/logicalplan"
	"github.com/rdfquad/rdfquad/internal/quadstore"
)

// filterIterator keeps only rows whose Expr evaluates to EBV true; a
// row whose Expr errors (unbound variable, type error) is dropped, not
// propagated, matching SPARQL's error-as-false FILTER semantics.
type filterIterator struct {
	input BindingIterator
	expr  functions.Expr
}

func newFilterIterator(p logicalplan.Filter, store *quadstore.Store) (*filterIterator, error) {
	input, err := Build(p.Input, store)
	if err != nil {
		return nil, err
	}
	return &filterIterator{input: input, expr: p.Expr}, nil
}

func (it *filterIterator) Next() (bool, error) {
	for {
		ok, err := it.input.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		binding := it.input.Binding()
		passed, err := functions.EBV(it.expr, binding)
		if err != nil {
			continue
		}
		if passed {
			return true, nil
		}
	}
}

func (it *filterIterator) Binding() functions.Binding { return it.input.Binding() }
func (it *filterIterator) Close() error                { return it.input.Close() }

// extendIterator implements BIND(Expr AS ?Var): a row whose Expr errors
// leaves Var unbound (per SPARQL §18.1's BIND error handling) rather
// than dropping the row.
type extendIterator struct {
	input   BindingIterator
	varName string
	expr    functions.Expr
	current functions.Binding
}

func newExtendIterator(p logicalplan.Extend, store *quadstore.Store) (*extendIterator, error) {
	input, err := Build(p.Input, store)
	if err != nil {
		return nil, err
	}
	return &extendIterator{input: input, varName: p.Var, expr: p.Expr}, nil
}

func (it *extendIterator) Next() (bool, error) {
	ok, err := it.input.Next()
	if err != nil || !ok {
		return false, err
	}
	binding := it.input.Binding().Clone()
	if term, err := functions.Eval(it.expr, binding); err == nil {
		binding[it.varName] = term
	}
	it.current = binding
	return true, nil
}

func (it *extendIterator) Binding() functions.Binding { return it.current }
func (it *extendIterator) Close() error                { return it.input.Close() }
