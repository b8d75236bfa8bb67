package functions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// Eval evaluates expr against binding, returning a SPARQL type error as a
// *thinError rather than aborting the whole query: callers that need to
// tell "errored" apart from "evaluated to a concrete term" should use
// IsThinError, mirroring the teacher evaluator's per-expression error
// handling in operators.go/functions.go.
func Eval(expr Expr, binding Binding) (rdf.Term, error) {
	switch e := expr.(type) {
	case TermExpr:
		return e.Term, nil
	case VarExpr:
		term, ok := binding[e.Name]
		if !ok {
			return nil, errf("unbound variable ?%s", e.Name)
		}
		return term, nil
	case CallExpr:
		return dispatch(e, binding)
	case AggregateExpr:
		return nil, errf("aggregate %s cannot be evaluated outside a GROUP BY operator", e.Name)
	default:
		return nil, errf("unknown expression node %T", expr)
	}
}

// EBV computes an expression's Effective Boolean Value per SPARQL §17.2.2.
func EBV(expr Expr, binding Binding) (bool, error) {
	term, err := Eval(expr, binding)
	if err != nil {
		return false, err
	}
	return effectiveBooleanValue(term)
}

func effectiveBooleanValue(term rdf.Term) (bool, error) {
	lit, ok := term.(*rdf.Literal)
	if !ok {
		return false, errf("EBV: not a literal: %s", term.String())
	}

	dt := ""
	if lit.Datatype != nil {
		dt = lit.Datatype.IRI
	}

	switch dt {
	case "", rdf.XSDString.IRI:
		if lit.Language != "" {
			return false, errf("EBV: language-tagged string has no boolean value")
		}
		return lit.Value != "", nil
	case rdf.XSDBoolean.IRI:
		return lit.Value == "true" || lit.Value == "1", nil
	case rdf.XSDInteger.IRI, "http://www.w3.org/2001/XMLSchema#int",
		"http://www.w3.org/2001/XMLSchema#long", "http://www.w3.org/2001/XMLSchema#short":
		n, err := strconv.ParseInt(lit.Value, 10, 64)
		if err != nil {
			return false, errf("EBV: invalid integer %q", lit.Value)
		}
		return n != 0, nil
	case rdf.XSDDouble.IRI, rdf.XSDDecimal.IRI, "http://www.w3.org/2001/XMLSchema#float":
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil || isNaN(f) {
			return false, nil
		}
		return f != 0, nil
	default:
		return false, errf("EBV: unsupported datatype %s", dt)
	}
}

func isNaN(f float64) bool { return f != f }

// dispatch resolves a CallExpr to an operator or builtin kernel. Operator
// names (AND/OR/NOT/=/!=/</...) and builtin function names share one
// table the way the teacher's single switch in operators.go does, but
// split across files here by concern.
func dispatch(call CallExpr, binding Binding) (rdf.Term, error) {
	name := strings.ToUpper(call.Name)

	if kernel, ok := operators[name]; ok {
		return kernel(call.Args, binding)
	}
	if kernel, ok := builtins[name]; ok {
		return kernel(call.Args, binding)
	}
	if strings.HasPrefix(call.Name, xsdNS) {
		return evalCast(call.Name, call.Args, binding)
	}
	return nil, errf("unknown function or operator %q", call.Name)
}

func argErr(name string, want int, got int) error {
	return errf("%s requires %d argument(s), got %d", name, want, got)
}

func evalArg(args []Expr, i int, binding Binding) (rdf.Term, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("functions: argument index out of range")
	}
	return Eval(args[i], binding)
}
