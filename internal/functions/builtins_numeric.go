package functions

import (
	"math"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

func init() {
	for name, k := range numericBuiltins {
		builtins[name] = k
	}
}

var numericBuiltins = map[string]kernel{
	"ABS":   evalAbs,
	"CEIL":  evalCeil,
	"FLOOR": evalFloor,
	"ROUND": evalRound,
}

func evalAbs(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 1 {
		return nil, argErr("ABS", 1, len(args))
	}
	f, term, err := extractNumeric(args, 0, binding)
	if err != nil {
		return nil, err
	}
	return preserveIntegerType(term, math.Abs(f)), nil
}

func evalCeil(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 1 {
		return nil, argErr("CEIL", 1, len(args))
	}
	f, term, err := extractNumeric(args, 0, binding)
	if err != nil {
		return nil, err
	}
	return preserveIntegerType(term, math.Ceil(f)), nil
}

func evalFloor(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 1 {
		return nil, argErr("FLOOR", 1, len(args))
	}
	f, term, err := extractNumeric(args, 0, binding)
	if err != nil {
		return nil, err
	}
	return preserveIntegerType(term, math.Floor(f)), nil
}

// evalRound implements XPath fn:round, which rounds half-up (not
// half-to-even like Go's math.RoundToEven).
func evalRound(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 1 {
		return nil, argErr("ROUND", 1, len(args))
	}
	f, term, err := extractNumeric(args, 0, binding)
	if err != nil {
		return nil, err
	}
	return preserveIntegerType(term, math.Floor(f+0.5)), nil
}

// preserveIntegerType returns an xsd:integer literal if term already was
// one, otherwise an xsd:double literal carrying result.
func preserveIntegerType(term rdf.Term, result float64) rdf.Term {
	if lit, ok := term.(*rdf.Literal); ok && datatypeIRI(lit) == rdf.XSDInteger.IRI {
		return rdf.NewIntegerLiteral(int64(result))
	}
	return rdf.NewDoubleLiteral(result)
}
