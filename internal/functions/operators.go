package functions

import (
	"strconv"
	"strings"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

type kernel func(args []Expr, binding Binding) (rdf.Term, error)

// operators holds SPARQL's operator grammar (§4.2), keyed by the
// upper-cased operator name a logical-plan Filter/Extend node embeds in
// a CallExpr. Grounded on the teacher's evaluateBinaryExpression/
// evaluateUnaryExpression dispatch in pkg/sparql/evaluator/operators.go.
var operators = map[string]kernel{
	"AND": evalAnd,
	"OR":  evalOr,
	"NOT": evalNot,
	"=":   evalEqual,
	"!=":  evalNotEqual,
	"<":   evalLess,
	"<=":  evalLessEq,
	">":   evalGreater,
	">=":  evalGreaterEq,
	"+":   evalAdd,
	"-":   evalSubtract,
	"*":   evalMultiply,
	"/":   evalDivide,
	"UMINUS": func(args []Expr, b Binding) (rdf.Term, error) {
		if len(args) != 1 {
			return nil, argErr("-", 1, len(args))
		}
		f, _, err := extractNumeric(args, 0, b)
		if err != nil {
			return nil, err
		}
		return rdf.NewDoubleLiteral(-f), nil
	},
}

// evalAnd/evalOr implement SPARQL's error-tolerant short-circuiting: an
// error on one side does not fail the whole expression if the other side
// alone determines the result (§17.3 extends the truth tables with an
// "error" value).
func evalAnd(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 2 {
		return nil, argErr("AND", 2, len(args))
	}
	left, lerr := EBV(args[0], binding)
	if lerr == nil && !left {
		return rdf.NewBooleanLiteral(false), nil
	}
	right, rerr := EBV(args[1], binding)
	if rerr == nil && !right {
		return rdf.NewBooleanLiteral(false), nil
	}
	if lerr != nil {
		return nil, lerr
	}
	if rerr != nil {
		return nil, rerr
	}
	return rdf.NewBooleanLiteral(left && right), nil
}

func evalOr(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 2 {
		return nil, argErr("OR", 2, len(args))
	}
	left, lerr := EBV(args[0], binding)
	if lerr == nil && left {
		return rdf.NewBooleanLiteral(true), nil
	}
	right, rerr := EBV(args[1], binding)
	if rerr == nil && right {
		return rdf.NewBooleanLiteral(true), nil
	}
	if lerr != nil {
		return nil, lerr
	}
	if rerr != nil {
		return nil, rerr
	}
	return rdf.NewBooleanLiteral(left || right), nil
}

func evalNot(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 1 {
		return nil, argErr("NOT", 1, len(args))
	}
	v, err := EBV(args[0], binding)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(!v), nil
}

func evalEqual(args []Expr, binding Binding) (rdf.Term, error) {
	a, b, err := evalPair(args, binding)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(termsEqual(a, b)), nil
}

func evalNotEqual(args []Expr, binding Binding) (rdf.Term, error) {
	a, b, err := evalPair(args, binding)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(!termsEqual(a, b)), nil
}

// termsEqual implements SPARQL "=" (§17.3), which for literals compares
// by value (RDF term equality would be lexically stricter) and falls
// back to Term.Equals for non-literals.
func termsEqual(a, b rdf.Term) bool {
	la, aok := a.(*rdf.Literal)
	lb, bok := b.(*rdf.Literal)
	if aok && bok {
		if fa, ok1 := literalNumeric(la); ok1 {
			if fb, ok2 := literalNumeric(lb); ok2 {
				return fa == fb
			}
		}
		return la.Value == lb.Value && la.Language == lb.Language && datatypeIRI(la) == datatypeIRI(lb)
	}
	return a.Equals(b)
}

func evalPair(args []Expr, binding Binding) (rdf.Term, rdf.Term, error) {
	if len(args) != 2 {
		return nil, nil, argErr("comparison", 2, len(args))
	}
	a, err := Eval(args[0], binding)
	if err != nil {
		return nil, nil, err
	}
	b, err := Eval(args[1], binding)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func evalLess(args []Expr, binding Binding) (rdf.Term, error) {
	cmp, err := compare(args, binding)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(cmp < 0), nil
}

func evalLessEq(args []Expr, binding Binding) (rdf.Term, error) {
	cmp, err := compare(args, binding)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(cmp <= 0), nil
}

func evalGreater(args []Expr, binding Binding) (rdf.Term, error) {
	cmp, err := compare(args, binding)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(cmp > 0), nil
}

func evalGreaterEq(args []Expr, binding Binding) (rdf.Term, error) {
	cmp, err := compare(args, binding)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(cmp >= 0), nil
}

// compare orders two terms: numeric promotion first, then plain string
// comparison, matching the teacher's compareTerms/extractNumeric
// fallback ladder.
func compare(args []Expr, binding Binding) (int, error) {
	a, b, err := evalPair(args, binding)
	if err != nil {
		return 0, err
	}
	la, aok := a.(*rdf.Literal)
	lb, bok := b.(*rdf.Literal)
	if aok && bok {
		if fa, ok1 := literalNumeric(la); ok1 {
			if fb, ok2 := literalNumeric(lb); ok2 {
				switch {
				case fa < fb:
					return -1, nil
				case fa > fb:
					return 1, nil
				default:
					return 0, nil
				}
			}
		}
		return strings.Compare(la.Value, lb.Value), nil
	}
	return 0, errf("comparison requires literal operands")
}

func evalAdd(args []Expr, binding Binding) (rdf.Term, error) { return arith(args, binding, '+') }
func evalSubtract(args []Expr, binding Binding) (rdf.Term, error) {
	return arith(args, binding, '-')
}
func evalMultiply(args []Expr, binding Binding) (rdf.Term, error) {
	return arith(args, binding, '*')
}
func evalDivide(args []Expr, binding Binding) (rdf.Term, error) {
	return arith(args, binding, '/')
}

// arith implements the four numeric operators: the result is an
// xsd:integer only when both operands are exactly xsd:integer, the
// operator is +, - or *, and the value is integral; division, integer
// subtypes, and decimal/double operands always produce xsd:double. This
// generalizes the teacher's createNumericLiteral, which only ever
// produced integer-or-double.
func arith(args []Expr, binding Binding, op byte) (rdf.Term, error) {
	if len(args) != 2 {
		return nil, argErr("arithmetic", 2, len(args))
	}
	a, err := Eval(args[0], binding)
	if err != nil {
		return nil, err
	}
	b, err := Eval(args[1], binding)
	if err != nil {
		return nil, err
	}
	la, aok := a.(*rdf.Literal)
	lb, bok := b.(*rdf.Literal)
	if !aok || !bok {
		return nil, errf("arithmetic operands must be numeric literals")
	}
	fa, ok1 := literalNumeric(la)
	fb, ok2 := literalNumeric(lb)
	if !ok1 || !ok2 {
		return nil, errf("arithmetic operands must be numeric literals")
	}

	var result float64
	switch op {
	case '+':
		result = fa + fb
	case '-':
		result = fa - fb
	case '*':
		result = fa * fb
	case '/':
		if fb == 0 {
			return nil, errf("division by zero")
		}
		result = fa / fb
	}

	bothInteger := datatypeIRI(la) == rdf.XSDInteger.IRI && datatypeIRI(lb) == rdf.XSDInteger.IRI
	if bothInteger && op != '/' && result == float64(int64(result)) {
		return rdf.NewIntegerLiteral(int64(result)), nil
	}
	return rdf.NewDoubleLiteral(result), nil
}

// CompareTerms orders two terms for ORDER BY purposes: numeric
// promotion first, then plain lexical comparison of literal values, and
// for any pair that is not two literals a comparison of the terms'
// String() forms, so ORDER BY never errors outright the way "<"
// does on incomparable operands (SPARQL ORDER BY defines a total order
// over all terms, §15.1).
func CompareTerms(a, b rdf.Term) int {
	la, aok := a.(*rdf.Literal)
	lb, bok := b.(*rdf.Literal)
	if aok && bok {
		if fa, ok1 := literalNumeric(la); ok1 {
			if fb, ok2 := literalNumeric(lb); ok2 {
				switch {
				case fa < fb:
					return -1
				case fa > fb:
					return 1
				default:
					return 0
				}
			}
		}
		return strings.Compare(la.Value, lb.Value)
	}
	return strings.Compare(a.String(), b.String())
}

func datatypeIRI(lit *rdf.Literal) string {
	if lit.Datatype == nil {
		return rdf.XSDString.IRI
	}
	return lit.Datatype.IRI
}

// NumericValue extracts a float64 from any of the XSD numeric
// datatypes; the bool reports whether lit actually was numeric. Exported
// for callers outside this package that need the same datatype-aware
// coercion, e.g. aggregate evaluation over a GROUP BY.
func NumericValue(lit *rdf.Literal) (float64, bool) {
	return literalNumeric(lit)
}

// literalNumeric extracts a float64 from any of the XSD numeric
// datatypes; the bool reports whether lit actually was numeric.
func literalNumeric(lit *rdf.Literal) (float64, bool) {
	switch datatypeIRI(lit) {
	case rdf.XSDInteger.IRI, rdf.XSDDecimal.IRI, rdf.XSDDouble.IRI,
		"http://www.w3.org/2001/XMLSchema#int", "http://www.w3.org/2001/XMLSchema#long",
		"http://www.w3.org/2001/XMLSchema#short", "http://www.w3.org/2001/XMLSchema#float",
		"http://www.w3.org/2001/XMLSchema#nonNegativeInteger":
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func extractNumeric(args []Expr, i int, binding Binding) (float64, rdf.Term, error) {
	term, err := evalArg(args, i, binding)
	if err != nil {
		return 0, nil, err
	}
	lit, ok := term.(*rdf.Literal)
	if !ok {
		return 0, nil, errf("expected numeric literal")
	}
	f, ok := literalNumeric(lit)
	if !ok {
		return 0, nil, errf("expected numeric literal, got %s", lit.Value)
	}
	return f, term, nil
}
