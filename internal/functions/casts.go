package functions

import (
	"strconv"
	"strings"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

const xsdNS = "http://www.w3.org/2001/XMLSchema#"

// evalCast implements SPARQL's constructor-style type casts, where the
// function name itself is the target datatype IRI (e.g.
// xsd:integer("42")), following the teacher's default branch in
// evaluateFunctionCall that treats any XMLSchema#-prefixed call name as
// evaluateTypeCast.
func evalCast(funcIRI string, args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 1 {
		return nil, argErr(funcIRI, 1, len(args))
	}
	term, err := Eval(args[0], binding)
	if err != nil {
		return nil, err
	}
	lit, ok := term.(*rdf.Literal)
	if !ok {
		return nil, errf("cast %s: argument must be a literal", funcIRI)
	}

	target := strings.TrimPrefix(funcIRI, xsdNS)
	switch target {
	case "string":
		return rdf.NewLiteral(lit.Value), nil
	case "integer", "int", "long", "short":
		n, err := castToInteger(lit)
		if err != nil {
			return nil, err
		}
		return rdf.NewIntegerLiteral(n), nil
	case "double", "float":
		f, err := castToDouble(lit)
		if err != nil {
			return nil, err
		}
		return rdf.NewDoubleLiteral(f), nil
	case "decimal":
		f, err := castToDouble(lit)
		if err != nil {
			return nil, err
		}
		return rdf.NewDecimalLiteral(f), nil
	case "boolean":
		b, err := castToBoolean(lit)
		if err != nil {
			return nil, err
		}
		return rdf.NewBooleanLiteral(b), nil
	case "dateTime":
		if datatypeIRI(lit) == xsdNS+"dateTime" {
			return lit, nil
		}
		return nil, errf("cast %s: unsupported source value %q", funcIRI, lit.Value)
	default:
		return nil, errf("unsupported cast target %s", funcIRI)
	}
}

func castToInteger(lit *rdf.Literal) (int64, error) {
	switch datatypeIRI(lit) {
	case xsdNS + "integer", xsdNS + "int", xsdNS + "long", xsdNS + "short":
		n, err := strconv.ParseInt(lit.Value, 10, 64)
		if err != nil {
			return 0, errf("cannot cast %q to xsd:integer", lit.Value)
		}
		return n, nil
	case xsdNS + "double", xsdNS + "decimal", xsdNS + "float":
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return 0, errf("cannot cast %q to xsd:integer", lit.Value)
		}
		return int64(f), nil
	case xsdNS + "boolean":
		if lit.Value == "true" || lit.Value == "1" {
			return 1, nil
		}
		return 0, nil
	default:
		n, err := strconv.ParseInt(strings.TrimSpace(lit.Value), 10, 64)
		if err != nil {
			return 0, errf("cannot cast %q to xsd:integer", lit.Value)
		}
		return n, nil
	}
}

func castToDouble(lit *rdf.Literal) (float64, error) {
	if f, ok := literalNumeric(lit); ok {
		return f, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(lit.Value), 64)
	if err != nil {
		return 0, errf("cannot cast %q to a numeric type", lit.Value)
	}
	return f, nil
}

func castToBoolean(lit *rdf.Literal) (bool, error) {
	switch datatypeIRI(lit) {
	case xsdNS + "boolean":
		return lit.Value == "true" || lit.Value == "1", nil
	default:
		ebv, err := effectiveBooleanValue(lit)
		if err != nil {
			return false, errf("cast to xsd:boolean: %v", err)
		}
		return ebv, nil
	}
}
