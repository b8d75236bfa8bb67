package functions

import (
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// builtins holds the closed set of SPARQL 1.1 builtin functions (§6.4),
// keyed by upper-cased name. Split by concern across this file (term
// testing/accessors) and builtins_string.go/builtins_numeric.go/
// builtins_hash.go/builtins_datetime.go.
var builtins = map[string]kernel{
	"BOUND":      evalBound,
	"ISIRI":      evalIsIRI,
	"ISURI":      evalIsIRI,
	"ISBLANK":    evalIsBlank,
	"ISLITERAL":  evalIsLiteral,
	"ISNUMERIC":  evalIsNumeric,
	"STR":        evalStr,
	"LANG":       evalLang,
	"DATATYPE":   evalDatatype,
	"SAMETERM":   evalSameTerm,
	"IF":         evalIf,
	"COALESCE":   evalCoalesce,
	"LANGMATCHES": evalLangMatches,
}

// evalBound does not evaluate its argument: it must be a bare variable
// reference, and BOUND observes the binding map directly, the way the
// teacher's evaluateBound special-cases VariableExpression.
func evalBound(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 1 {
		return nil, argErr("BOUND", 1, len(args))
	}
	v, ok := args[0].(VarExpr)
	if !ok {
		return nil, errf("BOUND requires a variable argument")
	}
	_, bound := binding[v.Name]
	return rdf.NewBooleanLiteral(bound), nil
}

func evalIsIRI(args []Expr, binding Binding) (rdf.Term, error) {
	term, err := arg1(args, binding, "isIRI")
	if err != nil {
		return nil, err
	}
	_, ok := term.(*rdf.NamedNode)
	return rdf.NewBooleanLiteral(ok), nil
}

func evalIsBlank(args []Expr, binding Binding) (rdf.Term, error) {
	term, err := arg1(args, binding, "isBlank")
	if err != nil {
		return nil, err
	}
	_, ok := term.(*rdf.BlankNode)
	return rdf.NewBooleanLiteral(ok), nil
}

func evalIsLiteral(args []Expr, binding Binding) (rdf.Term, error) {
	term, err := arg1(args, binding, "isLiteral")
	if err != nil {
		return nil, err
	}
	_, ok := term.(*rdf.Literal)
	return rdf.NewBooleanLiteral(ok), nil
}

func evalIsNumeric(args []Expr, binding Binding) (rdf.Term, error) {
	term, err := arg1(args, binding, "isNumeric")
	if err != nil {
		return nil, err
	}
	lit, ok := term.(*rdf.Literal)
	if !ok {
		return rdf.NewBooleanLiteral(false), nil
	}
	_, numeric := literalNumeric(lit)
	return rdf.NewBooleanLiteral(numeric), nil
}

func evalStr(args []Expr, binding Binding) (rdf.Term, error) {
	term, err := arg1(args, binding, "STR")
	if err != nil {
		return nil, err
	}
	switch t := term.(type) {
	case *rdf.NamedNode:
		return rdf.NewLiteral(t.IRI), nil
	case *rdf.Literal:
		return rdf.NewLiteral(t.Value), nil
	case *rdf.BlankNode:
		return nil, errf("STR cannot be applied to blank nodes")
	default:
		return nil, errf("STR: unsupported term type")
	}
}

func evalLang(args []Expr, binding Binding) (rdf.Term, error) {
	term, err := arg1(args, binding, "LANG")
	if err != nil {
		return nil, err
	}
	lit, ok := term.(*rdf.Literal)
	if !ok {
		return rdf.NewLiteral(""), nil
	}
	return rdf.NewLiteral(lit.Language), nil
}

func evalDatatype(args []Expr, binding Binding) (rdf.Term, error) {
	term, err := arg1(args, binding, "DATATYPE")
	if err != nil {
		return nil, err
	}
	lit, ok := term.(*rdf.Literal)
	if !ok {
		return nil, errf("DATATYPE can only be applied to literals")
	}
	if lit.Datatype != nil {
		return lit.Datatype, nil
	}
	if lit.Language != "" {
		return rdf.NewNamedNode("http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"), nil
	}
	return rdf.XSDString, nil
}

// evalSameTerm implements sameTerm(), which unlike "=" never treats two
// differently-typed literals with equal numeric value as equal: it is
// strict RDF term identity.
func evalSameTerm(args []Expr, binding Binding) (rdf.Term, error) {
	a, b, err := evalPair(args, binding)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(a.Equals(b)), nil
}

// evalIf implements the IF(cond, then, else) functional form: only the
// taken branch is evaluated.
func evalIf(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 3 {
		return nil, argErr("IF", 3, len(args))
	}
	cond, err := EBV(args[0], binding)
	if err != nil {
		return nil, err
	}
	if cond {
		return Eval(args[1], binding)
	}
	return Eval(args[2], binding)
}

// evalCoalesce returns the first argument that evaluates without error.
func evalCoalesce(args []Expr, binding Binding) (rdf.Term, error) {
	for _, a := range args {
		term, err := Eval(a, binding)
		if err == nil {
			return term, nil
		}
	}
	return nil, errf("COALESCE: all arguments errored or unbound")
}

func evalLangMatches(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) != 2 {
		return nil, argErr("LANGMATCHES", 2, len(args))
	}
	langTerm, err := evalArg(args, 0, binding)
	if err != nil {
		return nil, err
	}
	rangeTerm, err := evalArg(args, 1, binding)
	if err != nil {
		return nil, err
	}
	lang, err := extractString(langTerm)
	if err != nil {
		return nil, err
	}
	rng, err := extractString(rangeTerm)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(langMatches(lang, rng)), nil
}

// langMatches implements RFC 4647 basic filtering: "*" matches any
// non-empty tag, otherwise a range matches a tag if it is a
// case-insensitive prefix ending at a "-" boundary.
func langMatches(tag, rng string) bool {
	if rng == "*" {
		return tag != ""
	}
	if len(tag) < len(rng) {
		return false
	}
	tagLower, rngLower := toLowerASCII(tag), toLowerASCII(rng)
	if tagLower == rngLower {
		return true
	}
	return len(tag) > len(rng) && tagLower[:len(rng)] == rngLower && tag[len(rng)] == '-'
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func arg1(args []Expr, binding Binding, name string) (rdf.Term, error) {
	if len(args) != 1 {
		return nil, argErr(name, 1, len(args))
	}
	return Eval(args[0], binding)
}

func extractString(term rdf.Term) (string, error) {
	switch t := term.(type) {
	case *rdf.Literal:
		return t.Value, nil
	case *rdf.NamedNode:
		return t.IRI, nil
	default:
		return "", errf("expected a string-valued term")
	}
}
