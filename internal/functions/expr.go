// Package functions implements SPARQL's scalar expression evaluator: the
// operator/comparison/arithmetic semantics of §4.2 and the closed set of
// builtin functions of §6.4, each kernel dispatching on the term's
// decoded value the way the teacher's evaluator does, but generalized to
// the full promotion ladder and builtin closed set SPEC_FULL.md adds.
package functions

import (
	"fmt"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// Binding maps variable names to their currently-bound term. A variable
// absent from the map is unbound (not an error; BOUND() observes this).
type Binding map[string]rdf.Term

// Clone returns a shallow copy, used when a physical operator needs to
// extend a binding without mutating the one a sibling branch still
// holds a reference to.
func (b Binding) Clone() Binding {
	out := make(Binding, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Expr is the scalar expression AST the logical plan's Filter/Extend/
// OrderBy nodes carry. It is deliberately small: everything heavier
// (parsing SPARQL surface syntax into this tree) belongs to the external
// parser the engine consumes, not to this package.
type Expr interface{ isExpr() }

// TermExpr is a constant RDF term literal.
type TermExpr struct{ Term rdf.Term }

// VarExpr references a variable's current binding.
type VarExpr struct{ Name string }

// CallExpr invokes a builtin or operator by name with positional args.
// Binary/unary operators (§4.2) and builtin functions (§6.4) share this
// node; Name is upper-cased before dispatch so "Bound"/"BOUND" parse the
// same way the teacher's case-insensitive function names do.
type CallExpr struct {
	Name string
	Args []Expr
}

// AggregateExpr names a SPARQL aggregate (COUNT/SUM/AVG/MIN/MAX/
// GROUP_CONCAT/SAMPLE) applied over a group; evaluated by the GROUP BY
// physical operator, never by Eval directly.
type AggregateExpr struct {
	Name     string
	Arg      Expr // nil for COUNT(*)
	Distinct bool
}

func (TermExpr) isExpr()      {}
func (VarExpr) isExpr()       {}
func (CallExpr) isExpr()      {}
func (AggregateExpr) isExpr() {}

// thinError is returned by kernels for SPARQL's "type error" outcome: a
// per-row null slot in batch evaluation, not a Go control-flow error.
// Eval propagates it unchanged so callers (filter, BIND, EBV) can tell
// "errored" apart from "returned a concrete boolean/term".
type thinError struct{ msg string }

func (e *thinError) Error() string { return e.msg }

// IsThinError reports whether err is a SPARQL expression error (as
// opposed to a storage/plan/cancellation error, which propagates as a
// genuine Go error up through the whole query).
func IsThinError(err error) bool {
	_, ok := err.(*thinError)
	return ok
}

func errf(format string, args ...any) error {
	return &thinError{msg: fmt.Sprintf(format, args...)}
}
