package functions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

func TestEvalArithmeticPromotion(t *testing.T) {
	result, err := Eval(CallExpr{Name: "+", Args: []Expr{
		TermExpr{rdf.NewIntegerLiteral(2)},
		TermExpr{rdf.NewIntegerLiteral(3)},
	}}, Binding{})
	require.NoError(t, err)
	lit := result.(*rdf.Literal)
	require.Equal(t, "5", lit.Value)
	require.Equal(t, rdf.XSDInteger.IRI, lit.Datatype.IRI)

	result, err = Eval(CallExpr{Name: "/", Args: []Expr{
		TermExpr{rdf.NewIntegerLiteral(7)},
		TermExpr{rdf.NewIntegerLiteral(2)},
	}}, Binding{})
	require.NoError(t, err)
	lit = result.(*rdf.Literal)
	require.Equal(t, rdf.XSDDouble.IRI, lit.Datatype.IRI)
}

func TestEvalDivideByZero(t *testing.T) {
	_, err := Eval(CallExpr{Name: "/", Args: []Expr{
		TermExpr{rdf.NewIntegerLiteral(1)},
		TermExpr{rdf.NewIntegerLiteral(0)},
	}}, Binding{})
	require.Error(t, err)
	require.True(t, IsThinError(err))
}

func TestBoundObservesBindingMap(t *testing.T) {
	b := Binding{"x": rdf.NewLiteral("hi")}

	result, err := EBV(CallExpr{Name: "BOUND", Args: []Expr{VarExpr{"x"}}}, b)
	require.NoError(t, err)
	require.True(t, result)

	result, err = EBV(CallExpr{Name: "BOUND", Args: []Expr{VarExpr{"y"}}}, b)
	require.NoError(t, err)
	require.False(t, result)
}

func TestAndShortCircuitsOnErrorTolerantFalse(t *testing.T) {
	// left side unbound (errors), right side false: AND must still
	// return false rather than propagating the left error, per SPARQL's
	// three-valued logic table.
	b := Binding{}
	result, err := Eval(CallExpr{Name: "AND", Args: []Expr{
		VarExpr{"missing"},
		TermExpr{rdf.NewBooleanLiteral(false)},
	}}, b)
	require.NoError(t, err)
	require.Equal(t, "false", result.(*rdf.Literal).Value)
}

func TestStrFunctions(t *testing.T) {
	b := Binding{}
	result, err := Eval(CallExpr{Name: "CONCAT", Args: []Expr{
		TermExpr{rdf.NewLiteral("foo")},
		TermExpr{rdf.NewLiteral("bar")},
	}}, b)
	require.NoError(t, err)
	require.Equal(t, "foobar", result.(*rdf.Literal).Value)

	result, err = Eval(CallExpr{Name: "SUBSTR", Args: []Expr{
		TermExpr{rdf.NewLiteral("hello")},
		TermExpr{rdf.NewIntegerLiteral(2)},
		TermExpr{rdf.NewIntegerLiteral(3)},
	}}, b)
	require.NoError(t, err)
	require.Equal(t, "ell", result.(*rdf.Literal).Value)
}

func TestRegexAndReplace(t *testing.T) {
	b := Binding{}
	result, err := Eval(CallExpr{Name: "REGEX", Args: []Expr{
		TermExpr{rdf.NewLiteral("Hello")},
		TermExpr{rdf.NewLiteral("^hello$")},
		TermExpr{rdf.NewLiteral("i")},
	}}, b)
	require.NoError(t, err)
	require.True(t, result.(*rdf.Literal).Value == "true")

	result, err = Eval(CallExpr{Name: "REPLACE", Args: []Expr{
		TermExpr{rdf.NewLiteral("abc123")},
		TermExpr{rdf.NewLiteral("[0-9]+")},
		TermExpr{rdf.NewLiteral("#")},
	}}, b)
	require.NoError(t, err)
	require.Equal(t, "abc#", result.(*rdf.Literal).Value)
}

func TestCastToInteger(t *testing.T) {
	result, err := Eval(CallExpr{Name: xsdNS + "integer", Args: []Expr{
		TermExpr{rdf.NewLiteral("42")},
	}}, Binding{})
	require.NoError(t, err)
	require.Equal(t, "42", result.(*rdf.Literal).Value)
	require.Equal(t, rdf.XSDInteger.IRI, result.(*rdf.Literal).Datatype.IRI)
}

func TestSameTermVsEqual(t *testing.T) {
	a := TermExpr{rdf.NewIntegerLiteral(1)}
	b := TermExpr{rdf.NewDoubleLiteral(1.0)}

	eq, err := Eval(CallExpr{Name: "=", Args: []Expr{a, b}}, Binding{})
	require.NoError(t, err)
	require.Equal(t, "true", eq.(*rdf.Literal).Value)

	same, err := Eval(CallExpr{Name: "sameTerm", Args: []Expr{a, b}}, Binding{})
	require.NoError(t, err)
	require.Equal(t, "false", same.(*rdf.Literal).Value)
}
