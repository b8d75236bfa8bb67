package encoding

import (
	"fmt"
	"strconv"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// ValueFamily tags which of TypedValueArray's per-family columns holds a
// row's decoded value. Arrow's true dense-union array type models this
// more generally, but a tag column plus one array per family is the
// common, lighter-weight way engines express a handful of fixed
// alternatives, and keeps every kernel's dispatch a simple switch over a
// byte instead of union-type bookkeeping.
type ValueFamily uint8

const (
	FamilyNone ValueFamily = iota
	FamilyBoolean
	FamilyInteger
	FamilyDouble
	FamilyString
	FamilyDateTime
	FamilyOther // carries no native Go value; used for non-literal terms
)

// TypedValueArray holds, per row, a decoded native value grouped by type
// family: booleans, integers, doubles, strings, and timestamps each live
// in their own dense Arrow array, selected by the row's family tag. This
// is the encoding arithmetic/comparison/cast kernels operate on, so they
// never re-parse a literal's lexical form per call.
type TypedValueArray struct {
	tag     *array.Uint8
	boolV   *array.Boolean
	intV    *array.Int64
	dblV    *array.Float64
	strV    *array.String
	timeV   *array.Timestamp
	termCol *PlainTermArray // original term, for fallback/round-trip
}

func (a *TypedValueArray) Encoding() Encoding { return EncTypedValue }
func (a *TypedValueArray) Len() int           { return a.tag.Len() }
func (a *TypedValueArray) IsNull(i int) bool  { return a.tag.IsNull(i) }

func (a *TypedValueArray) Release() {
	a.tag.Release()
	a.boolV.Release()
	a.intV.Release()
	a.dblV.Release()
	a.strV.Release()
	a.timeV.Release()
	if a.termCol != nil {
		a.termCol.Release()
	}
}

// Family reports which value column row i's payload lives in.
func (a *TypedValueArray) Family(i int) ValueFamily { return ValueFamily(a.tag.Value(i)) }

func (a *TypedValueArray) Bool(i int) bool       { return a.boolV.Value(i) }
func (a *TypedValueArray) Int(i int) int64       { return a.intV.Value(i) }
func (a *TypedValueArray) Float(i int) float64   { return a.dblV.Value(i) }
func (a *TypedValueArray) Str(i int) string      { return a.strV.Value(i) }
func (a *TypedValueArray) Time(i int) time.Time {
	return a.timeV.Value(i).ToTime(arrow.Second)
}

// TypedValueBuilder accumulates decoded values into a TypedValueArray.
type TypedValueBuilder struct {
	tag   *array.Uint8Builder
	boolV *array.BooleanBuilder
	intV  *array.Int64Builder
	dblV  *array.Float64Builder
	strV  *array.StringBuilder
	timeV *array.TimestampBuilder
	terms *PlainTermBuilder
}

func NewTypedValueBuilder() *TypedValueBuilder {
	return &TypedValueBuilder{
		tag:   array.NewUint8Builder(Allocator),
		boolV: array.NewBooleanBuilder(Allocator),
		intV:  array.NewInt64Builder(Allocator),
		dblV:  array.NewFloat64Builder(Allocator),
		strV:  array.NewStringBuilder(Allocator),
		timeV: array.NewTimestampBuilder(Allocator, &arrow.TimestampType{Unit: arrow.Second}),
		terms: NewPlainTermBuilder(),
	}
}

// AppendTerm decodes a term's lexical form per its XSD datatype and
// appends it to the appropriate family column; every other family
// column gets a placeholder so all columns stay row-aligned.
func (b *TypedValueBuilder) AppendTerm(term rdf.Term) error {
	b.terms.AppendTerm(term)

	lit, ok := term.(*rdf.Literal)
	if !ok || lit.Datatype == nil {
		b.appendNonesWithString(lit)
		return nil
	}

	switch lit.Datatype.IRI {
	case rdf.XSDBoolean.IRI:
		v, err := strconv.ParseBool(lit.Value)
		if err != nil {
			return fmt.Errorf("encoding: invalid xsd:boolean %q: %w", lit.Value, err)
		}
		b.tag.Append(uint8(FamilyBoolean))
		b.boolV.Append(v)
		b.intV.AppendNull()
		b.dblV.AppendNull()
		b.strV.AppendNull()
		b.timeV.AppendNull()
	case rdf.XSDInteger.IRI:
		v, err := strconv.ParseInt(lit.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("encoding: invalid xsd:integer %q: %w", lit.Value, err)
		}
		b.tag.Append(uint8(FamilyInteger))
		b.intV.Append(v)
		b.boolV.AppendNull()
		b.dblV.AppendNull()
		b.strV.AppendNull()
		b.timeV.AppendNull()
	case rdf.XSDDouble.IRI, rdf.XSDDecimal.IRI:
		v, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return fmt.Errorf("encoding: invalid numeric literal %q: %w", lit.Value, err)
		}
		b.tag.Append(uint8(FamilyDouble))
		b.dblV.Append(v)
		b.boolV.AppendNull()
		b.intV.AppendNull()
		b.strV.AppendNull()
		b.timeV.AppendNull()
	case rdf.XSDDateTime.IRI, rdf.XSDDate.IRI, rdf.XSDTime.IRI:
		t, err := parseTemporal(lit.Value)
		if err != nil {
			return fmt.Errorf("encoding: invalid temporal literal %q: %w", lit.Value, err)
		}
		ts, err := arrow.TimestampFromTime(t, arrow.Second)
		if err != nil {
			return fmt.Errorf("encoding: invalid temporal literal %q: %w", lit.Value, err)
		}
		b.tag.Append(uint8(FamilyDateTime))
		b.timeV.Append(ts)
		b.boolV.AppendNull()
		b.intV.AppendNull()
		b.dblV.AppendNull()
		b.strV.AppendNull()
	default:
		b.appendNonesWithString(lit)
	}
	return nil
}

func (b *TypedValueBuilder) appendNonesWithString(lit *rdf.Literal) {
	if lit != nil {
		b.tag.Append(uint8(FamilyString))
		b.strV.Append(lit.Value)
	} else {
		b.tag.Append(uint8(FamilyOther))
		b.strV.AppendNull()
	}
	b.boolV.AppendNull()
	b.intV.AppendNull()
	b.dblV.AppendNull()
	b.timeV.AppendNull()
}

func (b *TypedValueBuilder) Len() int { return b.tag.Len() }

func (b *TypedValueBuilder) NewArray() *TypedValueArray {
	return &TypedValueArray{
		tag:     b.tag.NewUint8Array(),
		boolV:   b.boolV.NewBooleanArray(),
		intV:    b.intV.NewInt64Array(),
		dblV:    b.dblV.NewFloat64Array(),
		strV:    b.strV.NewStringArray(),
		timeV:   b.timeV.NewTimestampArray(),
		termCol: b.terms.NewArray(),
	}
}

func (b *TypedValueBuilder) Release() {
	b.tag.Release()
	b.boolV.Release()
	b.intV.Release()
	b.dblV.Release()
	b.strV.Release()
	b.timeV.Release()
	b.terms.Release()
}

func parseTemporal(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized temporal literal")
}
