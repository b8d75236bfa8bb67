package encoding

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// SortableArray holds, per row, a byte string whose unsigned lexical
// ordering agrees with SPARQL's ORDER BY term ordering (blank nodes <
// IRIs < RDF literals grouped by datatype, ties broken lexically). It is
// used only by sort/compare kernels; a Sortable value is never decoded
// back into a term.
type SortableArray struct {
	arr *array.Binary
}

func (a *SortableArray) Encoding() Encoding { return EncSortable }
func (a *SortableArray) Len() int           { return a.arr.Len() }
func (a *SortableArray) IsNull(i int) bool  { return a.arr.IsNull(i) }
func (a *SortableArray) Release()           { a.arr.Release() }

// Compare orders rows i (of a) and j (of other) per the sort key bytes.
func (a *SortableArray) Compare(i int, other *SortableArray, j int) int {
	return bytes.Compare(a.arr.Value(i), other.arr.Value(j))
}

// sort key group tags, ordered per SPARQL ORDER BY's term ordering:
// unbound < blank nodes < IRIs < literals (numeric < string < other,
// with language-tagged strings interleaved with plain strings).
const (
	groupBlank byte = iota + 1
	groupIRI
	groupNumeric
	groupBoolean
	groupDateTime
	groupString
	groupOther
)

// SortKey computes the Sortable byte string for a term.
func SortKey(term rdf.Term) []byte {
	switch t := term.(type) {
	case *rdf.BlankNode:
		return append([]byte{groupBlank}, []byte(t.ID)...)
	case *rdf.NamedNode:
		return append([]byte{groupIRI}, []byte(t.IRI)...)
	case *rdf.Literal:
		return literalSortKey(t)
	default:
		return append([]byte{groupOther}, []byte(term.String())...)
	}
}

func literalSortKey(lit *rdf.Literal) []byte {
	if lit.Datatype != nil {
		switch lit.Datatype.IRI {
		case rdf.XSDInteger.IRI, rdf.XSDDecimal.IRI, rdf.XSDDouble.IRI:
			if f, err := parseFloatLenient(lit.Value); err == nil {
				return numericSortKey(f)
			}
		case rdf.XSDBoolean.IRI:
			b := byte(0)
			if lit.Value == "true" || lit.Value == "1" {
				b = 1
			}
			return []byte{groupBoolean, b}
		case rdf.XSDDateTime.IRI, rdf.XSDDate.IRI, rdf.XSDTime.IRI:
			return append([]byte{groupDateTime}, []byte(lit.Value)...)
		}
	}
	key := append([]byte{groupString}, []byte(lit.Value)...)
	if lit.Language != "" {
		key = append(key, 0)
		key = append(key, []byte(lit.Language)...)
	}
	return key
}

// numericSortKey produces a byte sequence whose unsigned ordering agrees
// with float64 ordering, including across the sign boundary: flip all
// bits for negative values, set only the sign bit for non-negative ones,
// the standard trick for making IEEE-754 floats unsigned-comparable.
func numericSortKey(f float64) []byte {
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		bits = ^bits
	} else {
		bits |= 1 << 63
	}
	buf := make([]byte, 9)
	buf[0] = groupNumeric
	binary.BigEndian.PutUint64(buf[1:], bits)
	return buf
}

func parseFloatLenient(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// SortableBuilder accumulates sort keys into a SortableArray.
type SortableBuilder struct {
	b *array.BinaryBuilder
}

func NewSortableBuilder() *SortableBuilder {
	return &SortableBuilder{b: array.NewBinaryBuilder(Allocator, arrow.BinaryTypes.Binary)}
}

func (b *SortableBuilder) AppendTerm(term rdf.Term) { b.b.Append(SortKey(term)) }
func (b *SortableBuilder) AppendNull()              { b.b.AppendNull() }
func (b *SortableBuilder) Len() int                 { return b.b.Len() }
func (b *SortableBuilder) NewArray() *SortableArray { return &SortableArray{arr: b.b.NewBinaryArray()} }
func (b *SortableBuilder) Release()                 { b.b.Release() }
