package encoding

import (
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// PlainTermArray is a struct-of-arrays columnar view carrying the full
// lexical representation of a term per row: its kind, lexical string,
// and (for literals) datatype IRI / language tag. This is the encoding
// every operator decodes to before handing a term back to a caller.
type PlainTermArray struct {
	kind     *array.Uint8
	lexical  *array.String
	datatype *array.String // empty string / null for non-literals
	language *array.String // empty string / null when untagged
}

func (a *PlainTermArray) Encoding() Encoding { return EncPlainTerm }
func (a *PlainTermArray) Len() int           { return a.kind.Len() }
func (a *PlainTermArray) IsNull(i int) bool  { return a.kind.IsNull(i) }

func (a *PlainTermArray) Release() {
	a.kind.Release()
	a.lexical.Release()
	a.datatype.Release()
	a.language.Release()
}

// Term decodes row i back into an rdf.Term. Callers must check IsNull
// first.
func (a *PlainTermArray) Term(i int) (rdf.Term, error) {
	kind := rdf.TermType(a.kind.Value(i))
	lex := a.lexical.Value(i)

	switch kind {
	case rdf.TermTypeNamedNode:
		return rdf.NewNamedNode(lex), nil
	case rdf.TermTypeBlankNode:
		return rdf.NewBlankNode(lex), nil
	case rdf.TermTypeDefaultGraph:
		return rdf.NewDefaultGraph(), nil
	default:
		// Literal family.
		var lang, dt string
		if !a.language.IsNull(i) {
			lang = a.language.Value(i)
		}
		if !a.datatype.IsNull(i) {
			dt = a.datatype.Value(i)
		}
		if lang != "" {
			return rdf.NewLiteralWithLanguage(lex, lang), nil
		}
		if dt != "" {
			return rdf.NewLiteralWithDatatype(lex, rdf.NewNamedNode(dt)), nil
		}
		return rdf.NewLiteral(lex), nil
	}
}

// PlainTermBuilder accumulates rows into a PlainTermArray.
type PlainTermBuilder struct {
	kind     *array.Uint8Builder
	lexical  *array.StringBuilder
	datatype *array.StringBuilder
	language *array.StringBuilder
}

func NewPlainTermBuilder() *PlainTermBuilder {
	return &PlainTermBuilder{
		kind:     array.NewUint8Builder(Allocator),
		lexical:  array.NewStringBuilder(Allocator),
		datatype: array.NewStringBuilder(Allocator),
		language: array.NewStringBuilder(Allocator),
	}
}

// AppendTerm decomposes an rdf.Term into its PlainTerm columns.
func (b *PlainTermBuilder) AppendTerm(term rdf.Term) {
	switch t := term.(type) {
	case *rdf.NamedNode:
		b.kind.Append(uint8(rdf.TermTypeNamedNode))
		b.lexical.Append(t.IRI)
		b.datatype.AppendNull()
		b.language.AppendNull()
	case *rdf.BlankNode:
		b.kind.Append(uint8(rdf.TermTypeBlankNode))
		b.lexical.Append(t.ID)
		b.datatype.AppendNull()
		b.language.AppendNull()
	case *rdf.DefaultGraph:
		b.kind.Append(uint8(rdf.TermTypeDefaultGraph))
		b.lexical.Append("")
		b.datatype.AppendNull()
		b.language.AppendNull()
	case *rdf.Literal:
		b.kind.Append(uint8(rdf.TermTypeLiteral))
		b.lexical.Append(t.Value)
		if t.Language != "" {
			b.language.Append(t.Language)
		} else {
			b.language.AppendNull()
		}
		if t.Datatype != nil {
			b.datatype.Append(t.Datatype.IRI)
		} else {
			b.datatype.AppendNull()
		}
	default:
		// Quoted triples and other RDF 1.2 constructs are out of scope
		// for the columnar term encoding; store their string form as an
		// opaque literal so joins/filters still treat them consistently.
		b.kind.Append(uint8(rdf.TermTypeLiteral))
		b.lexical.Append(term.String())
		b.datatype.AppendNull()
		b.language.AppendNull()
	}
}

func (b *PlainTermBuilder) AppendNull() {
	b.kind.AppendNull()
	b.lexical.AppendNull()
	b.datatype.AppendNull()
	b.language.AppendNull()
}

func (b *PlainTermBuilder) Len() int { return b.kind.Len() }

func (b *PlainTermBuilder) NewArray() *PlainTermArray {
	return &PlainTermArray{
		kind:     b.kind.NewUint8Array(),
		lexical:  b.lexical.NewStringArray(),
		datatype: b.datatype.NewStringArray(),
		language: b.language.NewStringArray(),
	}
}

func (b *PlainTermBuilder) Release() {
	b.kind.Release()
	b.lexical.Release()
	b.datatype.Release()
	b.language.Release()
}
