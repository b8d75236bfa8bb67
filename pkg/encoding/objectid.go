package encoding

import (
	"encoding/binary"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/zeebo/xxh3"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// ObjectIDWidth is the fixed byte width of an ObjectID: one term-kind tag
// byte followed by a 128-bit xxh3 hash of the term's canonical lexical
// form. A fixed 128-bit hash keeps ids stable across store restarts
// without needing a persisted sequential counter.
const ObjectIDWidth = 17

// ObjectID is the opaque, fixed-width identifier the storage layer assigns
// to a term. Two terms that are RDF-equal always hash to the same
// ObjectID; collisions are astronomically unlikely at 128 bits and are not
// specially handled.
type ObjectID [ObjectIDWidth]byte

// DefaultGraphObjectID is the reserved, non-hashable id standing for the
// default graph. It is never produced by HashTerm and is never looked up
// in the id2str table.
var DefaultGraphObjectID = ObjectID{0: byte(rdf.TermTypeDefaultGraph)}

// Kind reports the term-kind tag embedded in the id's first byte, which is
// enough to answer IsIRI/IsLiteral/IsBlank-style kernels without a decode
// round trip to storage.
func (o ObjectID) Kind() rdf.TermType { return rdf.TermType(o[0]) }

// HashTerm computes the ObjectID for a term's canonical lexical form. The
// canonical form mirrors the teacher's encoder: IRIs hash their IRI,
// blank nodes hash their id, literals hash value+datatype/language so
// that distinctly-typed literals with the same lexical value never
// collide.
func HashTerm(kind rdf.TermType, canonical string) ObjectID {
	var id ObjectID
	id[0] = byte(kind)
	h := xxh3.Hash128([]byte(canonical))
	binary.BigEndian.PutUint64(id[1:9], h.Hi)
	binary.BigEndian.PutUint64(id[9:17], h.Lo)
	return id
}

// ObjectIDFromTerm computes the ObjectID for an rdf.Term, choosing the
// canonical string each term kind hashes on: IRIs hash their IRI text,
// blank nodes their local id, and literals the value combined with
// whatever distinguishes it (datatype IRI or language tag) so that
// "1"^^xsd:integer and "1"^^xsd:string never collide.
func ObjectIDFromTerm(term rdf.Term) ObjectID {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return HashTerm(rdf.TermTypeNamedNode, t.IRI)
	case *rdf.BlankNode:
		return HashTerm(rdf.TermTypeBlankNode, t.ID)
	case *rdf.DefaultGraph:
		return DefaultGraphObjectID
	case *rdf.Literal:
		switch {
		case t.Language != "":
			return HashTerm(rdf.TermTypeLiteral, t.Value+"@"+t.Language)
		case t.Datatype != nil:
			return HashTerm(rdf.TermTypeLiteral, t.Value+"^^"+t.Datatype.IRI)
		default:
			return HashTerm(rdf.TermTypeLiteral, t.Value)
		}
	default:
		return HashTerm(rdf.TermTypeQuotedTriple, term.String())
	}
}

// ObjectIDArray is a columnar, randomly-indexable vector of ObjectIDs,
// backed by an Arrow fixed-size-binary array.
type ObjectIDArray struct {
	arr *array.FixedSizeBinary
}

func (a *ObjectIDArray) Encoding() Encoding { return EncObjectID }
func (a *ObjectIDArray) Len() int           { return a.arr.Len() }
func (a *ObjectIDArray) IsNull(i int) bool  { return a.arr.IsNull(i) }
func (a *ObjectIDArray) Release()           { a.arr.Release() }

// Value returns the ObjectID at row i. Callers must check IsNull first.
func (a *ObjectIDArray) Value(i int) ObjectID {
	var id ObjectID
	copy(id[:], a.arr.Value(i))
	return id
}

// ObjectIDBuilder accumulates ObjectID values into a new ObjectIDArray.
type ObjectIDBuilder struct {
	b *array.FixedSizeBinaryBuilder
}

// NewObjectIDBuilder allocates a builder against the package allocator.
func NewObjectIDBuilder() *ObjectIDBuilder {
	dt := &arrow.FixedSizeBinaryType{ByteWidth: ObjectIDWidth}
	return &ObjectIDBuilder{b: array.NewFixedSizeBinaryBuilder(Allocator, dt)}
}

func (b *ObjectIDBuilder) Append(id ObjectID)  { b.b.Append(id[:]) }
func (b *ObjectIDBuilder) AppendNull()         { b.b.AppendNull() }
func (b *ObjectIDBuilder) Len() int            { return b.b.Len() }

// NewArray finalizes the builder into an ObjectIDArray, resetting the
// builder for reuse.
func (b *ObjectIDBuilder) NewArray() *ObjectIDArray {
	return &ObjectIDArray{arr: b.b.NewFixedSizeBinaryArray()}
}

func (b *ObjectIDBuilder) Release() { b.b.Release() }
