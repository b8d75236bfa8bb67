// Package encoding defines the four columnar term encodings the engine
// shuttles between: PlainTerm, TypedValue, ObjectID, and Sortable. Each
// encoding is a concrete Arrow-backed array type plus a builder/decoder
// pair. The physical operators in internal/physicalplan pass row bindings
// between each other and do not use these arrays or Batch.
package encoding

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Encoding tags a column with which of the four term representations it
// currently holds. Columns change encoding as they flow through the plan
// (e.g. a predicate pushed down to storage arrives as ObjectID, gets
// decoded to PlainTerm for output, or projected to Sortable for ORDER BY).
type Encoding byte

const (
	// EncPlainTerm holds the full lexical representation of a term: an
	// RDF term kind tag, its lexical string, and (for literals) a
	// datatype IRI and language tag.
	EncPlainTerm Encoding = iota
	// EncTypedValue holds a decoded native value (numeric, boolean,
	// string, date/time) grouped by type family, for arithmetic/
	// comparison kernels that don't want to re-parse lexical forms.
	EncTypedValue
	// EncObjectID holds a fixed-width opaque identifier assigned by the
	// storage layer's id mapping; the cheapest encoding to scan, join,
	// and hash on, at the cost of needing a decode round trip to recover
	// the lexical form.
	EncObjectID
	// EncSortable holds a byte sequence with the property that an
	// unsigned lexical comparison of two Sortable values agrees with
	// SPARQL ORDER BY's term ordering; used only for sort/compare
	// kernels, never round-tripped back to a term.
	EncSortable
)

func (e Encoding) String() string {
	switch e {
	case EncPlainTerm:
		return "PlainTerm"
	case EncTypedValue:
		return "TypedValue"
	case EncObjectID:
		return "ObjectID"
	case EncSortable:
		return "Sortable"
	default:
		return fmt.Sprintf("Encoding(%d)", byte(e))
	}
}

// Allocator is the shared memory.Allocator every builder in this package
// draws from, mirroring how a single Arrow allocator is threaded through
// a query's operator tree.
var Allocator memory.Allocator = memory.NewGoAllocator()

// Field names one column of a Batch/Schema.
type Field struct {
	Name     string
	Encoding Encoding
}

// Schema is the ordered column layout of a Batch: one column per SPARQL
// variable (plus internal bookkeeping columns the planner introduces),
// each carrying the encoding it currently wears.
type Schema struct {
	Fields []Field
}

// IndexOf returns the position of name in the schema, or -1.
func (s *Schema) IndexOf(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// ArrowSchema projects the encoding-tagged schema down to a plain Arrow
// schema, for the rare case a column needs to cross into generic Arrow
// machinery (e.g. being written out as a record to an external sink).
func (s *Schema) ArrowSchema() *arrow.Schema {
	fields := make([]arrow.Field, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = arrow.Field{Name: f.Name, Type: arrowTypeFor(f.Encoding), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowTypeFor(e Encoding) arrow.DataType {
	switch e {
	case EncObjectID:
		return &arrow.FixedSizeBinaryType{ByteWidth: ObjectIDWidth}
	case EncSortable:
		return arrow.BinaryTypes.Binary
	default:
		// PlainTerm and TypedValue are themselves multi-column families;
		// when forced into a single Arrow column (e.g. for a debug dump)
		// we fall back to the term's string form.
		return arrow.BinaryTypes.String
	}
}

// Column is a decoded, randomly-indexable view over one Batch column,
// regardless of which Encoding backs it.
type Column interface {
	Encoding() Encoding
	Len() int
	IsNull(i int) bool
	Release()
}

// Batch is a named tuple of equal-length columns, each tagged with its
// Encoding; the row-based physical operators do not produce or consume it.
// It mirrors an Arrow arrow.Record but carries the extra per-column
// encoding tag a generic Arrow schema has no room for.
type Batch struct {
	Schema  *Schema
	Columns []Column
	NumRows int
}

// NewBatch assembles a Batch, validating that every column's length
// matches NumRows.
func NewBatch(schema *Schema, columns []Column, numRows int) (*Batch, error) {
	if len(schema.Fields) != len(columns) {
		return nil, fmt.Errorf("encoding: schema has %d fields but %d columns given", len(schema.Fields), len(columns))
	}
	for i, c := range columns {
		if c.Len() != numRows {
			return nil, fmt.Errorf("encoding: column %q has length %d, expected %d", schema.Fields[i].Name, c.Len(), numRows)
		}
	}
	return &Batch{Schema: schema, Columns: columns, NumRows: numRows}, nil
}

// Column looks up a column by variable name.
func (b *Batch) Column(name string) (Column, bool) {
	i := b.Schema.IndexOf(name)
	if i < 0 {
		return nil, false
	}
	return b.Columns[i], true
}

// Release returns every column's underlying Arrow buffers to the
// allocator. Callers must call Release exactly once per Batch they own.
func (b *Batch) Release() {
	for _, c := range b.Columns {
		c.Release()
	}
}
