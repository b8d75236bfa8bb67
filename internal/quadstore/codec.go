// Package quadstore implements the 9-index quad store on top of the
// storage.Storage contract: it encodes rdf.Quad terms to ObjectIDs,
// writes one entry per applicable index permutation, and answers
// pattern scans by picking whichever index lets the bound positions
// become a single key prefix. Grounded on the teacher's
// internal/store (write path) and pkg/store/query.go (index selection).
package quadstore

import (
	"encoding/binary"
	"fmt"

	"github.com/rdfquad/rdfquad/pkg/encoding"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// encodeTermRecord serializes everything needed to reconstruct a term
// from its id2str entry: the lexical value plus, for literals, the
// language tag and datatype IRI (each length-prefixed so decoding never
// has to guess a delimiter that might appear in the value itself).
func encodeTermRecord(term rdf.Term) []byte {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return appendField(nil, t.IRI)
	case *rdf.BlankNode:
		return appendField(nil, t.ID)
	case *rdf.Literal:
		buf := appendField(nil, t.Value)
		buf = appendField(buf, t.Language)
		dt := ""
		if t.Datatype != nil {
			dt = t.Datatype.IRI
		}
		buf = appendField(buf, dt)
		return buf
	default:
		return appendField(nil, term.String())
	}
}

func appendField(buf []byte, s string) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, s...)
	return buf
}

func readField(buf []byte) (string, []byte, error) {
	if len(buf) < 4 {
		return "", nil, fmt.Errorf("quadstore: truncated field header")
	}
	n := binary.BigEndian.Uint32(buf[:4])
	buf = buf[4:]
	if uint32(len(buf)) < n {
		return "", nil, fmt.Errorf("quadstore: truncated field body")
	}
	return string(buf[:n]), buf[n:], nil
}

// decodeTermRecord reconstructs a term given its ObjectID's kind tag and
// its id2str record.
func decodeTermRecord(kind rdf.TermType, record []byte) (rdf.Term, error) {
	switch kind {
	case rdf.TermTypeDefaultGraph:
		return rdf.NewDefaultGraph(), nil
	case rdf.TermTypeNamedNode:
		iri, _, err := readField(record)
		if err != nil {
			return nil, err
		}
		return rdf.NewNamedNode(iri), nil
	case rdf.TermTypeBlankNode:
		id, _, err := readField(record)
		if err != nil {
			return nil, err
		}
		return rdf.NewBlankNode(id), nil
	default:
		value, rest, err := readField(record)
		if err != nil {
			return nil, err
		}
		lang, rest, err := readField(rest)
		if err != nil {
			return nil, err
		}
		dt, _, err := readField(rest)
		if err != nil {
			return nil, err
		}
		if lang != "" {
			return rdf.NewLiteralWithLanguage(value, lang), nil
		}
		if dt != "" {
			return rdf.NewLiteralWithDatatype(value, rdf.NewNamedNode(dt)), nil
		}
		return rdf.NewLiteral(value), nil
	}
}

// encodeQuadKey concatenates ObjectIDs in index order into one scan key.
func encodeQuadKey(ids ...encoding.ObjectID) []byte {
	out := make([]byte, 0, len(ids)*encoding.ObjectIDWidth)
	for _, id := range ids {
		out = append(out, id[:]...)
	}
	return out
}
