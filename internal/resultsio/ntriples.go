package resultsio

import (
	"strings"

	"github.com/rdfquad/rdfquad/engine"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// FormatConstructResultNTriples converts a CONSTRUCT/DESCRIBE Graph to
// N-Triples. https://www.w3.org/TR/n-triples/
func FormatConstructResultNTriples(result *engine.Graph) ([]byte, error) {
	var sb strings.Builder
	for _, triple := range result.Triples {
		sb.WriteString(formatNTriplesTerm(triple.Subject))
		sb.WriteString(" ")
		sb.WriteString(formatNTriplesTerm(triple.Predicate))
		sb.WriteString(" ")
		sb.WriteString(formatNTriplesTerm(triple.Object))
		sb.WriteString(" .\n")
	}
	return []byte(sb.String()), nil
}

func formatNTriplesTerm(term rdf.Term) string {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return "<" + t.IRI + ">"
	case *rdf.BlankNode:
		return "_:" + t.ID
	case *rdf.Literal:
		var b strings.Builder
		b.WriteString("\"")
		b.WriteString(escapeNTriplesString(t.Value))
		b.WriteString("\"")
		switch {
		case t.Language != "":
			b.WriteString("@" + t.Language)
		case t.Datatype != nil:
			b.WriteString("^^<" + t.Datatype.IRI + ">")
		}
		return b.String()
	default:
		return term.String()
	}
}

func escapeNTriplesString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
