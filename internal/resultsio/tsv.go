package resultsio

import (
	"strings"

	"github.com/rdfquad/rdfquad/engine"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// SPARQL 1.1 Query Results TSV Format.
// https://www.w3.org/TR/sparql11-results-csv-tsv/

// FormatSelectResultsTSV converts Solutions to SPARQL TSV results.
func FormatSelectResultsTSV(result *engine.Solutions) ([]byte, error) {
	var sb strings.Builder
	bnodes := blankNodeLabels(result, true)
	varNames := SelectVariables(result)

	for i, name := range varNames {
		if i > 0 {
			sb.WriteString("\t")
		}
		sb.WriteString("?" + name)
	}
	sb.WriteString("\n")

	for _, row := range result.Bindings {
		for i, name := range varNames {
			if i > 0 {
				sb.WriteString("\t")
			}
			if term, ok := row[name]; ok {
				sb.WriteString(termToTSVValue(term, bnodes))
			}
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

// FormatAskResultTSV converts a Boolean to SPARQL TSV results.
func FormatAskResultTSV(result *engine.Boolean) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("?result\n")
	if result.Value {
		sb.WriteString("true")
	} else {
		sb.WriteString("false")
	}
	sb.WriteString("\n")
	return []byte(sb.String()), nil
}

func termToTSVValue(term rdf.Term, bnodes map[string]string) string {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return "<" + t.IRI + ">"
	case *rdf.BlankNode:
		if label, ok := bnodes[t.ID]; ok {
			return "_:" + label
		}
		return "_:" + t.ID
	case *rdf.Literal:
		switch {
		case t.Language != "":
			return "\"" + escapeTSVString(t.Value) + "\"@" + t.Language
		case t.Datatype != nil:
			iri := t.Datatype.IRI
			if iri == rdf.XSDInteger.IRI || iri == rdf.XSDDecimal.IRI {
				return t.Value
			}
			if iri == rdf.XSDDouble.IRI {
				return formatDoubleTSV(t.Value)
			}
			return "\"" + escapeTSVString(t.Value) + "\"^^<" + iri + ">"
		default:
			return "\"" + escapeTSVString(t.Value) + "\""
		}
	default:
		return term.String()
	}
}

// formatDoubleTSV renders a double with lowercase e notation, per the
// SPARQL TSV format's examples.
func formatDoubleTSV(value string) string {
	value = strings.ReplaceAll(value, "E+", "e")
	value = strings.ReplaceAll(value, "E-", "e-")
	value = strings.ReplaceAll(value, "E", "e")

	if !strings.Contains(value, "e") {
		return value
	}
	parts := strings.SplitN(value, "e", 2)
	mantissa, exponent := parts[0], parts[1]
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	negative := strings.HasPrefix(exponent, "-")
	exponent = strings.TrimPrefix(exponent, "-")
	exponent = strings.TrimLeft(exponent, "0")
	if exponent == "" {
		exponent = "0"
	}
	if negative {
		exponent = "-" + exponent
	}
	return mantissa + "e" + exponent
}

func escapeTSVString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\t", "\\t")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
