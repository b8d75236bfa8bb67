package resultsio

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/rdfquad/rdfquad/engine"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// SPARQL 1.1 Query Results XML Format.
// https://www.w3.org/TR/rdf-sparql-XMLres/

// FormatSelectResultsXML converts Solutions to SPARQL XML results.
func FormatSelectResultsXML(result *engine.Solutions) ([]byte, error) {
	varNames := SelectVariables(result)

	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\"?>\n<sparql xmlns=\"http://www.w3.org/2005/sparql-results#\">\n  <head>\n")
	for _, name := range varNames {
		sb.WriteString("    <variable name=\"" + xmlEscape(name) + "\"/>\n")
	}
	sb.WriteString("  </head>\n  <results>\n")
	for _, row := range result.Bindings {
		sb.WriteString("    <result>\n")
		for name, term := range row {
			sb.WriteString("      <binding name=\"" + xmlEscape(name) + "\">\n")
			sb.WriteString(termToXML(term, "        "))
			sb.WriteString("      </binding>\n")
		}
		sb.WriteString("    </result>\n")
	}
	sb.WriteString("  </results>\n</sparql>\n")
	return []byte(sb.String()), nil
}

// FormatAskResultXML converts a Boolean to SPARQL XML results.
func FormatAskResultXML(result *engine.Boolean) ([]byte, error) {
	boolStr := "false"
	if result.Value {
		boolStr = "true"
	}
	xml := "<?xml version=\"1.0\"?>\n<sparql xmlns=\"http://www.w3.org/2005/sparql-results#\">\n  <head/>\n  <boolean>" + boolStr + "</boolean>\n</sparql>\n"
	return []byte(xml), nil
}

func termToXML(term rdf.Term, indent string) string {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return indent + "<uri>" + xmlEscape(t.IRI) + "</uri>\n"
	case *rdf.BlankNode:
		return indent + "<bnode>" + xmlEscape(t.ID) + "</bnode>\n"
	case *rdf.Literal:
		switch {
		case t.Language != "":
			return indent + "<literal xml:lang=\"" + xmlEscape(t.Language) + "\">" + xmlEscape(t.Value) + "</literal>\n"
		case t.Datatype != nil:
			return indent + "<literal datatype=\"" + xmlEscape(t.Datatype.IRI) + "\">" + xmlEscape(t.Value) + "</literal>\n"
		default:
			return indent + "<literal>" + xmlEscape(t.Value) + "</literal>\n"
		}
	default:
		return indent + "<literal>" + xmlEscape(term.String()) + "</literal>\n"
	}
}

func xmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}

// xmlResultsDoc is the parse target for a SPARQL XML results document, used
// to load the W3C test suite's expected-results fixtures.
type xmlResultsDoc struct {
	Head    xmlHead    `xml:"head"`
	Results xmlResults `xml:"results"`
	Boolean *bool      `xml:"boolean"`
}

type xmlHead struct {
	Variables []xmlVariable `xml:"variable"`
}

type xmlVariable struct {
	Name string `xml:"name,attr"`
}

type xmlResults struct {
	Results []xmlResult `xml:"result"`
}

type xmlResult struct {
	Bindings []xmlBinding `xml:"binding"`
}

type xmlBinding struct {
	Name    string     `xml:"name,attr"`
	URI     *string    `xml:"uri"`
	Literal *xmlLiteral `xml:"literal"`
	BNode   *string    `xml:"bnode"`
}

type xmlLiteral struct {
	Value    string `xml:",chardata"`
	Lang     string `xml:"lang,attr,omitempty"`
	Datatype string `xml:"datatype,attr,omitempty"`
}

// ParseXMLResults parses a SPARQL XML results document into solution
// bindings, e.g. to load a W3C test suite's expected-results fixture.
func ParseXMLResults(r io.Reader) ([]map[string]rdf.Term, error) {
	var doc xmlResultsDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("resultsio: parse XML results: %w", err)
	}
	if doc.Boolean != nil {
		return nil, fmt.Errorf("resultsio: ASK result has no bindings to compare")
	}

	var bindings []map[string]rdf.Term
	for _, result := range doc.Results.Results {
		binding := make(map[string]rdf.Term, len(result.Bindings))
		for _, b := range result.Bindings {
			var term rdf.Term
			switch {
			case b.URI != nil:
				term = rdf.NewNamedNode(*b.URI)
			case b.BNode != nil:
				term = rdf.NewBlankNode(*b.BNode)
			case b.Literal != nil:
				switch {
				case b.Literal.Lang != "":
					term = rdf.NewLiteralWithLanguage(b.Literal.Value, b.Literal.Lang)
				case b.Literal.Datatype != "":
					term = rdf.NewLiteralWithDatatype(b.Literal.Value, rdf.NewNamedNode(b.Literal.Datatype))
				default:
					term = rdf.NewLiteral(b.Literal.Value)
				}
			default:
				return nil, fmt.Errorf("resultsio: binding %q has no value", b.Name)
			}
			binding[b.Name] = term
		}
		bindings = append(bindings, binding)
	}
	return bindings, nil
}
