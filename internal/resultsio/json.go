// Package resultsio serializes and parses SPARQL query results (SELECT
// bindings, ASK booleans, CONSTRUCT graphs) in the formats the SPARQL 1.1
// Protocol and the W3C test suite expect, grounded on the teacher's
// pkg/server/results package but rewritten to operate on engine.Solutions/
// engine.Boolean/engine.Graph instead of its own executor-specific result
// types, so both the HTTP endpoint and the conformance test runner share
// one serializer.
package resultsio

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/sjson"

	"github.com/rdfquad/rdfquad/engine"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// SPARQL 1.1 Query Results JSON Format.
// https://www.w3.org/TR/sparql11-results-json/
//
// Solutions don't have a fixed shape (the variable list and the set of
// bound names per row both vary per query), so the document is built
// incrementally with sjson path-sets rather than marshaled from a
// fixed struct.

type jsonValue struct {
	Type     string  `json:"type"`
	Value    string  `json:"value"`
	Datatype *string `json:"datatype,omitempty"`
	XMLLang  *string `json:"xml:lang,omitempty"`
}

// FormatSelectResultsJSON converts Solutions to SPARQL 1.1 JSON results.
func FormatSelectResultsJSON(result *engine.Solutions) ([]byte, error) {
	varNames := SelectVariables(result)

	doc := []byte(`{"head":{"vars":[]},"results":{"bindings":[]}}`)
	var err error
	for _, name := range varNames {
		if doc, err = sjson.SetBytes(doc, "head.vars.-1", name); err != nil {
			return nil, err
		}
	}

	for _, row := range result.Bindings {
		binding := []byte(`{}`)
		for name, term := range row {
			v := termToJSONValue(term)
			if binding, err = sjson.SetBytes(binding, name+".type", v.Type); err != nil {
				return nil, err
			}
			if binding, err = sjson.SetBytes(binding, name+".value", v.Value); err != nil {
				return nil, err
			}
			if v.Datatype != nil {
				if binding, err = sjson.SetBytes(binding, name+".datatype", *v.Datatype); err != nil {
					return nil, err
				}
			}
			if v.XMLLang != nil {
				if binding, err = sjson.SetBytes(binding, name+".xml:lang", *v.XMLLang); err != nil {
					return nil, err
				}
			}
		}
		if doc, err = sjson.SetRawBytes(doc, "results.bindings.-1", binding); err != nil {
			return nil, err
		}
	}

	return indentJSON(doc)
}

// FormatAskResultJSON converts a Boolean to SPARQL 1.1 JSON results.
func FormatAskResultJSON(result *engine.Boolean) ([]byte, error) {
	doc := []byte(`{"head":{"vars":[]}}`)
	doc, err := sjson.SetBytes(doc, "boolean", result.Value)
	if err != nil {
		return nil, err
	}
	return indentJSON(doc)
}

func indentJSON(doc []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SelectVariables returns result.Variables, falling back to the union of
// every binding's keys (in first-seen order) when the plan didn't name a
// projection (e.g. a hand-built test plan with no Project node).
func SelectVariables(result *engine.Solutions) []string {
	if result.Variables != nil {
		return result.Variables
	}
	seen := make(map[string]bool)
	var names []string
	for _, row := range result.Bindings {
		for name := range row {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

func termToJSONValue(term rdf.Term) jsonValue {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return jsonValue{Type: "uri", Value: t.IRI}
	case *rdf.BlankNode:
		return jsonValue{Type: "bnode", Value: t.ID}
	case *rdf.Literal:
		v := jsonValue{Type: "literal", Value: t.Value}
		switch {
		case t.Language != "":
			v.XMLLang = &t.Language
		case t.Datatype != nil:
			iri := t.Datatype.IRI
			v.Datatype = &iri
		}
		return v
	default:
		return jsonValue{Type: "literal", Value: term.String()}
	}
}
