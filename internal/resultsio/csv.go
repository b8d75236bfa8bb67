package resultsio

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/rdfquad/rdfquad/engine"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// SPARQL 1.1 Query Results CSV Format.
// https://www.w3.org/TR/sparql11-results-csv-tsv/

// FormatSelectResultsCSV converts Solutions to SPARQL CSV results.
func FormatSelectResultsCSV(result *engine.Solutions) ([]byte, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	bnodes := blankNodeLabels(result, false)
	varNames := SelectVariables(result)
	if result.Variables == nil {
		sort.Strings(varNames)
	}

	if err := w.Write(varNames); err != nil {
		return nil, err
	}
	for _, row := range result.Bindings {
		record := make([]string, len(varNames))
		for i, name := range varNames {
			if term, ok := row[name]; ok {
				record[i] = termToCSVValue(term, bnodes)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// FormatAskResultCSV converts a Boolean to SPARQL CSV results.
func FormatAskResultCSV(result *engine.Boolean) ([]byte, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"result"}); err != nil {
		return nil, err
	}
	value := "false"
	if result.Value {
		value = "true"
	}
	if err := w.Write([]string{value}); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// blankNodeLabels assigns canonical per-result labels to blank node ids in
// order of first appearance, as the CSV/TSV formats require since a store's
// internal blank node ids aren't meaningful to a consumer.
func blankNodeLabels(result *engine.Solutions, tsvStyle bool) map[string]string {
	labels := make(map[string]string)
	counter := 0
	for _, row := range result.Bindings {
		for _, term := range row {
			bn, ok := term.(*rdf.BlankNode)
			if !ok {
				continue
			}
			if _, exists := labels[bn.ID]; exists {
				continue
			}
			if tsvStyle {
				labels[bn.ID] = fmt.Sprintf("b%d", counter)
			} else if counter < 26 {
				labels[bn.ID] = string(rune('a' + counter))
			} else {
				labels[bn.ID] = fmt.Sprintf("b%d", counter-26)
			}
			counter++
		}
	}
	return labels
}

func termToCSVValue(term rdf.Term, bnodes map[string]string) string {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return t.IRI
	case *rdf.BlankNode:
		if label, ok := bnodes[t.ID]; ok {
			return "_:" + label
		}
		return "_:" + t.ID
	case *rdf.Literal:
		if t.Language != "" {
			return t.Value + "@" + t.Language
		}
		if t.Datatype != nil && t.Datatype.IRI == rdf.XSDDouble.IRI {
			return formatDoubleCSV(t.Value)
		}
		return t.Value
	default:
		return term.String()
	}
}

// formatDoubleCSV renders a double with uppercase E notation, per the
// SPARQL CSV format's examples.
func formatDoubleCSV(value string) string {
	value = strings.ReplaceAll(value, "e+", "E")
	value = strings.ReplaceAll(value, "e-", "E-")
	value = strings.ReplaceAll(value, "e", "E")

	if !strings.Contains(value, "E") {
		return value
	}
	parts := strings.SplitN(value, "E", 2)
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
	return mantissa + "E" + exponent
}
