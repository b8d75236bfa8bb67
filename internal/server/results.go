package server

import (
	"github.com/rdfquad/rdfquad/engine"
	"github.com/rdfquad/rdfquad/internal/resultsio"
)

func formatSelectResultsJSON(result *engine.Solutions) ([]byte, error) {
	return resultsio.FormatSelectResultsJSON(result)
}

func formatAskResultJSON(result *engine.Boolean) ([]byte, error) {
	return resultsio.FormatAskResultJSON(result)
}

func formatSelectResultsXML(result *engine.Solutions) ([]byte, error) {
	return resultsio.FormatSelectResultsXML(result)
}

func formatAskResultXML(result *engine.Boolean) ([]byte, error) {
	return resultsio.FormatAskResultXML(result)
}

func formatConstructResultNTriples(result *engine.Graph) ([]byte, error) {
	return resultsio.FormatConstructResultNTriples(result)
}
