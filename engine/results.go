package engine

import "github.com/rdfquad/rdfquad/pkg/rdf"

// Solutions is the result of a SELECT query: an ordered variable list
// plus the list of solution bindings, each binding a subset of
// Variables (an unbound variable is simply absent from its map).
type Solutions struct {
	Variables []string
	Bindings  []map[string]rdf.Term
}

// Boolean is the result of an ASK query.
type Boolean struct {
	Value bool
}

// Graph is the result of a CONSTRUCT or DESCRIBE query.
type Graph struct {
	Triples []*rdf.Triple
}
