package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rdfquad/rdfquad/engine"
	"github.com/rdfquad/rdfquad/internal/planner"
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/internal/resultsio"
	"github.com/rdfquad/rdfquad/internal/server"
	"github.com/rdfquad/rdfquad/internal/storage"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: rdfquad <command> [args]")
		fmt.Println("Commands:")
		fmt.Println("  demo         - Run a demo with sample data")
		fmt.Println("  query <q>    - Execute a SPARQL query")
		fmt.Println("  serve [addr] - Start HTTP SPARQL endpoint (default: localhost:8080)")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "demo":
		runDemo()
	case "query":
		if len(os.Args) < 3 {
			fmt.Println("Usage: rdfquad query <sparql-query>")
			os.Exit(1)
		}
		runQuery(os.Args[2])
	case "serve":
		addr := "localhost:8080"
		if len(os.Args) >= 3 {
			addr = os.Args[2]
		}
		runServer(addr)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

const dbPath = "./trigo_data"

func openStore() *quadstore.Store {
	backend, err := storage.NewBadgerStorage(dbPath)
	if err != nil {
		log.Fatalf("Failed to open storage at %s: %v", dbPath, err)
	}
	return quadstore.New(backend)
}

func runDemo() {
	fmt.Println("=== rdfquad Demo ===")
	fmt.Println()
	fmt.Printf("Opening database at: %s\n", dbPath)

	qs := openStore()
	defer qs.Close()
	fmt.Println("Quad store initialized")
	fmt.Println()

	fmt.Println("Inserting sample data...")

	alice := rdf.NewNamedNode("http://example.org/alice")
	bob := rdf.NewNamedNode("http://example.org/bob")
	carol := rdf.NewNamedNode("http://example.org/carol")

	knows := rdf.NewNamedNode("http://xmlns.com/foaf/0.1/knows")
	name := rdf.NewNamedNode("http://xmlns.com/foaf/0.1/name")
	age := rdf.NewNamedNode("http://xmlns.com/foaf/0.1/age")
	defaultGraph := rdf.NewDefaultGraph()

	quads := []*rdf.Quad{
		rdf.NewQuad(alice, name, rdf.NewLiteral("Alice"), defaultGraph),
		rdf.NewQuad(alice, age, rdf.NewIntegerLiteral(30), defaultGraph),
		rdf.NewQuad(alice, knows, bob, defaultGraph),

		rdf.NewQuad(bob, name, rdf.NewLiteral("Bob"), defaultGraph),
		rdf.NewQuad(bob, age, rdf.NewIntegerLiteral(25), defaultGraph),
		rdf.NewQuad(bob, knows, carol, defaultGraph),

		rdf.NewQuad(carol, name, rdf.NewLiteral("Carol"), defaultGraph),
		rdf.NewQuad(carol, age, rdf.NewIntegerLiteral(28), defaultGraph),
	}

	for _, quad := range quads {
		if err := qs.InsertQuad(quad); err != nil {
			log.Fatalf("Failed to insert quad: %v", err)
		}
		fmt.Printf("  + %s\n", quad)
	}

	fmt.Println("\nInserting data into named graphs...")
	graph1 := rdf.NewNamedNode("http://example.org/graph1")
	graph2 := rdf.NewNamedNode("http://example.org/graph2")

	namedQuads := []*rdf.Quad{
		rdf.NewQuad(alice, name, rdf.NewLiteral("Alice in Graph1"), graph1),
		rdf.NewQuad(bob, name, rdf.NewLiteral("Bob in Graph1"), graph1),
		rdf.NewQuad(alice, name, rdf.NewLiteral("Alice in Graph2"), graph2),
		rdf.NewQuad(carol, name, rdf.NewLiteral("Carol in Graph2"), graph2),
	}

	for _, quad := range namedQuads {
		if err := qs.InsertQuad(quad); err != nil {
			log.Fatalf("Failed to insert quad: %v", err)
		}
		fmt.Printf("  + Quad in graph <%s>: %s %s %s\n",
			quad.Graph.(*rdf.NamedNode).IRI,
			formatTerm(quad.Subject),
			formatTerm(quad.Predicate),
			formatTerm(quad.Object))
	}

	count, err := qs.Count()
	if err != nil {
		log.Fatalf("Failed to count quads: %v", err)
	}
	fmt.Printf("\nTotal quads stored: %d\n", count)

	fmt.Println()
	fmt.Println("=== Querying Data ===")
	fmt.Println()

	sparqlQuery := `
		SELECT ?person ?name ?age
		WHERE {
			?person <http://xmlns.com/foaf/0.1/name> ?name .
			?person <http://xmlns.com/foaf/0.1/age> ?age .
		}
	`

	fmt.Printf("Query:\n%s\n", sparqlQuery)

	compiled, err := planner.Compile(sparqlQuery)
	if err != nil {
		log.Fatalf("Failed to compile query: %v", err)
	}
	fmt.Println("+ Query compiled successfully")

	eng := engine.New(qs)
	result, err := eng.Select(context.Background(), compiled.Plan, compiled.Variables)
	if err != nil {
		log.Fatalf("Failed to execute query: %v", err)
	}
	fmt.Println("+ Query executed successfully")
	fmt.Println()

	printSolutions(result)
	fmt.Printf("\nFound %d results\n", len(result.Bindings))

	fmt.Println("\n=== Demo Complete ===")
}

func runQuery(sparqlQuery string) {
	qs := openStore()
	defer qs.Close()

	compiled, err := planner.Compile(sparqlQuery)
	if err != nil {
		log.Fatalf("Failed to compile query: %v", err)
	}

	eng := engine.New(qs)
	ctx := context.Background()

	switch compiled.Form {
	case planner.FormAsk:
		result, err := eng.Ask(ctx, compiled.Plan)
		if err != nil {
			log.Fatalf("Failed to execute query: %v", err)
		}
		fmt.Printf("Result: %t\n", result.Value)

	case planner.FormConstruct, planner.FormDescribe:
		template := make([]engine.ConstructTemplate, len(compiled.Template))
		for i, t := range compiled.Template {
			template[i] = engine.ConstructTemplate{
				Subject:   engine.TemplateTerm{Term: t.Subject.Term, Var: t.Subject.Var},
				Predicate: engine.TemplateTerm{Term: t.Predicate.Term, Var: t.Predicate.Var},
				Object:    engine.TemplateTerm{Term: t.Object.Term, Var: t.Object.Var},
			}
		}
		result, err := eng.Construct(ctx, compiled.Plan, template)
		if err != nil {
			log.Fatalf("Failed to execute query: %v", err)
		}
		fmt.Printf("Constructed %d triples:\n", len(result.Triples))
		for _, triple := range result.Triples {
			fmt.Printf("%s %s %s .\n", triple.Subject, triple.Predicate, triple.Object)
		}

	default:
		result, err := eng.Select(ctx, compiled.Plan, compiled.Variables)
		if err != nil {
			log.Fatalf("Failed to execute query: %v", err)
		}
		printSolutions(result)
	}
}

func printSolutions(result *engine.Solutions) {
	fmt.Println("Results:")
	varNames := resultsio.SelectVariables(result)
	for _, binding := range result.Bindings {
		for _, name := range varNames {
			if term, ok := binding[name]; ok {
				fmt.Printf("  %s = %s\n", name, formatTerm(term))
			}
		}
		fmt.Println()
	}
}

func runServer(addr string) {
	fmt.Printf("Opening database at: %s\n", dbPath)

	qs := openStore()
	defer qs.Close()

	count, _ := qs.Count()
	fmt.Printf("Database loaded with %d quads\n", count)

	srv := server.NewServer(qs, addr)
	fmt.Printf("\nrdfquad SPARQL endpoint starting...\n")
	fmt.Printf("   Endpoint: http://%s/sparql\n", addr)
	fmt.Printf("   Web UI:   http://%s/\n\n", addr)
	fmt.Printf("Press Ctrl+C to stop\n\n")

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func formatTerm(term rdf.Term) string {
	switch t := term.(type) {
	case *rdf.NamedNode:
		iri := t.IRI
		for i := len(iri) - 1; i >= 0; i-- {
			if iri[i] == '/' || iri[i] == '#' {
				return iri[i+1:]
			}
		}
		return iri
	case *rdf.Literal:
		return t.Value
	default:
		return term.String()
	}
}
