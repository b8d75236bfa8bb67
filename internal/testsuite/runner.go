package testsuite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rdfquad/rdfquad/engine"
	"github.com/rdfquad/rdfquad/internal/planner"
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/internal/resultsio"
	"github.com/rdfquad/rdfquad/internal/storage"
	"github.com/rdfquad/rdfquad/pkg/rdf"
)

// TestRunner runs the W3C SPARQL conformance test suite against the
// engine/planner/quadstore stack.
type TestRunner struct {
	dbPath string
	store  *quadstore.Store
	engine *engine.Engine
	stats  *TestStats
}

// TestStats tracks test execution statistics
type TestStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errors  []TestError
}

// TestError represents a test failure
type TestError struct {
	TestName string
	Type     TestType
	Error    string
}

// NewTestRunner creates a new test runner backed by a fresh on-disk store.
func NewTestRunner(dbPath string) (*TestRunner, error) {
	backend, err := storage.NewBadgerStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}

	store := quadstore.New(backend)
	return &TestRunner{
		dbPath: dbPath,
		store:  store,
		engine: engine.New(store),
		stats:  &TestStats{},
	}, nil
}

// Close closes the test runner's store.
func (r *TestRunner) Close() error {
	return r.store.Close()
}

// RunManifest runs all tests in a manifest file
func (r *TestRunner) RunManifest(manifestPath string) error {
	manifest, err := ParseManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("failed to parse manifest: %w", err)
	}

	fmt.Printf("\nRunning manifest: %s\n", manifestPath)
	fmt.Printf("   Found %d tests\n\n", len(manifest.Tests))

	for _, test := range manifest.Tests {
		r.stats.Total++

		result := r.runTest(manifest, &test)

		switch result {
		case TestResultPass:
			r.stats.Passed++
			fmt.Printf("  PASS: %s\n", test.Name)
		case TestResultFail:
			r.stats.Failed++
			fmt.Printf("  FAIL: %s\n", test.Name)
		case TestResultSkip:
			r.stats.Skipped++
			fmt.Printf("  SKIP: %s (type: %s)\n", test.Name, test.Type)
		case TestResultError:
			r.stats.Failed++
			fmt.Printf("  ERROR: %s\n", test.Name)
		}
	}

	r.printSummary()
	return nil
}

// TestResult represents the result of running a test
type TestResult int

const (
	TestResultPass TestResult = iota
	TestResultFail
	TestResultSkip
	TestResultError
)

// runTest runs a single test case
func (r *TestRunner) runTest(manifest *TestManifest, test *TestCase) TestResult {
	switch test.Type {
	case TestTypePositiveSyntax, TestTypePositiveSyntax11:
		return r.runPositiveSyntaxTest(manifest, test)
	case TestTypeNegativeSyntax, TestTypeNegativeSyntax11:
		return r.runNegativeSyntaxTest(manifest, test)
	case TestTypeQueryEvaluation:
		return r.runQueryEvaluationTest(manifest, test)
	case TestTypeCSVResultFormat:
		return r.runResultFormatTest(manifest, test, "csv")
	case TestTypeTSVResultFormat:
		return r.runResultFormatTest(manifest, test, "tsv")
	case TestTypeJSONResultFormat:
		return r.runResultFormatTest(manifest, test, "json")
	case TestTypeTurtleEval:
		return r.runRDFEvalTest(manifest, test, "turtle")
	case TestTypeTurtlePositiveSyntax:
		return r.runRDFPositiveSyntaxTest(manifest, test, "turtle")
	case TestTypeTurtleNegativeSyntax:
		return r.runRDFNegativeSyntaxTest(manifest, test, "turtle")
	case TestTypeNTriplesPositiveSyntax:
		return r.runRDFPositiveSyntaxTest(manifest, test, "ntriples")
	case TestTypeNTriplesNegativeSyntax:
		return r.runRDFNegativeSyntaxTest(manifest, test, "ntriples")
	case TestTypeNQuadsPositiveSyntax:
		return r.runRDFPositiveSyntaxTest(manifest, test, "nquads")
	case TestTypeNQuadsNegativeSyntax:
		return r.runRDFNegativeSyntaxTest(manifest, test, "nquads")
	case TestTypeTrigEval:
		return r.runRDFEvalTest(manifest, test, "trig")
	case TestTypeTrigPositiveSyntax:
		return r.runRDFPositiveSyntaxTest(manifest, test, "trig")
	case TestTypeTrigNegativeSyntax:
		return r.runRDFNegativeSyntaxTest(manifest, test, "trig")
	case TestTypeXMLEval:
		return r.runRDFEvalTest(manifest, test, "rdfxml")
	case TestTypeXMLNegativeSyntax:
		return r.runRDFNegativeSyntaxTest(manifest, test, "rdfxml")
	case TestTypeJSONLDEval:
		return r.runRDFEvalTest(manifest, test, "jsonld")
	case TestTypeJSONLDNegativeSyntax:
		return r.runRDFNegativeSyntaxTest(manifest, test, "jsonld")
	default:
		return TestResultSkip
	}
}

// runPositiveSyntaxTest verifies a query parses and translates successfully
func (r *TestRunner) runPositiveSyntaxTest(manifest *TestManifest, test *TestCase) TestResult {
	if test.Action == "" {
		r.recordError(test, "No action file specified")
		return TestResultError
	}

	queryFile := manifest.ResolveFile(test.Action)
	queryBytes, err := os.ReadFile(queryFile) // #nosec G304 - test suite legitimately reads test query files
	if err != nil {
		r.recordError(test, fmt.Sprintf("Failed to read query file: %v", err))
		return TestResultError
	}

	if _, err := planner.Compile(string(queryBytes)); err != nil {
		r.recordError(test, fmt.Sprintf("Parser error: %v", err))
		return TestResultFail
	}
	return TestResultPass
}

// runNegativeSyntaxTest verifies a query fails to parse
func (r *TestRunner) runNegativeSyntaxTest(manifest *TestManifest, test *TestCase) TestResult {
	if test.Action == "" {
		r.recordError(test, "No action file specified")
		return TestResultError
	}

	queryFile := manifest.ResolveFile(test.Action)
	queryBytes, err := os.ReadFile(queryFile) // #nosec G304 - test suite legitimately reads test query files
	if err != nil {
		r.recordError(test, fmt.Sprintf("Failed to read query file: %v", err))
		return TestResultError
	}

	if _, err := planner.Compile(string(queryBytes)); err == nil {
		r.recordError(test, "Query parsed successfully but should have failed")
		return TestResultFail
	}
	return TestResultPass
}

// runQueryEvaluationTest runs a query and compares results
func (r *TestRunner) runQueryEvaluationTest(manifest *TestManifest, test *TestCase) TestResult {
	if err := r.clearStore(); err != nil {
		r.recordError(test, fmt.Sprintf("Failed to clear store: %v", err))
		return TestResultError
	}
	if err := r.loadTestData(manifest, test); err != nil {
		r.recordError(test, fmt.Sprintf("Failed to load test data: %v", err))
		return TestResultError
	}

	if test.Action == "" {
		r.recordError(test, "No action file specified")
		return TestResultError
	}
	queryFile := manifest.ResolveFile(test.Action)
	queryBytes, err := os.ReadFile(queryFile) // #nosec G304 - test suite legitimately reads test query files
	if err != nil {
		r.recordError(test, fmt.Sprintf("Failed to read query file: %v", err))
		return TestResultError
	}

	compiled, err := planner.Compile(string(queryBytes))
	if err != nil {
		r.recordError(test, fmt.Sprintf("Parser error: %v", err))
		return TestResultFail
	}

	ctx := context.Background()

	switch compiled.Form {
	case planner.FormAsk:
		r.recordError(test, "ASK query comparison not implemented yet")
		return TestResultSkip

	case planner.FormConstruct, planner.FormDescribe:
		template := make([]engine.ConstructTemplate, len(compiled.Template))
		for i, t := range compiled.Template {
			template[i] = engine.ConstructTemplate{
				Subject:   engine.TemplateTerm{Term: t.Subject.Term, Var: t.Subject.Var},
				Predicate: engine.TemplateTerm{Term: t.Predicate.Term, Var: t.Predicate.Var},
				Object:    engine.TemplateTerm{Term: t.Object.Term, Var: t.Object.Var},
			}
		}
		result, err := r.engine.Construct(ctx, compiled.Plan, template)
		if err != nil {
			r.recordError(test, fmt.Sprintf("Execution error: %v", err))
			return TestResultFail
		}

		if test.Result == "" {
			r.recordError(test, "No result file specified")
			return TestResultError
		}
		expectedTriples, err := r.loadExpectedTriples(manifest, test)
		if err != nil {
			r.recordError(test, fmt.Sprintf("Failed to load expected triples: %v", err))
			return TestResultFail
		}
		if !r.compareTriples(expectedTriples, result.Triples) {
			r.recordError(test, fmt.Sprintf("Triples mismatch: expected %d triples, got %d triples", len(expectedTriples), len(result.Triples)))
			return TestResultFail
		}
		return TestResultPass

	default:
		result, err := r.engine.Select(ctx, compiled.Plan, compiled.Variables)
		if err != nil {
			r.recordError(test, fmt.Sprintf("Execution error: %v", err))
			return TestResultFail
		}

		if test.Result == "" {
			r.recordError(test, "No result file specified")
			return TestResultError
		}
		expectedBindings, err := r.loadExpectedResults(manifest, test)
		if err != nil {
			r.recordError(test, fmt.Sprintf("Failed to load expected results: %v", err))
			return TestResultFail
		}
		if !resultsio.CompareResults(expectedBindings, result.Bindings) {
			r.recordError(test, fmt.Sprintf("Results mismatch: expected %d bindings, got %d bindings", len(expectedBindings), len(result.Bindings)))
			return TestResultFail
		}
		return TestResultPass
	}
}

// clearStore drops the backing on-disk database and reopens a fresh one,
// since quadstore.Store has no bulk-delete operation of its own.
func (r *TestRunner) clearStore() error {
	if err := r.store.Close(); err != nil {
		return err
	}
	if err := os.RemoveAll(r.dbPath); err != nil {
		return err
	}
	backend, err := storage.NewBadgerStorage(r.dbPath)
	if err != nil {
		return err
	}
	r.store = quadstore.New(backend)
	r.engine = engine.New(r.store)
	return nil
}

// loadTestData loads test data files into the store
func (r *TestRunner) loadTestData(manifest *TestManifest, test *TestCase) error {
	defaultGraph := rdf.NewDefaultGraph()
	for _, dataFile := range test.Data {
		dataPath := manifest.ResolveFile(dataFile)
		dataBytes, err := os.ReadFile(dataPath) // #nosec G304 - test suite legitimately reads test data files
		if err != nil {
			return fmt.Errorf("failed to read data file %s: %w", dataFile, err)
		}

		turtleParser := rdf.NewTurtleParser(string(dataBytes))
		triples, err := turtleParser.Parse()
		if err != nil {
			return fmt.Errorf("failed to parse Turtle data in %s: %w", dataFile, err)
		}

		for _, triple := range triples {
			quad := rdf.NewQuad(triple.Subject, triple.Predicate, triple.Object, defaultGraph)
			if err := r.store.InsertQuad(quad); err != nil {
				return fmt.Errorf("failed to insert quad: %w", err)
			}
		}
	}

	for _, gd := range test.GraphData {
		dataPath := manifest.ResolveFile(gd.File)
		dataBytes, err := os.ReadFile(dataPath) // #nosec G304 - test suite legitimately reads test data files
		if err != nil {
			return fmt.Errorf("failed to read graph data file %s: %w", gd.File, err)
		}
		turtleParser := rdf.NewTurtleParser(string(dataBytes))
		triples, err := turtleParser.Parse()
		if err != nil {
			return fmt.Errorf("failed to parse Turtle data in %s: %w", gd.File, err)
		}
		graphTerm := rdf.NewNamedNode(gd.Name)
		for _, triple := range triples {
			quad := rdf.NewQuad(triple.Subject, triple.Predicate, triple.Object, graphTerm)
			if err := r.store.InsertQuad(quad); err != nil {
				return fmt.Errorf("failed to insert quad: %w", err)
			}
		}
	}

	return nil
}

// loadExpectedResults loads expected results from an XML results file
func (r *TestRunner) loadExpectedResults(manifest *TestManifest, test *TestCase) ([]map[string]rdf.Term, error) {
	resultPath := manifest.ResolveFile(test.Result)
	resultFile, err := os.Open(resultPath) // #nosec G304 - test suite legitimately reads test result files
	if err != nil {
		return nil, fmt.Errorf("failed to open result file: %w", err)
	}
	defer resultFile.Close()

	return resultsio.ParseXMLResults(resultFile)
}

// loadExpectedTriples loads expected N-Triples from result file
func (r *TestRunner) loadExpectedTriples(manifest *TestManifest, test *TestCase) ([]*rdf.Triple, error) {
	resultPath := manifest.ResolveFile(test.Result)
	resultBytes, err := os.ReadFile(resultPath) // #nosec G304 - test suite legitimately reads test result files
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	turtleParser := rdf.NewTurtleParser(string(resultBytes))
	triples, err := turtleParser.Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse expected triples: %w", err)
	}
	return triples, nil
}

// filePathToURI converts a file path to a URI for use as a Turtle/TriG base URI
func (r *TestRunner) filePathToURI(filePath string) string {
	if strings.Contains(filePath, "rdf-tests/") {
		idx := strings.Index(filePath, "rdf-tests/")
		if idx != -1 {
			relativePath := filePath[idx+len("rdf-tests/"):]
			return "https://w3c.github.io/rdf-tests/" + relativePath
		}
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		absPath = filePath
	}
	return "file://" + absPath
}

// compareTriples compares two sets of triples for equality, allowing blank
// node relabeling via graph isomorphism.
func (r *TestRunner) compareTriples(expected, actual []*rdf.Triple) bool {
	return rdf.AreGraphsIsomorphic(expected, actual)
}

// recordError records a test error
func (r *TestRunner) recordError(test *TestCase, errMsg string) {
	r.stats.Errors = append(r.stats.Errors, TestError{
		TestName: test.Name,
		Type:     test.Type,
		Error:    errMsg,
	})
}

// printSummary prints test execution summary
func (r *TestRunner) printSummary() {
	fmt.Println("\n" + strings.Repeat("-", 60))
	fmt.Println("TEST SUMMARY")
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("Total:   %d\n", r.stats.Total)
	fmt.Printf("Passed:  %d (%.1f%%)\n", r.stats.Passed,
		float64(r.stats.Passed)/float64(r.stats.Total)*100)
	fmt.Printf("Failed:  %d\n", r.stats.Failed)
	fmt.Printf("Skipped: %d\n", r.stats.Skipped)

	if len(r.stats.Errors) > 0 {
		fmt.Println("\nERRORS:")
		for i, err := range r.stats.Errors {
			if i >= 10 {
				fmt.Printf("   ... and %d more\n", len(r.stats.Errors)-10)
				break
			}
			fmt.Printf("   - %s: %s\n", err.TestName, err.Error)
		}
	}

	fmt.Println(strings.Repeat("-", 60))
}

// GetStats returns the current test statistics
func (r *TestRunner) GetStats() *TestStats {
	return r.stats
}

// runResultFormatTest is a generic method for testing SELECT/ASK result
// format serialization (CSV/TSV/JSON) against a W3C fixture.
func (r *TestRunner) runResultFormatTest(manifest *TestManifest, test *TestCase, format string) TestResult {
	if err := r.clearStore(); err != nil {
		r.recordError(test, fmt.Sprintf("Failed to clear store: %v", err))
		return TestResultError
	}
	if err := r.loadTestData(manifest, test); err != nil {
		r.recordError(test, fmt.Sprintf("Failed to load test data: %v", err))
		return TestResultError
	}

	if test.Action == "" {
		r.recordError(test, "No action file specified")
		return TestResultError
	}
	queryFile := manifest.ResolveFile(test.Action)
	queryBytes, err := os.ReadFile(queryFile) // #nosec G304 - test suite legitimately reads test query files
	if err != nil {
		r.recordError(test, fmt.Sprintf("Failed to read query file: %v", err))
		return TestResultError
	}

	compiled, err := planner.Compile(string(queryBytes))
	if err != nil {
		r.recordError(test, fmt.Sprintf("Parser error: %v", err))
		return TestResultFail
	}

	ctx := context.Background()
	var actualOutput []byte

	switch compiled.Form {
	case planner.FormAsk:
		result, err := r.engine.Ask(ctx, compiled.Plan)
		if err != nil {
			r.recordError(test, fmt.Sprintf("Execution error: %v", err))
			return TestResultFail
		}
		actualOutput, err = formatAskResult(result, format)
		if err != nil {
			r.recordError(test, fmt.Sprintf("Format error: %v", err))
			return TestResultFail
		}

	default:
		result, err := r.engine.Select(ctx, compiled.Plan, compiled.Variables)
		if err != nil {
			r.recordError(test, fmt.Sprintf("Execution error: %v", err))
			return TestResultFail
		}
		actualOutput, err = formatSelectResult(result, format)
		if err != nil {
			r.recordError(test, fmt.Sprintf("Format error: %v", err))
			return TestResultFail
		}
	}

	if test.Result == "" {
		r.recordError(test, "No result file specified")
		return TestResultError
	}
	resultPath := manifest.ResolveFile(test.Result)
	expectedOutput, err := os.ReadFile(resultPath) // #nosec G304 - test suite legitimately reads test result files
	if err != nil {
		r.recordError(test, fmt.Sprintf("Failed to read expected result file: %v", err))
		return TestResultError
	}

	if !compareOutputs(string(actualOutput), string(expectedOutput)) {
		r.recordError(test, fmt.Sprintf("Output mismatch\nExpected:\n%s\n\nActual:\n%s", string(expectedOutput), string(actualOutput)))
		return TestResultFail
	}
	return TestResultPass
}

func formatSelectResult(result *engine.Solutions, format string) ([]byte, error) {
	switch format {
	case "csv":
		return resultsio.FormatSelectResultsCSV(result)
	case "tsv":
		return resultsio.FormatSelectResultsTSV(result)
	case "json":
		return resultsio.FormatSelectResultsJSON(result)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

func formatAskResult(result *engine.Boolean, format string) ([]byte, error) {
	switch format {
	case "csv":
		return resultsio.FormatAskResultCSV(result)
	case "tsv":
		return resultsio.FormatAskResultTSV(result)
	case "json":
		return resultsio.FormatAskResultJSON(result)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// compareOutputs compares two output strings, normalizing line endings and trailing whitespace
func compareOutputs(actual, expected string) bool {
	actual = strings.ReplaceAll(actual, "\r\n", "\n")
	expected = strings.ReplaceAll(expected, "\r\n", "\n")

	actualLines := strings.Split(strings.TrimSpace(actual), "\n")
	expectedLines := strings.Split(strings.TrimSpace(expected), "\n")

	if len(actualLines) != len(expectedLines) {
		return false
	}
	for i := range actualLines {
		actualLine := strings.TrimRight(actualLines[i], " \t")
		expectedLine := strings.TrimRight(expectedLines[i], " \t")
		if actualLine != expectedLine {
			return false
		}
	}
	return true
}

// runRDFPositiveSyntaxTest verifies an RDF document parses successfully
func (r *TestRunner) runRDFPositiveSyntaxTest(manifest *TestManifest, test *TestCase, format string) TestResult {
	if test.Action == "" {
		r.recordError(test, "No action file specified")
		return TestResultError
	}

	dataFile := manifest.ResolveFile(test.Action)
	dataBytes, err := os.ReadFile(dataFile) // #nosec G304 - test suite legitimately reads test data files
	if err != nil {
		r.recordError(test, fmt.Sprintf("Failed to read data file: %v", err))
		return TestResultError
	}

	if _, err := r.parseRDFData(string(dataBytes), format, dataFile); err != nil {
		r.recordError(test, fmt.Sprintf("Parser error: %v", err))
		return TestResultFail
	}
	return TestResultPass
}

// runRDFNegativeSyntaxTest verifies an RDF document fails to parse
func (r *TestRunner) runRDFNegativeSyntaxTest(manifest *TestManifest, test *TestCase, format string) TestResult {
	if test.Action == "" {
		r.recordError(test, "No action file specified")
		return TestResultError
	}

	dataFile := manifest.ResolveFile(test.Action)
	dataBytes, err := os.ReadFile(dataFile) // #nosec G304 - test suite legitimately reads test data files
	if err != nil {
		r.recordError(test, fmt.Sprintf("Failed to read data file: %v", err))
		return TestResultError
	}

	if _, err := r.parseRDFData(string(dataBytes), format, dataFile); err == nil {
		r.recordError(test, "Data parsed successfully but should have failed")
		return TestResultFail
	}
	return TestResultPass
}

// runRDFEvalTest parses RDF data and compares with expected triples
func (r *TestRunner) runRDFEvalTest(manifest *TestManifest, test *TestCase, format string) TestResult {
	if test.Action == "" {
		r.recordError(test, "No action file specified")
		return TestResultError
	}

	dataFile := manifest.ResolveFile(test.Action)
	dataBytes, err := os.ReadFile(dataFile) // #nosec G304 - test suite legitimately reads test data files
	if err != nil {
		r.recordError(test, fmt.Sprintf("Failed to read data file: %v", err))
		return TestResultError
	}

	actualTriples, err := r.parseRDFData(string(dataBytes), format, dataFile)
	if err != nil {
		r.recordError(test, fmt.Sprintf("Parser error: %v", err))
		return TestResultFail
	}

	if test.Result == "" {
		r.recordError(test, "No result file specified")
		return TestResultError
	}
	resultFile := manifest.ResolveFile(test.Result)
	resultBytes, err := os.ReadFile(resultFile) // #nosec G304 - test suite legitimately reads test result files
	if err != nil {
		r.recordError(test, fmt.Sprintf("Failed to read result file: %v", err))
		return TestResultError
	}

	expectedTriples, err := r.parseRDFData(string(resultBytes), "ntriples", "")
	if err != nil {
		expectedTriples, err = r.parseRDFData(string(resultBytes), "nquads", "")
		if err != nil {
			r.recordError(test, fmt.Sprintf("Failed to parse expected results: %v", err))
			return TestResultError
		}
	}

	if !r.compareTriples(expectedTriples, actualTriples) {
		r.recordError(test, fmt.Sprintf("Triples mismatch: expected %d triples, got %d triples", len(expectedTriples), len(actualTriples)))
		return TestResultFail
	}
	return TestResultPass
}

// parseRDFData parses RDF data in the specified format
func (r *TestRunner) parseRDFData(data string, format string, filePath string) ([]*rdf.Triple, error) {
	switch format {
	case "turtle":
		parser := rdf.NewTurtleParser(data)
		if filePath != "" {
			parser.SetBaseURI(r.filePathToURI(filePath))
		}
		return parser.Parse()
	case "ntriples":
		parser := rdf.NewNTriplesParser(data)
		return parser.Parse()
	case "nquads":
		parser := rdf.NewNQuadsParser(data)
		quads, err := parser.Parse()
		if err != nil {
			return nil, err
		}
		return quadsToTriples(quads), nil
	case "trig":
		parser := rdf.NewTriGParser(data)
		if filePath != "" {
			parser.SetBaseURI(r.filePathToURI(filePath))
		}
		quads, err := parser.Parse()
		if err != nil {
			return nil, err
		}
		return quadsToTriples(quads), nil
	case "rdfxml":
		parser := rdf.NewRDFXMLParser()
		if filePath != "" {
			parser.SetBaseURI(r.filePathToURI(filePath))
		}
		quads, err := parser.Parse(strings.NewReader(data))
		if err != nil {
			return nil, err
		}
		return quadsToTriples(quads), nil
	case "jsonld":
		parser := rdf.NewJSONLDParser()
		quads, err := parser.Parse(strings.NewReader(data))
		if err != nil {
			return nil, err
		}
		return quadsToTriples(quads), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func quadsToTriples(quads []*rdf.Quad) []*rdf.Triple {
	triples := make([]*rdf.Triple, len(quads))
	for i, quad := range quads {
		triples[i] = rdf.NewTriple(quad.Subject, quad.Predicate, quad.Object)
	}
	return triples
}
