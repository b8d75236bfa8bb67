package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rdfquad/rdfquad/engine"
	"github.com/rdfquad/rdfquad/internal/planner"
	"github.com/rdfquad/rdfquad/internal/quadstore"
	"github.com/rdfquad/rdfquad/internal/rdfio"
	"github.com/rdfquad/rdfquad/internal/xlog"
)

// Server is the HTTP SPARQL 1.1 Protocol endpoint. Execution runs through
// planner.Compile and engine.Engine instead of the package-level parser and
// executor the teacher's own endpoint used directly, so the HTTP surface
// picks up the iterator-based physical plan and the join-reordering optimizer
// for free.
type Server struct {
	store  *quadstore.Store
	engine *engine.Engine
	addr   string
	logger *xlog.Logger
}

// NewServer creates a new SPARQL HTTP server over store.
func NewServer(store *quadstore.Store, addr string, opts ...engine.Option) *Server {
	return &Server{
		store:  store,
		engine: engine.New(store, opts...),
		addr:   addr,
		logger: xlog.New(),
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/sparql", s.handleSPARQL)
	mux.HandleFunc("/data", s.handleDataUpload)
	mux.HandleFunc("/", s.handleRoot)

	httpServer := &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting SPARQL endpoint", "addr", s.addr)
	return httpServer.ListenAndServe()
}

// handleRoot serves a YASGUI-based query editor against this endpoint.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	endpointURL := fmt.Sprintf("%s://%s/sparql", scheme, r.Host)

	count, _ := s.store.Count()

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>rdfquad SPARQL Endpoint</title>
    <link href="https://unpkg.com/@zazuko/yasgui@4.5.0/build/yasgui.min.css" rel="stylesheet" type="text/css" />
    <script src="https://unpkg.com/@zazuko/yasgui@4.5.0/build/yasgui.min.js"></script>
    <style>
        body {
            margin: 0;
            padding: 0;
            font-family: Arial, sans-serif;
            display: flex;
            flex-direction: column;
            height: 100vh;
        }
        .header {
            background: #2c3e50;
            color: white;
            padding: 15px 20px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .header h1 {
            margin: 0;
            font-size: 24px;
            font-weight: 500;
        }
        .header .info {
            margin-top: 5px;
            font-size: 14px;
            opacity: 0.9;
        }
        .header .info code {
            background: rgba(255,255,255,0.2);
            padding: 2px 6px;
            border-radius: 3px;
            font-family: monospace;
        }
        #yasgui {
            flex: 1;
            overflow: hidden;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>rdfquad SPARQL Endpoint</h1>
        <div class="info">
            Endpoint: <code>` + endpointURL + `</code> |
            Total quads: <strong>` + fmt.Sprintf("%d", count) + `</strong>
        </div>
    </div>
    <div id="yasgui"></div>
    <script>
        const yasgui = new Yasgui(document.getElementById("yasgui"), {
            requestConfig: {
                endpoint: "` + endpointURL + `",
                method: "POST"
            },
            copyEndpointOnNewTab: false,
            endpointCatalogueOptions: {
                getData: function() {
                    return [
                        {
                            endpoint: "` + endpointURL + `",
                            label: "rdfquad Local"
                        }
                    ];
                }
            }
        });
    </script>
</body>
</html>`

	_, _ = w.Write([]byte(html)) // #nosec G104 - error writing response is logged elsewhere if needed
}

// handleSPARQL handles SPARQL query requests per the SPARQL 1.1 Protocol.
// https://www.w3.org/TR/sparql11-protocol/
func (s *Server) handleSPARQL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	var queryString string

	switch r.Method {
	case http.MethodGet:
		queryString = r.URL.Query().Get("query")
		if queryString == "" {
			s.writeError(w, http.StatusBadRequest, "Missing 'query' parameter")
			return
		}

	case http.MethodPost:
		contentType := r.Header.Get("Content-Type")

		switch {
		case strings.Contains(contentType, "application/sparql-query"):
			body, err := io.ReadAll(r.Body)
			if err != nil {
				s.writeError(w, http.StatusBadRequest, "Failed to read request body")
				return
			}
			queryString = string(body)

		case strings.Contains(contentType, "application/x-www-form-urlencoded"):
			if err := r.ParseForm(); err != nil {
				s.writeError(w, http.StatusBadRequest, "Failed to parse form")
				return
			}
			queryString = r.FormValue("query")
			if queryString == "" {
				s.writeError(w, http.StatusBadRequest, "Missing 'query' parameter")
				return
			}

		default:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				s.writeError(w, http.StatusBadRequest, "Failed to read request body")
				return
			}
			queryString = string(body)
		}

	default:
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Use GET or POST")
		return
	}

	if queryString == "" {
		s.writeError(w, http.StatusBadRequest, "Empty query")
		return
	}

	compiled, err := planner.Compile(queryString)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Parse error: %v", err))
		return
	}

	ctx := r.Context()
	acceptHeader := r.Header.Get("Accept")
	format := negotiateFormat(acceptHeader)

	switch compiled.Form {
	case planner.FormSelect:
		result, err := s.engine.Select(ctx, compiled.Plan, compiled.Variables)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Execution error: %v", err))
			return
		}
		s.writeSelectResult(w, result, format)

	case planner.FormAsk:
		result, err := s.engine.Ask(ctx, compiled.Plan)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Execution error: %v", err))
			return
		}
		s.writeAskResult(w, result, format)

	case planner.FormConstruct, planner.FormDescribe:
		template := make([]engine.ConstructTemplate, len(compiled.Template))
		for i, t := range compiled.Template {
			template[i] = engine.ConstructTemplate{
				Subject:   engine.TemplateTerm{Term: t.Subject.Term, Var: t.Subject.Var},
				Predicate: engine.TemplateTerm{Term: t.Predicate.Term, Var: t.Predicate.Var},
				Object:    engine.TemplateTerm{Term: t.Object.Term, Var: t.Object.Var},
			}
		}
		result, err := s.engine.Construct(ctx, compiled.Plan, template)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Execution error: %v", err))
			return
		}
		data, err := formatConstructResultNTriples(result)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Formatting error: %v", err))
			return
		}
		w.Header().Set("Content-Type", "application/n-triples; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data) // #nosec G104 - error writing response is logged elsewhere if needed

	default:
		s.writeError(w, http.StatusBadRequest, "Unsupported query form")
	}
}

func negotiateFormat(acceptHeader string) string {
	accept := strings.ToLower(acceptHeader)

	if strings.Contains(accept, "application/sparql-results+xml") {
		return "xml"
	}
	if strings.Contains(accept, "text/xml") || strings.Contains(accept, "application/xml") {
		return "xml"
	}
	return "json"
}

func (s *Server) writeSelectResult(w http.ResponseWriter, result *engine.Solutions, format string) {
	var data []byte
	var err error
	contentType := "application/sparql-results+json; charset=utf-8"

	if format == "xml" {
		contentType = "application/sparql-results+xml; charset=utf-8"
		data, err = formatSelectResultsXML(result)
	} else {
		data, err = formatSelectResultsJSON(result)
	}

	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Formatting error: %v", err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data) // #nosec G104 - error writing response is logged elsewhere if needed
}

func (s *Server) writeAskResult(w http.ResponseWriter, result *engine.Boolean, format string) {
	var data []byte
	var err error
	contentType := "application/sparql-results+json; charset=utf-8"

	if format == "xml" {
		contentType = "application/sparql-results+xml; charset=utf-8"
		data, err = formatAskResultXML(result)
	} else {
		data, err = formatAskResultJSON(result)
	}

	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Formatting error: %v", err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data) // #nosec G104 - error writing response is logged elsewhere if needed
}

// handleDataUpload handles bulk data uploads in various RDF formats.
func (s *Server) handleDataUpload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		s.writeError(w, http.StatusBadRequest, "Missing Content-Type header")
		return
	}

	parser, err := rdfio.NewParser(contentType)
	if err != nil {
		supportedTypes := rdfio.GetSupportedContentTypes()
		s.writeError(w, http.StatusUnsupportedMediaType,
			fmt.Sprintf("Unsupported content type: %s. Supported types: %v", contentType, supportedTypes))
		return
	}

	startTime := time.Now()
	quads, err := parser.Parse(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Parse error: %v", err))
		return
	}

	if err := s.store.InsertQuadsBatch(quads); err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Insert error: %v", err))
		return
	}

	duration := time.Since(startTime)

	response := map[string]interface{}{
		"success": true,
		"statistics": map[string]interface{}{
			"quadsInserted":  len(quads),
			"durationMs":     duration.Milliseconds(),
			"quadsPerSecond": float64(len(quads)) / duration.Seconds(),
		},
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response) // #nosec G104 - error writing response is logged elsewhere if needed
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	s.logger.Error("request failed", "status", statusCode, "message", message)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(fmt.Sprintf(`{"error":{"code":%d,"message":%q}}`, statusCode, message))) // #nosec G104 - error writing response is logged elsewhere if needed
}
