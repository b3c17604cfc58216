package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ananyak/ndra/internal/core/domain"
	"github.com/ananyak/ndra/internal/core/ports"
	"github.com/ananyak/ndra/internal/observability/metrics"
)

const serviceName = "ndra-api"

type Router struct {
	pipeline ports.PolicyQueryService
	ingestUC ports.DocumentIngestor
	reader   ports.DocumentReader
	metrics  *metrics.HTTPServerMetrics
	apiKey   string
}

func NewRouter(
	pipeline ports.PolicyQueryService,
	ingestUC ports.DocumentIngestor,
	reader ports.DocumentReader,
	m *metrics.HTTPServerMetrics,
	apiKey string,
) *Router {
	return &Router{
		pipeline: pipeline,
		ingestUC: ingestUC,
		reader:   reader,
		metrics:  m,
		apiKey:   apiKey,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.Handle("/v1/ndra/run", rt.requireAPIKey(http.HandlerFunc(rt.runPipeline)))
	mux.Handle("/v1/documents", rt.requireAPIKey(http.HandlerFunc(rt.uploadDocument)))
	mux.Handle("/v1/documents/", rt.requireAPIKey(http.HandlerFunc(rt.getDocumentByID)))
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type runRequest struct {
	Query    string            `json:"query"`
	Metadata map[string]string `json:"metadata"`
}

type runResponse struct {
	Question        string            `json:"question"`
	StructuredQuery structuredSummary `json:"structured_query"`
	FinalAnswer     string            `json:"final_answer"`
	MatchedClause   string            `json:"matched_clause"`
	Reason          string            `json:"reason"`
	Metadata        map[string]any    `json:"metadata"`
}

type structuredSummary struct {
	Intent string `json:"intent"`
}

func (rt *Router) runPipeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req runRequest
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	result, err := rt.pipeline.Run(r.Context(), domain.RawQuery{
		Text:     req.Query,
		Metadata: req.Metadata,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": fmt.Sprintf("Pipeline failed: %v", err),
		})
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordPipelineRun(
			serviceName,
			string(result.Intent),
			string(result.Answer.Verdict),
			len(result.MatchedClauses),
			result.Timing.RetrievalSeconds,
			result.Timing.InferenceSeconds,
			result.Timing.TotalSeconds,
		)
	}

	writeJSON(w, http.StatusOK, buildRunResponse(result))
}

func buildRunResponse(result *domain.PipelineResult) runResponse {
	return runResponse{
		Question:        result.Query,
		StructuredQuery: structuredSummary{Intent: string(result.Intent)},
		FinalAnswer:     string(result.Answer.Verdict),
		MatchedClause:   strings.Join(result.Answer.SupportingClauses, "\n"),
		Reason:          result.Answer.Justification,
		Metadata: map[string]any{
			"raw_answer": result.RawOutput,
			"timing":     result.Timing,
			"doc_title":  firstDocTitle(result.RetrievalMetadata),
		},
	}
}

func firstDocTitle(metadata []map[string]any) string {
	for _, m := range metadata {
		if m == nil {
			continue
		}
		if title, ok := m["doc_title"].(string); ok && title != "" {
			return title
		}
	}
	return ""
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestUC.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
