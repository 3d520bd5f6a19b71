package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"maso-hq/masolint/pkg/history"
	"maso-hq/masolint/pkg/maso/ast"
	"maso-hq/masolint/pkg/maso/diagnostic"
	"maso-hq/masolint/pkg/workspace"
)

// maxHistoryLimit caps GET /v1/history.
const maxHistoryLimit = 1000

// ValidateResponse is returned by POST /v1/validate and document updates.
type ValidateResponse struct {
	URI         string                  `json:"uri,omitempty"`
	Valid       bool                    `json:"valid"`
	Mode        ast.Mode                `json:"mode,omitempty"`
	Summary     diagnostic.Summary      `json:"summary"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
}

// DocumentsResponse is returned by GET /v1/documents.
type DocumentsResponse struct {
	Documents []string `json:"documents"`
	Count     int      `json:"count"`
}

// CommandResponse is returned by POST /v1/commands/validate.
type CommandResponse struct {
	Level       string                  `json:"level"`
	Message     string                  `json:"message"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics,omitempty"`
}

// HistoryResponse is returned by GET /v1/history.
type HistoryResponse struct {
	Runs  []*history.Run `json:"runs"`
	Count int            `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

func newValidateResponse(uri string, mode ast.Mode, diags []diagnostic.Diagnostic) ValidateResponse {
	if diags == nil {
		diags = []diagnostic.Diagnostic{}
	}
	summary := diagnostic.Summarize(diags)
	return ValidateResponse{
		URI:         uri,
		Valid:       summary.Errors == 0,
		Mode:        mode,
		Summary:     summary,
		Diagnostics: diags,
	}
}

// readBody reads at most the configured number of bytes.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("document exceeds %d bytes", tooLarge.Limit))
			return "", false
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return "", false
	}
	return string(body), true
}

func requireURI(w http.ResponseWriter, r *http.Request) (string, bool) {
	uri := r.URL.Query().Get("uri")
	if uri == "" {
		writeError(w, http.StatusBadRequest, "uri query parameter is required")
		return "", false
	}
	return uri, true
}

// handleValidate handles POST /v1/validate. The body is document text.
// When a uri is given and history is enabled the run is recorded.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result := s.validator.Run(text)
	duration := time.Since(start)

	summary := diagnostic.Summarize(result.Diagnostics)
	s.metrics.RecordValidation(string(history.TriggerAPI), string(result.Mode), summary.Errors, summary.Warnings, duration)

	uri := r.URL.Query().Get("uri")
	if s.history != nil && uri != "" {
		run := history.NewRun(uri, history.TriggerAPI, text, result)
		run.Duration = duration
		err := s.history.Record(r.Context(), run)
		s.metrics.RecordHistoryWrite(err)
		if err != nil {
			s.logger.WarnContext(r.Context(), "failed to record validation run", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, newValidateResponse(uri, result.Mode, result.Diagnostics))
}

// handlePutDocument handles PUT /v1/documents?uri=, the change trigger.
func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	uri, ok := requireURI(w, r)
	if !ok {
		return
	}
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}

	if !s.workspace.IsMasoFile(uri) {
		writeJSON(w, http.StatusOK, newValidateResponse(uri, "", nil))
		return
	}
	if err := s.workspace.Change(r.Context(), uri, text); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	entry, _ := s.workspace.Get(uri)
	writeJSON(w, http.StatusOK, newValidateResponse(uri, entry.Mode, entry.Diagnostics))
}

// handleDeleteDocument handles DELETE /v1/documents?uri=.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	uri, ok := requireURI(w, r)
	if !ok {
		return
	}
	s.workspace.Close(uri)
	w.WriteHeader(http.StatusNoContent)
}

// handleListDocuments handles GET /v1/documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	uris := s.workspace.URIs()
	writeJSON(w, http.StatusOK, DocumentsResponse{Documents: uris, Count: len(uris)})
}

// handleGetDiagnostics handles GET /v1/documents/diagnostics?uri=.
func (s *Server) handleGetDiagnostics(w http.ResponseWriter, r *http.Request) {
	uri, ok := requireURI(w, r)
	if !ok {
		return
	}
	entry, found := s.workspace.Get(uri)
	if !found {
		writeError(w, http.StatusNotFound, fmt.Sprintf("document %s is not open", uri))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handleValidateCommand handles POST /v1/commands/validate?uri=, the
// manual trigger.
func (s *Server) handleValidateCommand(w http.ResponseWriter, r *http.Request) {
	uri, ok := requireURI(w, r)
	if !ok {
		return
	}
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}

	notice, err := s.workspace.ValidateCommand(r.Context(), uri, text)
	if errors.Is(err, workspace.ErrNotMasoFile) {
		writeJSON(w, http.StatusUnprocessableEntity, CommandResponse{Level: "warning", Message: err.Error()})
		return
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CommandResponse{
		Level:       "info",
		Message:     notice.Message,
		Diagnostics: s.workspace.Diagnostics(uri),
	})
}

// handleListHistory handles GET /v1/history?uri=&limit=&since=.
func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	q := history.Query{URI: r.URL.Query().Get("uri")}

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxHistoryLimit {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxHistoryLimit))
			return
		}
		q.Limit = limit
	}
	if v := r.URL.Query().Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be an RFC 3339 timestamp")
			return
		}
		q.Since = since
	}

	runs, err := s.history.List(r.Context(), q)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to list history", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Runs: runs, Count: len(runs)})
}

// handleGetRun handles GET /v1/history/{id}.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	run, err := s.history.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to get run", "run_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}
