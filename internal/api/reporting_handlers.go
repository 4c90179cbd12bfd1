package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agence-consultoria/bgreport/internal/history"
	"github.com/agence-consultoria/bgreport/internal/ingest"
	"github.com/agence-consultoria/bgreport/internal/logging"
	"github.com/agence-consultoria/bgreport/pkg/reporting"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	bgerrors "github.com/agence-consultoria/bgreport/internal/errors"
)

const (
	defaultMaxBodyBytes = 8 << 20
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryStore is the part of the run history the handlers use.
type HistoryStore interface {
	Record(run *history.Run) error
	List(limit int) ([]*history.Run, error)
	Get(id string) (*history.Run, error)
}

// ReportingHandlers serves report generation and run history.
type ReportingHandlers struct {
	profile  string
	schema   []string
	history  HistoryStore // may be nil
	maxBytes int64
}

// NewReportingHandlers creates handlers for profile. Positional check
// results in request bodies are matched against the profile's schema.
func NewReportingHandlers(p reporting.Profile, store HistoryStore) *ReportingHandlers {
	return &ReportingHandlers{
		profile:  p.Name,
		schema:   p.Schema,
		history:  store,
		maxBytes: defaultMaxBodyBytes,
	}
}

// Register mounts the handlers on r.
func (h *ReportingHandlers) Register(r chi.Router) {
	r.Post("/reports", h.HandleGenerateReport)
	r.Get("/reports", h.HandleListReports)
	r.Get("/reports/{id}", h.HandleGetReport)
}

type generateRequest struct {
	Format     reporting.ReportFormat `json:"format"`
	Title      string                 `json:"title"`
	Candidates json.RawMessage        `json:"candidates"`
}

// HandleGenerateReport renders the candidates in the request body and
// returns the document as an attachment.
func (h *ReportingHandlers) HandleGenerateReport(w http.ResponseWriter, r *http.Request) {
	engine := reporting.GetEngine()
	if engine == nil {
		writeErrorResponse(w, http.StatusInternalServerError, "engine_unavailable", "Reporting engine not initialized", nil)
		return
	}

	var req generateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorResponse(w, http.StatusRequestEntityTooLarge, "body_too_large", "Request body too large", nil)
			return
		}
		writeErrorResponse(w, http.StatusBadRequest, "invalid_json", "Request body must be a JSON object", nil)
		return
	}

	if req.Format == "" {
		req.Format = reporting.FormatPDF
	}
	if req.Format != reporting.FormatPDF && req.Format != reporting.FormatCSV {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_format", "Format must be 'pdf' or 'csv'", nil)
		return
	}
	if len(req.Candidates) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "missing_candidates", "candidates is required", nil)
		return
	}

	records, err := ingest.LoadJSON(bytes.NewReader(req.Candidates), h.schema)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_candidates", err.Error(), nil)
		return
	}
	if len(records) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "missing_candidates", "candidates must not be empty", nil)
		return
	}

	logger := logging.FromContext(r.Context())
	started := time.Now()
	report, err := engine.Generate(r.Context(), reporting.ReportRequest{
		Records: records,
		Format:  req.Format,
		Title:   req.Title,
	})
	h.record(r, req.Format, records, report, err, started)
	if err != nil {
		if bgerrors.IsInputError(err) {
			writeErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error(), nil)
			return
		}
		logger.Error().Err(err).Int("candidates", len(records)).Msg("Report generation failed")
		writeErrorResponse(w, http.StatusInternalServerError, "generation_failed", "Failed to generate report", nil)
		return
	}

	filename := fmt.Sprintf("relatorio-%s-%s.%s",
		sanitizeFilename(reporting.Slug(records[0].Name)), started.Format("20060102"), req.Format)
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if report.Pages > 0 {
		w.Header().Set("X-Report-Pages", strconv.Itoa(report.Pages))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.Data); err != nil {
		logger.Warn().Err(err).Msg("Failed to write report response")
	}
}

func (h *ReportingHandlers) record(r *http.Request, format reporting.ReportFormat, records []reporting.CandidateRecord, report *reporting.Report, genErr error, started time.Time) {
	if h.history == nil {
		return
	}
	run := &history.Run{
		Source:     "api:" + logging.RequestID(r.Context()),
		Output:     string(format),
		Profile:    h.profile,
		Candidates: len(records),
		StartedAt:  started.UTC(),
		FinishedAt: time.Now().UTC(),
	}
	if genErr != nil {
		run.Status = history.StatusFailed
		run.Error = genErr.Error()
	} else {
		run.Status = history.StatusSucceeded
		run.TotalPages = report.Pages
		run.SizeBytes = int64(len(report.Data))
	}
	if err := h.history.Record(run); err != nil {
		logger := logging.FromContext(r.Context())
		logger.Warn().Err(err).Msg("Failed to record report run")
	}
}

// HandleListReports returns recent runs, newest first.
func (h *ReportingHandlers) HandleListReports(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeErrorResponse(w, http.StatusNotFound, "history_disabled", "Run history is disabled", nil)
		return
	}

	limit := defaultHistoryLimit
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeErrorResponse(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer", nil)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	runs, err := h.history.List(limit)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "history_failed", sanitizeErrorForClient(err, "Failed to read run history"), nil)
		return
	}
	if runs == nil {
		runs = []*history.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// HandleGetReport returns one run.
func (h *ReportingHandlers) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeErrorResponse(w, http.StatusNotFound, "history_disabled", "Run history is disabled", nil)
		return
	}

	id := chi.URLParam(r, "id")
	run, err := h.history.Get(id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "history_failed", sanitizeErrorForClient(err, "Failed to read run history"), nil)
		return
	}
	if run == nil {
		writeErrorResponse(w, http.StatusNotFound, "not_found", "Run not found", map[string]string{"id": id})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// sanitizeFilename removes or replaces characters that could cause issues in filenames or headers
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, "\"", "")
	s = strings.ReplaceAll(s, "\\", "")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")

	if len(s) > 64 {
		s = s[:64]
	}
	return s
}

// sanitizeErrorForClient logs err and returns the generic message for the
// client.
func sanitizeErrorForClient(err error, genericMsg string) string {
	if err != nil {
		log.Error().Err(err).Msg(genericMsg)
	}
	return genericMsg
}
