package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/agence-consultoria/bgreport/internal/history"
	"github.com/agence-consultoria/bgreport/pkg/reporting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bgerrors "github.com/agence-consultoria/bgreport/internal/errors"
)

type fakeEngine struct {
	mu   sync.Mutex
	reqs []reporting.ReportRequest
	err  error
}

func (e *fakeEngine) Generate(_ context.Context, req reporting.ReportRequest) (*reporting.Report, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reqs = append(e.reqs, req)
	if e.err != nil {
		return nil, e.err
	}
	return &reporting.Report{Data: []byte("%PDF-1.3 fake"), ContentType: req.Format.ContentType(), Pages: 3}, nil
}

type memoryHistory struct {
	runs []*history.Run
	err  error
}

func (m *memoryHistory) Record(run *history.Run) error {
	if m.err != nil {
		return m.err
	}
	run.ID = strings.Repeat("0", 25) + string(rune('A'+len(m.runs)))
	m.runs = append(m.runs, run)
	return nil
}

func (m *memoryHistory) List(limit int) ([]*history.Run, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit > len(m.runs) {
		limit = len(m.runs)
	}
	return m.runs[:limit], nil
}

func (m *memoryHistory) Get(id string) (*history.Run, error) {
	for _, run := range m.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, nil
}

func setupRouter(t *testing.T, engine reporting.Engine, store HistoryStore) http.Handler {
	t.Helper()
	prev := reporting.GetEngine()
	reporting.SetEngine(engine)
	t.Cleanup(func() { reporting.SetEngine(prev) })

	reports := NewReportingHandlers(reporting.Consolidated(), store)
	return NewRouter(RouterConfig{Reports: reports, Version: "test"})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var apiErr ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

const validBody = `{
  "title": "Triagem Outubro",
  "candidates": [
    {"nome": "João da Silva", "cpf": "12345678909",
     "consultas": [["Polícia Federal", "Nada consta", "Concluído", "01/10/2026"]]}
  ]
}`

func TestHandleGenerateReport(t *testing.T) {
	engine := &fakeEngine{}
	store := &memoryHistory{}
	router := setupRouter(t, engine, store)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(validBody))
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "3", rec.Header().Get("X-Report-Pages"))
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="relatorio-joao-da-silva-`)
	assert.Equal(t, "%PDF-1.3 fake", rec.Body.String())

	require.Len(t, engine.reqs, 1)
	got := engine.reqs[0]
	assert.Equal(t, reporting.FormatPDF, got.Format)
	assert.Equal(t, "Triagem Outubro", got.Title)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "Polícia Federal", got.Records[0].Results[0].Value(reporting.ColumnAgency))

	require.Len(t, store.runs, 1)
	assert.Equal(t, history.StatusSucceeded, store.runs[0].Status)
	assert.Equal(t, "api:req-42", store.runs[0].Source)
	assert.Equal(t, 3, store.runs[0].TotalPages)
}

func TestHandleGenerateReportCSV(t *testing.T) {
	engine := &fakeEngine{}
	router := setupRouter(t, engine, nil)

	body := `{"format":"csv","candidates":[{"name":"Ana","id":"1"}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasSuffix(rec.Header().Get("Content-Disposition"), `.csv"`))
}

func TestHandleGenerateReportBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"not json", `nope`, "invalid_json"},
		{"bad format", `{"format":"docx","candidates":[{"nome":"Ana"}]}`, "invalid_format"},
		{"no candidates", `{"format":"pdf"}`, "missing_candidates"},
		{"empty candidates", `{"candidates":[]}`, "missing_candidates"},
		{"malformed candidates", `{"candidates":[{"nome":"Ana","consultas":[1]}]}`, "invalid_candidates"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(t, &fakeEngine{}, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			apiErr := decodeError(t, rec)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.NotEmpty(t, apiErr.RequestID)
		})
	}
}

func TestHandleGenerateReportBodyTooLarge(t *testing.T) {
	setupRouter(t, &fakeEngine{}, nil)
	reports := NewReportingHandlers(reporting.Consolidated(), nil)
	reports.maxBytes = 16
	router := NewRouter(RouterConfig{Reports: reports})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(validBody)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandleGenerateReportEngineErrors(t *testing.T) {
	store := &memoryHistory{}
	engine := &fakeEngine{err: bgerrors.WrapLayoutError("render_body", "x.pdf", errors.New("boom"))}
	router := setupRouter(t, engine, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(validBody)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "generation_failed", decodeError(t, rec).Code)
	assert.NotContains(t, rec.Body.String(), "boom", "internal errors are not leaked")

	require.Len(t, store.runs, 1)
	assert.Equal(t, history.StatusFailed, store.runs[0].Status)

	engine.err = bgerrors.WrapInputError("generate", "", errors.New("no candidate records"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(validBody)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerateReportWithoutEngine(t *testing.T) {
	router := setupRouter(t, nil, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports", strings.NewReader(validBody)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "engine_unavailable", decodeError(t, rec).Code)
}

func TestHistoryEndpoints(t *testing.T) {
	store := &memoryHistory{}
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Record(&history.Run{Source: "inbox/lote.json", Status: history.StatusSucceeded, TotalPages: 3}))
	}
	router := setupRouter(t, &fakeEngine{}, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports?limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []history.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	assert.Len(t, runs, 2)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	id := store.runs[1].ID
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var run history.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, id, run.ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistoryDisabled(t *testing.T) {
	router := setupRouter(t, &fakeEngine{}, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "history_disabled", decodeError(t, rec).Code)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b", sanitizeFilename(`a/b"`))
	assert.Equal(t, "xy", sanitizeFilename("x\r\ny"))
	assert.Len(t, sanitizeFilename(strings.Repeat("a", 100)), 64)
}
