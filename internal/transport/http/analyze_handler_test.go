package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrivecli/internal/analysis"
	apierrors "wardrivecli/internal/errors"
	"wardrivecli/pkg/contracts/domain"
)

type stubAnalysisService struct {
	ds     *domain.Dataset
	result *analysis.Result
	err    error

	gotPath string
}

func (s *stubAnalysisService) Analyze(ctx context.Context, path string) (*domain.Dataset, *analysis.Result, error) {
	s.gotPath = path
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.ds, s.result, nil
}

func postAnalyze(t *testing.T, h *AnalyzeHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestAnalyzeHandlerSuccess(t *testing.T) {
	stub := &stubAnalysisService{
		ds: &domain.Dataset{
			RunID:   "run-1",
			Records: []domain.Observation{{BSSID: "AA:BB:CC:DD:EE:FF", Channel: 6}},
			Discards: []domain.DiscardEntry{
				{SourceRow: 3, Raw: "bad", Reason: domain.ReasonUnparseableRow},
			},
		},
		result: &analysis.Result{RunID: "run-1"},
	}
	h := NewAnalyzeHandler(stub, slog.Default())

	rec := postAnalyze(t, h, `{"path":"capture.csv"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "capture.csv", stub.gotPath)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Records)
	require.Len(t, resp.Discards, 1)
	assert.Equal(t, domain.ReasonUnparseableRow, resp.Discards[0].Reason)
	assert.Nil(t, resp.Dataset)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "run-1", resp.Result.RunID)
}

func TestAnalyzeHandlerIncludeDataset(t *testing.T) {
	stub := &stubAnalysisService{
		ds:     &domain.Dataset{RunID: "run-1"},
		result: &analysis.Result{RunID: "run-1"},
	}
	h := NewAnalyzeHandler(stub, slog.Default())

	rec := postAnalyze(t, h, `{"path":"capture.csv","include_dataset":true}`)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Dataset)
	assert.Equal(t, "run-1", resp.Dataset.RunID)
}

func TestAnalyzeHandlerMissingPath(t *testing.T) {
	h := NewAnalyzeHandler(&stubAnalysisService{}, slog.Default())

	rec := postAnalyze(t, h, `{"path":"  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "MISSING_PARAMETER", resp.Error.ErrorCode)
}

func TestAnalyzeHandlerMalformedBody(t *testing.T) {
	h := NewAnalyzeHandler(&stubAnalysisService{}, slog.Default())

	rec := postAnalyze(t, h, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeHandlerCaptureNotFound(t *testing.T) {
	stub := &stubAnalysisService{err: apierrors.NewNotFoundError("capture file")}
	h := NewAnalyzeHandler(stub, slog.Default())

	rec := postAnalyze(t, h, `{"path":"missing.csv"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CAPTURE_NOT_FOUND", resp.Error.ErrorCode)
}

func TestAnalyzeHandlerAnalysisFailure(t *testing.T) {
	stub := &stubAnalysisService{err: apierrors.NewParsingError("workbook is corrupt", nil)}
	h := NewAnalyzeHandler(stub, slog.Default())

	rec := postAnalyze(t, h, `{"path":"broken.xlsx"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ANALYSIS_FAILED", resp.Error.ErrorCode)
}
