// Package http contains the HTTP handlers of the results API.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"wardrivecli/internal/analysis"
	apierrors "wardrivecli/internal/errors"
	"wardrivecli/pkg/contracts/domain"
)

// AnalysisService is the capture analysis dependency of the handler.
type AnalysisService interface {
	Analyze(ctx context.Context, path string) (*domain.Dataset, *analysis.Result, error)
}

// AnalyzeHandler serves POST /api/v1/analyze.
type AnalyzeHandler struct {
	service AnalysisService
	logger  *slog.Logger
}

// NewAnalyzeHandler creates an analyze handler.
func NewAnalyzeHandler(service AnalysisService, logger *slog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "analyze")),
	}
}

// AnalyzeRequest is the analyze endpoint's request body.
type AnalyzeRequest struct {
	// Path of the capture file on the server's filesystem.
	Path string `json:"path"`
	// IncludeDataset returns the full clean dataset in the response
	// instead of just its counters.
	IncludeDataset bool `json:"include_dataset,omitempty"`
}

// AnalyzeResponse is the analyze endpoint's response body.
type AnalyzeResponse struct {
	Result     *analysis.Result      `json:"result"`
	Records    int                   `json:"records"`
	Discards   []domain.DiscardEntry `json:"discards"`
	Defaults   domain.FieldDefaults  `json:"defaults"`
	Strategies domain.StrategyCounts `json:"strategies"`
	EmptyInput bool                  `json:"empty_input"`
	Dataset    *domain.Dataset       `json:"dataset,omitempty"`
}

// Handle processes analyze requests.
func (h *AnalyzeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		apierrors.WriteError(w, apierrors.InvalidRequestWithError(err))
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		apierrors.WriteError(w, apierrors.ErrMissingParameter)
		return
	}

	ds, result, err := h.service.Analyze(r.Context(), req.Path)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "analysis failed",
			slog.String("path", req.Path),
			slog.String("error", err.Error()))

		var appErr *apierrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apierrors.ErrTypeNotFound {
			apierrors.WriteError(w, apierrors.CaptureNotFoundError(req.Path))
			return
		}
		apierrors.WriteError(w, apierrors.AnalysisFailedError(err))
		return
	}

	resp := &AnalyzeResponse{
		Result:     result,
		Records:    len(ds.Records),
		Discards:   ds.Discards,
		Defaults:   ds.Defaults,
		Strategies: ds.Strategies,
		EmptyInput: ds.EmptyInput,
	}
	if req.IncludeDataset {
		resp.Dataset = ds
	}
	render.JSON(w, r, resp)
}
