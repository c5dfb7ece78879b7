// Package services holds the application services behind the HTTP
// handlers and the CLI: capture analysis and health reporting.
package services

import (
	"context"
	"log/slog"
	"time"

	"wardrivecli/internal/analysis"
	"wardrivecli/internal/config"
	"wardrivecli/internal/geospatial"
	"wardrivecli/internal/infrastructure"
	"wardrivecli/internal/ingest"
	"wardrivecli/internal/interference"
	"wardrivecli/pkg/contracts/domain"
)

// AnalysisService runs the full pipeline for one capture file: ingestion
// followed by the three engines.
type AnalysisService struct {
	logger   *slog.Logger
	metrics  *infrastructure.Metrics
	pipeline *ingest.Pipeline
	runner   *analysis.Runner
}

// NewAnalysisService wires the pipeline and engines from configuration.
// metrics may be nil for callers that do not export instrumentation.
func NewAnalysisService(logger *slog.Logger, metrics *infrastructure.Metrics, cfg *config.Config) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		logger:   logger.With(slog.String("service", "analysis")),
		metrics:  metrics,
		pipeline: ingest.NewPipeline(logger, ingest.Config{DateLayouts: cfg.Ingest.DateLayouts}),
		runner: analysis.NewRunner(logger, metrics,
			interference.Config{
				CongestionPercentile: cfg.Interference.CongestionPercentile,
				ThresholdOverride:    cfg.Interference.ThresholdOverride,
			},
			geospatial.Config{
				MaxGridCells:          cfg.Geospatial.MaxGridCells,
				ClusterDistanceMeters: cfg.Geospatial.ClusterDistanceMeters,
			}),
	}
}

// Analyze ingests the capture at path and runs every engine over it.
// Only a missing or unreadable file fails; bad rows surface in the
// dataset's discard log.
func (s *AnalysisService) Analyze(ctx context.Context, path string) (*domain.Dataset, *analysis.Result, error) {
	start := time.Now()

	ds, err := s.pipeline.Ingest(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if s.metrics != nil {
		s.metrics.RowsIngested.Add(float64(len(ds.Records)))
		for _, d := range ds.Discards {
			s.metrics.RowsDiscarded.WithLabelValues(string(d.Reason)).Inc()
		}
		s.metrics.IngestSeconds.Observe(time.Since(start).Seconds())
	}

	result, err := s.runner.Run(ctx, ds)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "capture analyzed",
		slog.String("path", path),
		slog.String("run_id", ds.RunID),
		slog.Int("records", len(ds.Records)),
		slog.Int("discards", len(ds.Discards)),
		slog.Duration("elapsed", time.Since(start)))

	return ds, result, nil
}
