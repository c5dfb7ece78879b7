// Package analysis fans a clean dataset out to the three engines and
// assembles the combined result. Engines are read-only over the dataset,
// so they run concurrently; sequential and parallel execution produce
// identical results.
package analysis

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"wardrivecli/internal/geospatial"
	"wardrivecli/internal/infrastructure"
	"wardrivecli/internal/interference"
	"wardrivecli/internal/security"
	"wardrivecli/pkg/contracts/domain"
)

// Result bundles one run's outputs for the reporting collaborators.
type Result struct {
	RunID        string               `json:"run_id"`
	SourcePath   string               `json:"source_path"`
	AnalyzedAt   time.Time            `json:"analyzed_at"`
	Summary      Summary              `json:"summary"`
	Interference *interference.Report `json:"interference"`
	Density      *geospatial.Surface  `json:"density"`
	Security     *security.Report     `json:"security"`
}

// Runner owns the three engines.
type Runner struct {
	logger       *slog.Logger
	metrics      *infrastructure.Metrics
	interference *interference.Analyzer
	geospatial   *geospatial.Analyzer
	security     *security.Analyzer
}

// NewRunner wires the engines with their configuration. metrics may be
// nil for callers that do not export instrumentation.
func NewRunner(logger *slog.Logger, metrics *infrastructure.Metrics, icfg interference.Config, gcfg geospatial.Config) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		logger:       logger,
		metrics:      metrics,
		interference: interference.NewAnalyzer(logger, icfg),
		geospatial:   geospatial.NewAnalyzer(logger, gcfg),
		security:     security.NewAnalyzer(logger),
	}
}

// Run executes all engines against the dataset in parallel. Each engine
// writes only its own result slot, so no synchronization beyond the
// group join is needed.
func (r *Runner) Run(ctx context.Context, ds *domain.Dataset) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:      ds.RunID,
		SourcePath: ds.SourcePath,
		AnalyzedAt: time.Now().UTC(),
		Summary:    summarize(ds),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Interference = r.interference.Analyze(gctx, ds)
		return nil
	})
	g.Go(func() error {
		result.Density = r.geospatial.Analyze(gctx, ds)
		return nil
	})
	g.Go(func() error {
		result.Security = r.security.Analyze(gctx, ds)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.metrics != nil {
		r.metrics.AnalysesRun.Inc()
	}
	r.logger.InfoContext(ctx, "analysis run complete",
		slog.String("run_id", ds.RunID),
		slog.Int("records", len(ds.Records)),
		slog.Duration("elapsed", time.Since(start)))

	return result, nil
}

// RunSequential executes the engines one after another. Kept alongside
// Run so tests can assert the two orderings agree.
func (r *Runner) RunSequential(ctx context.Context, ds *domain.Dataset) *Result {
	return &Result{
		RunID:        ds.RunID,
		SourcePath:   ds.SourcePath,
		AnalyzedAt:   time.Now().UTC(),
		Summary:      summarize(ds),
		Interference: r.interference.Analyze(ctx, ds),
		Density:      r.geospatial.Analyze(ctx, ds),
		Security:     r.security.Analyze(ctx, ds),
	}
}
