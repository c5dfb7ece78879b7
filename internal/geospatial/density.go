// Package geospatial builds a density surface and proximity clusters
// from the georeferenced subset of a capture. The grid adapts its cell
// size to the coordinate spread so the cell count stays bounded whether
// the capture covers a single building or a whole city.
package geospatial

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"wardrivecli/pkg/contracts/domain"
)

// Config holds the engine's tunable parameters. The zero value selects
// the defaults.
type Config struct {
	// MaxGridCells bounds rows*cols of the density grid (default 400).
	MaxGridCells int
	// ClusterDistanceMeters merges APs closer than this into one cluster
	// (default 30, roughly one building).
	ClusterDistanceMeters float64
}

const (
	defaultMaxGridCells    = 400
	defaultClusterDistance = 30.0
)

// Analyzer computes density surfaces. Read-only over the dataset, safe
// to run concurrently with the other engines.
type Analyzer struct {
	logger *slog.Logger
	cfg    Config
}

// NewAnalyzer creates a geospatial analyzer.
func NewAnalyzer(logger *slog.Logger, cfg Config) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxGridCells <= 0 {
		cfg.MaxGridCells = defaultMaxGridCells
	}
	if cfg.ClusterDistanceMeters <= 0 {
		cfg.ClusterDistanceMeters = defaultClusterDistance
	}
	return &Analyzer{logger: logger, cfg: cfg}
}

// Analyze produces the density surface for a dataset. Zero georeferenced
// records degrade to an empty surface, never an error.
func (a *Analyzer) Analyze(ctx context.Context, ds *domain.Dataset) *Surface {
	surface := &Surface{}
	if ds == nil {
		return surface
	}

	points := ds.Georeferenced()
	surface.Georeferenced = len(points)
	if len(points) == 0 {
		a.logger.InfoContext(ctx, "geospatial analysis skipped, no georeferenced records")
		return surface
	}

	surface.Bounds = boundingBox(points)
	surface.Rows, surface.Cols = gridDims(
		surface.Bounds.MaxLat-surface.Bounds.MinLat,
		surface.Bounds.MaxLon-surface.Bounds.MinLon,
		a.cfg.MaxGridCells)

	surface.Cells, surface.MaxCellCount = a.rasterize(points, surface.Bounds, surface.Rows, surface.Cols)
	surface.Clusters = a.cluster(points)

	a.logger.InfoContext(ctx, "geospatial analysis complete",
		slog.Int("points", len(points)),
		slog.Int("occupied_cells", len(surface.Cells)),
		slog.Int("clusters", len(surface.Clusters)))

	return surface
}

func boundingBox(points []domain.Observation) BoundingBox {
	bb := BoundingBox{
		MinLat: *points[0].Latitude, MaxLat: *points[0].Latitude,
		MinLon: *points[0].Longitude, MaxLon: *points[0].Longitude,
	}
	for _, p := range points[1:] {
		bb.MinLat = math.Min(bb.MinLat, *p.Latitude)
		bb.MaxLat = math.Max(bb.MaxLat, *p.Latitude)
		bb.MinLon = math.Min(bb.MinLon, *p.Longitude)
		bb.MaxLon = math.Max(bb.MaxLon, *p.Longitude)
	}
	return bb
}

// gridDims derives a rows x cols partition whose product never exceeds
// maxCells, shaped to the aspect ratio of the coordinate spread.
// Degenerate spreads (all points on one line or one spot) collapse the
// flat dimension to a single row or column.
func gridDims(latSpan, lonSpan float64, maxCells int) (rows, cols int) {
	switch {
	case latSpan == 0 && lonSpan == 0:
		return 1, 1
	case lonSpan == 0:
		return maxCells, 1
	case latSpan == 0:
		return 1, maxCells
	}
	rows = int(math.Round(math.Sqrt(float64(maxCells) * latSpan / lonSpan)))
	if rows < 1 {
		rows = 1
	}
	if rows > maxCells {
		rows = maxCells
	}
	cols = maxCells / rows
	if cols < 1 {
		cols = 1
	}
	return rows, cols
}

// rasterize bins points into the grid and normalizes counts by the
// densest cell. Only occupied cells are emitted, sorted by row then
// column.
func (a *Analyzer) rasterize(points []domain.Observation, bb BoundingBox, rows, cols int) ([]Cell, int) {
	latSpan := bb.MaxLat - bb.MinLat
	lonSpan := bb.MaxLon - bb.MinLon

	counts := make(map[[2]int]int)
	maxCount := 0
	for _, p := range points {
		r := binIndex(*p.Latitude-bb.MinLat, latSpan, rows)
		c := binIndex(*p.Longitude-bb.MinLon, lonSpan, cols)
		key := [2]int{r, c}
		counts[key]++
		if counts[key] > maxCount {
			maxCount = counts[key]
		}
	}

	keys := make([][2]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	latStep := latSpan / float64(rows)
	lonStep := lonSpan / float64(cols)
	cells := make([]Cell, 0, len(keys))
	for _, k := range keys {
		cells = append(cells, Cell{
			Row: k[0],
			Col: k[1],
			Bounds: BoundingBox{
				MinLat: bb.MinLat + float64(k[0])*latStep,
				MaxLat: bb.MinLat + float64(k[0]+1)*latStep,
				MinLon: bb.MinLon + float64(k[1])*lonStep,
				MaxLon: bb.MinLon + float64(k[1]+1)*lonStep,
			},
			APCount: counts[k],
			Density: float64(counts[k]) / float64(maxCount),
		})
	}
	return cells, maxCount
}

// binIndex places an offset within [0, span] into one of n bins; the
// upper boundary folds into the last bin.
func binIndex(offset, span float64, n int) int {
	if span == 0 || n == 1 {
		return 0
	}
	idx := int(offset / span * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
