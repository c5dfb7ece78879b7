package geospatial

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrivecli/pkg/contracts/domain"
)

func obsAt(bssid string, lat, lon float64, enc domain.Encryption) domain.Observation {
	return domain.Observation{
		BSSID:      bssid,
		Channel:    6,
		Band:       domain.Band24GHz,
		Encryption: enc,
		Latitude:   &lat,
		Longitude:  &lon,
	}
}

func TestAnalyzeNoGeoreferencedRecords(t *testing.T) {
	ds := &domain.Dataset{Records: []domain.Observation{
		{BSSID: "AA:BB:CC:DD:EE:01", Channel: 6, Band: domain.Band24GHz},
		{BSSID: "AA:BB:CC:DD:EE:02", Channel: 11, Band: domain.Band24GHz},
	}}

	a := NewAnalyzer(slog.Default(), Config{})
	surface := a.Analyze(context.Background(), ds)

	assert.Empty(t, surface.Cells)
	assert.Empty(t, surface.Clusters)
	assert.Zero(t, surface.Georeferenced)
}

func TestAnalyzeSinglePoint(t *testing.T) {
	ds := &domain.Dataset{Records: []domain.Observation{
		obsAt("AA:BB:CC:DD:EE:01", 40.7128, -74.0060, domain.EncryptionWPA2),
	}}

	a := NewAnalyzer(slog.Default(), Config{})
	surface := a.Analyze(context.Background(), ds)

	assert.Equal(t, 1, surface.Rows)
	assert.Equal(t, 1, surface.Cols)
	require.Len(t, surface.Cells, 1)
	assert.Equal(t, 1, surface.Cells[0].APCount)
	assert.Equal(t, 1.0, surface.Cells[0].Density)
	require.Len(t, surface.Clusters, 1)
	assert.Equal(t, 40.7128, surface.Clusters[0].CentroidLat)
}

func TestAnalyzeGridCellBound(t *testing.T) {
	ds := &domain.Dataset{}
	for i := 0; i < 40; i++ {
		for j := 0; j < 25; j++ {
			ds.Records = append(ds.Records, obsAt(
				fmt.Sprintf("AA:BB:CC:DD:%02X:%02X", i, j),
				40.0+float64(i)*0.01,
				-74.0+float64(j)*0.01,
				domain.EncryptionWPA2))
		}
	}

	a := NewAnalyzer(slog.Default(), Config{MaxGridCells: 100})
	surface := a.Analyze(context.Background(), ds)

	assert.LessOrEqual(t, surface.Rows*surface.Cols, 100)
	assert.GreaterOrEqual(t, surface.Rows, 1)
	assert.GreaterOrEqual(t, surface.Cols, 1)

	total := 0
	for _, c := range surface.Cells {
		total += c.APCount
		assert.Greater(t, c.Density, 0.0)
		assert.LessOrEqual(t, c.Density, 1.0)
	}
	assert.Equal(t, 1000, total)
}

func TestAnalyzeDegenerateVerticalSpread(t *testing.T) {
	// All points on one meridian: the grid must not blow up to maxCells
	// columns of the same longitude.
	ds := &domain.Dataset{Records: []domain.Observation{
		obsAt("AA:BB:CC:DD:EE:01", 40.00, -74.0, domain.EncryptionWPA2),
		obsAt("AA:BB:CC:DD:EE:02", 40.05, -74.0, domain.EncryptionWPA2),
		obsAt("AA:BB:CC:DD:EE:03", 40.10, -74.0, domain.EncryptionWPA2),
	}}

	a := NewAnalyzer(slog.Default(), Config{MaxGridCells: 16})
	surface := a.Analyze(context.Background(), ds)

	assert.Equal(t, 1, surface.Cols)
	assert.LessOrEqual(t, surface.Rows*surface.Cols, 16)
	total := 0
	for _, c := range surface.Cells {
		total += c.APCount
	}
	assert.Equal(t, 3, total)
}

func TestBinIndexUpperBoundary(t *testing.T) {
	// The maximum coordinate folds into the last bin instead of
	// overflowing the grid.
	assert.Equal(t, 9, binIndex(1.0, 1.0, 10))
	assert.Equal(t, 0, binIndex(0.0, 1.0, 10))
	assert.Equal(t, 0, binIndex(0.5, 0.0, 10))
}

func TestHaversineKnownDistance(t *testing.T) {
	// One thousandth of a degree of latitude is roughly 111 meters.
	d := haversineMeters(40.0, -74.0, 40.001, -74.0)
	assert.InDelta(t, 111.0, d, 1.0)

	assert.Equal(t, 0.0, haversineMeters(40.0, -74.0, 40.0, -74.0))
}

func TestClusterMergesColocatedAPs(t *testing.T) {
	// Two APs a few meters apart and one several kilometers away.
	ds := &domain.Dataset{Records: []domain.Observation{
		obsAt("AA:BB:CC:DD:EE:01", 40.71280, -74.00600, domain.EncryptionOpen),
		obsAt("AA:BB:CC:DD:EE:02", 40.71282, -74.00601, domain.EncryptionWPA2),
		obsAt("AA:BB:CC:DD:EE:03", 40.80000, -74.10000, domain.EncryptionWPA3),
	}}

	a := NewAnalyzer(slog.Default(), Config{ClusterDistanceMeters: 30})
	surface := a.Analyze(context.Background(), ds)

	require.Len(t, surface.Clusters, 2)
	site := surface.Clusters[0]
	assert.Equal(t, 2, site.MemberCount)
	assert.ElementsMatch(t, []string{"AA:BB:CC:DD:EE:01", "AA:BB:CC:DD:EE:02"}, site.BSSIDs)
	// Tied counts resolve toward the weaker category.
	assert.Equal(t, domain.EncryptionOpen, site.DominantEncryption)
	assert.InDelta(t, 40.71281, site.CentroidLat, 1e-5)

	assert.Equal(t, 1, surface.Clusters[1].MemberCount)
	assert.Equal(t, domain.EncryptionWPA3, surface.Clusters[1].DominantEncryption)
}

func TestDominantEncryptionByCount(t *testing.T) {
	members := []domain.Observation{
		{Encryption: domain.EncryptionWPA2},
		{Encryption: domain.EncryptionWPA2},
		{Encryption: domain.EncryptionOpen},
	}
	assert.Equal(t, domain.EncryptionWPA2, dominantEncryption(members))
}

func TestAnalyzeDeterministicOutput(t *testing.T) {
	ds := &domain.Dataset{}
	for i := 0; i < 50; i++ {
		ds.Records = append(ds.Records, obsAt(
			fmt.Sprintf("AA:BB:CC:DD:EE:%02X", i),
			40.0+float64(i%7)*0.003,
			-74.0+float64(i%5)*0.004,
			domain.EncryptionWPA2))
	}

	a := NewAnalyzer(slog.Default(), Config{})
	first := a.Analyze(context.Background(), ds)
	second := a.Analyze(context.Background(), ds)

	assert.Equal(t, first, second)
}
