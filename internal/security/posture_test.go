package security

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrivecli/pkg/contracts/domain"
)

func datasetWithMix(open, wep, wpa2, unknown int) *domain.Dataset {
	ds := &domain.Dataset{}
	add := func(n int, enc domain.Encryption) {
		for i := 0; i < n; i++ {
			ds.Records = append(ds.Records, domain.Observation{
				BSSID:      fmt.Sprintf("AA:BB:CC:DD:%02X:%02X", len(ds.Records)/256, len(ds.Records)%256),
				SSID:       fmt.Sprintf("net-%s-%d", enc, i),
				Channel:    6,
				Band:       domain.Band24GHz,
				Encryption: enc,
				SourceRow:  len(ds.Records) + 1,
			})
		}
	}
	add(open, domain.EncryptionOpen)
	add(wep, domain.EncryptionWEP)
	add(wpa2, domain.EncryptionWPA2)
	add(unknown, domain.EncryptionUnknown)
	return ds
}

func TestAnalyzeEmptyDataset(t *testing.T) {
	a := NewAnalyzer(slog.Default())
	report := a.Analyze(context.Background(), &domain.Dataset{})

	assert.Empty(t, report.Categories)
	assert.Empty(t, report.Findings)
	assert.Zero(t, report.PostureScore)
}

func TestAnalyzeCategoriesAndProportions(t *testing.T) {
	ds := datasetWithMix(1, 1, 6, 2)

	a := NewAnalyzer(slog.Default())
	report := a.Analyze(context.Background(), ds)

	assert.Equal(t, 10, report.Total)
	assert.Equal(t, 2, report.UnknownCount)
	assert.Equal(t, 8, report.ScoredTotal)

	require.Len(t, report.Categories, 4)
	assert.Equal(t, domain.EncryptionOpen, report.Categories[0].Encryption)
	assert.Equal(t, 0.1, report.Categories[0].Proportion)
	assert.Equal(t, domain.EncryptionWPA2, report.Categories[2].Encryption)
	assert.Equal(t, 6, report.Categories[2].Count)

	var sum float64
	for _, c := range report.Categories {
		sum += c.Proportion
	}
	assert.InDelta(t, 1.0, sum, 0.001)
}

func TestAnalyzeFlagsOpenAndWEP(t *testing.T) {
	lat, lon := 40.7128, -74.0060
	ds := &domain.Dataset{Records: []domain.Observation{
		{BSSID: "AA:BB:CC:DD:EE:01", SSID: "CoffeeShop", Channel: 6, Encryption: domain.EncryptionOpen, Latitude: &lat, Longitude: &lon, SourceRow: 2},
		{BSSID: "AA:BB:CC:DD:EE:02", SSID: "LegacyRouter", Channel: 11, Encryption: domain.EncryptionWEP, SourceRow: 3},
		{BSSID: "AA:BB:CC:DD:EE:03", SSID: "Secure", Channel: 36, Encryption: domain.EncryptionWPA3, SourceRow: 4},
	}}

	a := NewAnalyzer(slog.Default())
	report := a.Analyze(context.Background(), ds)

	require.Len(t, report.Findings, 2)
	assert.Equal(t, "AA:BB:CC:DD:EE:01", report.Findings[0].BSSID)
	assert.Equal(t, domain.EncryptionOpen, report.Findings[0].Encryption)
	require.NotNil(t, report.Findings[0].Latitude)
	assert.Equal(t, 40.7128, *report.Findings[0].Latitude)
	assert.Equal(t, 2, report.Findings[0].SourceRow)

	assert.Equal(t, domain.EncryptionWEP, report.Findings[1].Encryption)
	assert.Nil(t, report.Findings[1].Latitude)
}

func TestPostureScoreWeights(t *testing.T) {
	tests := []struct {
		name                     string
		open, wep, wpa2, unknown int
		want                     float64
	}{
		{"all secure", 0, 0, 10, 0, 0},
		{"all open", 10, 0, 0, 0, 1},
		{"all wep", 0, 10, 0, 0, 0.6},
		{"half open", 5, 0, 5, 0, 0.5},
		{"mixed", 2, 3, 5, 0, 0.38},
		{"unknown excluded", 2, 0, 2, 6, 0.5},
		{"only unknown", 0, 0, 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(slog.Default())
			report := a.Analyze(context.Background(), datasetWithMix(tt.open, tt.wep, tt.wpa2, tt.unknown))
			assert.Equal(t, tt.want, report.PostureScore)
		})
	}
}

// Adding open networks while holding the rest fixed must never lower
// the score.
func TestPostureScoreMonotonicInOpenShare(t *testing.T) {
	a := NewAnalyzer(slog.Default())

	prev := -1.0
	for open := 0; open <= 20; open++ {
		report := a.Analyze(context.Background(), datasetWithMix(open, 3, 10, 2))
		assert.GreaterOrEqual(t, report.PostureScore, prev, "open=%d", open)
		prev = report.PostureScore
	}
}
