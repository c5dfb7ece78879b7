// Package security classifies a capture's encryption distribution and
// scores its overall exposure. Open and WEP networks are the actionable
// findings and are flagged individually, not just counted.
package security

import (
	"context"
	"log/slog"
	"math"

	"wardrivecli/pkg/contracts/domain"
)

// Severity weights for the posture score. Open networks count most
// severely, WEP moderately, WPA and above contribute nothing.
const (
	weightOpen = 1.0
	weightWEP  = 0.6
)

// CategoryStat is one encryption category's share of the capture.
type CategoryStat struct {
	Encryption domain.Encryption `json:"encryption"`
	Count      int               `json:"count"`
	Proportion float64           `json:"proportion"`
}

// Finding is one flagged open or weak network.
type Finding struct {
	BSSID      string            `json:"bssid"`
	SSID       string            `json:"ssid"`
	Encryption domain.Encryption `json:"encryption"`
	Channel    int               `json:"channel"`
	Latitude   *float64          `json:"latitude,omitempty"`
	Longitude  *float64          `json:"longitude,omitempty"`
	SourceRow  int               `json:"source_row"`
}

// Report is the security engine's output.
type Report struct {
	Categories []CategoryStat `json:"categories"`
	Findings   []Finding      `json:"findings"`
	// PostureScore is the weighted exposure in 0..1: 0 when every scored
	// network is WPA or better, 1 when every scored network is open.
	PostureScore float64 `json:"posture_score"`
	// UnknownCount is reported separately; unknown-encryption records are
	// excluded from the score so missing information never reads as
	// either safety or exposure.
	UnknownCount int `json:"unknown_count"`
	ScoredTotal  int `json:"scored_total"`
	Total        int `json:"total"`
}

// Analyzer computes security posture reports.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates a security analyzer.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// categoryOrder fixes the report's category ordering, weakest first.
var categoryOrder = []domain.Encryption{
	domain.EncryptionOpen,
	domain.EncryptionWEP,
	domain.EncryptionWPA,
	domain.EncryptionWPA2,
	domain.EncryptionWPA3,
	domain.EncryptionUnknown,
}

// Analyze produces the posture report for a dataset. An empty dataset
// degrades to an empty report with a zero score, never an error.
func (a *Analyzer) Analyze(ctx context.Context, ds *domain.Dataset) *Report {
	report := &Report{}
	if ds == nil || ds.Empty() {
		a.logger.InfoContext(ctx, "security analysis skipped, no records")
		return report
	}

	counts := make(map[domain.Encryption]int)
	for _, obs := range ds.Records {
		counts[obs.Encryption]++
		if obs.Encryption == domain.EncryptionOpen || obs.Encryption == domain.EncryptionWEP {
			report.Findings = append(report.Findings, Finding{
				BSSID:      obs.BSSID,
				SSID:       obs.SSID,
				Encryption: obs.Encryption,
				Channel:    obs.Channel,
				Latitude:   obs.Latitude,
				Longitude:  obs.Longitude,
				SourceRow:  obs.SourceRow,
			})
		}
	}

	report.Total = len(ds.Records)
	report.UnknownCount = counts[domain.EncryptionUnknown]
	report.ScoredTotal = report.Total - report.UnknownCount

	for _, enc := range categoryOrder {
		if counts[enc] == 0 {
			continue
		}
		report.Categories = append(report.Categories, CategoryStat{
			Encryption: enc,
			Count:      counts[enc],
			Proportion: round4(float64(counts[enc]) / float64(report.Total)),
		})
	}

	if report.ScoredTotal > 0 {
		weighted := weightOpen*float64(counts[domain.EncryptionOpen]) +
			weightWEP*float64(counts[domain.EncryptionWEP])
		report.PostureScore = round4(weighted / float64(report.ScoredTotal))
	}

	a.logger.InfoContext(ctx, "security analysis complete",
		slog.Int("flagged", len(report.Findings)),
		slog.Int("unknown", report.UnknownCount),
		slog.Float64("posture_score", report.PostureScore))

	return report
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
