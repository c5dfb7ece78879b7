// Package exporter renders a run's outputs to disk: the clean dataset
// and discard log as CSV, the combined analysis result as JSON. Files
// land under a single output directory so a run's artifacts stay
// together.
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"wardrivecli/internal/analysis"
	"wardrivecli/pkg/contracts/domain"
)

// Writer exports run artifacts to an output directory.
type Writer struct {
	logger *slog.Logger
	outDir string
}

// NewWriter creates an exporter rooted at outDir.
func NewWriter(logger *slog.Logger, outDir string) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger, outDir: outDir}
}

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	Headers []string
	Records [][]string
	// BOMPrefix adds a UTF-8 BOM so Excel opens the file correctly.
	BOMPrefix bool
}

var datasetHeaders = []string{
	"bssid", "ssid", "channel", "band", "encryption",
	"signal_dbm", "latitude", "longitude", "timestamp", "source_row",
}

var discardHeaders = []string{"source_row", "reason", "raw"}

// ExportDataset writes the clean dataset as CSV and returns the path.
func (w *Writer) ExportDataset(ds *domain.Dataset) (string, error) {
	records := make([][]string, 0, len(ds.Records))
	for _, obs := range ds.Records {
		records = append(records, []string{
			obs.BSSID,
			obs.SSID,
			strconv.Itoa(obs.Channel),
			string(obs.Band),
			string(obs.Encryption),
			formatSignal(obs.SignalDBM),
			formatCoord(obs.Latitude),
			formatCoord(obs.Longitude),
			formatTimestamp(obs.Timestamp),
			strconv.Itoa(obs.SourceRow),
		})
	}
	path := filepath.Join(w.outDir, "dataset.csv")
	if err := w.writeCSV(path, WriteOptions{Headers: datasetHeaders, Records: records, BOMPrefix: true}); err != nil {
		return "", err
	}
	return path, nil
}

// ExportDiscards writes the discard log as CSV and returns the path.
// Raw row text is preserved verbatim so a user can audit what was lost.
func (w *Writer) ExportDiscards(ds *domain.Dataset) (string, error) {
	records := make([][]string, 0, len(ds.Discards))
	for _, d := range ds.Discards {
		records = append(records, []string{
			strconv.Itoa(d.SourceRow),
			string(d.Reason),
			d.Raw,
		})
	}
	path := filepath.Join(w.outDir, "discards.csv")
	if err := w.writeCSV(path, WriteOptions{Headers: discardHeaders, Records: records}); err != nil {
		return "", err
	}
	return path, nil
}

// ExportResult writes the combined analysis result as indented JSON and
// returns the path.
func (w *Writer) ExportResult(result *analysis.Result) (string, error) {
	path := filepath.Join(w.outDir, "result.json")
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write result: %w", err)
	}

	w.logger.Info("result exported",
		slog.String("path", path),
		slog.String("run_id", result.RunID))
	return path, nil
}

// ExportAll writes every artifact for a run and returns the paths.
func (w *Writer) ExportAll(ds *domain.Dataset, result *analysis.Result) ([]string, error) {
	var paths []string
	for _, export := range []func() (string, error){
		func() (string, error) { return w.ExportDataset(ds) },
		func() (string, error) { return w.ExportDiscards(ds) },
		func() (string, error) { return w.ExportResult(result) },
	} {
		path, err := export()
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) writeCSV(path string, options WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv writer error: %w", err)
	}

	w.logger.Info("csv exported",
		slog.String("path", path),
		slog.Int("record_count", len(options.Records)))
	return nil
}

func formatSignal(dbm *int) string {
	if dbm == nil {
		return ""
	}
	return strconv.Itoa(*dbm)
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatTimestamp(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
