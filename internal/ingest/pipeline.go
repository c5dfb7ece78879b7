package ingest

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"wardrivecli/internal/datefix"
	apperrors "wardrivecli/internal/errors"
	"wardrivecli/pkg/contracts/domain"
)

// Config holds the pipeline's tunable knobs.
type Config struct {
	// DateLayouts overrides the date-repair template priority order.
	// Empty means the built-in default order.
	DateLayouts []string
}

// Pipeline ingests capture files into clean datasets. It is safe for
// concurrent use: independent files may be ingested in parallel.
type Pipeline struct {
	logger      *slog.Logger
	dateLayouts []string
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(logger *slog.Logger, cfg Config) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	layouts := cfg.DateLayouts
	if len(layouts) == 0 {
		layouts = nil // datefix default order
	}
	return &Pipeline{logger: logger, dateLayouts: layouts}
}

// Ingest reads a capture file and produces the clean dataset plus its
// discard log. Only a missing or unreadable file is an error; row-level
// problems are quarantined and field-level problems are defaulted.
func (p *Pipeline) Ingest(ctx context.Context, path string) (*domain.Dataset, error) {
	start := time.Now()

	var (
		ds  *domain.Dataset
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		ds, err = p.ingestWorkbook(ctx, path)
	default:
		ds, err = p.ingestDelimited(ctx, path)
	}
	if err != nil {
		return nil, err
	}

	ds.EmptyInput = len(ds.Records) == 0

	p.logger.InfoContext(ctx, "ingestion complete",
		slog.String("run_id", ds.RunID),
		slog.String("path", path),
		slog.Int("records", len(ds.Records)),
		slog.Int("discarded", len(ds.Discards)),
		slog.Int("irreparable_dates", ds.Defaults.IrreparableDates),
		slog.Int("cleared_coordinates", ds.Defaults.ClearedCoordinates),
		slog.Duration("elapsed", time.Since(start)))

	if ds.EmptyInput {
		p.logger.WarnContext(ctx, "capture yielded zero usable rows",
			slog.String("path", path),
			slog.String("reason", string(domain.ReasonEmptyInput)))
	}

	return ds, nil
}

func newDataset(path string) *domain.Dataset {
	return &domain.Dataset{
		RunID:      uuid.New().String(),
		SourcePath: path,
		IngestedAt: time.Now().UTC(),
	}
}

// ingestDelimited handles CSV-style text captures.
func (p *Pipeline) ingestDelimited(ctx context.Context, path string) (*domain.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("capture file " + path)
		}
		return nil, apperrors.NewStorageError("failed to read capture file", err).
			WithContext("path", path)
	}

	ds := newDataset(path)
	lines := splitLines(string(data))
	if len(lines) == 0 {
		return ds, nil
	}

	headerIdx, delim, cols, headerWidth := p.locateHeader(ctx, lines)
	strat := &strategySet{headerWidth: headerWidth, delim: delim, cols: cols}
	ladder := strat.ladder()

	seen := make(map[string]struct{})
	for i := headerIdx + 1; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		rowID := i + 1 // physical line number, 1-based

		cells, strategy := parseRow(ladder, line)
		if cells == nil {
			ds.Discards = append(ds.Discards, domain.DiscardEntry{
				SourceRow: rowID,
				Raw:       line,
				Reason:    domain.ReasonUnparseableRow,
			})
			continue
		}

		p.addRow(ds, cols, cells, rowID, line, seen, strategy)
	}

	return ds, nil
}

// locateHeader finds the header row, skipping the device metadata line
// some capture tools write above it, and resolves the column map. A
// header with no recognizable names falls back to the documented
// positional schema.
func (p *Pipeline) locateHeader(ctx context.Context, lines []string) (idx int, delim rune, cols columnMap, width int) {
	limit := len(lines)
	if limit > 3 {
		limit = 3
	}
	for i := 0; i < limit; i++ {
		d := sniffDelimiter(lines[i])
		cells := splitHeader(lines[i], d)
		if looksLikeHeader(cells) {
			m := mapHeader(cells)
			if !m.usable() {
				m = defaultColumnMap()
			}
			if i > 0 {
				p.logger.DebugContext(ctx, "skipped pre-header metadata lines",
					slog.Int("skipped", i))
			}
			return i, d, m, len(cells)
		}
	}

	// No recognizable header: consume the first line as one and map the
	// documented column order positionally.
	d := sniffDelimiter(lines[0])
	cells := splitHeader(lines[0], d)
	p.logger.DebugContext(ctx, "no recognizable header, using positional schema",
		slog.Int("columns", len(cells)))
	return 0, d, defaultColumnMap(), len(cells)
}

// parseRow walks the strategy ladder, returning the first successful
// parse and the strategy that produced it.
func parseRow(ladder []rowStrategy, line string) ([]string, string) {
	for _, s := range ladder {
		if cells, err := s.parse(line); err == nil {
			return cells, s.name
		}
	}
	return nil, ""
}

// addRow sanitizes a parsed row into an observation or a discard entry.
func (p *Pipeline) addRow(ds *domain.Dataset, cols columnMap, cells []string, rowID int, raw string, seen map[string]struct{}, strategy string) {
	obs, reason, ok := p.buildObservation(ds, cols, cells, rowID)
	if !ok {
		ds.Discards = append(ds.Discards, domain.DiscardEntry{
			SourceRow: rowID,
			Raw:       raw,
			Reason:    reason,
		})
		return
	}

	key := dedupKey(obs)
	if _, dup := seen[key]; dup {
		ds.Discards = append(ds.Discards, domain.DiscardEntry{
			SourceRow: rowID,
			Raw:       raw,
			Reason:    domain.ReasonDuplicateRecord,
		})
		return
	}
	seen[key] = struct{}{}

	ds.Records = append(ds.Records, obs)
	switch strategy {
	case "strict":
		ds.Strategies.Strict++
	case "lenient":
		ds.Strategies.Lenient++
	case "repair":
		ds.Strategies.Repaired++
	}
}

// buildObservation applies field-level sanitization. Row-fatal problems
// (missing bssid, invalid channel) return a discard reason; recoverable
// ones clear the field and bump the audit counters.
func (p *Pipeline) buildObservation(ds *domain.Dataset, cols columnMap, cells []string, rowID int) (domain.Observation, domain.DiscardReason, bool) {
	bssid := strings.ToUpper(cols.field(cells, fieldBSSID))
	if bssid == "" {
		return domain.Observation{}, domain.ReasonMissingBSSID, false
	}

	channel, ok := parseChannel(cols.field(cells, fieldChannel))
	if !ok || !domain.ChannelValid(channel) {
		return domain.Observation{}, domain.ReasonInvalidChannel, false
	}

	enc, known := classifyEncryption(cols.field(cells, fieldEncryption))
	if !known {
		ds.Defaults.UnknownEncryption++
	}

	signal, parsed := parseSignal(cols.field(cells, fieldSignal))
	if !parsed {
		ds.Defaults.MissingSignal++
	}

	lat, lon, cleared := parseCoordinates(
		cols.field(cells, fieldLatitude),
		cols.field(cells, fieldLongitude))
	if cleared {
		ds.Defaults.ClearedCoordinates++
	}

	ts, repaired := repairTimestamp(cols.field(cells, fieldTimestamp), p.layouts())
	if !repaired {
		ds.Defaults.IrreparableDates++
	}

	return domain.Observation{
		BSSID:      bssid,
		SSID:       cols.field(cells, fieldSSID),
		Channel:    channel,
		Band:       domain.BandForChannel(channel),
		Encryption: enc,
		SignalDBM:  signal,
		Latitude:   lat,
		Longitude:  lon,
		Timestamp:  ts,
		SourceRow:  rowID,
	}, "", true
}

func (p *Pipeline) layouts() []string {
	if p.dateLayouts != nil {
		return p.dateLayouts
	}
	return datefix.DefaultLayouts
}

// dedupKey identifies an observation by hardware address and first-seen
// timestamp; the same AP observed at a different instant is a distinct
// observation.
func dedupKey(obs domain.Observation) string {
	if obs.Timestamp != nil {
		return obs.BSSID + "|" + obs.Timestamp.UTC().Format(time.RFC3339)
	}
	return obs.BSSID + "|"
}

// splitLines splits raw file content into physical lines, tolerating
// CRLF endings and a trailing newline.
func splitLines(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.TrimSuffix(data, "\n")
	if data == "" {
		return nil
	}
	return strings.Split(data, "\n")
}

// splitHeader parses the header line itself, falling back to a naive
// split when the quoting is broken.
func splitHeader(line string, delim rune) []string {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	cells, err := r.Read()
	if err != nil {
		return strings.Split(line, string(delim))
	}
	return cells
}
