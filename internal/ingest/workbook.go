package ingest

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "wardrivecli/internal/errors"
	"wardrivecli/pkg/contracts/domain"
)

// ingestWorkbook handles spreadsheet captures. The sheet rows arrive
// already split, so the delimiter ladder is unnecessary; rows feed the
// same sanitization path as CSV cells and count as strict parses.
func (p *Pipeline) ingestWorkbook(ctx context.Context, path string) (*domain.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	ds := newDataset(path)

	sheet, rows := pickSheet(f)
	if sheet == "" {
		return ds, nil
	}

	headerIdx, cols := locateWorkbookHeader(rows)
	p.logger.DebugContext(ctx, "reading workbook sheet",
		slog.String("sheet", sheet),
		slog.Int("rows", len(rows)))

	seen := make(map[string]struct{})
	for i := headerIdx + 1; i < len(rows); i++ {
		cells := rows[i]
		if emptyRow(cells) {
			continue
		}
		rowID := i + 1
		raw := strings.Join(cells, ",")
		p.addRow(ds, cols, cells, rowID, raw, seen, "strict")
	}

	return ds, nil
}

// pickSheet returns the first sheet containing data, preferring one whose
// leading rows carry a recognizable header.
func pickSheet(f *excelize.File) (string, [][]string) {
	var fallback string
	var fallbackRows [][]string

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		limit := len(rows)
		if limit > 3 {
			limit = 3
		}
		for i := 0; i < limit; i++ {
			if looksLikeHeader(rows[i]) {
				return name, rows
			}
		}
		if fallback == "" {
			fallback, fallbackRows = name, rows
		}
	}
	return fallback, fallbackRows
}

func locateWorkbookHeader(rows [][]string) (int, columnMap) {
	limit := len(rows)
	if limit > 3 {
		limit = 3
	}
	for i := 0; i < limit; i++ {
		if looksLikeHeader(rows[i]) {
			m := mapHeader(rows[i])
			if m.usable() {
				return i, m
			}
		}
	}
	return 0, defaultColumnMap()
}

func emptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
