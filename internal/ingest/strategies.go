package ingest

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// rowStrategy is one rung of the parsing ladder: a pure function from a
// raw line to its cells. Strategies are tried in order; the first success
// wins and later rungs are never consulted for that row.
type rowStrategy struct {
	name  string
	parse func(line string) ([]string, error)
}

// strategySet carries the per-file context the ladder needs: the header
// width for strict validation, the sniffed delimiter and the column map.
type strategySet struct {
	headerWidth int
	delim       rune
	cols        columnMap
}

// ladder returns the ordered strategies for this capture.
func (s *strategySet) ladder() []rowStrategy {
	return []rowStrategy{
		{name: "strict", parse: s.parseStrict},
		{name: "lenient", parse: s.parseLenient},
		{name: "repair", parse: s.parseRepair},
	}
}

// parseStrict expects the documented schema: comma delimited, quoted
// fields, and a cell count that matches the header exactly.
func (s *strategySet) parseStrict(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ','
	r.FieldsPerRecord = -1

	cells, err := r.Read()
	if err != nil {
		return nil, err
	}
	if len(cells) != s.headerWidth {
		return nil, fmt.Errorf("expected %d columns, got %d", s.headerWidth, len(cells))
	}
	return cells, nil
}

// parseLenient re-attempts with the sniffed delimiter and a flexible
// column count; cells are mapped by header name so short rows are
// acceptable as long as the mandatory columns are addressable. The split
// is quote-unaware, which keeps a torn quoted value visible as a column
// overflow for the repair rung instead of silently shifting fields.
func (s *strategySet) parseLenient(line string) ([]string, error) {
	cells := strings.Split(line, string(s.delim))
	if len(cells) < s.cols.minWidth() {
		return nil, fmt.Errorf("row too short: %d columns, need %d", len(cells), s.cols.minWidth())
	}
	if len(cells) > s.headerWidth {
		return nil, fmt.Errorf("row overflows header: %d columns, header has %d", len(cells), s.headerWidth)
	}
	for i, c := range cells {
		cells[i] = unquoteCell(c)
	}
	return cells, nil
}

// parseRepair reconstructs rows whose quoted values were split by an
// unescaped delimiter. Unbalanced quote counts mark the torn cells, which
// are merged back together before re-validation.
func (s *strategySet) parseRepair(line string) ([]string, error) {
	if strings.Count(line, `"`)%2 != 0 {
		return nil, fmt.Errorf("unbalanced quotes cannot be repaired")
	}

	delim := string(s.delim)
	tokens := strings.Split(line, delim)

	var cells []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		for strings.Count(tok, `"`)%2 == 1 && i+1 < len(tokens) {
			i++
			tok = tok + delim + tokens[i]
		}
		cells = append(cells, unquoteCell(tok))
	}

	if len(cells) < s.cols.minWidth() {
		return nil, fmt.Errorf("row too short after repair: %d columns, need %d", len(cells), s.cols.minWidth())
	}
	if len(cells) > s.headerWidth {
		return nil, fmt.Errorf("row overflows header after repair: %d columns, header has %d", len(cells), s.headerWidth)
	}
	return cells, nil
}

// unquoteCell trims whitespace and one pair of surrounding quotes, and
// collapses doubled quotes.
func unquoteCell(cell string) string {
	cell = strings.TrimSpace(cell)
	if len(cell) >= 2 && strings.HasPrefix(cell, `"`) && strings.HasSuffix(cell, `"`) {
		cell = cell[1 : len(cell)-1]
	}
	return strings.ReplaceAll(cell, `""`, `"`)
}
