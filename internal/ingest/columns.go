package ingest

import (
	"strings"
)

// Canonical field names used internally by the pipeline.
const (
	fieldBSSID      = "bssid"
	fieldSSID       = "ssid"
	fieldChannel    = "channel"
	fieldEncryption = "encryption"
	fieldSignal     = "signal"
	fieldLatitude   = "latitude"
	fieldLongitude  = "longitude"
	fieldTimestamp  = "timestamp"
)

// columnSynonyms maps the header spellings seen across capture tools
// (WiGLE, Kismet, vendor exports) onto canonical fields.
var columnSynonyms = map[string]string{
	"bssid":       fieldBSSID,
	"mac":         fieldBSSID,
	"mac address": fieldBSSID,
	"netid":       fieldBSSID,

	"ssid":  fieldSSID,
	"essid": fieldSSID,
	"name":  fieldSSID,

	"channel": fieldChannel,
	"ch":      fieldChannel,
	"chan":    fieldChannel,

	"authmode":       fieldEncryption,
	"auth":           fieldEncryption,
	"authentication": fieldEncryption,
	"encryption":     fieldEncryption,
	"security":       fieldEncryption,
	"capabilities":   fieldEncryption,

	"rssi":       fieldSignal,
	"signal":     fieldSignal,
	"signal_dbm": fieldSignal,
	"level":      fieldSignal,

	"currentlatitude": fieldLatitude,
	"latitude":        fieldLatitude,
	"lat":             fieldLatitude,

	"currentlongitude": fieldLongitude,
	"longitude":        fieldLongitude,
	"lon":              fieldLongitude,
	"lng":              fieldLongitude,

	"firstseen":  fieldTimestamp,
	"first seen": fieldTimestamp,
	"lastseen":   fieldTimestamp,
	"last seen":  fieldTimestamp,
	"timestamp":  fieldTimestamp,
	"time":       fieldTimestamp,
	"date":       fieldTimestamp,
}

// defaultColumnOrder is the expected schema when the header carries no
// recognizable column names: BSSID, SSID, channel, encryption, signal
// strength, latitude, longitude, timestamp.
var defaultColumnOrder = []string{
	fieldBSSID, fieldSSID, fieldChannel, fieldEncryption,
	fieldSignal, fieldLatitude, fieldLongitude, fieldTimestamp,
}

// columnMap maps canonical fields to their position in a parsed row.
type columnMap map[string]int

// index returns the position of a canonical field, or -1 when the column
// is absent from the capture.
func (m columnMap) index(field string) int {
	if i, ok := m[field]; ok {
		return i
	}
	return -1
}

// field returns the trimmed cell for a canonical field, or "" when the
// column is absent or the row is too short.
func (m columnMap) field(row []string, name string) string {
	i := m.index(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// minWidth returns the number of cells a row needs before the mandatory
// fields (bssid, channel) are even addressable.
func (m columnMap) minWidth() int {
	width := 0
	for _, name := range []string{fieldBSSID, fieldChannel} {
		if i := m.index(name); i >= width {
			width = i + 1
		}
	}
	return width
}

// mapHeader builds a columnMap from header cells. Unrecognized headers are
// ignored; the first occurrence of a synonym wins.
func mapHeader(cells []string) columnMap {
	m := make(columnMap)
	for i, cell := range cells {
		key := strings.ToLower(strings.TrimSpace(cell))
		canonical, ok := columnSynonyms[key]
		if !ok {
			continue
		}
		if _, taken := m[canonical]; !taken {
			m[canonical] = i
		}
	}
	return m
}

// defaultColumnMap returns the positional fallback schema.
func defaultColumnMap() columnMap {
	m := make(columnMap, len(defaultColumnOrder))
	for i, name := range defaultColumnOrder {
		m[name] = i
	}
	return m
}

// usable reports whether the map can anchor a record: both mandatory
// columns must be resolvable.
func (m columnMap) usable() bool {
	return m.index(fieldBSSID) >= 0 && m.index(fieldChannel) >= 0
}

// looksLikeHeader reports whether a delimited line names at least two
// known columns. Used to find the header row and to skip the device
// metadata line some capture tools emit above it.
func looksLikeHeader(cells []string) bool {
	hits := 0
	for _, cell := range cells {
		if _, ok := columnSynonyms[strings.ToLower(strings.TrimSpace(cell))]; ok {
			hits++
		}
	}
	return hits >= 2
}

// sniffDelimiter picks the delimiter that splits the header line into the
// most cells. Comma wins ties, matching the documented input contract.
func sniffDelimiter(line string) rune {
	best := ','
	bestCount := strings.Count(line, ",")
	if n := strings.Count(line, ";"); n > bestCount {
		best, bestCount = ';', n
	}
	if n := strings.Count(line, "\t"); n > bestCount {
		best = '\t'
	}
	return best
}
