package domain

import (
	"time"
)

// DiscardReason identifies why a row was quarantined or a field defaulted.
type DiscardReason string

const (
	// Row-level reasons: the row is removed from the clean dataset.
	ReasonUnparseableRow  DiscardReason = "UNPARSEABLE_ROW"
	ReasonInvalidChannel  DiscardReason = "INVALID_CHANNEL"
	ReasonMissingBSSID    DiscardReason = "MISSING_BSSID"
	ReasonDuplicateRecord DiscardReason = "DUPLICATE_RECORD"

	// Field-level reasons: the field is cleared, the row is kept.
	ReasonIrreparableDate    DiscardReason = "IRREPARABLE_DATE"
	ReasonInvalidCoordinates DiscardReason = "INVALID_COORDINATES"

	// File-level condition: zero usable rows. Reported, never fatal.
	ReasonEmptyInput DiscardReason = "EMPTY_INPUT"
)

// DiscardEntry records one quarantined row with its raw text preserved.
type DiscardEntry struct {
	SourceRow int           `json:"source_row"`
	Raw       string        `json:"raw"`
	Reason    DiscardReason `json:"reason"`
}

// FieldDefaults counts recoverable field-level anomalies so a user can
// audit how much of a capture was repaired versus taken at face value.
type FieldDefaults struct {
	IrreparableDates   int `json:"irreparable_dates"`
	ClearedCoordinates int `json:"cleared_coordinates"`
	UnknownEncryption  int `json:"unknown_encryption"`
	MissingSignal      int `json:"missing_signal"`
}

// StrategyCounts records how many rows each ingestion strategy handled.
type StrategyCounts struct {
	Strict   int `json:"strict"`
	Lenient  int `json:"lenient"`
	Repaired int `json:"repaired"`
}

// Dataset is the clean, ordered output of one ingestion run together with
// its discard log. Input row order is preserved for reproducibility.
type Dataset struct {
	RunID      string         `json:"run_id"`
	SourcePath string         `json:"source_path"`
	IngestedAt time.Time      `json:"ingested_at"`
	Records    []Observation  `json:"records"`
	Discards   []DiscardEntry `json:"discards"`
	Defaults   FieldDefaults  `json:"defaults"`
	Strategies StrategyCounts `json:"strategies"`
	EmptyInput bool           `json:"empty_input"`
}

// Empty reports whether the clean dataset holds no records.
func (d *Dataset) Empty() bool {
	return len(d.Records) == 0
}

// Georeferenced returns the subset of records carrying coordinates,
// in dataset order.
func (d *Dataset) Georeferenced() []Observation {
	var out []Observation
	for _, obs := range d.Records {
		if obs.HasLocation() {
			out = append(out, obs)
		}
	}
	return out
}

// UniqueSSIDs returns the number of distinct non-hidden SSIDs.
func (d *Dataset) UniqueSSIDs() int {
	seen := make(map[string]struct{})
	for _, obs := range d.Records {
		if !obs.Hidden() {
			seen[obs.SSID] = struct{}{}
		}
	}
	return len(seen)
}
