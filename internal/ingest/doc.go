// Package ingest turns raw wardriving capture exports into a clean, typed
// dataset plus a discard log. Captures in the wild arrive with inconsistent
// delimiters, truncated rows, vendor-specific headers and broken quoting,
// so every row is pushed through an ordered ladder of parsing strategies
// (strict, lenient delimiter, row repair) before it is quarantined.
//
// Row and field anomalies are values, never raised errors: a bad row lands
// in the discard log with its raw text and a reason code, a bad field is
// cleared and counted. Only a missing or unreadable input file fails an
// ingestion run.
package ingest
