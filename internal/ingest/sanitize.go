package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"

	"wardrivecli/internal/datefix"
	"wardrivecli/pkg/contracts/domain"
)

// encryptionTokens maps vendor spellings and cipher-suite fragments to
// categories. Checked in order of strength so composite AuthMode strings
// like [WPA2-PSK-CCMP][ESS] classify by their strongest suite.
var encryptionTokens = []struct {
	token    string
	category domain.Encryption
}{
	{"WPA3", domain.EncryptionWPA3},
	{"SAE", domain.EncryptionWPA3},
	{"WPA2", domain.EncryptionWPA2},
	{"RSN", domain.EncryptionWPA2},
	{"CCMP", domain.EncryptionWPA2},
	{"WPA", domain.EncryptionWPA},
	{"TKIP", domain.EncryptionWPA},
	{"WEP", domain.EncryptionWEP},
	{"OPEN", domain.EncryptionOpen},
	{"NONE", domain.EncryptionOpen},
	{"OPN", domain.EncryptionOpen},
}

// classifyEncryption matches a raw auth/encryption token case-insensitively
// against the known set. Unmatched values classify as UNKNOWN; that keeps
// the row, it is not a discard condition.
func classifyEncryption(raw string) (domain.Encryption, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return domain.EncryptionUnknown, false
	}
	for _, tok := range encryptionTokens {
		if strings.Contains(s, tok.token) {
			return tok.category, true
		}
	}
	// A bare [ESS] capability string means no security suite at all.
	if s == "[ESS]" || s == "ESS" {
		return domain.EncryptionOpen, true
	}
	return domain.EncryptionUnknown, false
}

// parseChannel parses a channel cell as an integer, tolerating the float
// renderings some tools emit ("6.0").
func parseChannel(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// parseSignal parses a signal-strength cell in dBm. Fractional readings
// are truncated toward zero.
func parseSignal(raw string) (*int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	n := int(f)
	return &n, true
}

// parseCoordinates enforces the joint-presence rule: both values must
// parse and sit inside geographic bounds, or both are cleared. The second
// return reports whether anything had to be cleared.
func parseCoordinates(latRaw, lonRaw string) (lat, lon *float64, cleared bool) {
	latRaw = strings.TrimSpace(latRaw)
	lonRaw = strings.TrimSpace(lonRaw)
	if latRaw == "" && lonRaw == "" {
		return nil, nil, false
	}

	latV, latErr := strconv.ParseFloat(latRaw, 64)
	lonV, lonErr := strconv.ParseFloat(lonRaw, 64)
	if latErr != nil || lonErr != nil ||
		latV < -90 || latV > 90 || lonV < -180 || lonV > 180 {
		return nil, nil, true
	}
	// Null-island rows are GPS dropouts, not real fixes.
	if latV == 0 && lonV == 0 {
		return nil, nil, true
	}
	return &latV, &lonV, false
}

// repairTimestamp delegates to the date-repair module. An irreparable
// date clears the field but keeps the row.
func repairTimestamp(raw string, layouts []string) (*time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, true
	}
	t, err := datefix.RepairWith(s, layouts)
	if err != nil {
		return nil, false
	}
	return &t, true
}
