package domain

import (
	"time"
)

// Band represents the frequency band an access point transmits on,
// derived from its channel number.
type Band string

const (
	Band24GHz   Band = "2.4GHz"
	Band5GHz    Band = "5GHz"
	BandUnknown Band = "unknown"
)

// Channel ranges per band. 2.4 GHz covers channels 1-14 (14 is Japan-only
// but appears in captures), 5 GHz covers the 36-165 channelization.
const (
	MinChannel24GHz = 1
	MaxChannel24GHz = 14
	MinChannel5GHz  = 36
	MaxChannel5GHz  = 165
)

// BandForChannel maps a channel number to its band.
func BandForChannel(channel int) Band {
	switch {
	case channel >= MinChannel24GHz && channel <= MaxChannel24GHz:
		return Band24GHz
	case channel >= MinChannel5GHz && channel <= MaxChannel5GHz:
		return Band5GHz
	default:
		return BandUnknown
	}
}

// ChannelValid reports whether a channel number falls inside a known band.
func ChannelValid(channel int) bool {
	return BandForChannel(channel) != BandUnknown
}

// Encryption represents the classified encryption category of a network.
type Encryption string

const (
	EncryptionOpen    Encryption = "OPEN"
	EncryptionWEP     Encryption = "WEP"
	EncryptionWPA     Encryption = "WPA"
	EncryptionWPA2    Encryption = "WPA2"
	EncryptionWPA3    Encryption = "WPA3"
	EncryptionUnknown Encryption = "UNKNOWN"
)

// Observation represents one normalized access-point observation.
// Observations are created only by the ingestion pipeline and never
// mutated afterwards; the analysis engines are read-only consumers.
type Observation struct {
	BSSID      string     `json:"bssid" validate:"required"`
	SSID       string     `json:"ssid"`
	Channel    int        `json:"channel" validate:"required"`
	Band       Band       `json:"band"`
	Encryption Encryption `json:"encryption"`
	SignalDBM  *int       `json:"signal_dbm,omitempty"`
	Latitude   *float64   `json:"latitude,omitempty"`
	Longitude  *float64   `json:"longitude,omitempty"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`

	// SourceRow links back to the raw input line (1-based, counting the
	// physical file) for traceability against the discard log.
	SourceRow int `json:"source_row"`
}

// HasLocation reports whether the observation carries coordinates.
// Latitude and longitude are jointly present or jointly absent.
func (o Observation) HasLocation() bool {
	return o.Latitude != nil && o.Longitude != nil
}

// HasTimestamp reports whether the observation carries a repaired timestamp.
func (o Observation) HasTimestamp() bool {
	return o.Timestamp != nil
}

// Hidden reports whether the network broadcast an empty SSID.
func (o Observation) Hidden() bool {
	return o.SSID == ""
}
