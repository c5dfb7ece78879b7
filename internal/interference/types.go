package interference

import (
	"wardrivecli/pkg/contracts/domain"
)

// ChannelLoad is one row of the per-channel load table.
type ChannelLoad struct {
	Band    domain.Band `json:"band"`
	Channel int         `json:"channel"`
	// APCount is the co-channel count: APs transmitting on this exact channel.
	APCount int `json:"ap_count"`
	// Load is the overlap-weighted load. On 5 GHz channels it equals APCount.
	Load float64 `json:"load"`
	// AvgSignalDBM is the mean observed RSSI on the channel, when any
	// observation carried a signal reading.
	AvgSignalDBM *float64 `json:"avg_signal_dbm,omitempty"`
	Congested    bool     `json:"congested"`
}

// Recommendation names a channel worth moving to within a band, ranked by
// ascending load. Caveat marks a least-bad pick in a band where every
// candidate is congested.
type Recommendation struct {
	Band    domain.Band `json:"band"`
	Channel int         `json:"channel"`
	Load    float64     `json:"load"`
	Caveat  bool        `json:"caveat,omitempty"`
}

// BandSummary aggregates one band.
type BandSummary struct {
	Band             domain.Band `json:"band"`
	APCount          int         `json:"ap_count"`
	ChannelsObserved int         `json:"channels_observed"`
	CongestedCount   int         `json:"congested_count"`
}

// Report is the interference engine's output: plain structured data for
// the reporting collaborators, no rendering.
type Report struct {
	Loads             []ChannelLoad    `json:"loads"`
	CongestedChannels []ChannelLoad    `json:"congested_channels"`
	Recommendations   []Recommendation `json:"recommendations"`
	Bands             []BandSummary    `json:"bands"`
	// Threshold is the congestion threshold actually applied, whether
	// adaptive or overridden.
	Threshold float64 `json:"threshold"`
	TotalAPs  int     `json:"total_aps"`
}
