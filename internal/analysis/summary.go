package analysis

import (
	"math"
	"sort"
	"time"

	"wardrivecli/pkg/contracts/domain"
)

// SignalStats summarizes the RSSI readings present in a capture.
type SignalStats struct {
	Count  int     `json:"count"`
	MeanDB float64 `json:"mean_db"`
	MinDB  int     `json:"min_db"`
	MaxDB  int     `json:"max_db"`
	Stddev float64 `json:"stddev"`
}

// QualityBuckets counts observations by signal quality. Boundaries at
// -65, -75 and -85 dBm; an exact boundary value lands in the better
// bucket.
type QualityBuckets struct {
	Excellent int `json:"excellent"`
	Good      int `json:"good"`
	Fair      int `json:"fair"`
	Poor      int `json:"poor"`
}

// SSIDCount is one entry of the top-SSID ranking.
type SSIDCount struct {
	SSID  string `json:"ssid"`
	Count int    `json:"count"`
}

// Summary describes the capture as a whole, independent of any engine.
type Summary struct {
	TotalRecords int         `json:"total_records"`
	UniqueSSIDs  int         `json:"unique_ssids"`
	HiddenCount  int         `json:"hidden_count"`
	TopSSIDs     []SSIDCount `json:"top_ssids"`
	// Capture period, absent when no record carries a timestamp.
	FirstSeen *time.Time `json:"first_seen,omitempty"`
	LastSeen  *time.Time `json:"last_seen,omitempty"`

	Signal  *SignalStats   `json:"signal,omitempty"`
	Quality QualityBuckets `json:"quality"`
}

const topSSIDLimit = 10

func summarize(ds *domain.Dataset) Summary {
	s := Summary{
		TotalRecords: len(ds.Records),
		UniqueSSIDs:  ds.UniqueSSIDs(),
	}

	ssidCounts := make(map[string]int)
	var readings []int
	for _, obs := range ds.Records {
		if obs.Hidden() {
			s.HiddenCount++
		} else {
			ssidCounts[obs.SSID]++
		}
		if obs.SignalDBM != nil {
			readings = append(readings, *obs.SignalDBM)
			bucketize(&s.Quality, *obs.SignalDBM)
		}
		if obs.Timestamp != nil {
			ts := *obs.Timestamp
			if s.FirstSeen == nil || ts.Before(*s.FirstSeen) {
				s.FirstSeen = &ts
			}
			if s.LastSeen == nil || ts.After(*s.LastSeen) {
				s.LastSeen = &ts
			}
		}
	}

	s.TopSSIDs = topSSIDs(ssidCounts, topSSIDLimit)
	if len(readings) > 0 {
		s.Signal = signalStats(readings)
	}
	return s
}

func bucketize(q *QualityBuckets, dbm int) {
	switch {
	case dbm >= -65:
		q.Excellent++
	case dbm >= -75:
		q.Good++
	case dbm >= -85:
		q.Fair++
	default:
		q.Poor++
	}
}

// topSSIDs ranks SSIDs by descending count, ties broken alphabetically
// so the ranking is stable across runs.
func topSSIDs(counts map[string]int, limit int) []SSIDCount {
	ranked := make([]SSIDCount, 0, len(counts))
	for ssid, n := range counts {
		ranked = append(ranked, SSIDCount{SSID: ssid, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].SSID < ranked[j].SSID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func signalStats(readings []int) *SignalStats {
	stats := &SignalStats{
		Count: len(readings),
		MinDB: readings[0],
		MaxDB: readings[0],
	}
	sum := 0
	for _, r := range readings {
		sum += r
		if r < stats.MinDB {
			stats.MinDB = r
		}
		if r > stats.MaxDB {
			stats.MaxDB = r
		}
	}
	mean := float64(sum) / float64(len(readings))

	var variance float64
	for _, r := range readings {
		d := float64(r) - mean
		variance += d * d
	}
	variance /= float64(len(readings))

	stats.MeanDB = math.Round(mean*100) / 100
	stats.Stddev = math.Round(math.Sqrt(variance)*100) / 100
	return stats
}
