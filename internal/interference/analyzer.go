// Package interference groups the clean dataset by channel and band and
// computes congestion from overlap-weighted spectral load. 2.4 GHz
// channels bleed into their neighbors, so each AP contributes fractional
// load up to four channels away; 5 GHz channels are treated as
// non-overlapping under standard channelization.
package interference

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"wardrivecli/pkg/contracts/domain"
)

// Config holds the engine's tunable parameters. The zero value selects
// the adaptive defaults.
type Config struct {
	// CongestionPercentile derives the congestion threshold from the
	// load distribution of the capture itself (default 75).
	CongestionPercentile float64
	// ThresholdOverride, when > 0, replaces the adaptive threshold.
	ThresholdOverride float64
}

// Analyzer computes channel interference reports. It is read-only over
// the dataset and safe to run concurrently with the other engines.
type Analyzer struct {
	logger *slog.Logger
	cfg    Config
}

// NewAnalyzer creates an interference analyzer.
func NewAnalyzer(logger *slog.Logger, cfg Config) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CongestionPercentile <= 0 || cfg.CongestionPercentile > 100 {
		cfg.CongestionPercentile = 75
	}
	return &Analyzer{logger: logger, cfg: cfg}
}

// overlapSpan is how far (in channel numbers) 2.4 GHz spectral overlap
// reaches; weight decays linearly and hits zero past this distance.
const overlapSpan = 5

// overlapWeight returns the fractional load an AP casts onto a channel
// d channels away from its own. Full weight on its own channel,
// monotonically decreasing, zero beyond 4 channels.
func overlapWeight(d int) float64 {
	if d < 0 {
		d = -d
	}
	if d >= overlapSpan {
		return 0
	}
	return float64(overlapSpan-d) / overlapSpan
}

// Recommendation candidates. On 2.4 GHz only the non-overlapping trio is
// worth recommending; on 5 GHz the common 20 MHz non-DFS channels.
var (
	candidates24GHz = []int{1, 6, 11}
	candidates5GHz  = []int{36, 40, 44, 48, 149, 153, 157, 161, 165}
)

// Analyze produces the interference report for a dataset. An empty
// dataset degrades to an empty report, never an error.
func (a *Analyzer) Analyze(ctx context.Context, ds *domain.Dataset) *Report {
	report := &Report{}
	if ds == nil || ds.Empty() {
		a.logger.InfoContext(ctx, "interference analysis skipped, no records")
		return report
	}

	counts, signals := a.tally(ds)
	report.TotalAPs = len(ds.Records)

	loads24 := weightedLoads(counts[domain.Band24GHz])
	loads5 := plainLoads(counts[domain.Band5GHz])

	report.Loads = append(
		loadTable(domain.Band24GHz, counts[domain.Band24GHz], loads24, signals),
		loadTable(domain.Band5GHz, counts[domain.Band5GHz], loads5, signals)...)

	report.Threshold = a.threshold(report.Loads)
	for i := range report.Loads {
		// Inclusive boundary: a load tied with the threshold is congested.
		if report.Loads[i].Load >= report.Threshold {
			report.Loads[i].Congested = true
			report.CongestedChannels = append(report.CongestedChannels, report.Loads[i])
		}
	}

	report.Recommendations = append(
		recommend(domain.Band24GHz, candidates24GHz, loads24, report.Threshold, len(counts[domain.Band24GHz]) > 0),
		recommend(domain.Band5GHz, candidates5GHz, loads5, report.Threshold, len(counts[domain.Band5GHz]) > 0)...)

	report.Bands = bandSummaries(counts, report.Loads)

	a.logger.InfoContext(ctx, "interference analysis complete",
		slog.Int("channels", len(report.Loads)),
		slog.Int("congested", len(report.CongestedChannels)),
		slog.Float64("threshold", report.Threshold))

	return report
}

// tally groups AP counts and signal sums by band and channel.
func (a *Analyzer) tally(ds *domain.Dataset) (map[domain.Band]map[int]int, map[domain.Band]map[int][]int) {
	counts := map[domain.Band]map[int]int{
		domain.Band24GHz: {},
		domain.Band5GHz:  {},
	}
	signals := map[domain.Band]map[int][]int{
		domain.Band24GHz: {},
		domain.Band5GHz:  {},
	}
	for _, obs := range ds.Records {
		if obs.Band == domain.BandUnknown {
			continue
		}
		counts[obs.Band][obs.Channel]++
		if obs.SignalDBM != nil {
			signals[obs.Band][obs.Channel] = append(signals[obs.Band][obs.Channel], *obs.SignalDBM)
		}
	}
	return counts, signals
}

// weightedLoads spreads each channel's AP count across its overlapping
// neighbors. Overlap weighting only adds load: the total is never below
// the plain co-channel sum.
func weightedLoads(counts map[int]int) map[int]float64 {
	loads := make(map[int]float64)
	for ch, n := range counts {
		for c := domain.MinChannel24GHz; c <= domain.MaxChannel24GHz; c++ {
			if w := overlapWeight(c - ch); w > 0 {
				loads[c] += w * float64(n)
			}
		}
	}
	return loads
}

func plainLoads(counts map[int]int) map[int]float64 {
	loads := make(map[int]float64, len(counts))
	for ch, n := range counts {
		loads[ch] = float64(n)
	}
	return loads
}

// loadTable renders one band's loads as sorted table rows. Channels with
// zero load are omitted from the table (they still participate in
// recommendations).
func loadTable(band domain.Band, counts map[int]int, loads map[int]float64, signals map[domain.Band]map[int][]int) []ChannelLoad {
	channels := make([]int, 0, len(loads))
	for ch := range loads {
		channels = append(channels, ch)
	}
	sort.Ints(channels)

	rows := make([]ChannelLoad, 0, len(channels))
	for _, ch := range channels {
		row := ChannelLoad{
			Band:    band,
			Channel: ch,
			APCount: counts[ch],
			Load:    round2(loads[ch]),
		}
		if readings := signals[band][ch]; len(readings) > 0 {
			sum := 0
			for _, s := range readings {
				sum += s
			}
			avg := round2(float64(sum) / float64(len(readings)))
			row.AvgSignalDBM = &avg
		}
		rows = append(rows, row)
	}
	return rows
}

// threshold picks the congestion threshold: an explicit override when
// configured, otherwise the configured percentile of the observed
// channel loads (nearest-rank).
func (a *Analyzer) threshold(loads []ChannelLoad) float64 {
	if a.cfg.ThresholdOverride > 0 {
		return a.cfg.ThresholdOverride
	}
	if len(loads) == 0 {
		return 0
	}
	values := make([]float64, len(loads))
	for i, l := range loads {
		values[i] = l.Load
	}
	sort.Float64s(values)
	rank := int(math.Ceil(a.cfg.CongestionPercentile / 100 * float64(len(values))))
	if rank < 1 {
		rank = 1
	}
	return values[rank-1]
}

// recommend ranks a band's candidate channels by ascending load. When
// every candidate clears the congestion threshold the single least-loaded
// one is returned with a caveat flag.
func recommend(band domain.Band, candidates []int, loads map[int]float64, threshold float64, bandPopulated bool) []Recommendation {
	if !bandPopulated {
		return nil
	}

	recs := make([]Recommendation, 0, len(candidates))
	allCongested := true
	for _, ch := range candidates {
		load := loads[ch]
		if load < threshold {
			allCongested = false
		}
		recs = append(recs, Recommendation{Band: band, Channel: ch, Load: round2(load)})
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Load != recs[j].Load {
			return recs[i].Load < recs[j].Load
		}
		return recs[i].Channel < recs[j].Channel
	})

	if allCongested {
		best := recs[0]
		best.Caveat = true
		return []Recommendation{best}
	}
	return recs
}

func bandSummaries(counts map[domain.Band]map[int]int, loads []ChannelLoad) []BandSummary {
	summaries := make([]BandSummary, 0, 2)
	for _, band := range []domain.Band{domain.Band24GHz, domain.Band5GHz} {
		if len(counts[band]) == 0 {
			continue
		}
		s := BandSummary{Band: band, ChannelsObserved: len(counts[band])}
		for _, n := range counts[band] {
			s.APCount += n
		}
		for _, l := range loads {
			if l.Band == band && l.Congested {
				s.CongestedCount++
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
