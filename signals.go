package backtest

import (
	"fmt"
	"sort"
)

// Regime is the bull/neutral/bear classification of the benchmark
// trend. It scales the offensive allocation fraction of a rebalance.
type Regime int

const (
	Bear Regime = iota
	Neutral
	Bull
)

func (r Regime) String() string {
	switch r {
	case Bear:
		return "bear"
	case Neutral:
		return "neutral"
	case Bull:
		return "bull"
	default:
		return "unknown"
	}
}

// OffensiveFraction returns the share of capital allocated to risk
// assets under this regime; the remainder goes to the defensive asset.
func (r Regime) OffensiveFraction() float64 {
	switch r {
	case Bull:
		return 1.0
	case Neutral:
		return 0.5
	default:
		return 0.0
	}
}

// ClassifyRegime classifies the market regime on a given day:
// bull when the benchmark close is above its trailing moving average,
// neutral when the close is below the MA but the MA itself rose over
// the trailing trend window, bear otherwise. Insufficient benchmark
// history classifies as bear, the defensive outcome.
func ClassifyRegime(benchmark *Series, on Date, cfg Config) Regime {
	window := cfg.MarketTimingMAWindow
	trend := cfg.MATrendWindow

	// Collect closes up to and including 'on'; the MA at 'on' and the
	// MA 'trend' entries earlier both need a full window.
	var closes []float64
	for day, v := range benchmark.Values() {
		if day.After(on) {
			break
		}
		closes = append(closes, v)
	}
	n := len(closes)
	if n < window+trend {
		return Bear
	}

	mean := func(end int) float64 { // trailing mean of the window ending at index end (exclusive)
		var sum float64
		for _, v := range closes[end-window : end] {
			sum += v
		}
		return sum / float64(window)
	}

	ma := mean(n)
	if closes[n-1] > ma {
		return Bull
	}
	if mean(n-trend) < ma {
		return Neutral
	}
	return Bear
}

// RebalanceDates returns the scheduled rebalance dates within the
// trading calendar: the first trading day of each calendar month,
// skipping a month whose first trading day falls after
// cfg.RebalanceDayRange (0 disables the check).
func RebalanceDates(days []Date, cfg Config) []Date {
	var out []Date
	var prevYear int
	var prevMonth int
	for _, day := range days {
		if day.Year() == prevYear && int(day.Month()) == prevMonth {
			continue
		}
		prevYear, prevMonth = day.Year(), int(day.Month())
		if cfg.RebalanceDayRange > 0 && day.Day() > cfg.RebalanceDayRange {
			continue
		}
		out = append(out, day)
	}
	return out
}

// leadersOn ranks the non-defensive assets with a strictly positive
// score on the given day, descending, and returns up to k tickers.
// Ties keep the score table's column order; that order is stable but
// not meaningful.
func leadersOn(scores *Table, on Date, defensive string, k int) []string {
	type ranked struct {
		ticker string
		score  float64
	}
	var candidates []ranked
	for ticker, score := range scores.Row(on) {
		if ticker == defensive || score <= 0 {
			continue
		}
		candidates = append(candidates, ranked{ticker, score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.ticker)
	}
	return out
}

// BuildSignals turns a score table and the benchmark regime into a
// sparse date×asset target-weight table, populated only on rebalance
// dates. Weights on a date sum to at most 1.
//
// The signal computed for a date only reads observations on or before
// that date.
func BuildSignals(market *Market, benchmark *Series, scores *Table, cfg Config) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if market == nil || market.Len() == 0 {
		return nil, fmt.Errorf("%w: empty market", ErrInvalidConfig)
	}
	if benchmark == nil || benchmark.Len() == 0 {
		return nil, fmt.Errorf("%w: empty benchmark series", ErrInvalidConfig)
	}

	signals := NewTable()
	for _, on := range RebalanceDates(market.Days(), cfg) {
		fraction := ClassifyRegime(benchmark, on, cfg).OffensiveFraction()
		if fraction == 0 {
			signals.Set(on, cfg.DefensiveAsset, 1.0)
			continue
		}
		selected := leadersOn(scores, on, cfg.DefensiveAsset, cfg.TopN)
		if len(selected) == 0 {
			// No qualifying risk asset: fall back to full defense.
			signals.Set(on, cfg.DefensiveAsset, 1.0)
			continue
		}
		weight := fraction / float64(len(selected))
		for _, ticker := range selected {
			signals.Set(on, ticker, weight)
		}
		if rest := 1 - fraction; rest > 0 {
			signals.Set(on, cfg.DefensiveAsset, rest)
		}
	}
	return signals, nil
}
