package backtest

import (
	"fmt"
	"math"
)

// Metrics is the flat summary record of one run. All Percent fields
// are in percentage points.
type Metrics struct {
	InitialValue float64
	FinalValue   float64
	Years        float64

	TotalReturn     Percent
	CAGR            Percent
	MaxDrawdown     Percent
	BenchmarkReturn Percent
	Sharpe          float64
}

// tradingDaysPerYear annualizes the Sharpe ratio.
const tradingDaysPerYear = 252

// Analyze converts an equity curve into summary metrics. It is a pure
// function: repeated calls with the same inputs return identical
// metrics. The benchmark-relative return uses the benchmark values at
// the curve's first and last days (last known value on or before each);
// a benchmark with no overlap yields 0.
func Analyze(equity, benchmark *Series, initialCapital float64) (Metrics, error) {
	if equity == nil || equity.Len() == 0 {
		return Metrics{}, fmt.Errorf("empty equity curve")
	}
	if initialCapital < epsilon {
		return Metrics{}, fmt.Errorf("non-positive initial capital: %v", initialCapital)
	}

	firstDay, _ := equity.First()
	lastDay, finalValue := equity.Latest()

	m := Metrics{
		InitialValue: initialCapital,
		FinalValue:   finalValue,
		TotalReturn:  Percent(100 * (finalValue/initialCapital - 1)),
	}

	m.Years = float64(lastDay.Sub(firstDay)) / 365.25
	if m.Years > 0 {
		m.CAGR = Percent(100 * (math.Pow(finalValue/initialCapital, 1/m.Years) - 1))
	}

	// Max drawdown: worst value/runningMax − 1 over the curve.
	var runningMax, worst float64
	for _, v := range equity.Values() {
		if v > runningMax {
			runningMax = v
		}
		if runningMax > epsilon {
			if dd := v/runningMax - 1; dd < worst {
				worst = dd
			}
		}
	}
	m.MaxDrawdown = Percent(100 * worst)

	m.Sharpe = sharpe(equity)

	if benchmark != nil {
		start, okS := benchmark.ValueAsOf(firstDay)
		end, okE := benchmark.ValueAsOf(lastDay)
		if okS && okE && start > epsilon {
			m.BenchmarkReturn = Percent(100 * (end/start - 1))
		}
	}
	return m, nil
}

// sharpe is mean(daily return)/stdev(daily return)×√252, or 0 when
// the deviation vanishes.
func sharpe(equity *Series) float64 {
	var rets []float64
	prev := math.NaN()
	for _, v := range equity.Values() {
		if !math.IsNaN(prev) && prev > epsilon {
			rets = append(rets, v/prev-1)
		}
		prev = v
	}
	if len(rets) < 2 {
		return 0
	}
	var sum float64
	for _, r := range rets {
		sum += r
	}
	mean := sum / float64(len(rets))
	var ss float64
	for _, r := range rets {
		ss += (r - mean) * (r - mean)
	}
	std := math.Sqrt(ss / float64(len(rets)-1)) // sample deviation
	if std < epsilon {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}
