package backtest

import (
	"math"
	"testing"
)

func TestAnalyzeReturns(t *testing.T) {
	equity := seriesOf(
		"2020-01-02", 1_000_000.0,
		"2020-07-02", 1_050_000.0,
		"2021-01-02", 1_100_000.0,
	)
	m, err := Analyze(equity, nil, 1_000_000)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !m.TotalReturn.Equal(Percent(10)) {
		t.Errorf("total return = %v, want 10%%", m.TotalReturn)
	}
	wantYears := 366.0 / 365.25
	if math.Abs(m.Years-wantYears) > 1e-9 {
		t.Errorf("years = %v, want %v", m.Years, wantYears)
	}
	wantCAGR := Percent(100 * (math.Pow(1.1, 1/wantYears) - 1))
	if !m.CAGR.Equal(wantCAGR) {
		t.Errorf("CAGR = %v, want %v", m.CAGR, wantCAGR)
	}
	if m.InitialValue != 1_000_000 || m.FinalValue != 1_100_000 {
		t.Errorf("values = %v %v, want 1000000 1100000", m.InitialValue, m.FinalValue)
	}
	// A monotonic curve has no drawdown.
	if !m.MaxDrawdown.Equal(Percent(0)) {
		t.Errorf("max drawdown = %v, want 0", m.MaxDrawdown)
	}
}

func TestAnalyzeMaxDrawdown(t *testing.T) {
	equity := seriesOf(
		"2025-01-02", 100.0,
		"2025-01-03", 120.0,
		"2025-01-06", 90.0,
		"2025-01-07", 110.0,
	)
	m, err := Analyze(equity, nil, 100)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// The worst point is 90 against the 120 peak: -25%.
	if !m.MaxDrawdown.Equal(Percent(-25)) {
		t.Errorf("max drawdown = %v, want -25%%", m.MaxDrawdown)
	}
}

func TestAnalyzeSharpe(t *testing.T) {
	// Daily returns +10%, -10%, +10%: mean 1/30, sample std known.
	equity := seriesOf(
		"2025-01-02", 100.0,
		"2025-01-03", 110.0,
		"2025-01-06", 99.0,
		"2025-01-07", 108.9,
	)
	m, err := Analyze(equity, nil, 100)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	rets := []float64{0.1, -0.1, 0.1}
	mean := (0.1 - 0.1 + 0.1) / 3
	var ss float64
	for _, r := range rets {
		ss += (r - mean) * (r - mean)
	}
	want := mean / math.Sqrt(ss/2) * math.Sqrt(252)
	if math.Abs(m.Sharpe-want) > 1e-6 {
		t.Errorf("sharpe = %v, want %v", m.Sharpe, want)
	}
}

func TestAnalyzeFlatCurveHasZeroSharpe(t *testing.T) {
	equity := seriesOf("2025-01-02", 100.0, "2025-01-03", 100.0, "2025-01-06", 100.0)
	m, err := Analyze(equity, nil, 100)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if m.Sharpe != 0 {
		t.Errorf("sharpe of a flat curve = %v, want 0", m.Sharpe)
	}
	if !m.TotalReturn.Equal(Percent(0)) {
		t.Errorf("total return = %v, want 0", m.TotalReturn)
	}
}

func TestAnalyzeTooShortForSharpe(t *testing.T) {
	equity := seriesOf("2025-01-02", 100.0, "2025-01-03", 120.0)
	m, err := Analyze(equity, nil, 100)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	// A single daily return has no deviation to divide by.
	if m.Sharpe != 0 {
		t.Errorf("sharpe = %v, want 0", m.Sharpe)
	}
}

func TestAnalyzeBenchmarkRelative(t *testing.T) {
	equity := seriesOf("2025-01-02", 100.0, "2025-06-02", 120.0)
	benchmark := seriesOf(
		"2025-01-02", 2400.0,
		"2025-05-30", 2640.0, // last value on or before the curve end
	)
	m, err := Analyze(equity, benchmark, 100)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !m.BenchmarkReturn.Equal(Percent(10)) {
		t.Errorf("benchmark return = %v, want 10%%", m.BenchmarkReturn)
	}

	// A benchmark with no overlap contributes nothing.
	late := seriesOf("2026-01-02", 1000.0)
	m, err = Analyze(equity, late, 100)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !m.BenchmarkReturn.Equal(Percent(0)) {
		t.Errorf("benchmark return without overlap = %v, want 0", m.BenchmarkReturn)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	equity := seriesOf("2025-01-02", 100.0, "2025-01-03", 120.0, "2025-01-06", 90.0)
	benchmark := seriesOf("2025-01-02", 2400.0, "2025-01-06", 2500.0)
	a, err := Analyze(equity, benchmark, 100)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	b, err := Analyze(equity, benchmark, 100)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a != b {
		t.Errorf("repeated analysis differs: %+v vs %+v", a, b)
	}
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	if _, err := Analyze(nil, nil, 100); err == nil {
		t.Error("expected an error on a nil curve")
	}
	if _, err := Analyze(&Series{}, nil, 100); err == nil {
		t.Error("expected an error on an empty curve")
	}
	equity := seriesOf("2025-01-02", 100.0)
	if _, err := Analyze(equity, nil, 0); err == nil {
		t.Error("expected an error on zero capital")
	}
}
