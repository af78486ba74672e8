package backtest

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTrueRange(t *testing.T) {
	a := newTestAsset("GLD",
		ohlc("2025-01-02", 100, 101, 99, 100),
		ohlc("2025-01-03", 100, 103, 100, 102),
		ohlc("2025-01-06", 102, 102, 100, 101),
	)
	tr := TrueRange(a.HighSeries(), a.LowSeries(), a.CloseSeries())

	// The first day has no previous close.
	if _, ok := tr.Get(d("2025-01-02")); ok {
		t.Error("true range must be absent on the first day")
	}
	// Day 2: max(103-100, |103-100|, |100-100|) = 3.
	if v, ok := tr.Get(d("2025-01-03")); !ok || !almostEqual(v, 3) {
		t.Errorf("TR(2025-01-03) = %v %v, want 3", v, ok)
	}
	// Day 3: max(102-100, |102-102|, |100-102|) = 2.
	if v, ok := tr.Get(d("2025-01-06")); !ok || !almostEqual(v, 2) {
		t.Errorf("TR(2025-01-06) = %v %v, want 2", v, ok)
	}
}

func TestTrueRangeGapDown(t *testing.T) {
	// A gap below yesterday's close must widen the range.
	a := newTestAsset("GLD",
		ohlc("2025-01-02", 100, 101, 99, 100),
		ohlc("2025-01-03", 90, 91, 89, 90),
	)
	tr := TrueRange(a.HighSeries(), a.LowSeries(), a.CloseSeries())
	// max(91-89, |91-100|, |89-100|) = 11.
	if v, ok := tr.Get(d("2025-01-03")); !ok || !almostEqual(v, 11) {
		t.Errorf("TR = %v %v, want 11", v, ok)
	}
}

func TestATR(t *testing.T) {
	a := newTestAsset("GLD",
		ohlc("2025-01-02", 100, 101, 99, 100),
		ohlc("2025-01-03", 100, 103, 100, 102), // TR 3
		ohlc("2025-01-06", 102, 102, 100, 101), // TR 2
		ohlc("2025-01-07", 101, 105, 101, 104), // TR 4
	)
	atr := ATR(a, 2)
	// First full window ends on the second TR value.
	if _, ok := atr.Get(d("2025-01-03")); ok {
		t.Error("ATR must be absent before the window fills")
	}
	if v, ok := atr.Get(d("2025-01-06")); !ok || !almostEqual(v, 2.5) {
		t.Errorf("ATR(2025-01-06) = %v %v, want 2.5", v, ok)
	}
	if v, ok := atr.Get(d("2025-01-07")); !ok || !almostEqual(v, 3) {
		t.Errorf("ATR(2025-01-07) = %v %v, want 3", v, ok)
	}
}

func TestRollingMean(t *testing.T) {
	s := seriesOf("2025-01-02", 1, "2025-01-03", 2, "2025-01-06", 3, "2025-01-07", 4)
	m := RollingMean(s, 3)
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if v, _ := m.Get(d("2025-01-06")); !almostEqual(v, 2) {
		t.Errorf("mean(1,2,3) = %v, want 2", v)
	}
	if v, _ := m.Get(d("2025-01-07")); !almostEqual(v, 3) {
		t.Errorf("mean(2,3,4) = %v, want 3", v)
	}
	if got := RollingMean(s, 0).Len(); got != 0 {
		t.Errorf("window 0 must produce nothing, got %d points", got)
	}
}

func TestRollingStd(t *testing.T) {
	s := seriesOf("2025-01-02", 2, "2025-01-03", 4, "2025-01-06", 4, "2025-01-07", 4)
	std := RollingStd(s, 3)
	// sample variance of (2,4,4): mean 10/3,
	// ss = 16/9 + 4/9 + 4/9 = 24/9, /(3-1) = 4/3.
	if v, ok := std.Get(d("2025-01-06")); !ok || !almostEqual(v, math.Sqrt(4.0/3.0)) {
		t.Errorf("std(2,4,4) = %v %v, want sqrt(4/3)", v, ok)
	}
	if v, ok := std.Get(d("2025-01-07")); !ok || !almostEqual(v, 0) {
		t.Errorf("std(4,4,4) = %v %v, want 0", v, ok)
	}
}

func TestPctChange(t *testing.T) {
	s := seriesOf("2025-01-02", 100, "2025-01-03", 110, "2025-01-06", 121)
	pc := PctChange(s, 1)
	if v, ok := pc.Get(d("2025-01-03")); !ok || !almostEqual(v, 0.1) {
		t.Errorf("change = %v %v, want 0.1", v, ok)
	}
	if v, ok := pc.Get(d("2025-01-06")); !ok || !almostEqual(v, 0.1) {
		t.Errorf("change = %v %v, want 0.1", v, ok)
	}
	if _, ok := pc.Get(d("2025-01-02")); ok {
		t.Error("change must be absent before 'periods' entries exist")
	}

	two := PctChange(s, 2)
	if v, ok := two.Get(d("2025-01-06")); !ok || !almostEqual(v, 0.21) {
		t.Errorf("2-period change = %v %v, want 0.21", v, ok)
	}
}
