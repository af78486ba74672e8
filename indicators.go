package backtest

import "math"

// This file holds the numeric kernels the engines rely on. They are
// all pure Series→Series functions: the value produced for a day only
// uses observations on or before that day, so derived series carry no
// lookahead. Windows emit a value only once they are full.

// TrueRange computes the daily true range from high, low and close
// series sharing a calendar. The first day has no previous close and
// produces no value.
func TrueRange(high, low, close *Series) *Series {
	out := &Series{}
	var prevClose float64
	havePrev := false
	for on, c := range close.Values() {
		h, okH := high.Get(on)
		l, okL := low.Get(on)
		if okH && okL && havePrev {
			tr := h - l
			tr = math.Max(tr, math.Abs(h-prevClose))
			tr = math.Max(tr, math.Abs(l-prevClose))
			out.Append(on, tr)
		}
		prevClose, havePrev = c, true
	}
	return out
}

// ATR is the rolling mean of the true range over the given window.
func ATR(a *Asset, window int) *Series {
	return RollingMean(TrueRange(a.HighSeries(), a.LowSeries(), a.CloseSeries()), window)
}

// RollingMean computes the trailing mean over 'window' points.
func RollingMean(s *Series, window int) *Series {
	out := &Series{}
	if window <= 0 {
		return out
	}
	var sum float64
	var buf []float64
	for on, v := range s.Values() {
		buf = append(buf, v)
		sum += v
		if len(buf) > window {
			sum -= buf[len(buf)-window-1]
		}
		if len(buf) >= window {
			out.Append(on, sum/float64(window))
		}
	}
	return out
}

// RollingStd computes the trailing sample standard deviation over
// 'window' points.
func RollingStd(s *Series, window int) *Series {
	out := &Series{}
	if window <= 1 {
		return out
	}
	var buf []float64
	for on, v := range s.Values() {
		buf = append(buf, v)
		if len(buf) >= window {
			tail := buf[len(buf)-window:]
			var sum float64
			for _, x := range tail {
				sum += x
			}
			mean := sum / float64(window)
			var ss float64
			for _, x := range tail {
				ss += (x - mean) * (x - mean)
			}
			out.Append(on, math.Sqrt(ss/float64(window-1)))
		}
	}
	return out
}

// PctChange computes the fractional change over 'periods' trading
// entries back: v[i]/v[i-periods] − 1. Near-zero references are
// floored at epsilon.
func PctChange(s *Series, periods int) *Series {
	out := &Series{}
	if periods <= 0 {
		return out
	}
	var vals []float64
	for on, v := range s.Values() {
		vals = append(vals, v)
		i := len(vals) - 1
		if i >= periods {
			ref := vals[i-periods]
			if math.Abs(ref) < epsilon {
				ref = epsilon
			}
			out.Append(on, v/ref-1)
		}
	}
	return out
}
