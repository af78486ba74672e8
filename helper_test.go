package backtest

// d is a test helper to build a Date from an ISO string.
func d(s string) Date { return MustParseDate(s) }

// KRW is a helper for tests to create reporting-currency money from a const.
func KRW(v float64) Money { return M(v, "KRW") }

// flatBar builds a bar whose open, high, low and close are all the same price.
func flatBar(on string, price float64) Bar {
	return Bar{On: d(on), Open: price, High: price, Low: price, Close: price, Volume: 1000}
}

// ohlc builds a bar from open, high, low and close.
func ohlc(on string, open, high, low, close float64) Bar {
	return Bar{On: d(on), Open: open, High: high, Low: low, Close: close, Volume: 1000}
}

// newTestAsset builds an asset from bars.
func newTestAsset(ticker string, bars ...Bar) *Asset {
	a := NewAsset(ticker)
	for _, b := range bars {
		a.AddBar(b)
	}
	return a
}

// newTestMarket builds a market from assets.
func newTestMarket(assets ...*Asset) *Market {
	m := NewMarket()
	for _, a := range assets {
		m.Add(a)
	}
	return m
}

// seriesOf builds a series from alternating ISO date strings and values.
func seriesOf(points ...any) *Series {
	s := &Series{}
	for i := 0; i < len(points); i += 2 {
		s.Append(d(points[i].(string)), toFloat(points[i+1]))
	}
	return s
}

// setRow fills one table row in the given ticker order, preserving
// column insertion order for tie-breaks.
func setRow(t *Table, on string, tickers []string, values []float64) *Table {
	for i, ticker := range tickers {
		t.Set(d(on), ticker, values[i])
	}
	return t
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case float64:
		return x
	default:
		panic("unsupported value type")
	}
}

// testConfig is a frictionless baseline: no commission, no slippage,
// 1,000,000 starting cash, defensive asset "CASH".
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Currency = "KRW"
	cfg.InitialCapital = 1_000_000
	cfg.CommissionRate = 0
	cfg.SlippageRate = 0
	cfg.DefensiveAsset = "CASH"
	cfg.RebalanceDayRange = 0
	return cfg
}
