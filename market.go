package backtest

import "slices"

// Bar is one daily OHLCV observation for an asset.
type Bar struct {
	On     Date    `json:"on"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Asset holds the daily price history for a single tradable asset.
// It is immutable once loaded into a Market.
type Asset struct {
	ticker string
	open   Series
	high   Series
	low    Series
	close  Series
	volume Series
}

// NewAsset returns an empty asset history for the given ticker.
func NewAsset(ticker string) *Asset {
	return &Asset{ticker: ticker}
}

// Ticker returns the asset's ticker.
func (a *Asset) Ticker() string { return a.ticker }

// AddBar appends one daily bar to the asset's history.
func (a *Asset) AddBar(b Bar) *Asset {
	a.open.Append(b.On, b.Open)
	a.high.Append(b.On, b.High)
	a.low.Append(b.On, b.Low)
	a.close.Append(b.On, b.Close)
	a.volume.Append(b.On, b.Volume)
	return a
}

// High returns the high price series.
func (a *Asset) HighSeries() *Series { return &a.high }

// Low returns the low price series.
func (a *Asset) LowSeries() *Series { return &a.low }

// Close returns the close price series.
func (a *Asset) CloseSeries() *Series { return &a.close }

// Market holds daily price data for a set of assets.
type Market struct {
	assets []*Asset
	index  map[string]*Asset
}

// NewMarket returns a new empty market data collection.
func NewMarket() *Market {
	return &Market{
		assets: make([]*Asset, 0),
		index:  make(map[string]*Asset),
	}
}

func (m *Market) Has(ticker string) bool {
	_, ok := m.index[ticker]
	return ok
}

func (m *Market) Get(ticker string) *Asset { return m.index[ticker] }

// Add registers an asset. A previous asset with the same ticker is replaced.
func (m *Market) Add(a *Asset) {
	if _, ok := m.index[a.ticker]; !ok {
		m.assets = append(m.assets, a)
	} else {
		for i, old := range m.assets {
			if old.ticker == a.ticker {
				m.assets[i] = a
				break
			}
		}
	}
	m.index[a.ticker] = a
}

// Len returns the number of assets.
func (m *Market) Len() int { return len(m.assets) }

// Tickers returns the asset tickers in insertion order.
func (m *Market) Tickers() []string {
	out := make([]string, 0, len(m.assets))
	for _, a := range m.assets {
		out = append(out, a.ticker)
	}
	return out
}

// Close reads the close price for (ticker, day). A missing asset or a
// missing day returns false: a gap is an expected condition, not an error.
func (m *Market) Close(ticker string, day Date) (float64, bool) {
	a, ok := m.index[ticker]
	if !ok {
		return 0, false
	}
	return a.close.Get(day)
}

// High reads the intraday high for (ticker, day).
func (m *Market) High(ticker string, day Date) (float64, bool) {
	a, ok := m.index[ticker]
	if !ok {
		return 0, false
	}
	return a.high.Get(day)
}

// Low reads the intraday low for (ticker, day).
func (m *Market) Low(ticker string, day Date) (float64, bool) {
	a, ok := m.index[ticker]
	if !ok {
		return 0, false
	}
	return a.low.Get(day)
}

// CloseAsOf reads the close price for (ticker, day), falling back to
// the last known close before it.
func (m *Market) CloseAsOf(ticker string, day Date) (float64, bool) {
	a, ok := m.index[ticker]
	if !ok {
		return 0, false
	}
	return a.close.ValueAsOf(day)
}

// Days returns the sorted union of all asset trading days. This is the
// simulation calendar.
func (m *Market) Days() []Date {
	var days []Date
	for _, a := range m.assets {
		for on := range a.close.Values() {
			i, found := slices.BinarySearchFunc(days, on, Date.Compare)
			if !found {
				days = slices.Insert(days, i, on)
			}
		}
	}
	return days
}

// Range returns the first and last trading day across all assets, and
// false when the market is empty.
func (m *Market) Range() (first, last Date, ok bool) {
	days := m.Days()
	if len(days) == 0 {
		return Date{}, Date{}, false
	}
	return days[0], days[len(days)-1], true
}
