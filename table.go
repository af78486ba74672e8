package backtest

import (
	"iter"
	"slices"
)

// Table is a sparse date×asset table of float64 values. It backs both
// the externally produced score table and the target-weight signal
// table.
//
// Asset columns keep their insertion order, which defines the stable
// tie-break order when ranking equal values. Rows are kept sorted by
// date.
type Table struct {
	days   []Date
	assets []string
	seen   map[string]struct{}
	cells  map[Date]map[string]float64
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		seen:  make(map[string]struct{}),
		cells: make(map[Date]map[string]float64),
	}
}

// Set records a value for (on, ticker), overwriting any previous value.
func (t *Table) Set(on Date, ticker string, v float64) {
	row, ok := t.cells[on]
	if !ok {
		row = make(map[string]float64)
		t.cells[on] = row
		i, _ := slices.BinarySearchFunc(t.days, on, Date.Compare)
		t.days = slices.Insert(t.days, i, on)
	}
	row[ticker] = v
	if _, ok := t.seen[ticker]; !ok {
		t.seen[ticker] = struct{}{}
		t.assets = append(t.assets, ticker)
	}
}

// Get returns the value at (on, ticker) and true, or zero and false.
func (t *Table) Get(on Date, ticker string) (float64, bool) {
	v, ok := t.cells[on][ticker]
	return v, ok
}

// Has reports whether the table has a row for the given date.
func (t *Table) Has(on Date) bool {
	_, ok := t.cells[on]
	return ok
}

// IsEmpty reports whether the table has no rows at all.
func (t *Table) IsEmpty() bool { return len(t.days) == 0 }

// Days returns the row dates in chronological order.
func (t *Table) Days() []Date { return slices.Clone(t.days) }

// Assets returns the asset columns in insertion order.
func (t *Table) Assets() []string { return slices.Clone(t.assets) }

// Row returns an iterator over the (ticker, value) cells of the row at
// 'on', in asset insertion order. An absent row yields nothing.
func (t *Table) Row(on Date) iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		row, ok := t.cells[on]
		if !ok {
			return
		}
		for _, ticker := range t.assets {
			if v, ok := row[ticker]; ok {
				if !yield(ticker, v) {
					return
				}
			}
		}
	}
}

// Truncate returns a new table containing only the rows on or before
// 'day'. The receiver is unchanged. Column order is preserved.
func (t *Table) Truncate(day Date) *Table {
	out := NewTable()
	// Seed the column order so tie-breaks survive truncation.
	for _, a := range t.assets {
		out.seen[a] = struct{}{}
		out.assets = append(out.assets, a)
	}
	for _, on := range t.days {
		if on.After(day) {
			break
		}
		for ticker, v := range t.Row(on) {
			out.Set(on, ticker, v)
		}
	}
	return out
}
