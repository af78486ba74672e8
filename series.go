package backtest

import (
	"iter"
	"slices"
)

// Series stores a chronological series of float64 values, each
// associated with a specific date. Dates are unique and the series is
// always sorted. The zero value is an empty series ready to use.
type Series struct {
	days   []Date
	values []float64
}

// Len returns the number of points in the series.
func (s *Series) Len() int { return len(s.days) }

// First returns the earliest date and value in the series.
// If the series is empty, it returns zero values.
func (s *Series) First() (day Date, value float64) {
	if len(s.days) == 0 {
		return Date{}, 0
	}
	return s.days[0], s.values[0]
}

// Latest returns the latest date and value in the series.
// If the series is empty, it returns zero values.
func (s *Series) Latest() (day Date, value float64) {
	last := len(s.days) - 1
	if last < 0 {
		return Date{}, 0
	}
	return s.days[last], s.values[last]
}

// search locates a day in the sorted day slice.
func (s *Series) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(s.days, day, Date.Compare)
}

// Append adds a point to the series, keeping it sorted.
//
// An existing value at that date is overwritten.
func (s *Series) Append(on Date, v float64) *Series {
	i, found := s.search(on)
	if found {
		// Replace, so the last data wins.
		s.values[i] = v
		return s
	}
	s.days = slices.Insert(s.days, i, on)
	s.values = slices.Insert(s.values, i, v)
	return s
}

// Get returns the value at 'day' and true, or zero and false.
func (s *Series) Get(day Date) (float64, bool) {
	if i, found := s.search(day); found {
		return s.values[i], true
	}
	return 0, false
}

// ValueAsOf returns the value on a given day, or the most recent value
// before it. It returns the value and true if found, otherwise zero
// and false.
func (s *Series) ValueAsOf(day Date) (float64, bool) {
	i, found := s.search(day)
	if found {
		return s.values[i], true
	}
	// `i` is the insertion index; the last entry before the target is at i-1.
	if i == 0 {
		return 0, false
	}
	return s.values[i-1], true
}

// Values returns an iterator over all date/value pairs in the series,
// in chronological order.
func (s *Series) Values() iter.Seq2[Date, float64] {
	return func(yield func(Date, float64) bool) {
		for i, on := range s.days {
			if !yield(on, s.values[i]) {
				return
			}
		}
	}
}

// Days returns the dates of the series in chronological order.
func (s *Series) Days() []Date { return slices.Clone(s.days) }

// Truncate returns a new series containing only the points on or
// before 'day'. The receiver is unchanged.
func (s *Series) Truncate(day Date) *Series {
	t := &Series{}
	for on, v := range s.Values() {
		if on.After(day) {
			break
		}
		t.Append(on, v)
	}
	return t
}
