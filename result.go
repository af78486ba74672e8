package backtest

import "github.com/google/uuid"

// Gap records one (date, asset) pair that was skipped because no price
// existed that day. Gaps degrade a run deterministically; they never
// abort it.
type Gap struct {
	On     Date
	Ticker string
}

// Result is the complete outcome of one simulation run: the daily
// equity curve, the ordered fill log, and the enumerable list of data
// gaps. Everything in it is append-only during the run and read-only
// afterwards.
type Result struct {
	// RunID uniquely identifies the run, so results from engine-variant
	// comparisons can be told apart.
	RunID  string
	Equity *Series
	Trades []TradeRecord
	Gaps   []Gap
}

func newResult() *Result {
	return &Result{RunID: uuid.NewString(), Equity: &Series{}}
}

// FinalValue returns the last equity point, or 0 for an empty curve.
func (r *Result) FinalValue() float64 {
	_, v := r.Equity.Latest()
	return v
}

// CountTrades returns the number of fills of the given kind.
func (r *Result) CountTrades(kind TradeKind) int {
	n := 0
	for _, t := range r.Trades {
		if t.Kind == kind {
			n++
		}
	}
	return n
}
