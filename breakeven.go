package backtest

import "fmt"

// breakevenStopPct is the fixed stop of the simplified variant.
const breakevenStopPct = 0.20

// BreakevenEngine is a simplified risk-managed variant with only two
// position states, Open and BreakevenArmed, and two exits: a fixed
// −20% stop-loss, and a breakeven exit when the price returns to the
// entry after arming. The portfolio is fully liquidated and rebuilt
// strictly on signal dates. There are no profit targets and no leader
// logic.
type BreakevenEngine struct {
	Engine
}

// NewBreakevenEngine validates the configuration and returns the
// simplified variant engine.
func NewBreakevenEngine(market *Market, cfg Config) (*BreakevenEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.BreakevenTriggerPct <= 0 {
		return nil, fmt.Errorf("%w: breakeven trigger pct must be positive, got %v", ErrInvalidConfig, cfg.BreakevenTriggerPct)
	}
	if market == nil || market.Len() == 0 {
		return nil, fmt.Errorf("%w: empty market", ErrInvalidConfig)
	}
	return &BreakevenEngine{Engine: Engine{market: market, cfg: cfg}}, nil
}

// Run simulates the signal table with the simplified daily exit pass.
func (e *BreakevenEngine) Run(signals *Table) (*Result, error) {
	days, err := e.simDays(signals)
	if err != nil {
		return nil, err
	}
	st := e.newState()
	res := newResult()
	for _, day := range days {
		st.day = day
		e.exitPass(st, res)
		if signals.Has(day) {
			e.liquidate(st, res)
			e.rebuild(st, res, signals, 0, e.openArmed)
		}
		e.markToMarket(st, res)
	}
	return res, nil
}

// openArmed attaches only the fixed −20% stop; there is no target.
func (e *BreakevenEngine) openArmed(_ *portfolioState, ticker string, qty Quantity, fill Money) (*Position, error) {
	return NewPosition(ticker, qty, fill, fill.Scale(1-breakevenStopPct), Money{})
}

// exitPass applies the two-state machine for one day. The stop-loss
// check runs first and wins same-day conflicts.
func (e *BreakevenEngine) exitPass(st *portfolioState, res *Result) {
	for _, ticker := range st.ledger.Tickers() {
		pos := st.ledger.Get(ticker)
		low, okL := e.market.Low(ticker, st.day)
		high, okH := e.market.High(ticker, st.day)
		if !okL || !okH {
			e.gap(res, st.day, ticker)
			continue
		}

		if low <= pos.Stop().AsFloat() {
			fill := pos.Stop().Scale(1 - e.cfg.SlippageRate)
			e.sellFill(st, res, ticker, fill, StopLoss)
			continue
		}

		if pos.BreakevenArmed() {
			// Price returned to the entry after arming.
			if low <= pos.Entry().AsFloat() {
				fill := pos.Entry().Scale(1 - e.cfg.SlippageRate)
				e.sellFill(st, res, ticker, fill, BreakevenExit)
			}
			continue
		}
		if high >= pos.Entry().Scale(1+e.cfg.BreakevenTriggerPct).AsFloat() {
			// Arm without raising the stop: the exit level is the
			// entry itself, checked from the next day on.
			pos.ArmBreakeven(pos.Stop())
		}
	}
}
