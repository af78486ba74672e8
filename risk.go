package backtest

import (
	"fmt"
	"slices"
)

// RiskEngine extends the base engine with a daily risk pass per
// position: breakeven arming, stop-loss, ATR or fixed-percentage
// profit targets, and rank-based exits. The risk pass runs every
// trading day, before the rebalance pass on signal days.
type RiskEngine struct {
	Engine
	scores *Table
	atr    map[string]*Series
}

// NewRiskEngine validates the configuration and precomputes per-asset
// ATR series. The score table is consulted daily to recompute the
// top-N leaders set.
func NewRiskEngine(market *Market, scores *Table, cfg Config) (*RiskEngine, error) {
	if err := cfg.validateRiskManaged(); err != nil {
		return nil, err
	}
	if market == nil || market.Len() == 0 {
		return nil, fmt.Errorf("%w: empty market", ErrInvalidConfig)
	}
	if scores == nil {
		return nil, fmt.Errorf("%w: nil score table", ErrInvalidConfig)
	}
	e := &RiskEngine{
		Engine: Engine{market: market, cfg: cfg},
		scores: scores,
		atr:    make(map[string]*Series),
	}
	if cfg.ATRWindow > 0 {
		for _, ticker := range market.Tickers() {
			e.atr[ticker] = ATR(market.Get(ticker), cfg.ATRWindow)
		}
	}
	return e, nil
}

// Run simulates the signal table with the daily risk pass applied
// before any rebalance.
func (e *RiskEngine) Run(signals *Table) (*Result, error) {
	days, err := e.simDays(signals)
	if err != nil {
		return nil, err
	}
	st := e.newState()
	res := newResult()
	for _, day := range days {
		st.day = day
		e.riskPass(st, res)
		if signals.Has(day) {
			e.liquidate(st, res)
			e.rebuild(st, res, signals, e.cfg.MaxSlots, e.openRisk)
		}
		e.markToMarket(st, res)
	}
	return res, nil
}

// openRisk attaches the initial stop and the profit target to a buy
// fill: stop at entry×(1−StopLossPct), target at entry+ATR×multiple
// when an ATR value exists on the fill date, else at
// entry×(1+TargetPct).
func (e *RiskEngine) openRisk(st *portfolioState, ticker string, qty Quantity, fill Money) (*Position, error) {
	stop := fill.Scale(1 - e.cfg.StopLossPct)
	target := Money{}
	if atr, ok := e.atrValue(ticker, st.day); ok && atr > epsilon {
		target = fill.Add(M(atr*e.cfg.ATRTargetMultiple, e.cfg.Currency))
	} else if e.cfg.TargetPct > 0 {
		target = fill.Scale(1 + e.cfg.TargetPct)
	}
	if target.IsZero() || target.LessThanOrEqual(fill) {
		return nil, fmt.Errorf("no usable profit target for %s on %s", ticker, st.day)
	}
	return NewPosition(ticker, qty, fill, stop, target)
}

func (e *RiskEngine) atrValue(ticker string, day Date) (float64, bool) {
	s, ok := e.atr[ticker]
	if !ok {
		return 0, false
	}
	return s.ValueAsOf(day)
}

// riskPass applies the per-position state machine for one day, in
// position insertion order. The stop-loss check always runs first, so
// when a stop and any breakeven or target condition trigger the same
// day, the stop wins.
func (e *RiskEngine) riskPass(st *portfolioState, res *Result) {
	leaders := leadersOn(e.scores, st.day, e.cfg.DefensiveAsset, e.cfg.TopN)

	for _, ticker := range st.ledger.Tickers() {
		pos := st.ledger.Get(ticker)
		low, okL := e.market.Low(ticker, st.day)
		high, okH := e.market.High(ticker, st.day)
		if !okL || !okH {
			// No bar today: the position is left untouched.
			e.gap(res, st.day, ticker)
			continue
		}

		// Stop-loss, against the stop as of the start of the day.
		if low <= pos.Stop().AsFloat() {
			kind := StopLoss
			if pos.BreakevenArmed() {
				kind = BreakevenStop
			}
			fill := pos.Stop().Scale(1 - e.cfg.SlippageRate)
			e.sellFill(st, res, ticker, fill, kind)
			continue
		}

		// Breakeven arming: the stop only ever moves up.
		if !pos.BreakevenArmed() && high >= pos.Entry().Scale(1+e.cfg.BreakevenTriggerPct).AsFloat() {
			pos.ArmBreakeven(pos.Entry().Scale(1.005))
		}

		// Touching the target only latches the flag. The position
		// holds while it remains a ranking leader, and exits at the
		// close the first day it is target-reached and outside the
		// leaders set.
		if high >= pos.Target().AsFloat() {
			pos.MarkTargetReached()
		}
		if pos.TargetReached() && !slices.Contains(leaders, ticker) {
			closePrice, ok := e.market.Close(ticker, st.day)
			if !ok {
				e.gap(res, st.day, ticker)
				continue
			}
			fill := M(closePrice, e.cfg.Currency).Scale(1 - e.cfg.SlippageRate)
			e.sellFill(st, res, ticker, fill, TakeProfit)
		}
	}
}
