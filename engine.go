package backtest

import (
	"fmt"
	"log"
)

// Engine walks the trading calendar day by day, liquidating and
// rebuilding the ledger on signal dates per target weights, and
// marking to market daily. It carries no per-run state: Run allocates
// a fresh portfolio state each call, so distinct runs are independent.
type Engine struct {
	market *Market
	cfg    Config
}

// NewEngine validates the configuration and returns a base execution
// engine over the given market.
func NewEngine(market *Market, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if market == nil || market.Len() == 0 {
		return nil, fmt.Errorf("%w: empty market", ErrInvalidConfig)
	}
	return &Engine{market: market, cfg: cfg}, nil
}

// portfolioState is the single mutable state of one simulation run.
// It is never shared between runs.
type portfolioState struct {
	cash   Money
	ledger *Ledger
	day    Date
}

func (e *Engine) newState() *portfolioState {
	return &portfolioState{
		cash:   M(e.cfg.InitialCapital, e.cfg.Currency),
		ledger: NewLedger(),
	}
}

// simDays validates the signal table against the price range and
// returns the calendar to simulate: every trading day starting at the
// first signal date.
func (e *Engine) simDays(signals *Table) ([]Date, error) {
	if signals == nil || signals.IsEmpty() {
		return nil, fmt.Errorf("%w: empty signal table", ErrInvalidConfig)
	}
	first, last, ok := e.market.Range()
	if !ok {
		return nil, fmt.Errorf("%w: empty market", ErrInvalidConfig)
	}
	sdays := signals.Days()
	if sdays[0].Before(first) || sdays[len(sdays)-1].After(last) {
		return nil, fmt.Errorf("%w: signal dates [%s, %s] outside price range [%s, %s]",
			ErrInvalidConfig, sdays[0], sdays[len(sdays)-1], first, last)
	}
	var out []Date
	for _, day := range e.market.Days() {
		if !day.Before(sdays[0]) {
			out = append(out, day)
		}
	}
	return out, nil
}

// Run simulates the signal table against the market and returns the
// equity curve and trade log. It aborts before any state mutation on
// malformed input.
func (e *Engine) Run(signals *Table) (*Result, error) {
	days, err := e.simDays(signals)
	if err != nil {
		return nil, err
	}
	st := e.newState()
	res := newResult()
	for _, day := range days {
		st.day = day
		if signals.Has(day) {
			e.liquidate(st, res)
			e.rebuild(st, res, signals, 0, e.openPlain)
		}
		e.markToMarket(st, res)
	}
	return res, nil
}

// gap records a skipped (date, asset) pair. Gaps are logged, never raised.
func (e *Engine) gap(res *Result, on Date, ticker string) {
	log.Printf("no price for %s on %s, skipped", ticker, on)
	res.Gaps = append(res.Gaps, Gap{On: on, Ticker: ticker})
}

// sellFill closes the ticker's position at the given fill price,
// credits cash with the proceeds minus commission, and logs the trade.
func (e *Engine) sellFill(st *portfolioState, res *Result, ticker string, fill Money, kind TradeKind) {
	pos := st.ledger.Close(ticker)
	if pos == nil {
		return
	}
	value := fill.Mul(pos.Quantity())
	fee := value.Scale(e.cfg.CommissionRate)
	st.cash = st.cash.Add(value.Sub(fee))
	res.Trades = append(res.Trades, TradeRecord{
		On: st.day, Ticker: ticker, Kind: kind,
		Price: fill, Quantity: pos.Quantity(), Value: value,
	})
}

// liquidate sells every held asset at today's close adjusted by
// unfavorable slippage. A position with no price today is kept and
// recorded as a gap.
func (e *Engine) liquidate(st *portfolioState, res *Result) {
	for _, ticker := range st.ledger.Tickers() {
		closePrice, ok := e.market.Close(ticker, st.day)
		if !ok {
			e.gap(res, st.day, ticker)
			continue
		}
		fill := M(closePrice, e.cfg.Currency).Scale(1 - e.cfg.SlippageRate)
		e.sellFill(st, res, ticker, fill, Sell)
	}
}

// opener builds the position for a buy fill. The base engine opens
// plain positions; risk-managed engines attach stop and target prices.
type opener func(st *portfolioState, ticker string, qty Quantity, fill Money) (*Position, error)

func (e *Engine) openPlain(_ *portfolioState, ticker string, qty Quantity, fill Money) (*Position, error) {
	return NewPosition(ticker, qty, fill, Money{}, Money{})
}

// rebuild buys each positive-weight asset of today's signal row.
// Budgets are all computed from the post-liquidation cash before any
// buy executes. An asset with no price today is skipped and its
// allocation stays in cash: it is not redistributed. maxSlots caps
// the number of opened positions when positive.
func (e *Engine) rebuild(st *portfolioState, res *Result, signals *Table, maxSlots int, open opener) {
	base := st.cash
	opened := 0
	for ticker, weight := range signals.Row(st.day) {
		if weight <= 0 {
			continue
		}
		if maxSlots > 0 && opened >= maxSlots {
			break
		}
		closePrice, ok := e.market.Close(ticker, st.day)
		if !ok {
			e.gap(res, st.day, ticker)
			continue
		}
		fill := M(closePrice, e.cfg.Currency).Scale(1 + e.cfg.SlippageRate)
		if fill.AsFloat() < epsilon {
			continue
		}
		qty := base.Scale(weight).DivPrice(fill).Floor()
		if !qty.IsPositive() {
			// A position sized to zero shares is simply not opened.
			continue
		}
		pos, err := open(st, ticker, qty, fill)
		if err != nil {
			log.Printf("cannot open %s on %s: %v", ticker, st.day, err)
			e.gap(res, st.day, ticker)
			continue
		}
		value := fill.Mul(qty)
		st.cash = st.cash.Sub(value.Add(value.Scale(e.cfg.CommissionRate)))
		if err := st.ledger.Open(pos); err != nil {
			// Unreachable on a rebalance day: the ledger was just liquidated.
			panic(err)
		}
		res.Trades = append(res.Trades, TradeRecord{
			On: st.day, Ticker: ticker, Kind: Buy,
			Price: fill, Quantity: qty, Value: value,
		})
		opened++
	}
}

// markToMarket values every open position at today's close, falling
// back to the last known close, and appends the day's equity point.
func (e *Engine) markToMarket(st *portfolioState, res *Result) {
	total := st.cash
	for _, ticker := range st.ledger.Tickers() {
		price, ok := e.market.CloseAsOf(ticker, st.day)
		if !ok {
			continue
		}
		total = total.Add(M(price, e.cfg.Currency).Mul(st.ledger.Get(ticker).Quantity()))
	}
	res.Equity.Append(st.day, total.AsFloat())
}
