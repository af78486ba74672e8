package backtest

import (
	"fmt"
	"slices"
)

// TradeKind labels a fill in the trade log.
type TradeKind int

const (
	// Buy is a rebalance entry fill.
	Buy TradeKind = iota
	// Sell is a plain rebalance liquidation fill.
	Sell
	// StopLoss is an exit at the initial stop price.
	StopLoss
	// BreakevenStop is an exit at a stop raised by breakeven arming.
	BreakevenStop
	// TakeProfit is an exit of a target-reached position that dropped
	// out of the ranking leaders.
	TakeProfit
	// BreakevenExit is the simplified variant's exit at the entry
	// price after arming.
	BreakevenExit
)

func (k TradeKind) String() string {
	switch k {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case StopLoss:
		return "stop-loss"
	case BreakevenStop:
		return "breakeven-stop"
	case TakeProfit:
		return "take-profit"
	case BreakevenExit:
		return "breakeven-exit"
	default:
		return "unknown"
	}
}

// ParseTradeKind parses a string into a TradeKind.
func ParseTradeKind(s string) (TradeKind, error) {
	for _, k := range []TradeKind{Buy, Sell, StopLoss, BreakevenStop, TakeProfit, BreakevenExit} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown trade kind: %q", s)
}

// IsExit reports whether the kind closes a position.
func (k TradeKind) IsExit() bool { return k != Buy }

// TradeRecord is one executed fill. Records are append-only and never
// mutated. Price is the fill price after slippage; Value is
// price×quantity before commission.
type TradeRecord struct {
	On       Date
	Ticker   string
	Kind     TradeKind
	Price    Money
	Quantity Quantity
	Value    Money
}

// Ledger is the authoritative record of held positions. Iteration
// order is position insertion order, which the risk pass depends on.
type Ledger struct {
	order     []string
	positions map[string]*Position
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{positions: make(map[string]*Position)}
}

// Len returns the number of open positions.
func (l *Ledger) Len() int { return len(l.order) }

// Get returns the position for a ticker, or nil.
func (l *Ledger) Get(ticker string) *Position { return l.positions[ticker] }

// Open adds a position. Opening a ticker that is already held is a
// programming error in the engine.
func (l *Ledger) Open(p *Position) error {
	if _, ok := l.positions[p.ticker]; ok {
		return fmt.Errorf("position %s is already open", p.ticker)
	}
	l.positions[p.ticker] = p
	l.order = append(l.order, p.ticker)
	return nil
}

// Close removes and returns the position for a ticker, or nil if it
// is not held.
func (l *Ledger) Close(ticker string) *Position {
	p, ok := l.positions[ticker]
	if !ok {
		return nil
	}
	delete(l.positions, ticker)
	if i := slices.Index(l.order, ticker); i >= 0 {
		l.order = slices.Delete(l.order, i, i+1)
	}
	return p
}

// Tickers returns the held tickers in insertion order. The returned
// slice is a snapshot: closing positions while ranging over it is safe.
func (l *Ledger) Tickers() []string { return slices.Clone(l.order) }
