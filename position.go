package backtest

import "fmt"

// Position is the risk state of a single held asset. It is created on
// a buy fill, mutated only by risk transitions, and destroyed on a
// sell fill. Positions are exclusively owned by a Ledger.
type Position struct {
	ticker   string
	quantity Quantity
	entry    Money
	stop     Money
	target   Money

	breakevenArmed bool
	targetReached  bool
}

// NewPosition creates a position from a buy fill. The stop, when set,
// must be below the entry price and the target, when set, above it; a
// zero stop or target means the owning engine does not track that
// exit.
func NewPosition(ticker string, quantity Quantity, entry, stop, target Money) (*Position, error) {
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("position %s: quantity must be positive, got %s", ticker, quantity)
	}
	if !stop.IsZero() && stop.GreaterThanOrEqual(entry) {
		return nil, fmt.Errorf("position %s: stop %s must be below entry %s", ticker, stop, entry)
	}
	if !target.IsZero() && target.LessThanOrEqual(entry) {
		return nil, fmt.Errorf("position %s: target %s must be above entry %s", ticker, target, entry)
	}
	return &Position{ticker: ticker, quantity: quantity, entry: entry, stop: stop, target: target}, nil
}

func (p *Position) Ticker() string     { return p.ticker }
func (p *Position) Quantity() Quantity { return p.quantity }
func (p *Position) Entry() Money       { return p.entry }
func (p *Position) Stop() Money        { return p.stop }
func (p *Position) Target() Money      { return p.target }

// BreakevenArmed reports whether the breakeven stop has been armed.
func (p *Position) BreakevenArmed() bool { return p.breakevenArmed }

// TargetReached reports whether the intraday high ever touched the
// profit target. Reaching the target does not close the position.
func (p *Position) TargetReached() bool { return p.targetReached }

// ArmBreakeven raises the stop to the given level and marks the
// position armed. The stop ratchet is monotonic: a level at or below
// the current stop leaves it unchanged.
func (p *Position) ArmBreakeven(stop Money) {
	p.breakevenArmed = true
	if stop.GreaterThan(p.stop) {
		p.stop = stop
	}
}

// MarkTargetReached latches the target-reached flag.
func (p *Position) MarkTargetReached() { p.targetReached = true }
