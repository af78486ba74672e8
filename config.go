package backtest

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by all fatal pre-run configuration
// errors. A run that fails with it produced no output at all.
var ErrInvalidConfig = errors.New("invalid configuration")

// epsilon floors near-zero denominators instead of letting degenerate
// arithmetic blow up mid-run.
const epsilon = 1e-9

// Config carries every recognized simulation option. It is passed by
// value to engine constructors and never mutated afterwards; there is
// no process-wide configuration.
type Config struct {
	// Currency is the reporting currency of cash and fills.
	Currency string
	// InitialCapital is the starting cash of a run.
	InitialCapital float64
	// CommissionRate is charged on every fill as value×rate.
	CommissionRate float64
	// SlippageRate adjusts every fill price adversely: buys up, sells down.
	SlippageRate float64

	// TopN is the number of ranking leaders selected on a rebalance
	// date, and the size of the daily leaders set of the risk engine.
	TopN int
	// MaxSlots caps the number of positions the risk engine opens on a
	// rebalance day. 0 disables the cap.
	MaxSlots int

	// StopLossPct places the initial stop at entry×(1−StopLossPct).
	StopLossPct float64
	// BreakevenTriggerPct arms the breakeven stop once the intraday
	// high reaches entry×(1+BreakevenTriggerPct).
	BreakevenTriggerPct float64
	// TargetPct places a fixed profit target at entry×(1+TargetPct).
	// Used when ATRWindow is 0, or when no ATR value exists on the
	// fill date.
	TargetPct float64
	// ATRTargetMultiple places the profit target at entry+ATR×multiple
	// when ATRWindow is positive.
	ATRTargetMultiple float64
	// ATRWindow is the averaging window of the true range. 0 selects
	// fixed-percentage targets instead.
	ATRWindow int

	// MarketTimingMAWindow is the benchmark moving-average window used
	// to classify the market regime.
	MarketTimingMAWindow int
	// MATrendWindow is how many trading days back the moving average is
	// compared against to decide whether it is rising.
	MATrendWindow int
	// RebalanceDayRange skips a month whose first trading day falls
	// after this day of the month. 0 disables the check.
	RebalanceDayRange int

	// DefensiveAsset receives the non-offensive allocation fraction.
	DefensiveAsset string
}

// DefaultConfig mirrors the live bot parameters. DefensiveAsset is
// left empty on purpose: there is no sensible universal default, and
// Validate rejects a config without one.
func DefaultConfig() Config {
	return Config{
		Currency:             "KRW",
		InitialCapital:       10_000_000,
		CommissionRate:       0.00015,
		SlippageRate:         0.0001,
		TopN:                 2,
		MaxSlots:             3,
		StopLossPct:          0.05,
		BreakevenTriggerPct:  0.05,
		ATRTargetMultiple:    3.0,
		ATRWindow:            20,
		MarketTimingMAWindow: 60,
		MATrendWindow:        5,
		RebalanceDayRange:    7,
	}
}

// Validate checks the configuration before any state is allocated.
func (c Config) Validate() error {
	switch {
	case c.InitialCapital <= 0:
		return fmt.Errorf("%w: initial capital must be positive, got %v", ErrInvalidConfig, c.InitialCapital)
	case c.CommissionRate < 0:
		return fmt.Errorf("%w: commission rate must not be negative, got %v", ErrInvalidConfig, c.CommissionRate)
	case c.SlippageRate < 0:
		return fmt.Errorf("%w: slippage rate must not be negative, got %v", ErrInvalidConfig, c.SlippageRate)
	case c.TopN <= 0:
		return fmt.Errorf("%w: top-N must be positive, got %d", ErrInvalidConfig, c.TopN)
	case c.DefensiveAsset == "":
		return fmt.Errorf("%w: defensive asset is not set", ErrInvalidConfig)
	case c.MarketTimingMAWindow <= 0:
		return fmt.Errorf("%w: market timing MA window must be positive, got %d", ErrInvalidConfig, c.MarketTimingMAWindow)
	case c.MATrendWindow <= 0:
		return fmt.Errorf("%w: MA trend window must be positive, got %d", ErrInvalidConfig, c.MATrendWindow)
	case c.RebalanceDayRange < 0:
		return fmt.Errorf("%w: rebalance day range must not be negative, got %d", ErrInvalidConfig, c.RebalanceDayRange)
	}
	return nil
}

// validateRiskManaged adds the checks only the risk-managed engine needs.
func (c Config) validateRiskManaged() error {
	if err := c.Validate(); err != nil {
		return err
	}
	switch {
	case c.StopLossPct <= 0 || c.StopLossPct >= 1:
		return fmt.Errorf("%w: stop loss pct must be in (0,1), got %v", ErrInvalidConfig, c.StopLossPct)
	case c.BreakevenTriggerPct <= 0:
		return fmt.Errorf("%w: breakeven trigger pct must be positive, got %v", ErrInvalidConfig, c.BreakevenTriggerPct)
	case c.ATRWindow < 0:
		return fmt.Errorf("%w: ATR window must not be negative, got %d", ErrInvalidConfig, c.ATRWindow)
	case c.ATRWindow > 0 && c.ATRTargetMultiple <= 0:
		return fmt.Errorf("%w: ATR target multiple must be positive, got %v", ErrInvalidConfig, c.ATRTargetMultiple)
	case c.ATRWindow == 0 && c.TargetPct <= 0:
		return fmt.Errorf("%w: a profit target mode is required: set ATRWindow or TargetPct", ErrInvalidConfig)
	}
	return nil
}
