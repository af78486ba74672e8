package backtest

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"baseline", func(*Config) {}, true},
		{"zero capital", func(c *Config) { c.InitialCapital = 0 }, false},
		{"negative capital", func(c *Config) { c.InitialCapital = -1 }, false},
		{"negative commission", func(c *Config) { c.CommissionRate = -0.001 }, false},
		{"negative slippage", func(c *Config) { c.SlippageRate = -0.001 }, false},
		{"zero top-N", func(c *Config) { c.TopN = 0 }, false},
		{"no defensive asset", func(c *Config) { c.DefensiveAsset = "" }, false},
		{"zero MA window", func(c *Config) { c.MarketTimingMAWindow = 0 }, false},
		{"zero trend window", func(c *Config) { c.MATrendWindow = 0 }, false},
		{"negative day range", func(c *Config) { c.RebalanceDayRange = -1 }, false},
		{"free trading", func(c *Config) { c.CommissionRate = 0; c.SlippageRate = 0 }, true},
	}
	for _, tt := range tests {
		cfg := testConfig()
		tt.mutate(&cfg)
		err := cfg.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("%s: expected an error", tt.name)
			} else if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("%s: error %v does not wrap ErrInvalidConfig", tt.name, err)
			}
		}
	}
}

func TestConfigValidateRiskManaged(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"ATR target mode", func(c *Config) { c.ATRWindow = 20; c.ATRTargetMultiple = 3 }, true},
		{"fixed target mode", func(c *Config) { c.ATRWindow = 0; c.TargetPct = 0.1 }, true},
		{"no target mode at all", func(c *Config) { c.ATRWindow = 0; c.TargetPct = 0 }, false},
		{"ATR window without multiple", func(c *Config) { c.ATRWindow = 20; c.ATRTargetMultiple = 0 }, false},
		{"zero stop", func(c *Config) { c.StopLossPct = 0 }, false},
		{"stop of one", func(c *Config) { c.StopLossPct = 1 }, false},
		{"zero breakeven trigger", func(c *Config) { c.BreakevenTriggerPct = 0 }, false},
	}
	for _, tt := range tests {
		cfg := testConfig()
		tt.mutate(&cfg)
		err := cfg.validateRiskManaged()
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestDefaultConfigRejectedWithoutDefensive(t *testing.T) {
	// The default deliberately leaves the defensive asset unset.
	if err := DefaultConfig().Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("DefaultConfig().Validate() = %v, want ErrInvalidConfig", err)
	}
	cfg := DefaultConfig()
	cfg.DefensiveAsset = "CASH"
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults with a defensive asset must validate: %v", err)
	}
}
