// Package cmd implements the CLI application that runs backtests from
// local data files.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/moslab/backtest"
)

// Register the subcommands. A main package calls Register() and then
// Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&runCmd{}, "simulation")
	c.Register(&signalsCmd{}, "simulation")
}

// inputFlags holds the data-file flags shared by all subcommands. All
// inputs are fully loaded in memory before any simulation day runs.
type inputFlags struct {
	marketFile    string
	benchmarkFile string
	scoresFile    string
}

func (in *inputFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&in.marketFile, "market", "market.jsonl", "OHLCV bars, JSONL, one bar per line.")
	f.StringVar(&in.benchmarkFile, "benchmark", "benchmark.jsonl", "Benchmark close series, JSONL, or a provider chart payload (.json).")
	f.StringVar(&in.scoresFile, "scores", "scores.jsonl", "Per-asset score table, JSONL.")
}

func (in *inputFlags) load() (*backtest.Market, *backtest.Series, *backtest.Table, error) {
	mf, err := os.Open(in.marketFile)
	if err != nil {
		return nil, nil, nil, err
	}
	defer mf.Close()
	market, err := backtest.DecodeMarket(mf)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("market file %q: %w", in.marketFile, err)
	}

	bf, err := os.Open(in.benchmarkFile)
	if err != nil {
		return nil, nil, nil, err
	}
	defer bf.Close()
	var benchmark *backtest.Series
	if strings.HasSuffix(in.benchmarkFile, ".json") {
		benchmark, err = backtest.DecodeChartPayload(bf)
	} else {
		benchmark, err = backtest.DecodeSeries(bf)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("benchmark file %q: %w", in.benchmarkFile, err)
	}

	sf, err := os.Open(in.scoresFile)
	if err != nil {
		return nil, nil, nil, err
	}
	defer sf.Close()
	scores, err := backtest.DecodeTable(sf)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("scores file %q: %w", in.scoresFile, err)
	}
	return market, benchmark, scores, nil
}

// configFlags exposes the recognized simulation options on top of the
// defaults.
type configFlags struct {
	capital    float64
	commission float64
	slippage   float64
	topN       int
	defensive  string
	currency   string
}

func (cf *configFlags) SetFlags(f *flag.FlagSet) {
	def := backtest.DefaultConfig()
	f.Float64Var(&cf.capital, "capital", def.InitialCapital, "Initial capital.")
	f.Float64Var(&cf.commission, "commission", def.CommissionRate, "Commission rate per fill.")
	f.Float64Var(&cf.slippage, "slippage", def.SlippageRate, "Adverse slippage rate per fill.")
	f.IntVar(&cf.topN, "top", def.TopN, "Number of ranking leaders to hold.")
	f.StringVar(&cf.defensive, "defensive", "", "Ticker of the defensive asset (required).")
	f.StringVar(&cf.currency, "currency", def.Currency, "Reporting currency.")
}

func (cf *configFlags) config() backtest.Config {
	cfg := backtest.DefaultConfig()
	cfg.InitialCapital = cf.capital
	cfg.CommissionRate = cf.commission
	cfg.SlippageRate = cf.slippage
	cfg.TopN = cf.topN
	cfg.DefensiveAsset = cf.defensive
	cfg.Currency = cf.currency
	return cfg
}

// printMarkdown renders markdown to the terminal, falling back to the
// raw text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
