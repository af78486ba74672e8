package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/moslab/backtest"
	"github.com/moslab/backtest/renderer"
)

// runCmd holds the flags for the 'run' subcommand.
type runCmd struct {
	inputFlags
	configFlags
	engine     string
	equityOut  string
	tradesOut  string
	showTrades bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "simulate the strategy and display a performance summary" }
func (*runCmd) Usage() string {
	return `mbt run -defensive <ticker> [-market <file>] [-benchmark <file>] [-scores <file>] [-engine base|risk|breakeven]

  Builds the target-weight table from the score table and the
  benchmark regime, simulates it day by day against the price history,
  and displays the realized performance metrics.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.SetFlags(f)
	c.configFlags.SetFlags(f)
	f.StringVar(&c.engine, "engine", "risk", "Engine variant: base, risk, or breakeven.")
	f.StringVar(&c.equityOut, "equity-out", "", "Write the equity curve as JSONL to this file.")
	f.StringVar(&c.tradesOut, "trades-out", "", "Write the trade log as JSONL to this file.")
	f.BoolVar(&c.showTrades, "trades", false, "Also display the full trade log.")
}

func (c *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	market, benchmark, scores, err := c.load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	cfg := c.config()

	signals, err := backtest.BuildSignals(market, benchmark, scores, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building signals: %v\n", err)
		return subcommands.ExitUsageError
	}

	res, err := c.run(market, scores, signals, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running simulation: %v\n", err)
		return subcommands.ExitFailure
	}

	metrics, err := backtest.Analyze(res.Equity, benchmark, cfg.InitialCapital)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing run: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.SummaryMarkdown(metrics, res))
	if c.showTrades {
		printMarkdown(renderer.TradesMarkdown(res.Trades))
	}

	if c.equityOut != "" {
		if err := writeFile(c.equityOut, func(w *os.File) error {
			return backtest.EncodeSeries(w, res.Equity)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing equity curve: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if c.tradesOut != "" {
		if err := writeFile(c.tradesOut, func(w *os.File) error {
			return backtest.EncodeTrades(w, res.Trades)
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing trade log: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}

// run picks the engine variant and simulates the signals.
func (c *runCmd) run(market *backtest.Market, scores, signals *backtest.Table, cfg backtest.Config) (*backtest.Result, error) {
	switch c.engine {
	case "base":
		e, err := backtest.NewEngine(market, cfg)
		if err != nil {
			return nil, err
		}
		return e.Run(signals)
	case "risk":
		e, err := backtest.NewRiskEngine(market, scores, cfg)
		if err != nil {
			return nil, err
		}
		return e.Run(signals)
	case "breakeven":
		e, err := backtest.NewBreakevenEngine(market, cfg)
		if err != nil {
			return nil, err
		}
		return e.Run(signals)
	default:
		return nil, fmt.Errorf("unknown engine %q, want base, risk or breakeven", c.engine)
	}
}

func writeFile(name string, write func(*os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}
