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

// signalsCmd holds the flags for the 'signals' subcommand.
type signalsCmd struct {
	inputFlags
	configFlags
}

func (*signalsCmd) Name() string     { return "signals" }
func (*signalsCmd) Synopsis() string { return "display the target-weight table without simulating" }
func (*signalsCmd) Usage() string {
	return `mbt signals -defensive <ticker> [-market <file>] [-benchmark <file>] [-scores <file>]

  Builds and displays the sparse target-weight table: one row per
  rebalance date, populated from the market regime and the score
  ranking.
`
}

func (c *signalsCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.SetFlags(f)
	c.configFlags.SetFlags(f)
}

func (c *signalsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	market, benchmark, scores, err := c.load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	signals, err := backtest.BuildSignals(market, benchmark, scores, c.config())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building signals: %v\n", err)
		return subcommands.ExitUsageError
	}

	printMarkdown(renderer.SignalsMarkdown(signals))
	return subcommands.ExitSuccess
}
