// Package renderer turns finished simulation results into markdown
// reports. It holds no state and performs no I/O beyond the returned
// strings.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/moslab/backtest"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the performance summary of a run.
func SummaryMarkdown(m backtest.Metrics, res *backtest.Result) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	firstDay, _ := res.Equity.First()
	lastDay, _ := res.Equity.Latest()

	doc.H1(fmt.Sprintf("Backtest Summary %s → %s", firstDay, lastDay))
	doc.PlainText(fmt.Sprintf("Run %s over %.2f years.", res.RunID, m.Years))

	doc.H2("Performance")
	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Initial Capital", fmt.Sprintf("%.0f", m.InitialValue)},
			{"Final Value", fmt.Sprintf("%.0f", m.FinalValue)},
			{"Total Return", m.TotalReturn.SignedString()},
			{"CAGR", m.CAGR.SignedString()},
			{"Max Drawdown", m.MaxDrawdown.String()},
			{"Sharpe Ratio", fmt.Sprintf("%.2f", m.Sharpe)},
			{"Benchmark Return", m.BenchmarkReturn.SignedString()},
		},
	})

	doc.H2("Trades")
	doc.Table(md.TableSet{
		Header: []string{"Kind", "Count"},
		Rows: [][]string{
			{backtest.Buy.String(), fmt.Sprintf("%d", res.CountTrades(backtest.Buy))},
			{backtest.Sell.String(), fmt.Sprintf("%d", res.CountTrades(backtest.Sell))},
			{backtest.StopLoss.String(), fmt.Sprintf("%d", res.CountTrades(backtest.StopLoss))},
			{backtest.BreakevenStop.String(), fmt.Sprintf("%d", res.CountTrades(backtest.BreakevenStop))},
			{backtest.TakeProfit.String(), fmt.Sprintf("%d", res.CountTrades(backtest.TakeProfit))},
			{backtest.BreakevenExit.String(), fmt.Sprintf("%d", res.CountTrades(backtest.BreakevenExit))},
		},
	})

	if len(res.Gaps) > 0 {
		doc.PlainText(fmt.Sprintf("Degraded run: %d (date, asset) pairs were skipped for missing prices.", len(res.Gaps)))
	}
	return doc.String()
}

// TradesMarkdown renders the full ordered fill log.
func TradesMarkdown(trades []backtest.TradeRecord) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Trade Log")
	rows := make([][]string, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, []string{
			t.On.String(), t.Ticker, t.Kind.String(),
			t.Price.String(), t.Quantity.String(), t.Value.String(),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Date", "Ticker", "Kind", "Price", "Quantity", "Value"},
		Rows:   rows,
	})
	return doc.String()
}

// SignalsMarkdown renders a target-weight table, one row per
// (rebalance date, asset) weight.
func SignalsMarkdown(signals *backtest.Table) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Target Weights")
	var rows [][]string
	for _, on := range signals.Days() {
		for ticker, weight := range signals.Row(on) {
			rows = append(rows, []string{on.String(), ticker, fmt.Sprintf("%.0f%%", 100*weight)})
		}
	}
	doc.Table(md.TableSet{
		Header: []string{"Date", "Ticker", "Weight"},
		Rows:   rows,
	})
	return doc.String()
}
