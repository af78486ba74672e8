// Package backtest retrospectively simulates a momentum/risk-factor
// portfolio strategy against historical daily price series, to estimate
// the realized performance of a strategy before trading it live.
//
// The core pieces are:
//   - Signal building: a per-asset score table and a market-regime
//     classification are turned into a sparse date×asset target-weight
//     table, populated only on rebalance dates.
//   - Execution engines: a stateful walk over the trading calendar that
//     models cash, holdings and per-position risk state (stop-loss,
//     breakeven arming, profit targets), resolving same-day conflicting
//     exits deterministically and without lookahead.
//   - Performance analysis: a pure function turning the resulting
//     equity curve into CAGR, max drawdown, Sharpe ratio and
//     benchmark-relative return.
//
// Data acquisition, scoring functions and report presentation live
// outside this package: prices and scores are consumed as fully
// populated in-memory tables, and results are returned as plain values.
//
// A simulation run is strictly sequential over calendar days; later-day
// risk checks depend on state mutated by earlier days, so no
// parallelism exists inside a run. Independent runs on separate engine
// values are safe to execute concurrently.
package backtest
