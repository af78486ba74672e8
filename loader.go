package backtest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// This file decodes the in-memory input tables from JSONL streams, one
// observation per line. The formats are deliberately flat and
// git-friendly; persistence of anything beyond inputs is an external
// concern.

// DecodeMarket reads a market from a JSONL stream of bars:
//
//	{"ticker":"GLD","on":"2025-01-02","open":100,"high":101,"low":99,"close":100.5,"volume":1200}
//
// Bars may appear in any order; per-asset series end up sorted.
func DecodeMarket(r io.Reader) (*Market, error) {
	type jbar struct {
		Ticker string `json:"ticker"`
		Bar
	}
	m := NewMarket()
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var jb jbar
		if err := json.Unmarshal([]byte(line), &jb); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", n, line, err)
		}
		if jb.Ticker == "" {
			return nil, fmt.Errorf("format error on line %d: missing ticker", n)
		}
		a := m.Get(jb.Ticker)
		if a == nil {
			a = NewAsset(jb.Ticker)
			m.Add(a)
		}
		a.AddBar(jb.Bar)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if m.Len() == 0 {
		return nil, fmt.Errorf("empty market data")
	}
	return m, nil
}

// DecodeSeries reads a date-indexed series from a JSONL stream:
//
//	{"on":"2025-01-02","value":2500.1}
func DecodeSeries(r io.Reader) (*Series, error) {
	type jpoint struct {
		On    Date    `json:"on"`
		Value float64 `json:"value"`
	}
	s := &Series{}
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var jp jpoint
		if err := json.Unmarshal([]byte(line), &jp); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", n, line, err)
		}
		s.Append(jp.On, jp.Value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if s.Len() == 0 {
		return nil, fmt.Errorf("empty series data")
	}
	return s, nil
}

// DecodeTable reads a sparse date×asset table from a JSONL stream:
//
//	{"on":"2025-01-02","ticker":"TQQQ","value":0.183}
//
// Column (tie-break) order follows first appearance in the stream.
func DecodeTable(r io.Reader) (*Table, error) {
	type jcell struct {
		On     Date    `json:"on"`
		Ticker string  `json:"ticker"`
		Value  float64 `json:"value"`
	}
	t := NewTable()
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var jc jcell
		if err := json.Unmarshal([]byte(line), &jc); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", n, line, err)
		}
		if jc.Ticker == "" {
			return nil, fmt.Errorf("format error on line %d: missing ticker", n)
		}
		t.Set(jc.On, jc.Ticker, jc.Value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// EncodeSeries writes a series as JSONL, one point per line, in
// chronological order.
func EncodeSeries(w io.Writer, s *Series) error {
	for on, v := range s.Values() {
		if _, err := fmt.Fprintf(w, "{\"on\":%q,\"value\":%g}\n", on, v); err != nil {
			return err
		}
	}
	return nil
}

// EncodeTrades writes a trade log as JSONL, one fill per line.
func EncodeTrades(w io.Writer, trades []TradeRecord) error {
	type jtrade struct {
		On       Date     `json:"on"`
		Ticker   string   `json:"ticker"`
		Kind     string   `json:"kind"`
		Price    Money    `json:"price"`
		Quantity Quantity `json:"quantity"`
		Value    Money    `json:"value"`
	}
	enc := json.NewEncoder(w)
	for _, t := range trades {
		jt := jtrade{t.On, t.Ticker, t.Kind.String(), t.Price, t.Quantity, t.Value}
		if err := enc.Encode(jt); err != nil {
			return err
		}
	}
	return nil
}
