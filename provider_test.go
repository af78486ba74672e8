package backtest

import (
	"strings"
	"testing"
)

const chartPayload = `{
    "info": { "symbol": "KS11", "chartType": "history" },
    "series": {
        "history": {
            "data": [
                ["2025-01-02", 2398.94],
                ["2025-01-03", 2441.92],
                ["2025-01-06", 2488.64]
            ]
        }
    }
}`

func TestDecodeChartPayload(t *testing.T) {
	s, err := DecodeChartPayload(strings.NewReader(chartPayload))
	if err != nil {
		t.Fatalf("DecodeChartPayload: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if v, ok := s.Get(d("2025-01-03")); !ok || v != 2441.92 {
		t.Errorf("Get(2025-01-03) = %v %v, want 2441.92", v, ok)
	}
	if day, _ := s.First(); day != d("2025-01-02") {
		t.Errorf("First = %v, want 2025-01-02", day)
	}
}

func TestDecodeChartPayloadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", "<html>maintenance</html>"},
		{"missing history", `{"series":{}}`},
		{"data not a list", `{"series":{"history":{"data":42}}}`},
		{"point not a pair", `{"series":{"history":{"data":[["2025-01-02"]]}}}`},
		{"bad date", `{"series":{"history":{"data":[["yesterday", 2398.94]]}}}`},
		{"bad value", `{"series":{"history":{"data":[["2025-01-02", "high"]]}}}`},
		{"no points", `{"series":{"history":{"data":[]}}}`},
	}
	for _, tt := range tests {
		if _, err := DecodeChartPayload(strings.NewReader(tt.in)); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}
