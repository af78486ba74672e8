package backtest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
)

/*
	{
	    "info": { "symbol": "KS11", "chartType": "history" },
	    "series": {
	        "history": {
	            "data": [
	                ["2025-01-02", 2398.94],
	                ["2025-01-03", 2441.92]
	            ]
	        }
	    }
	}
*/

// DecodeChartPayload extracts a close series from a provider chart
// payload, the format daily benchmark snapshots are archived in. Only
// the history data points are read; everything else in the payload is
// ignored.
func DecodeChartPayload(r io.Reader) (*Series, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("malformed chart payload: %w", err)
	}
	path := "$.series.history.data"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing chart payload: %q %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing chart payload: %q is not a list", path)
	}

	s := &Series{}
	for i, jpoint := range jlist {
		pair, ok := jpoint.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("chart payload point %d: want [date, value], got %v", i, jpoint)
		}
		jdate, ok := pair[0].(string)
		if !ok {
			return nil, fmt.Errorf("chart payload point %d: date is not a string: %v", i, pair[0])
		}
		on, err := ParseDate(jdate)
		if err != nil {
			return nil, fmt.Errorf("chart payload point %d: %w", i, err)
		}
		value, ok := pair[1].(float64)
		if !ok {
			return nil, fmt.Errorf("chart payload point %d: value is not a number: %v", i, pair[1])
		}
		s.Append(on, value)
	}
	if s.Len() == 0 {
		return nil, fmt.Errorf("chart payload holds no data points")
	}
	return s, nil
}
