package marketdata

import (
	"fmt"
	"strconv"
	"time"

	"github.com/asadbukhari/liqmatrix/internal/domain"
)

// timeSeriesResponse is the TwelveData /time_series payload. Values arrive
// newest first; OHLCV fields are strings.
type timeSeriesResponse struct {
	Values  []apiValue `json:"values"`
	Status  string     `json:"status"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
}

// apiValue is one raw bar from the API.
type apiValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

// bar timestamps come as "2006-01-02 15:04:05" for intraday intervals and
// "2006-01-02" for daily ones.
var datetimeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// toCandle parses a raw bar into a domain Candle. A missing or unparseable
// volume becomes 0; malformed price fields are an error.
func (v apiValue) toCandle() (domain.Candle, error) {
	var ts time.Time
	var err error
	for _, layout := range datetimeLayouts {
		ts, err = time.Parse(layout, v.Datetime)
		if err == nil {
			break
		}
	}
	if err != nil {
		return domain.Candle{}, fmt.Errorf("parse datetime %q: %w", v.Datetime, err)
	}

	open, err := strconv.ParseFloat(v.Open, 64)
	if err != nil {
		return domain.Candle{}, fmt.Errorf("parse open %q: %w", v.Open, err)
	}
	high, err := strconv.ParseFloat(v.High, 64)
	if err != nil {
		return domain.Candle{}, fmt.Errorf("parse high %q: %w", v.High, err)
	}
	low, err := strconv.ParseFloat(v.Low, 64)
	if err != nil {
		return domain.Candle{}, fmt.Errorf("parse low %q: %w", v.Low, err)
	}
	clos, err := strconv.ParseFloat(v.Close, 64)
	if err != nil {
		return domain.Candle{}, fmt.Errorf("parse close %q: %w", v.Close, err)
	}

	volume := 0.0
	if v.Volume != "" && v.Volume != "null" {
		if f, err := strconv.ParseFloat(v.Volume, 64); err == nil {
			volume = f
		}
	}

	return domain.Candle{
		Timestamp: ts,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     clos,
		Volume:    volume,
	}, nil
}

// toSeries converts the newest-first API values into an oldest-first domain
// Series.
func (r timeSeriesResponse) toSeries() (domain.Series, error) {
	series := make(domain.Series, 0, len(r.Values))
	for i := len(r.Values) - 1; i >= 0; i-- {
		c, err := r.Values[i].toCandle()
		if err != nil {
			return nil, err
		}
		series = append(series, c)
	}
	return series, nil
}
