package marketdata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asadbukhari/liqmatrix/internal/domain"
	"github.com/asadbukhari/liqmatrix/internal/marketdata"
)

// seriesFixture mimics the TwelveData payload: newest bar first, string
// fields, volume absent on the middle bar.
const seriesFixture = `{
  "meta": {"symbol": "XAU/USD", "interval": "15min"},
  "values": [
    {"datetime": "2025-01-02 10:30:00", "open": "2652.10", "high": "2655.00", "low": "2651.50", "close": "2654.20", "volume": "1200"},
    {"datetime": "2025-01-02 10:15:00", "open": "2650.00", "high": "2653.30", "low": "2649.10", "close": "2652.10"},
    {"datetime": "2025-01-02 10:00:00", "open": "2648.40", "high": "2650.90", "low": "2647.80", "close": "2650.00", "volume": "950"}
  ],
  "status": "ok"
}`

func TestClientSeries_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/time_series", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "XAU/USD", q.Get("symbol"))
		assert.Equal(t, "15min", q.Get("interval"))
		assert.Equal(t, "96", q.Get("outputsize"))
		assert.Equal(t, "test-key", q.Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(seriesFixture))
	}))
	defer srv.Close()

	client := marketdata.NewClient(srv.URL, "test-key")
	series, err := client.Series(context.Background(), "XAU/USD", domain.Interval15Min, 96)

	require.NoError(t, err)
	require.Len(t, series, 3)

	// Oldest first, regardless of API ordering.
	assert.Equal(t, time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC), series[0].Timestamp)
	assert.Equal(t, 2648.40, series[0].Open)
	assert.Equal(t, 2650.90, series[0].High)
	assert.True(t, series[2].Timestamp.After(series[0].Timestamp))

	// Missing volume defaults to 0.
	assert.Equal(t, 0.0, series[1].Volume)
	assert.Equal(t, 1200.0, series[2].Volume)

	require.NoError(t, series.Validate())
}

func TestClientSeries_APIErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "error", "code": 401, "message": "apikey parameter is incorrect"}`))
	}))
	defer srv.Close()

	client := marketdata.NewClient(srv.URL, "bad-key")
	_, err := client.Series(context.Background(), "XAU/USD", domain.Interval15Min, 96)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "apikey parameter is incorrect")
}

func TestClientSeries_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := marketdata.NewClient(srv.URL, "test-key")
	_, err := client.Series(context.Background(), "BTC/USD", domain.Interval5Min, 288)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestClientSeries_EmptyValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"values": [], "status": "ok"}`))
	}))
	defer srv.Close()

	client := marketdata.NewClient(srv.URL, "test-key")
	_, err := client.Series(context.Background(), "XAU/USD", domain.Interval15Min, 96)

	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}
