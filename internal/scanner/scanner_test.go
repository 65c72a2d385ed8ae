package scanner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asadbukhari/liqmatrix/internal/domain"
	"github.com/asadbukhari/liqmatrix/internal/engine"
	"github.com/asadbukhari/liqmatrix/internal/notify"
)

var testBase = time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)

func candle(i int, step time.Duration, o, h, l, c float64) domain.Candle {
	return domain.Candle{
		Timestamp: testBase.Add(time.Duration(i) * step),
		Open:      o, High: h, Low: l, Close: c,
	}
}

// rising builds n green stair-step candles that never qualify as a sweep.
func rising(n int, start float64, step time.Duration) domain.Series {
	s := make(domain.Series, 0, n)
	for i := 0; i < n; i++ {
		p := start + float64(i)
		s = append(s, candle(i, step, p, p+0.8, p-0.2, p+0.6))
	}
	return s
}

// sweepCoarse builds an uptrend whose 19th candle sweeps the lows with a deep
// lower wick, followed by a green candle.
func sweepCoarse() domain.Series {
	s := rising(18, 100, 15*time.Minute)
	s = append(s,
		candle(18, 15*time.Minute, 117, 118, 110, 117.5),
		candle(19, 15*time.Minute, 117.2, 119, 116, 118.5),
		candle(20, 15*time.Minute, 118.4, 119.5, 117.5, 119),
	)
	return s
}

// touchFine revisits the sweep zone repeatedly and closes green near the end.
func touchFine() domain.Series {
	fine := make(domain.Series, 0, 24)
	for i := 0; i < 18; i++ {
		fine = append(fine, candle(i, 5*time.Minute, 117, 117.8, 116.4, 117.3))
	}
	fine = append(fine,
		candle(18, 5*time.Minute, 117.3, 117.6, 116.2, 116.5),
		candle(19, 5*time.Minute, 116.5, 116.9, 115.9, 116.1),
		candle(20, 5*time.Minute, 116.1, 118.0, 115.9, 117.25),
		candle(21, 5*time.Minute, 117.2, 118.2, 116.8, 117.9),
		candle(22, 5*time.Minute, 117.9, 118.4, 117.2, 117.5),
		candle(23, 5*time.Minute, 117.5, 118.0, 117.0, 117.8),
	)
	return fine
}

type fakeProvider struct {
	series map[string]domain.Series
	errs   map[string]error
}

func seriesKey(symbol string, interval domain.Interval) string {
	return symbol + "|" + string(interval)
}

func (f *fakeProvider) Series(_ context.Context, symbol string, interval domain.Interval, _ int) (domain.Series, error) {
	key := seriesKey(symbol, interval)
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	s, ok := f.series[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

type recordSender struct {
	messages []string
}

func (r *recordSender) Send(_ context.Context, title, message string) error {
	text := message
	if title != "" {
		text = title + "\n" + message
	}
	r.messages = append(r.messages, text)
	return nil
}

func (r *recordSender) Name() string { return "record" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScanner(p domain.CandleProvider, sender notify.Sender) *Scanner {
	n := notify.NewNotifier([]notify.Sender{sender}, nil, testLogger())
	s := New(p, engine.NewAnalyzer(engine.DefaultConfig()), n, DefaultConfig(), time.UTC, testLogger())
	s.now = func() time.Time { return testBase }
	return s
}

func TestScanAll_ConfirmedAndQuietSymbols(t *testing.T) {
	p := &fakeProvider{series: map[string]domain.Series{
		seriesKey("XAU/USD", domain.Interval15Min): sweepCoarse(),
		seriesKey("XAU/USD", domain.Interval5Min):  touchFine(),
		seriesKey("BTC/USD", domain.Interval15Min): rising(24, 100, 15*time.Minute),
		seriesKey("BTC/USD", domain.Interval5Min):  rising(24, 100, 5*time.Minute),
	}}

	s := newTestScanner(p, &recordSender{})
	alerts, err := s.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	assert.Equal(t, "XAU/USD", alerts[0].Symbol)
	assert.Equal(t, notify.EventSetup, alerts[0].Event)
	assert.True(t, alerts[0].Confirmed())
	assert.Contains(t, alerts[0].Message, "Confirmed Setup")
	assert.Contains(t, alerts[0].Message, "117.25")

	assert.Equal(t, "BTC/USD", alerts[1].Symbol)
	assert.Equal(t, notify.EventNoSetup, alerts[1].Event)
	assert.False(t, alerts[1].Confirmed())
	assert.Contains(t, alerts[1].Message, "No qualified setup")

	assert.NotEmpty(t, alerts[0].ID)
	assert.NotEqual(t, alerts[0].ID, alerts[1].ID)
}

func TestScanAll_ProviderFailureBecomesScanError(t *testing.T) {
	p := &fakeProvider{
		series: map[string]domain.Series{
			seriesKey("BTC/USD", domain.Interval15Min): rising(24, 100, 15*time.Minute),
			seriesKey("BTC/USD", domain.Interval5Min):  rising(24, 100, 5*time.Minute),
		},
		errs: map[string]error{
			seriesKey("XAU/USD", domain.Interval15Min): errors.New("upstream 502"),
		},
	}

	s := newTestScanner(p, &recordSender{})
	alerts, err := s.ScanAll(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	assert.Equal(t, notify.EventScanError, alerts[0].Event)
	require.Error(t, alerts[0].Err)
	assert.Contains(t, alerts[0].Message, "scan failed")
	assert.Equal(t, notify.EventNoSetup, alerts[1].Event)
}

func TestRunPreSession_SendsHeaderAndEverySymbol(t *testing.T) {
	p := &fakeProvider{series: map[string]domain.Series{
		seriesKey("XAU/USD", domain.Interval15Min): sweepCoarse(),
		seriesKey("XAU/USD", domain.Interval5Min):  touchFine(),
		seriesKey("BTC/USD", domain.Interval15Min): rising(24, 100, 15*time.Minute),
		seriesKey("BTC/USD", domain.Interval5Min):  rising(24, 100, 5*time.Minute),
	}}
	sender := &recordSender{}

	s := newTestScanner(p, sender)
	require.NoError(t, s.RunPreSession(context.Background()))

	require.Len(t, sender.messages, 3)
	assert.Contains(t, sender.messages[0], "Pre-NY Alert")
	assert.Contains(t, sender.messages[0], "2025-01-02 09:00")
	assert.Contains(t, sender.messages[1], "XAU/USD")
	assert.Contains(t, sender.messages[2], "BTC/USD")
}

func TestRunPostOpen_DeliversOnlyConfirmedSetups(t *testing.T) {
	p := &fakeProvider{series: map[string]domain.Series{
		seriesKey("XAU/USD", domain.Interval15Min): sweepCoarse(),
		seriesKey("XAU/USD", domain.Interval5Min):  touchFine(),
		seriesKey("BTC/USD", domain.Interval15Min): rising(24, 100, 15*time.Minute),
		seriesKey("BTC/USD", domain.Interval5Min):  rising(24, 100, 5*time.Minute),
	}}
	sender := &recordSender{}

	s := newTestScanner(p, sender)
	require.NoError(t, s.RunPostOpen(context.Background()))

	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "NY Confirmed Setup Alert")
	assert.Contains(t, sender.messages[0], "XAU/USD")
	assert.False(t, strings.Contains(sender.messages[0], "BTC/USD"))
}

func TestRunPostOpen_QuietMarketSendsNothing(t *testing.T) {
	p := &fakeProvider{series: map[string]domain.Series{
		seriesKey("XAU/USD", domain.Interval15Min): rising(24, 200, 15*time.Minute),
		seriesKey("XAU/USD", domain.Interval5Min):  rising(24, 200, 5*time.Minute),
		seriesKey("BTC/USD", domain.Interval15Min): rising(24, 100, 15*time.Minute),
		seriesKey("BTC/USD", domain.Interval5Min):  rising(24, 100, 5*time.Minute),
	}}
	sender := &recordSender{}

	s := newTestScanner(p, sender)
	require.NoError(t, s.RunPostOpen(context.Background()))
	assert.Empty(t, sender.messages)
}
