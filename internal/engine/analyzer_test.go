package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asadbukhari/liqmatrix/internal/domain"
)

// bullishCoarse builds a 21-candle uptrend whose 19th candle (index 18)
// sweeps the lows with a deep lower wick and is followed by a green candle.
func bullishCoarse() domain.Series {
	s := stairsUp(18, 100, step15)
	s = append(s,
		bar(0, step15, 117, 118, 110, 117.5),   // sweep, wick (117.5-110)/8 = 0.9375
		bar(0, step15, 117.2, 119, 116, 118.5), // green confirm
		bar(0, step15, 118.4, 119.5, 117.5, 119),
	)
	return reseq(s, step15)
}

// retestFine builds a fine series with many touches of the zone around the
// bullishCoarse sweep low and a green confirmation among the last six bars.
func retestFine() domain.Series {
	fine := make(domain.Series, 0, 24)
	for i := 0; i < 18; i++ {
		fine = append(fine, bar(i, step5, 117, 117.8, 116.4, 117.3))
	}
	fine = append(fine,
		bar(18, step5, 117.3, 117.6, 116.2, 116.5),  // red
		bar(19, step5, 116.5, 116.9, 115.9, 116.1),  // red
		bar(20, step5, 116.1, 118.0, 115.9, 117.25), // first green: entry
		bar(21, step5, 117.2, 118.2, 116.8, 117.9),
		bar(22, step5, 117.9, 118.4, 117.2, 117.5),
		bar(23, step5, 117.5, 118.0, 117.0, 117.8),
	)
	return reseq(fine, step5)
}

// bearishCoarse builds a 21-candle downtrend whose 19th candle spikes above
// the highs with a dominant upper wick and is followed by a red candle.
func bearishCoarse() domain.Series {
	s := stairsDown(18, 200, step15)
	s = append(s,
		bar(0, step15, 182, 190, 181, 181.2),   // sweep high, wick (190-182)/9 = 0.889
		bar(0, step15, 181, 181.5, 179, 179.5), // red confirm
		bar(0, step15, 179.4, 179.6, 178.5, 178.8),
	)
	return reseq(s, step15)
}

func quietFine() domain.Series {
	return stairsDown(24, 300, step5)
}

func TestAnalyze_UnknownInstrument(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	_, err := a.Analyze("EUR/USD", bullishCoarse(), retestFine())
	assert.ErrorIs(t, err, domain.ErrUnknownInstrument)
}

func TestAnalyze_InsufficientData(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	_, err := a.Analyze("XAU/USD", bullishCoarse().Tail(10), retestFine())
	assert.ErrorIs(t, err, domain.ErrInsufficientData)

	_, err = a.Analyze("XAU/USD", bullishCoarse(), retestFine().Tail(5))
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestAnalyze_InvalidCandleRejected(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	coarse := bullishCoarse()
	coarse[4].High = coarse[4].Low - 1

	_, err := a.Analyze("XAU/USD", coarse, retestFine())
	assert.ErrorIs(t, err, domain.ErrInvalidCandle)
}

func TestAnalyze_UnorderedSeriesRejected(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	coarse := bullishCoarse()
	coarse[7].Timestamp = coarse[3].Timestamp

	_, err := a.Analyze("XAU/USD", coarse, retestFine())
	assert.ErrorIs(t, err, domain.ErrUnorderedSeries)
}

func TestAnalyze_NoSweepYieldsNoPlan(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	coarse := reseq(stairsUp(21, 100, step15), step15)
	res, err := a.Analyze("XAU/USD", coarse, retestFine())

	require.NoError(t, err)
	assert.False(t, res.Detection.Signaled)
	assert.Equal(t, domain.ReasonNoSweep, res.Detection.Reason)
	assert.Nil(t, res.Plan)
	assert.Nil(t, res.Retest)
	// Liquidity and latest candle are still reported.
	assert.Equal(t, coarse.Last().Close, res.Latest.Close)
	assert.Equal(t, coarse.Last().Close, res.Liquidity.LastClose)
}

func TestAnalyze_BullishConfirmedPlan(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	res, err := a.Analyze("XAU/USD", bullishCoarse(), retestFine())

	require.NoError(t, err)
	require.True(t, res.Detection.Signaled)
	assert.Equal(t, domain.DirectionBullish, res.Detection.Direction)
	assert.Equal(t, 18, res.Detection.SweepIndex)

	require.NotNil(t, res.Retest)
	require.True(t, res.Retest.Confirmed)

	require.NotNil(t, res.Plan)
	assert.Equal(t, domain.SideLong, res.Plan.Side)
	assert.Equal(t, 117.25, res.Plan.Entry)
	assert.Equal(t, 109.95, res.Plan.StopLoss) // 110 - 5 pips
	// 117.25 + (117.25 - 109.95) * 4 = 146.45
	assert.Equal(t, 146.45, res.Plan.TakeProfit)
	assert.NoError(t, res.Plan.Validate())
}

func TestAnalyze_BullishRejectedWithoutRetest(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Fine series never revisits the sweep zone.
	res, err := a.Analyze("XAU/USD", bullishCoarse(), reseq(stairsUp(24, 150, step5), step5))

	require.NoError(t, err)
	require.True(t, res.Detection.Signaled)
	require.NotNil(t, res.Retest)
	assert.False(t, res.Retest.Confirmed)
	assert.Equal(t, domain.ReasonNotEnoughTouches, res.Retest.Reason)
	assert.Nil(t, res.Plan)
}

func TestAnalyze_BearishPlanSkipsRetest(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	res, err := a.Analyze("XAU/USD", bearishCoarse(), quietFine())

	require.NoError(t, err)
	require.True(t, res.Detection.Signaled)
	assert.Equal(t, domain.DirectionBearish, res.Detection.Direction)
	assert.Nil(t, res.Retest)

	require.NotNil(t, res.Plan)
	assert.Equal(t, domain.SideShort, res.Plan.Side)
	assert.Equal(t, 190.2, res.Plan.StopLoss) // 190 + 20 pips
	// entry = min(181 - 0.01, (179.5 + 190)/2) = 180.99
	assert.Equal(t, 180.99, res.Plan.Entry)
	assert.NotZero(t, res.Plan.TakeProfit1)
	assert.NoError(t, res.Plan.Validate())
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	first, err := a.Analyze("XAU/USD", bullishCoarse(), retestFine())
	require.NoError(t, err)
	second, err := a.Analyze("XAU/USD", bullishCoarse(), retestFine())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
