package eodhist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfin/eodhistdata/internal/eodapi"
)

func TestQueryResolveDefaults(t *testing.T) {
	now := time.Date(2023, 4, 15, 13, 45, 0, 0, time.UTC)

	r, err := HistoricalQuery{Symbol: "MSFT"}.resolve(now)
	require.NoError(t, err)

	assert.Equal(t, "MSFT", r.Symbol)
	assert.Equal(t, "US", r.Exchange)
	assert.Equal(t, "1d", r.Frequency)
	assert.False(t, r.Intraday)
	assert.Equal(t, day(2023, 4, 14), r.End, "end defaults to yesterday")
	assert.Equal(t, eodapi.HistoricalDataStartDate, r.Start)
	assert.Equal(t, "MSFT.US", r.FullSymbol())
}

func TestQueryResolveExchangeNormalization(t *testing.T) {
	now := time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)

	r, err := HistoricalQuery{Symbol: "MSFT", Exchange: "NASDAQ"}.resolve(now)
	require.NoError(t, err)
	assert.Equal(t, "US", r.Exchange)

	r, err = HistoricalQuery{Symbol: "VOD", Exchange: "LSE"}.resolve(now)
	require.NoError(t, err)
	assert.Equal(t, "LSE", r.Exchange)
	assert.Equal(t, "VOD.LSE", r.FullSymbol())
}

func TestQueryResolveDuration(t *testing.T) {
	now := time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)

	r, err := HistoricalQuery{Symbol: "MSFT", End: day(2023, 4, 10), Duration: 30}.resolve(now)
	require.NoError(t, err)
	assert.Equal(t, day(2023, 3, 11), r.Start)
	assert.Equal(t, day(2023, 4, 10), r.End)
}

func TestQueryResolveIntradayDefaultWindow(t *testing.T) {
	now := time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)

	r, err := HistoricalQuery{Symbol: "MSFT", Frequency: "5m", End: day(2023, 4, 10)}.resolve(now)
	require.NoError(t, err)
	assert.True(t, r.Intraday)
	assert.Equal(t, day(2023, 4, 10).AddDate(0, 0, -eodapi.MaxIntradayDays), r.Start)
}

func TestQueryResolveErrors(t *testing.T) {
	now := time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)

	_, err := HistoricalQuery{}.resolve(now)
	assert.ErrorIs(t, err, ErrMissingSymbol)

	_, err = HistoricalQuery{Symbol: "MSFT", Frequency: "2w"}.resolve(now)
	assert.ErrorIs(t, err, ErrUnsupportedFrequency)

	_, err = HistoricalQuery{
		Symbol: "MSFT", Frequency: "1m",
		Start: day(2023, 1, 1), End: day(2023, 6, 1),
	}.resolve(now)
	assert.ErrorIs(t, err, ErrIntradayRangeTooLong)

	_, err = HistoricalQuery{
		Symbol: "MSFT", Frequency: "1h", Duration: 200,
	}.resolve(now)
	assert.ErrorIs(t, err, ErrIntradayRangeTooLong)
}
