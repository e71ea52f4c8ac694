package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefValidate(t *testing.T) {
	tests := []struct {
		name    string
		ref     Ref
		wantErr error
	}{
		{name: "exchange list needs nothing", ref: Ref{Kind: KindExchangeList}},
		{name: "symbols need exchange", ref: Ref{Kind: KindExchangeSymbols}, wantErr: ErrMissingExchange},
		{name: "symbols with exchange", ref: Ref{Kind: KindExchangeSymbols, Exchange: "US"}},
		{name: "series needs symbol", ref: Ref{Kind: KindHistoricalTimeSeries, Exchange: "US"}, wantErr: ErrMissingSymbol},
		{name: "fundamentals need exchange", ref: Ref{Kind: KindFundamentalEquity, Symbol: "MSFT"}, wantErr: ErrMissingExchange},
		{name: "unknown kind", ref: Ref{Kind: "made_up"}, wantErr: ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ref.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// Identical requests must always land on the same file, whatever happens
// upstream: the path is a pure function of the ref and the snapshot date.
func TestRefPathIsPure(t *testing.T) {
	date := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ref  Ref
		want string
	}{
		{
			name: "exchange list",
			ref:  Ref{Kind: KindExchangeList},
			want: filepath.Join("base", "exchange_list", "20230401", "exchange_list_20230401.csv"),
		},
		{
			name: "exchange symbols",
			ref:  Ref{Kind: KindExchangeSymbols, Exchange: "US"},
			want: filepath.Join("base", "exchange_symbols", "US", "20230401", "exchange_symbols_20230401.csv"),
		},
		{
			name: "historical series",
			ref:  Ref{Kind: KindHistoricalTimeSeries, Exchange: "US", Symbol: "MSFT", Frequency: "1d"},
			want: filepath.Join("base", "historical_time_series", "1d", "US", "MSFT", "20230401", "historical_time_series_20230401.csv"),
		},
		{
			name: "market cap",
			ref:  Ref{Kind: KindMarketCap, Exchange: "US", Symbol: "AAPL", Frequency: "1d"},
			want: filepath.Join("base", "market_cap", "1d", "US", "AAPL", "20230401", "market_cap_20230401.csv"),
		},
		{
			name: "fundamentals are json",
			ref:  Ref{Kind: KindFundamentalEquity, Exchange: "US", Symbol: "MSFT"},
			want: filepath.Join("base", "fundamental_equity", "US", "MSFT", "20230401", "fundamental_equity_20230401.json"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ref.Path("base", date)
			require.Equal(t, tt.want, got)
			assert.Equal(t, got, tt.ref.Path("base", date), "same inputs, same path")
		})
	}
}

func TestKindExt(t *testing.T) {
	assert.Equal(t, "csv", KindExchangeList.Ext())
	assert.Equal(t, "csv", KindHistoricalTimeSeries.Ext())
	assert.Equal(t, "json", KindFundamentalEquity.Ext())
	assert.Equal(t, "json", KindFundamentalEquityBulk.Ext())
}
