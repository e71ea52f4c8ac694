package eodhist

import (
	"context"
	"encoding/json"
	"time"

	"github.com/quantfin/eodhistdata/internal/eodapi"
)

// API is the slice of the upstream client the Helper depends on. Tests
// substitute a fake to observe fetch counts.
type API interface {
	ExchangeList(ctx context.Context) ([]eodapi.Exchange, error)
	ExchangeSymbols(ctx context.Context, exchange string, delisted bool) ([]eodapi.Symbol, error)
	EOD(ctx context.Context, symbol, period string, from, to time.Time) ([]eodapi.Candle, error)
	Intraday(ctx context.Context, symbol, interval string, from, to time.Time) ([]eodapi.IntradayBar, error)
	MarketCap(ctx context.Context, symbol string) ([]eodapi.MarketCapPoint, error)
	Fundamentals(ctx context.Context, symbol string) (json.RawMessage, error)
	FundamentalsBulk(ctx context.Context, exchange, symbols string, limit, offset int) (map[string]json.RawMessage, error)
}
