package eodhist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantfin/eodhistdata/internal/batch"
	"github.com/quantfin/eodhistdata/internal/cache"
	"github.com/quantfin/eodhistdata/internal/eodapi"
)

// DefaultBulkRequestSize is the number of symbols fetched per
// bulk-fundamentals page when the caller does not specify one.
const DefaultBulkRequestSize = 200

// symbolExcludedPunctuation marks tickers the historical endpoints cannot
// serve; such symbols are dropped from download universes.
const symbolExcludedPunctuation = ".(/"

// Helper mediates between the upstream API and the snapshot cache.
type Helper struct {
	api           API
	store         *cache.Store
	logger        zerolog.Logger
	staleDefaults map[cache.Kind]int
}

// New creates a Helper over the given upstream API and snapshot store.
func New(api API, store *cache.Store, opts ...Option) *Helper {
	h := &Helper{
		api:    api,
		store:  store,
		logger: zerolog.Nop(),
		staleDefaults: map[cache.Kind]int{
			cache.KindExchangeList:          DefaultStaleDaysListing,
			cache.KindExchangeSymbols:       DefaultStaleDaysListing,
			cache.KindHistoricalTimeSeries:  DefaultStaleDaysListing,
			cache.KindMarketCap:             DefaultStaleDaysListing,
			cache.KindFundamentalEquity:     DefaultStaleDaysFundamentals,
			cache.KindFundamentalEquityBulk: DefaultStaleDaysFundamentals,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Store returns the underlying snapshot store.
func (h *Helper) Store() *cache.Store {
	return h.store
}

// getCached is the read-check-fetch-write sequence every dataset operation
// runs through: serve the newest in-window snapshot, otherwise fetch from
// the upstream API, persist, and return the fresh data. Errors from either
// collaborator propagate unchanged.
func getCached[T any](
	ctx context.Context,
	h *Helper,
	ref cache.Ref,
	co callOptions,
	fetch func(context.Context) (T, error),
	encode func(T) ([]byte, error),
	decode func([]byte) (T, error),
) (T, error) {
	var zero T

	snap, err := h.store.Find(ref, co.asOf, co.staleDays)
	if err == nil {
		data, readErr := h.store.Read(snap)
		if readErr != nil {
			return zero, readErr
		}
		return decode(data)
	}
	if !errors.Is(err, cache.ErrNotCached) {
		return zero, err
	}

	h.logger.Info().
		Str("kind", string(ref.Kind)).
		Str("exchange", ref.Exchange).
		Str("symbol", ref.Symbol).
		Msg("fetching from server")

	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	data, err := encode(value)
	if err != nil {
		return zero, err
	}
	if _, err := h.store.Write(ref, co.asOf, data); err != nil {
		return zero, err
	}

	return value, nil
}

// ExchangeList returns the list of exchanges known to the upstream API.
func (h *Helper) ExchangeList(ctx context.Context, opts ...CallOption) ([]eodapi.Exchange, error) {
	ref := cache.Ref{Kind: cache.KindExchangeList}
	co := h.resolveCall(ref.Kind, opts)
	return getCached(ctx, h, ref, co,
		h.api.ExchangeList,
		eodapi.MarshalExchangesCSV,
		eodapi.UnmarshalExchangesCSV,
	)
}

// ExchangeSymbols returns every symbol ever listed on an exchange. Listed
// and delisted tickers are fetched separately upstream and merged, with the
// Delisted flag distinguishing them.
func (h *Helper) ExchangeSymbols(ctx context.Context, exchange string, opts ...CallOption) ([]eodapi.Symbol, error) {
	ref := cache.Ref{Kind: cache.KindExchangeSymbols, Exchange: exchange}
	co := h.resolveCall(ref.Kind, opts)
	return getCached(ctx, h, ref, co,
		func(ctx context.Context) ([]eodapi.Symbol, error) {
			listed, err := h.api.ExchangeSymbols(ctx, exchange, false)
			if err != nil {
				return nil, err
			}
			delisted, err := h.api.ExchangeSymbols(ctx, exchange, true)
			if err != nil {
				return nil, err
			}
			return append(listed, delisted...), nil
		},
		eodapi.MarshalSymbolsCSV,
		eodapi.UnmarshalSymbolsCSV,
	)
}

// NonExcludedExchangeSymbols returns the sorted ticker codes of an
// exchange's common stocks, dropping umbrella/fund exchange labels and
// tickers with punctuation the time-series endpoints cannot serve.
func (h *Helper) NonExcludedExchangeSymbols(ctx context.Context, exchangeID string, opts ...CallOption) ([]string, error) {
	symbols, err := h.ExchangeSymbols(ctx, exchangeID, opts...)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	codes := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s.Type != "Common Stock" || s.Code == "" {
			continue
		}
		if eodapi.IsExcludedExchange(s.Exchange) {
			continue
		}
		if strings.ContainsAny(s.Code, symbolExcludedPunctuation) {
			continue
		}
		if seen[s.Code] {
			continue
		}
		seen[s.Code] = true
		codes = append(codes, s.Code)
	}
	sort.Strings(codes)
	return codes, nil
}

// HistoricalData returns the price series described by q. Intraday
// frequencies go through the intraday endpoint and come back in the same
// candle form minus an adjusted close.
func (h *Helper) HistoricalData(ctx context.Context, q HistoricalQuery, opts ...CallOption) ([]eodapi.Candle, error) {
	r, err := q.resolve(time.Now())
	if err != nil {
		return nil, err
	}

	ref := cache.Ref{
		Kind:      cache.KindHistoricalTimeSeries,
		Exchange:  r.Exchange,
		Symbol:    r.Symbol,
		Frequency: r.Frequency,
	}
	co := h.resolveCall(ref.Kind, opts)
	if co.asOf.IsZero() {
		// Snapshot under the caller's end date so historical as-of requests
		// stay distinguishable from "latest" ones.
		co.asOf = q.End
	}

	fetch := func(ctx context.Context) ([]eodapi.Candle, error) {
		if r.Intraday {
			bars, err := h.api.Intraday(ctx, r.FullSymbol(), r.Frequency, r.Start, r.End)
			if err != nil {
				return nil, err
			}
			candles := make([]eodapi.Candle, 0, len(bars))
			for _, b := range bars {
				candles = append(candles, eodapi.Candle{
					Date:   b.Datetime,
					Open:   b.Open,
					High:   b.High,
					Low:    b.Low,
					Close:  b.Close,
					Volume: b.Volume,
				})
			}
			return candles, nil
		}
		return h.api.EOD(ctx, r.FullSymbol(), r.Frequency, r.Start, r.End)
	}

	return getCached(ctx, h, ref, co, fetch,
		eodapi.MarshalCandlesCSV,
		eodapi.UnmarshalCandlesCSV,
	)
}

// MarketCap returns the market capitalization series described by q.
// Only daily frequency is supported upstream.
func (h *Helper) MarketCap(ctx context.Context, q HistoricalQuery, opts ...CallOption) ([]eodapi.MarketCapPoint, error) {
	r, err := q.resolve(time.Now())
	if err != nil {
		return nil, err
	}
	if r.Frequency != "1d" {
		return nil, ErrMarketCapFrequency
	}

	ref := cache.Ref{
		Kind:      cache.KindMarketCap,
		Exchange:  r.Exchange,
		Symbol:    r.Symbol,
		Frequency: r.Frequency,
	}
	co := h.resolveCall(ref.Kind, opts)
	if co.asOf.IsZero() {
		co.asOf = q.End
	}

	return getCached(ctx, h, ref, co,
		func(ctx context.Context) ([]eodapi.MarketCapPoint, error) {
			return h.api.MarketCap(ctx, r.FullSymbol())
		},
		eodapi.MarshalMarketCapCSV,
		eodapi.UnmarshalMarketCapCSV,
	)
}

// FundamentalEquity returns the raw fundamentals document for one symbol.
// Typed access lives in the fundamental package.
func (h *Helper) FundamentalEquity(ctx context.Context, symbol, exchangeID string, opts ...CallOption) (json.RawMessage, error) {
	if symbol == "" {
		return nil, ErrMissingSymbol
	}
	exchange := eodapi.NormalizeExchangeID(exchangeID)
	if exchange == "" {
		exchange = "US"
	}

	ref := cache.Ref{Kind: cache.KindFundamentalEquity, Exchange: exchange, Symbol: symbol}
	co := h.resolveCall(ref.Kind, opts)

	return getCached(ctx, h, ref, co,
		func(ctx context.Context) (json.RawMessage, error) {
			return h.api.Fundamentals(ctx, symbol+"."+exchange)
		},
		func(raw json.RawMessage) ([]byte, error) { return raw, nil },
		func(data []byte) (json.RawMessage, error) { return data, nil },
	)
}

// FundamentalsBulk fetches fundamentals for an exchange's whole universe in
// offset-paged requests of maxRequests symbols each. The result maps the
// absolute offset of each symbol to its document. symbols optionally
// restricts the request to a comma-separated subset.
func (h *Helper) FundamentalsBulk(ctx context.Context, exchange, symbols string, maxRequests int, opts ...CallOption) (map[string]json.RawMessage, error) {
	if maxRequests <= 0 {
		maxRequests = DefaultBulkRequestSize
	}

	ref := cache.Ref{Kind: cache.KindFundamentalEquityBulk, Exchange: exchange}
	co := h.resolveCall(ref.Kind, opts)

	fetch := func(ctx context.Context) (map[string]json.RawMessage, error) {
		universe, err := h.ExchangeSymbols(ctx, exchange)
		if err != nil {
			return nil, err
		}

		proc, err := batch.NewProcessor[eodapi.Symbol](maxRequests)
		if err != nil {
			return nil, err
		}

		results := make(map[string]json.RawMessage, len(universe))
		err = proc.Process(ctx, universe, func(ctx context.Context, window []eodapi.Symbol, offset int) error {
			page, err := h.api.FundamentalsBulk(ctx, exchange, symbols, maxRequests, offset)
			if err != nil {
				return err
			}
			for i, key := range sortedBulkKeys(page) {
				results[strconv.Itoa(offset+i)] = page[key]
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return results, nil
	}

	return getCached(ctx, h, ref, co, fetch,
		func(m map[string]json.RawMessage) ([]byte, error) { return json.Marshal(m) },
		func(data []byte) (map[string]json.RawMessage, error) {
			var m map[string]json.RawMessage
			if err := json.Unmarshal(data, &m); err != nil {
				return nil, fmt.Errorf("failed to decode cached bulk fundamentals: %w", err)
			}
			return m, nil
		},
	)
}

// sortedBulkKeys orders a bulk page's keys numerically so positional
// re-indexing is deterministic. Non-numeric keys sort after numeric ones.
func sortedBulkKeys(page map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(page))
	for k := range page {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
