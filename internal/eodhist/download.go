package eodhist

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quantfin/eodhistdata/internal/batch"
)

// DefaultDownloadWorkers is the worker pool size for download-all
// operations when the caller does not specify one.
const DefaultDownloadWorkers = 20

// progressLogEvery is how many symbols pass between progress log lines
// during a bulk download.
const progressLogEvery = 500

// DownloadOptions configures a download-all operation.
type DownloadOptions struct {
	// Exchange is the exchange whose universe is downloaded. Defaults to "US".
	Exchange string

	// Symbols optionally replaces the exchange universe with an explicit
	// ticker list.
	Symbols []string

	// Workers bounds the number of concurrent per-symbol downloads.
	Workers int

	// StaleDays is the staleness threshold applied per symbol. Negative
	// means the dataset default.
	StaleDays int

	// Start, End, Frequency and Duration carry through to each symbol's
	// historical query where applicable.
	Start     time.Time
	End       time.Time
	Frequency string
	Duration  int
}

// SymbolError records a per-symbol download failure.
type SymbolError struct {
	Symbol string
	Err    error
}

// DownloadReport summarizes a download-all operation. Per-symbol failures
// do not abort the run; they are collected here.
type DownloadReport struct {
	Total   int
	Failed  []SymbolError
	Elapsed time.Duration
}

// DownloadHistoricalAll downloads (or refreshes) the historical price series
// for every ticker in the exchange universe.
func (h *Helper) DownloadHistoricalAll(ctx context.Context, opt DownloadOptions) (*DownloadReport, error) {
	return h.downloadAll(ctx, opt, func(ctx context.Context, symbol string) error {
		_, err := h.HistoricalData(ctx, HistoricalQuery{
			Symbol:    symbol,
			Exchange:  opt.Exchange,
			Start:     opt.Start,
			End:       opt.End,
			Frequency: opt.Frequency,
			Duration:  opt.Duration,
		}, opt.callOptions()...)
		return err
	})
}

// DownloadMarketCapAll downloads (or refreshes) the market capitalization
// series for every ticker in the exchange universe.
func (h *Helper) DownloadMarketCapAll(ctx context.Context, opt DownloadOptions) (*DownloadReport, error) {
	return h.downloadAll(ctx, opt, func(ctx context.Context, symbol string) error {
		_, err := h.MarketCap(ctx, HistoricalQuery{
			Symbol:    symbol,
			Exchange:  opt.Exchange,
			Start:     opt.Start,
			End:       opt.End,
			Frequency: opt.Frequency,
			Duration:  opt.Duration,
		}, opt.callOptions()...)
		return err
	})
}

// DownloadFundamentalsAll downloads (or refreshes) the fundamentals document
// for every ticker in the exchange universe.
func (h *Helper) DownloadFundamentalsAll(ctx context.Context, opt DownloadOptions) (*DownloadReport, error) {
	return h.downloadAll(ctx, opt, func(ctx context.Context, symbol string) error {
		_, err := h.FundamentalEquity(ctx, symbol, opt.Exchange, opt.callOptions()...)
		return err
	})
}

func (opt DownloadOptions) callOptions() []CallOption {
	if opt.StaleDays < 0 {
		return nil
	}
	return []CallOption{WithStaleDays(opt.StaleDays)}
}

// downloadAll fans one download function out over the symbol universe with
// a bounded worker pool. A failing symbol is recorded and skipped, not
// fatal; only context cancellation stops the run early.
func (h *Helper) downloadAll(ctx context.Context, opt DownloadOptions, download func(context.Context, string) error) (*DownloadReport, error) {
	exchange := opt.Exchange
	if exchange == "" {
		exchange = "US"
	}
	workers := opt.Workers
	if workers <= 0 {
		workers = DefaultDownloadWorkers
	}

	symbols := opt.Symbols
	if len(symbols) == 0 {
		var err error
		symbols, err = h.NonExcludedExchangeSymbols(ctx, exchange)
		if err != nil {
			return nil, err
		}
	}

	h.logger.Info().
		Str("exchange", exchange).
		Int("symbols", len(symbols)).
		Int("workers", workers).
		Msg("starting download")

	progress := batch.NewProgress(len(symbols))

	var mu sync.Mutex
	var failed []SymbolError

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, symbol := range symbols {
		if i%progressLogEvery == 0 && i > 0 {
			h.logger.Info().
				Int("submitted", i).
				Int("processed", progress.Processed()).
				Str("symbol", symbol).
				Msg("download progress")
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := download(gctx, symbol)
			progress.Add(err != nil)
			if err != nil {
				h.logger.Warn().Err(err).Str("symbol", symbol).Msg("symbol download failed")
				mu.Lock()
				failed = append(failed, SymbolError{Symbol: symbol, Err: err})
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &DownloadReport{
		Total:   len(symbols),
		Failed:  failed,
		Elapsed: progress.Elapsed(),
	}

	h.logger.Info().
		Int("total", report.Total).
		Int("failed", len(report.Failed)).
		Dur("elapsed", report.Elapsed).
		Msg("download complete")

	return report, nil
}
