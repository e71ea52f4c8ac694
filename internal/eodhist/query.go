package eodhist

import (
	"errors"
	"fmt"
	"time"

	"github.com/quantfin/eodhistdata/internal/eodapi"
)

// Query errors.
var (
	ErrMissingSymbol        = errors.New("symbol must be provided")
	ErrUnsupportedFrequency = errors.New("unsupported frequency")
	ErrIntradayRangeTooLong = fmt.Errorf("intraday request spans more than %d days and must be broken into smaller requests", eodapi.MaxIntradayDays)
	ErrMarketCapFrequency   = errors.New("only daily frequency is supported for market cap")
)

// HistoricalQuery describes one historical data request. Zero fields pick
// sensible defaults: exchange "US", frequency "1d", end yesterday, and a
// start derived from the frequency (1999-12-31 for daily series, the maximum
// intraday window for intraday ones).
type HistoricalQuery struct {
	Symbol    string
	Exchange  string
	Start     time.Time
	End       time.Time
	Frequency string

	// Duration optionally fixes the span, in days, counted back from End
	// when Start is unset.
	Duration int
}

// resolved is a query with all defaults applied.
type resolved struct {
	Symbol    string
	Exchange  string
	Start     time.Time
	End       time.Time
	Frequency string
	Intraday  bool
}

// FullSymbol returns the TICKER.EXCHANGE form expected by the upstream API.
func (r resolved) FullSymbol() string {
	return r.Symbol + "." + r.Exchange
}

func (q HistoricalQuery) resolve(now time.Time) (resolved, error) {
	if q.Symbol == "" {
		return resolved{}, ErrMissingSymbol
	}

	r := resolved{
		Symbol:    q.Symbol,
		Exchange:  eodapi.NormalizeExchangeID(q.Exchange),
		Frequency: q.Frequency,
	}
	if r.Exchange == "" {
		r.Exchange = "US"
	}
	if r.Frequency == "" {
		r.Frequency = "1d"
	}
	r.Intraday = eodapi.IsIntradayFrequency(r.Frequency)
	if !r.Intraday && r.Frequency != "1d" {
		return resolved{}, fmt.Errorf("%w: %q", ErrUnsupportedFrequency, r.Frequency)
	}

	// Default end is yesterday, since today's bar is still forming.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	r.End = q.End
	if r.End.IsZero() {
		r.End = today.AddDate(0, 0, -1)
	}

	r.Start = q.Start
	if r.Start.IsZero() {
		switch {
		case q.Duration > 0:
			r.Start = r.End.AddDate(0, 0, -q.Duration)
		case r.Intraday:
			r.Start = r.End.AddDate(0, 0, -eodapi.MaxIntradayDays)
		default:
			r.Start = eodapi.HistoricalDataStartDate
		}
	}
	if r.Intraday && r.End.Sub(r.Start).Hours()/24 > eodapi.MaxIntradayDays {
		return resolved{}, ErrIntradayRangeTooLong
	}

	return r, nil
}
