package cache

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// Kind identifies one of the cacheable dataset families. The string value is
// also the top-level directory name in the cache tree.
type Kind string

// Dataset kinds.
const (
	KindExchangeList          Kind = "exchange_list"
	KindExchangeSymbols       Kind = "exchange_symbols"
	KindHistoricalTimeSeries  Kind = "historical_time_series"
	KindMarketCap             Kind = "market_cap"
	KindFundamentalEquity     Kind = "fundamental_equity"
	KindFundamentalEquityBulk Kind = "fundamental_equity_bulk"
)

// SnapshotDateLayout is the date format used for snapshot directory and file names.
const SnapshotDateLayout = "20060102"

// Ref validation errors.
var (
	ErrUnknownKind     = errors.New("unknown dataset kind")
	ErrMissingExchange = errors.New("exchange must be provided")
	ErrMissingSymbol   = errors.New("symbol must be provided")
)

// Ext returns the file extension used for snapshots of this kind. Tabular
// datasets are stored as CSV; fundamentals documents as JSON.
func (k Kind) Ext() string {
	switch k {
	case KindFundamentalEquity, KindFundamentalEquityBulk:
		return "json"
	default:
		return "csv"
	}
}

// Ref identifies one logical dataset in the cache: the request descriptor
// minus anything that does not affect where the data lives. Path derivation
// from a Ref is a pure function, so identical requests always converge on
// the same cache location.
type Ref struct {
	Kind      Kind
	Exchange  string
	Symbol    string
	Frequency string
}

// Validate checks that the parameters required by the ref's kind are present.
func (r Ref) Validate() error {
	switch r.Kind {
	case KindExchangeList:
		return nil
	case KindExchangeSymbols, KindFundamentalEquityBulk:
		if r.Exchange == "" {
			return fmt.Errorf("%w for %s", ErrMissingExchange, r.Kind)
		}
		return nil
	case KindFundamentalEquity:
		if r.Exchange == "" {
			return fmt.Errorf("%w for %s", ErrMissingExchange, r.Kind)
		}
		if r.Symbol == "" {
			return fmt.Errorf("%w for %s", ErrMissingSymbol, r.Kind)
		}
		return nil
	case KindHistoricalTimeSeries, KindMarketCap:
		if r.Exchange == "" {
			return fmt.Errorf("%w for %s", ErrMissingExchange, r.Kind)
		}
		if r.Symbol == "" {
			return fmt.Errorf("%w for %s", ErrMissingSymbol, r.Kind)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, r.Kind)
	}
}

// Dir returns the dataset directory below base that holds this ref's
// snapshot directories.
func (r Ref) Dir(base string) string {
	switch r.Kind {
	case KindExchangeSymbols, KindFundamentalEquityBulk:
		return filepath.Join(base, string(r.Kind), r.Exchange)
	case KindHistoricalTimeSeries, KindMarketCap:
		return filepath.Join(base, string(r.Kind), r.Frequency, r.Exchange, r.Symbol)
	case KindFundamentalEquity:
		return filepath.Join(base, string(r.Kind), r.Exchange, r.Symbol)
	default:
		return filepath.Join(base, string(r.Kind))
	}
}

// Path returns the full snapshot file path for the given snapshot date.
func (r Ref) Path(base string, date time.Time) string {
	dateStr := date.Format(SnapshotDateLayout)
	name := fmt.Sprintf("%s_%s.%s", r.Kind, dateStr, r.Kind.Ext())
	return filepath.Join(r.Dir(base), dateStr, name)
}
