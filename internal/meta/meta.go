// Package meta summarizes what is already on disk in the snapshot cache,
// without touching the network.
package meta

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/quantfin/eodhistdata/internal/cache"
	"github.com/quantfin/eodhistdata/internal/eodapi"
	"github.com/quantfin/eodhistdata/internal/fundamental"
)

// activeWindowDays is how recently a series must have an observation,
// relative to its snapshot date, to be considered active.
const activeWindowDays = 10

// obsDateLayout is the date format inside cached time series rows.
const obsDateLayout = "2006-01-02"

// HistoricalEntry summarizes the newest cached price series for one symbol.
type HistoricalEntry struct {
	Symbol       string
	Exchange     string
	Frequency    string
	AsOf         time.Time
	FirstDate    string
	LastDate     string
	Observations int
	Active       bool
}

// HistoricalSummary walks the historical time series cache tree and
// summarizes the newest snapshot of every symbol found there.
func HistoricalSummary(store *cache.Store) ([]HistoricalEntry, error) {
	root := filepath.Join(store.Base(), string(cache.KindHistoricalTimeSeries))

	var entries []HistoricalEntry
	frequencies, err := subdirs(root)
	if err != nil {
		return nil, err
	}
	for _, frequency := range frequencies {
		exchanges, err := subdirs(filepath.Join(root, frequency))
		if err != nil {
			return nil, err
		}
		for _, exchange := range exchanges {
			symbols, err := subdirs(filepath.Join(root, frequency, exchange))
			if err != nil {
				return nil, err
			}
			for _, symbol := range symbols {
				ref := cache.Ref{
					Kind:      cache.KindHistoricalTimeSeries,
					Exchange:  exchange,
					Symbol:    symbol,
					Frequency: frequency,
				}
				entry, ok, err := summarizeSeries(store, ref)
				if err != nil {
					return nil, err
				}
				if ok {
					entries = append(entries, entry)
				}
			}
		}
	}
	return entries, nil
}

func summarizeSeries(store *cache.Store, ref cache.Ref) (HistoricalEntry, bool, error) {
	snaps, err := store.Snapshots(ref)
	if err != nil {
		return HistoricalEntry{}, false, err
	}
	if len(snaps) == 0 {
		return HistoricalEntry{}, false, nil
	}
	newest := snaps[len(snaps)-1]

	data, err := store.Read(newest)
	if err != nil {
		return HistoricalEntry{}, false, err
	}
	candles, err := eodapi.UnmarshalCandlesCSV(data)
	if err != nil {
		return HistoricalEntry{}, false, fmt.Errorf("reading series for %s.%s: %w", ref.Symbol, ref.Exchange, err)
	}

	entry := HistoricalEntry{
		Symbol:       ref.Symbol,
		Exchange:     ref.Exchange,
		Frequency:    ref.Frequency,
		AsOf:         newest.Date,
		Observations: len(candles),
	}
	for _, c := range candles {
		if entry.FirstDate == "" || c.Date < entry.FirstDate {
			entry.FirstDate = c.Date
		}
		if c.Date > entry.LastDate {
			entry.LastDate = c.Date
		}
	}
	entry.Active = seriesActive(entry.AsOf, entry.LastDate)
	return entry, true, nil
}

// seriesActive reports whether the last observation falls close enough to
// the snapshot date. Intraday timestamps carry a time suffix; only the
// leading date portion is parsed.
func seriesActive(asOf time.Time, lastDate string) bool {
	if len(lastDate) < len(obsDateLayout) {
		return false
	}
	last, err := time.Parse(obsDateLayout, lastDate[:len(obsDateLayout)])
	if err != nil {
		return false
	}
	return asOf.Sub(last).Hours()/24 < activeWindowDays
}

// FundamentalsReport summarizes the fundamentals cache. Entries holds one
// general info summary per symbol with a usable document; Empty lists
// symbols whose cached document carried no data; Missing lists symbols
// that have a cache directory but no readable snapshot.
type FundamentalsReport struct {
	Entries []map[string]any
	Empty   []string
	Missing []string
}

// FundamentalsSummary walks the fundamentals cache tree and collects the
// general info section of each symbol's newest document.
func FundamentalsSummary(store *cache.Store) (*FundamentalsReport, error) {
	root := filepath.Join(store.Base(), string(cache.KindFundamentalEquity))

	report := &FundamentalsReport{}
	exchanges, err := subdirs(root)
	if err != nil {
		return nil, err
	}
	for _, exchange := range exchanges {
		symbols, err := subdirs(filepath.Join(root, exchange))
		if err != nil {
			return nil, err
		}
		for _, symbol := range symbols {
			ref := cache.Ref{
				Kind:     cache.KindFundamentalEquity,
				Exchange: exchange,
				Symbol:   symbol,
			}
			snaps, err := store.Snapshots(ref)
			if err != nil {
				return nil, err
			}
			if len(snaps) == 0 {
				report.Missing = append(report.Missing, symbol)
				continue
			}

			data, err := store.Read(snaps[len(snaps)-1])
			if err != nil {
				return nil, err
			}
			doc, err := fundamental.Parse(data)
			if err != nil {
				return nil, fmt.Errorf("parsing fundamentals for %s.%s: %w", symbol, exchange, err)
			}
			summary := doc.GeneralSummary()
			if len(summary) == 0 {
				report.Empty = append(report.Empty, symbol)
				continue
			}
			report.Entries = append(report.Entries, summary)
		}
	}
	return report, nil
}

// subdirs lists the subdirectory names of dir, sorted. A missing dir is
// not an error; the dataset simply has nothing cached yet.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
