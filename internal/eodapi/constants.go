package eodapi

import "time"

// HistoricalDataStartDate is the earliest date requested for daily series
// when the caller does not supply a start date.
var HistoricalDataStartDate = time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)

// MaxIntradayDays is the longest span, in days, a single intraday request may cover.
const MaxIntradayDays = 120

// IntradayFrequencies lists the supported intraday bar intervals.
var IntradayFrequencies = []string{"1m", "5m", "1h"}

// IsIntradayFrequency reports whether freq is one of the intraday intervals.
func IsIntradayFrequency(freq string) bool {
	for _, f := range IntradayFrequencies {
		if f == freq {
			return true
		}
	}
	return false
}

// usExchanges lists the exchange codes that all resolve to the umbrella
// exchange ID "US" on the upstream API.
var usExchanges = map[string]bool{
	"AMEX":      true,
	"BATS":      true,
	"NASDAQ":    true,
	"NMFQS":     true,
	"NYSE":      true,
	"NYSE ARCA": true,
	"NYSE MKT":  true,
	"OTC":       true,
	"OTCBB":     true,
	"OTCCE":     true,
	"OTCGREY":   true,
	"OTCMKTS":   true,
	"OTCQB":     true,
	"OTCQX":     true,
	"PINK":      true,
}

// NormalizeExchangeID collapses the individual US exchange codes to the
// umbrella ID "US". Other exchange IDs pass through unchanged.
func NormalizeExchangeID(exchangeID string) string {
	if usExchanges[exchangeID] {
		return "US"
	}
	return exchangeID
}

// excludedExchanges are per-symbol exchange labels whose tickers are skipped
// when building download universes. "US" and "NMFQS" are umbrella/fund labels
// rather than real listings.
var excludedExchanges = map[string]bool{
	"US":    true,
	"NMFQS": true,
}

// IsExcludedExchange reports whether a symbol-level exchange label should be
// skipped when assembling a symbol universe. Empty labels are always excluded.
func IsExcludedExchange(exchange string) bool {
	return exchange == "" || excludedExchanges[exchange]
}
