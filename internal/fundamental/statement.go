package fundamental

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Frequency selects the reporting cadence of a financial statement.
type Frequency string

const (
	Quarterly Frequency = "q"
	Yearly    Frequency = "y"
)

// ErrInvalidFrequency is returned for a frequency other than q or y.
var ErrInvalidFrequency = errors.New("frequency must be quarterly (q) or yearly (y)")

// eodKey maps the short frequency code onto the key EOD uses in its
// fundamentals JSON.
func (f Frequency) eodKey() (string, error) {
	switch f {
	case Quarterly:
		return "quarterly", nil
	case Yearly:
		return "yearly", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, string(f))
	}
}

// StatementType names one of the three financial statements in a
// fundamentals document.
type StatementType string

const (
	BalanceSheet    StatementType = "Balance_Sheet"
	IncomeStatement StatementType = "Income_Statement"
	CashFlow        StatementType = "Cash_Flow"
)

// Statement is one reporting period of one financial statement, as the
// raw field map EOD returns. Field names follow EOD's camelCase keys,
// e.g. "totalAssets" or "netIncome".
type Statement map[string]any

// Float returns the named field as a float64. Missing, null and
// unparseable values come back as NaN.
func (s Statement) Float(field string) float64 {
	v, ok := s[field]
	if !ok || v == nil {
		return math.NaN()
	}
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// String returns the named field as a string, or "" when absent.
func (s Statement) String(field string) string {
	v, ok := s[field]
	if !ok || v == nil {
		return ""
	}
	str, ok := v.(string)
	if !ok {
		return ""
	}
	return str
}

// Date is the period end date of the statement.
func (s Statement) Date() string { return s.String("date") }

// FilingDate is the date the statement was filed.
func (s Statement) FilingDate() string { return s.String("filing_date") }

// CurrencySymbol is the reporting currency of the statement.
func (s Statement) CurrencySymbol() string { return s.String("currency_symbol") }
