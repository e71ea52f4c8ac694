package fundamental

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNoStatements is returned when a document has no periods for the
	// requested statement and frequency.
	ErrNoStatements = errors.New("no statements available")

	// ErrUnknownDate is returned when a requested period end date does not
	// exist in the document.
	ErrUnknownDate = errors.New("no statement for date")
)

// General is the identity section of a fundamentals document.
type General struct {
	Code              string          `json:"Code"`
	Type              string          `json:"Type"`
	Name              string          `json:"Name"`
	Exchange          string          `json:"Exchange"`
	CurrencyCode      string          `json:"CurrencyCode"`
	CurrencyName      string          `json:"CurrencyName"`
	CurrencySymbol    string          `json:"CurrencySymbol"`
	CountryName       string          `json:"CountryName"`
	CountryISO        string          `json:"CountryISO"`
	ISIN              string          `json:"ISIN"`
	LEI               string          `json:"LEI"`
	PrimaryTicker     string          `json:"PrimaryTicker"`
	CUSIP             string          `json:"CUSIP"`
	CIK               string          `json:"CIK"`
	FiscalYearEnd     string          `json:"FiscalYearEnd"`
	IPODate           string          `json:"IPODate"`
	Sector            string          `json:"Sector"`
	Industry          string          `json:"Industry"`
	GicSector         string          `json:"GicSector"`
	GicGroup          string          `json:"GicGroup"`
	GicIndustry       string          `json:"GicIndustry"`
	GicSubIndustry    string          `json:"GicSubIndustry"`
	HomeCategory      string          `json:"HomeCategory"`
	IsDelisted        bool            `json:"IsDelisted"`
	Description       string          `json:"Description"`
	Address           string          `json:"Address"`
	Phone             string          `json:"Phone"`
	WebURL            string          `json:"WebURL"`
	LogoURL           string          `json:"LogoURL"`
	FullTimeEmployees json.Number     `json:"FullTimeEmployees"`
	UpdatedAt         string          `json:"UpdatedAt"`
	AddressData       json.RawMessage `json:"AddressData"`
	Listings          json.RawMessage `json:"Listings"`
	Officers          json.RawMessage `json:"Officers"`
}

type statementSet struct {
	Quarterly map[string]Statement `json:"quarterly"`
	Yearly    map[string]Statement `json:"yearly"`
}

func (ss statementSet) periods(freq Frequency) (map[string]Statement, error) {
	if _, err := freq.eodKey(); err != nil {
		return nil, err
	}
	if freq == Quarterly {
		return ss.Quarterly, nil
	}
	return ss.Yearly, nil
}

type financials struct {
	BalanceSheet    statementSet `json:"Balance_Sheet"`
	IncomeStatement statementSet `json:"Income_Statement"`
	CashFlow        statementSet `json:"Cash_Flow"`
}

// Document is a parsed fundamentals payload for one equity.
type Document struct {
	general    General
	financials financials
	generalRaw map[string]any
	highlights Statement
}

// Parse decodes the raw fundamentals JSON returned by the API.
func Parse(raw []byte) (*Document, error) {
	var envelope struct {
		General    General    `json:"General"`
		Highlights Statement  `json:"Highlights"`
		Financials financials `json:"Financials"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("parsing fundamentals document: %w", err)
	}

	var sections struct {
		General map[string]any `json:"General"`
	}
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("parsing fundamentals general section: %w", err)
	}

	return &Document{
		general:    envelope.General,
		financials: envelope.Financials,
		generalRaw: sections.General,
		highlights: envelope.Highlights,
	}, nil
}

// General returns the identity section of the document.
func (d *Document) General() General { return d.general }

// Highlights returns the per-share and valuation highlights section.
// Fields are read with the same Float semantics as statements.
func (d *Document) Highlights() Statement { return d.highlights }

// generalSummaryDropped lists the bulky General fields omitted from
// GeneralSummary output.
var generalSummaryDropped = []string{"Description", "AddressData", "Listings", "Officers"}

// GeneralSummary returns the General section as a map with the long
// free-text and nested fields removed, suitable for compact display.
func (d *Document) GeneralSummary() map[string]any {
	summary := make(map[string]any, len(d.generalRaw))
	for k, v := range d.generalRaw {
		summary[k] = v
	}
	for _, k := range generalSummaryDropped {
		delete(summary, k)
	}
	return summary
}

func (d *Document) set(st StatementType) statementSet {
	switch st {
	case IncomeStatement:
		return d.financials.IncomeStatement
	case CashFlow:
		return d.financials.CashFlow
	default:
		return d.financials.BalanceSheet
	}
}

// AvailableDates lists the period end dates present for one statement at
// one frequency, sorted ascending.
func (d *Document) AvailableDates(st StatementType, freq Frequency) ([]string, error) {
	periods, err := d.set(st).periods(freq)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(periods))
	for date := range periods {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates, nil
}

// CommonDates lists the period end dates present in all three statements
// at the given frequency, sorted ascending.
func (d *Document) CommonDates(freq Frequency) ([]string, error) {
	balDates, err := d.AvailableDates(BalanceSheet, freq)
	if err != nil {
		return nil, err
	}
	inc, _ := d.set(IncomeStatement).periods(freq)
	cf, _ := d.set(CashFlow).periods(freq)

	common := make([]string, 0, len(balDates))
	for _, date := range balDates {
		if _, ok := inc[date]; !ok {
			continue
		}
		if _, ok := cf[date]; !ok {
			continue
		}
		common = append(common, date)
	}
	return common, nil
}

// Statement returns one reporting period of one statement. An empty date
// selects the most recent period available.
func (d *Document) Statement(st StatementType, freq Frequency, date string) (Statement, error) {
	periods, err := d.set(st).periods(freq)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrNoStatements, st, freq)
	}
	if date == "" {
		for candidate := range periods {
			if candidate > date {
				date = candidate
			}
		}
	}
	stmt, ok := periods[date]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s %s", ErrUnknownDate, st, freq, date)
	}
	return stmt, nil
}

// Report bundles the three statements of one reporting period so ratios
// spanning statements can be computed.
type Report struct {
	Date            string
	BalanceSheet    Statement
	IncomeStatement Statement
	CashFlow        Statement
}

// Report assembles the statements for one period end date. An empty date
// selects the most recent date common to all three statements.
func (d *Document) Report(freq Frequency, date string) (*Report, error) {
	if date == "" {
		common, err := d.CommonDates(freq)
		if err != nil {
			return nil, err
		}
		if len(common) == 0 {
			return nil, fmt.Errorf("%w: no common period across statements", ErrNoStatements)
		}
		date = common[len(common)-1]
	}

	bal, err := d.Statement(BalanceSheet, freq, date)
	if err != nil {
		return nil, err
	}
	inc, err := d.Statement(IncomeStatement, freq, date)
	if err != nil {
		return nil, err
	}
	cf, err := d.Statement(CashFlow, freq, date)
	if err != nil {
		return nil, err
	}

	return &Report{Date: date, BalanceSheet: bal, IncomeStatement: inc, CashFlow: cf}, nil
}

// FilingDate is the latest filing date across the three statements.
func (r *Report) FilingDate() string {
	latest := r.BalanceSheet.FilingDate()
	if d := r.IncomeStatement.FilingDate(); d > latest {
		latest = d
	}
	if d := r.CashFlow.FilingDate(); d > latest {
		latest = d
	}
	return latest
}

// TaxRate is income tax expense over pre-tax income. The small epsilon
// keeps a zero pre-tax income from dividing by zero.
func (r *Report) TaxRate() float64 {
	return r.IncomeStatement.Float("incomeTaxExpense") /
		(1e-10 + r.IncomeStatement.Float("incomeBeforeTax"))
}

// NOPAT is operating profit after tax, EBIT scaled by one minus the
// effective tax rate.
func (r *Report) NOPAT() float64 {
	return r.IncomeStatement.Float("ebit") * (1 - r.TaxRate())
}

// ReturnOnEquity is net income over total stockholder equity.
func (r *Report) ReturnOnEquity() float64 {
	return r.IncomeStatement.Float("netIncome") /
		r.BalanceSheet.Float("totalStockholderEquity")
}

// ReturnOnAssets is net income over total assets.
func (r *Report) ReturnOnAssets() float64 {
	return r.IncomeStatement.Float("netIncome") /
		r.BalanceSheet.Float("totalAssets")
}

// ROIC is NOPAT over net invested capital.
func (r *Report) ROIC() float64 {
	return r.NOPAT() / r.BalanceSheet.Float("netInvestedCapital")
}
