package fundamental

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
	"General": {
		"Code": "MSFT",
		"Type": "Common Stock",
		"Name": "Microsoft Corporation",
		"Exchange": "NASDAQ",
		"CurrencyCode": "USD",
		"Sector": "Technology",
		"Industry": "Software - Infrastructure",
		"Description": "A very long description that summaries should drop.",
		"Officers": {"0": {"Name": "Satya Nadella", "Title": "CEO"}},
		"FullTimeEmployees": 221000
	},
	"Highlights": {
		"MarketCapitalization": 2318919925760,
		"EarningsShare": "9.21",
		"DividendYield": null
	},
	"Financials": {
		"Balance_Sheet": {
			"quarterly": {
				"2023-03-31": {
					"date": "2023-03-31",
					"filing_date": "2023-04-25",
					"currency_symbol": "USD",
					"totalAssets": "380088000000",
					"totalStockholderEquity": "194683000000",
					"netInvestedCapital": "250000000000",
					"goodWill": null
				},
				"2022-12-31": {
					"date": "2022-12-31",
					"filing_date": "2023-01-24",
					"totalAssets": "364840000000",
					"totalStockholderEquity": "183136000000"
				}
			},
			"yearly": {
				"2022-06-30": {
					"date": "2022-06-30",
					"totalAssets": "364840000000"
				}
			}
		},
		"Income_Statement": {
			"quarterly": {
				"2023-03-31": {
					"date": "2023-03-31",
					"filing_date": "2023-04-25",
					"netIncome": "18299000000",
					"ebit": "22352000000",
					"incomeTaxExpense": "4374000000",
					"incomeBeforeTax": "22673000000"
				},
				"2022-12-31": {
					"date": "2022-12-31",
					"netIncome": "16425000000"
				}
			},
			"yearly": {}
		},
		"Cash_Flow": {
			"quarterly": {
				"2023-03-31": {
					"date": "2023-03-31",
					"filing_date": "2023-04-26",
					"freeCashFlow": "19826000000"
				},
				"2022-12-31": {
					"date": "2022-12-31",
					"freeCashFlow": "4900000000"
				}
			},
			"yearly": {}
		}
	}
}`

func parseSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)
	return doc
}

func TestParseGeneral(t *testing.T) {
	doc := parseSample(t)
	gen := doc.General()

	assert.Equal(t, "MSFT", gen.Code)
	assert.Equal(t, "Common Stock", gen.Type)
	assert.Equal(t, "Technology", gen.Sector)
	assert.Equal(t, "NASDAQ", gen.Exchange)
}

func TestGeneralSummaryDropsBulkyFields(t *testing.T) {
	doc := parseSample(t)
	summary := doc.GeneralSummary()

	assert.Equal(t, "MSFT", summary["Code"])
	assert.NotContains(t, summary, "Description")
	assert.NotContains(t, summary, "Officers")
	assert.NotContains(t, summary, "AddressData")
	assert.NotContains(t, summary, "Listings")
}

func TestHighlights(t *testing.T) {
	doc := parseSample(t)
	hl := doc.Highlights()

	assert.InDelta(t, 2318919925760, hl.Float("MarketCapitalization"), 1)
	assert.InDelta(t, 9.21, hl.Float("EarningsShare"), 1e-9)
	assert.True(t, math.IsNaN(hl.Float("DividendYield")))
}

func TestAvailableDatesSorted(t *testing.T) {
	doc := parseSample(t)

	dates, err := doc.AvailableDates(BalanceSheet, Quarterly)
	require.NoError(t, err)
	assert.Equal(t, []string{"2022-12-31", "2023-03-31"}, dates)

	dates, err = doc.AvailableDates(BalanceSheet, Yearly)
	require.NoError(t, err)
	assert.Equal(t, []string{"2022-06-30"}, dates)
}

func TestStatementDefaultsToLatest(t *testing.T) {
	doc := parseSample(t)

	stmt, err := doc.Statement(BalanceSheet, Quarterly, "")
	require.NoError(t, err)
	assert.Equal(t, "2023-03-31", stmt.Date())

	stmt, err = doc.Statement(BalanceSheet, Quarterly, "2022-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2022-12-31", stmt.Date())

	_, err = doc.Statement(BalanceSheet, Quarterly, "1999-01-01")
	assert.ErrorIs(t, err, ErrUnknownDate)

	_, err = doc.Statement(IncomeStatement, Yearly, "")
	assert.ErrorIs(t, err, ErrNoStatements)

	_, err = doc.Statement(BalanceSheet, "monthly", "")
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestStatementFloatMissingIsNaN(t *testing.T) {
	doc := parseSample(t)
	stmt, err := doc.Statement(BalanceSheet, Quarterly, "2023-03-31")
	require.NoError(t, err)

	assert.Equal(t, 380088000000.0, stmt.Float("totalAssets"))
	assert.True(t, math.IsNaN(stmt.Float("inventory")), "absent field")
	assert.True(t, math.IsNaN(stmt.Float("goodWill")), "null field")
	assert.Equal(t, "USD", stmt.CurrencySymbol())
	assert.Equal(t, "2023-04-25", stmt.FilingDate())
}

func TestReportRatios(t *testing.T) {
	doc := parseSample(t)

	report, err := doc.Report(Quarterly, "")
	require.NoError(t, err)
	assert.Equal(t, "2023-03-31", report.Date, "latest common date wins")
	assert.Equal(t, "2023-04-26", report.FilingDate(), "latest filing date across statements")

	assert.InDelta(t, 18299000000.0/194683000000.0, report.ReturnOnEquity(), 1e-12)
	assert.InDelta(t, 18299000000.0/380088000000.0, report.ReturnOnAssets(), 1e-12)

	taxRate := 4374000000.0 / (1e-10 + 22673000000.0)
	nopat := 22352000000.0 * (1 - taxRate)
	assert.InDelta(t, taxRate, report.TaxRate(), 1e-12)
	assert.InDelta(t, nopat, report.NOPAT(), 1e3)
	assert.InDelta(t, nopat/250000000000.0, report.ROIC(), 1e-12)
}

func TestReportRatiosDegradeToNaN(t *testing.T) {
	doc := parseSample(t)

	// The older quarter lacks income statement fields, so ratios built on
	// them are NaN rather than a panic or a silent zero.
	report, err := doc.Report(Quarterly, "2022-12-31")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(report.TaxRate()))
	assert.True(t, math.IsNaN(report.ROIC()))
}

func TestCommonDates(t *testing.T) {
	doc := parseSample(t)

	common, err := doc.CommonDates(Quarterly)
	require.NoError(t, err)
	assert.Equal(t, []string{"2022-12-31", "2023-03-31"}, common)

	common, err = doc.CommonDates(Yearly)
	require.NoError(t, err)
	assert.Empty(t, common, "yearly statements only exist for the balance sheet")
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse([]byte("not json"))
	assert.Error(t, err)
}
