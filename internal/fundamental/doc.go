// Package fundamental parses EOD fundamentals documents for common stock.
//
// A document carries a General section plus three financial statements
// (balance sheet, income statement, cash flow), each keyed by reporting
// frequency and period end date. Numeric fields arrive from the API as
// strings or nulls; accessors return NaN for anything absent or
// unparseable so ratio math degrades to NaN instead of panicking.
package fundamental
