package eodapi

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSV codecs for the tabular dataset types. Cached files carry a header row
// followed by one record per observation; an empty dataset serializes to the
// header alone so the column layout survives the round trip.

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func readCSV(data []byte, wantCols int) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = wantCols
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil // drop header
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// recordParser accumulates the first parse error across the fields of one
// CSV record so row construction stays flat.
type recordParser struct {
	err error
}

func (p *recordParser) float(s string) float64 {
	v, err := parseFloat(s)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

func (p *recordParser) int(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}

// MarshalExchangesCSV serializes an exchange list.
func MarshalExchangesCSV(exchanges []Exchange) ([]byte, error) {
	header := []string{"Name", "Code", "OperatingMIC", "Country", "Currency", "CountryISO2", "CountryISO3"}
	rows := make([][]string, 0, len(exchanges))
	for _, e := range exchanges {
		rows = append(rows, []string{e.Name, e.Code, e.OperatingMIC, e.Country, e.Currency, e.CountryISO2, e.CountryISO3})
	}
	return writeCSV(header, rows)
}

// UnmarshalExchangesCSV parses an exchange list serialized by MarshalExchangesCSV.
func UnmarshalExchangesCSV(data []byte) ([]Exchange, error) {
	records, err := readCSV(data, 7)
	if err != nil {
		return nil, err
	}
	exchanges := make([]Exchange, 0, len(records))
	for _, rec := range records {
		exchanges = append(exchanges, Exchange{
			Name:         rec[0],
			Code:         rec[1],
			OperatingMIC: rec[2],
			Country:      rec[3],
			Currency:     rec[4],
			CountryISO2:  rec[5],
			CountryISO3:  rec[6],
		})
	}
	return exchanges, nil
}

// MarshalSymbolsCSV serializes a symbol list.
func MarshalSymbolsCSV(symbols []Symbol) ([]byte, error) {
	header := []string{"Code", "Name", "Country", "Exchange", "Currency", "Type", "Isin", "delisted"}
	rows := make([][]string, 0, len(symbols))
	for _, s := range symbols {
		rows = append(rows, []string{
			s.Code, s.Name, s.Country, s.Exchange, s.Currency, s.Type, s.ISIN,
			strconv.FormatBool(s.Delisted),
		})
	}
	return writeCSV(header, rows)
}

// UnmarshalSymbolsCSV parses a symbol list serialized by MarshalSymbolsCSV.
func UnmarshalSymbolsCSV(data []byte) ([]Symbol, error) {
	records, err := readCSV(data, 8)
	if err != nil {
		return nil, err
	}
	symbols := make([]Symbol, 0, len(records))
	for i, rec := range records {
		delisted, err := strconv.ParseBool(rec[7])
		if err != nil {
			return nil, fmt.Errorf("symbols csv row %d: %w", i+1, err)
		}
		symbols = append(symbols, Symbol{
			Code:     rec[0],
			Name:     rec[1],
			Country:  rec[2],
			Exchange: rec[3],
			Currency: rec[4],
			Type:     rec[5],
			ISIN:     rec[6],
			Delisted: delisted,
		})
	}
	return symbols, nil
}

// MarshalCandlesCSV serializes a historical price series.
func MarshalCandlesCSV(candles []Candle) ([]byte, error) {
	header := []string{"date", "open", "high", "low", "close", "adjusted_close", "volume"}
	rows := make([][]string, 0, len(candles))
	for _, c := range candles {
		rows = append(rows, []string{
			c.Date,
			formatFloat(c.Open),
			formatFloat(c.High),
			formatFloat(c.Low),
			formatFloat(c.Close),
			formatFloat(c.AdjustedClose),
			strconv.FormatInt(c.Volume, 10),
		})
	}
	return writeCSV(header, rows)
}

// UnmarshalCandlesCSV parses a historical price series serialized by MarshalCandlesCSV.
func UnmarshalCandlesCSV(data []byte) ([]Candle, error) {
	records, err := readCSV(data, 7)
	if err != nil {
		return nil, err
	}
	candles := make([]Candle, 0, len(records))
	for i, rec := range records {
		p := recordParser{}
		c := Candle{
			Date:          rec[0],
			Open:          p.float(rec[1]),
			High:          p.float(rec[2]),
			Low:           p.float(rec[3]),
			Close:         p.float(rec[4]),
			AdjustedClose: p.float(rec[5]),
			Volume:        p.int(rec[6]),
		}
		if p.err != nil {
			return nil, fmt.Errorf("candles csv row %d: %w", i+1, p.err)
		}
		candles = append(candles, c)
	}
	return candles, nil
}

// MarshalMarketCapCSV serializes a market capitalization series.
func MarshalMarketCapCSV(points []MarketCapPoint) ([]byte, error) {
	header := []string{"date", "value"}
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{p.Date, formatFloat(p.Value)})
	}
	return writeCSV(header, rows)
}

// UnmarshalMarketCapCSV parses a market capitalization series serialized by
// MarshalMarketCapCSV.
func UnmarshalMarketCapCSV(data []byte) ([]MarketCapPoint, error) {
	records, err := readCSV(data, 2)
	if err != nil {
		return nil, err
	}
	points := make([]MarketCapPoint, 0, len(records))
	for i, rec := range records {
		value, err := parseFloat(rec[1])
		if err != nil {
			return nil, fmt.Errorf("market cap csv row %d: %w", i+1, err)
		}
		points = append(points, MarketCapPoint{Date: rec[0], Value: value})
	}
	return points, nil
}
