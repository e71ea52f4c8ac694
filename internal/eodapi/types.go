package eodapi

// Exchange is one row of the upstream exchange list.
type Exchange struct {
	Name         string `json:"Name"`
	Code         string `json:"Code"`
	OperatingMIC string `json:"OperatingMIC"`
	Country      string `json:"Country"`
	Currency     string `json:"Currency"`
	CountryISO2  string `json:"CountryISO2"`
	CountryISO3  string `json:"CountryISO3"`
}

// Symbol is one row of a per-exchange symbol list. Delisted is not part of
// the upstream payload; it records which of the two listing endpoints
// (listed vs delisted) produced the row.
type Symbol struct {
	Code     string `json:"Code"`
	Name     string `json:"Name"`
	Country  string `json:"Country"`
	Exchange string `json:"Exchange"`
	Currency string `json:"Currency"`
	Type     string `json:"Type"`
	ISIN     string `json:"Isin"`
	Delisted bool   `json:"-"`
}

// Candle is a single end-of-day observation. Date stays in the upstream
// YYYY-MM-DD string form so cached files round-trip byte-for-byte.
type Candle struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
	Volume        int64   `json:"volume"`
}

// IntradayBar is a single intraday observation.
type IntradayBar struct {
	Timestamp int64   `json:"timestamp"`
	Datetime  string  `json:"datetime"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
}

// MarketCapPoint is a single market capitalization observation.
type MarketCapPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}
