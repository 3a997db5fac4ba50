package model

import (
	"encoding/json"
	"time"
)

// RawBar is one element of the prediction service's ohlc_data array.
// Date is kept raw because the service may encode it as a string or as epoch milliseconds.
type RawBar struct {
	Date   json.RawMessage `json:"Date"`
	Open   float64         `json:"Open"`
	High   float64         `json:"High"`
	Low    float64         `json:"Low"`
	Close  float64         `json:"Close"`
	Volume float64         `json:"Volume,omitempty"`
}

// Prediction is the parsed success payload of the prediction service.
type Prediction struct {
	CompanyName     string    `json:"company_name"`
	Ticker          string    `json:"ticker"`
	OHLCData        []RawBar  `json:"ohlc_data"`
	PredictedPrices []float64 `json:"predicted_prices"`
}

// HistoricalBar represents a single candlestick bar.
type HistoricalBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// ForecastPoint is a single point on the forecast line.
type ForecastPoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}
