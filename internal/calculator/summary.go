package calculator

import (
	"errors"
	"time"

	"ForecastLens/internal/model"
)

// Summary condenses a combined series into headline numbers.
type Summary struct {
	LastDate      time.Time `json:"last_date"`
	LastClose     float64   `json:"last_close"`
	Horizon       int       `json:"horizon"`
	FinalDate     time.Time `json:"final_date"`
	FinalForecast float64   `json:"final_forecast"`
	Change        float64   `json:"change"`
	ChangePct     float64   `json:"change_pct"`
	ForecastHigh  float64   `json:"forecast_high"`
	ForecastLow   float64   `json:"forecast_low"`
	HistoryHigh   float64   `json:"history_high"`
	HistoryLow    float64   `json:"history_low"`
}

// Summarize computes the headline numbers for cs. With no forecast points
// the final forecast equals the last close.
func Summarize(cs *model.CombinedSeries) (*Summary, error) {
	anchor, ok := cs.Anchor()
	if !ok {
		return nil, errors.New("no historical bars provided")
	}
	s := &Summary{
		LastDate:      anchor.Time,
		LastClose:     anchor.Close,
		FinalDate:     anchor.Time,
		FinalForecast: anchor.Close,
		ForecastHigh:  anchor.Close,
		ForecastLow:   anchor.Close,
	}

	if h, l, err := HistoricalRange(cs.Bars); err == nil {
		s.HistoryHigh, s.HistoryLow = h, l
	}

	forecast := cs.Forecast()
	s.Horizon = len(forecast)
	if len(forecast) > 0 {
		last := forecast[len(forecast)-1]
		s.FinalDate = last.Time
		s.FinalForecast = last.Price
		if h, l, err := ForecastRange(forecast); err == nil {
			s.ForecastHigh, s.ForecastLow = h, l
		}
	}

	s.Change = s.FinalForecast - s.LastClose
	if pct, err := ChangePct(s.LastClose, s.FinalForecast); err == nil {
		s.ChangePct = pct
	}
	return s, nil
}
