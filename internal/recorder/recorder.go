package recorder

import (
	"time"

	"ForecastLens/internal/calculator"
	"ForecastLens/internal/model"
)

// ForecastRecord holds all data for one successfully displayed forecast.
type ForecastRecord struct {
	Ticker      model.TickerSymbol
	CompanyName string
	Summary     *calculator.Summary
	Line        []model.ForecastPoint // includes the connector at index 0
}

// FailureRecord holds data for one failed pipeline run.
type FailureRecord struct {
	Input   string
	Kind    model.ErrorKind
	Message string
	Cause   string
}

// ForecastRow is a stored forecast as read back for history views.
type ForecastRow struct {
	ID            int64     `json:"id"`
	RecordedAt    time.Time `json:"recorded_at"`
	Ticker        string    `json:"ticker"`
	CompanyName   string    `json:"company_name"`
	LastDate      time.Time `json:"last_date"`
	LastClose     float64   `json:"last_close"`
	Horizon       int       `json:"horizon"`
	FinalForecast float64   `json:"final_forecast"`
	ChangePct     float64   `json:"change_pct"`
}

// Recorder persists forecast history for later analysis.
type Recorder interface {
	RecordForecast(rec *ForecastRecord) error
	RecordFailure(rec *FailureRecord) error
	RecentForecasts(limit int) ([]ForecastRow, error)
	Close() error
}
