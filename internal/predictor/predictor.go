package predictor

import (
	"context"
	"strings"
	"sync"
	"time"

	"ForecastLens/internal/model"
)

// Predictor requests a forecast for a ticker from a prediction service.
type Predictor interface {
	Predict(ctx context.Context, ticker model.TickerSymbol) (*model.Prediction, error)
	Name() string
}

// MockPredictor returns controllable fixed data for development and testing.
type MockPredictor struct {
	Payload *model.Prediction
	Err     error
	// Delay blocks each call, honoring ctx, to simulate a slow service.
	Delay time.Duration

	mu      sync.Mutex
	calls   int
	tickers []model.TickerSymbol
}

func (m *MockPredictor) Name() string { return "mock" }

func (m *MockPredictor) Predict(ctx context.Context, ticker model.TickerSymbol) (*model.Prediction, error) {
	m.mu.Lock()
	m.calls++
	m.tickers = append(m.tickers, ticker)
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, model.NewError(model.KindTransportFailure, model.MsgPredictionFailed, ctx.Err())
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Payload != nil {
		p := *m.Payload
		return &p, nil
	}
	return GenerateMockPrediction(ticker, 150, 30, 7, time.Now()), nil
}

// Calls returns how many times Predict was invoked.
func (m *MockPredictor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Tickers returns the tickers Predict was called with, in order.
func (m *MockPredictor) Tickers() []model.TickerSymbol {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.TickerSymbol, len(m.tickers))
	copy(out, m.tickers)
	return out
}

// GenerateMockPrediction builds a payload of days daily bars ending on end
// plus horizon forecast prices drifting upward from the last close.
func GenerateMockPrediction(ticker model.TickerSymbol, basePrice float64, days, horizon int, end time.Time) *model.Prediction {
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	bars := make([]model.RawBar, days)
	for i := 0; i < days; i++ {
		p := basePrice * (1 + float64(i-days/2)*0.001)
		day := end.AddDate(0, 0, -(days - 1 - i))
		bars[i] = model.RawBar{
			Date:   []byte(`"` + day.Format("2006-01-02") + `"`),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	last := basePrice
	if days > 0 {
		last = bars[days-1].Close
	}
	prices := make([]float64, horizon)
	for i := range prices {
		prices[i] = last * (1 + float64(i+1)*0.002)
	}
	return &model.Prediction{
		CompanyName:     strings.ToUpper(string(ticker)) + " Corp.",
		Ticker:          string(ticker),
		OHLCData:        bars,
		PredictedPrices: prices,
	}
}
