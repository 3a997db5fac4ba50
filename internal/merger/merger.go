package merger

import (
	"fmt"
	"time"

	"ForecastLens/internal/model"
)

// Merge turns a prediction payload into the paired candlestick and forecast
// line series. An empty history has no anchor and is rejected.
func Merge(pred *model.Prediction, loc *time.Location) (*model.CombinedSeries, error) {
	if pred == nil {
		return nil, model.NewError(model.KindMalformedResponse, model.MsgMalformedResponse, fmt.Errorf("nil prediction"))
	}
	if loc == nil {
		loc = time.UTC
	}
	if len(pred.OHLCData) == 0 {
		return nil, model.NewError(model.KindMalformedResponse, model.MsgMalformedResponse, fmt.Errorf("no historical data"))
	}

	bars, err := ConvertBars(pred.OHLCData, loc)
	if err != nil {
		return nil, model.NewError(model.KindMalformedResponse, model.MsgMalformedResponse, err)
	}
	return &model.CombinedSeries{
		Bars: bars,
		Line: ForecastLine(bars[len(bars)-1], pred.PredictedPrices),
	}, nil
}

// ConvertBars maps raw bars to historical bars in received order.
func ConvertBars(raw []model.RawBar, loc *time.Location) ([]model.HistoricalBar, error) {
	bars := make([]model.HistoricalBar, len(raw))
	for i, rb := range raw {
		ts, err := parseDate(rb.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
		bars[i] = model.HistoricalBar{
			Time:   ts,
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  rb.Close,
			Volume: rb.Volume,
		}
	}
	return bars, nil
}

// ForecastLine returns the connector at the anchor's close followed by one
// point per price, each one calendar day after the previous.
func ForecastLine(anchor model.HistoricalBar, prices []float64) []model.ForecastPoint {
	line := make([]model.ForecastPoint, 0, len(prices)+1)
	line = append(line, model.ForecastPoint{Time: anchor.Time, Price: anchor.Close})

	cursor := anchor.Time
	for _, p := range prices {
		cursor = nextDay(cursor)
		line = append(line, model.ForecastPoint{Time: cursor, Price: p})
	}
	return line
}
