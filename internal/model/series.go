package model

// CombinedSeries pairs the candlestick layer with the forecast line layer.
// Line[0] is the connector point and equals the last bar's time and close.
type CombinedSeries struct {
	Bars []HistoricalBar
	Line []ForecastPoint
}

// Anchor returns the last historical bar.
func (s *CombinedSeries) Anchor() (HistoricalBar, bool) {
	if len(s.Bars) == 0 {
		return HistoricalBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Forecast returns the forecast points without the connector.
func (s *CombinedSeries) Forecast() []ForecastPoint {
	if len(s.Line) <= 1 {
		return nil
	}
	return s.Line[1:]
}

// ChartMeta is the display metadata handed to the presenter with a series.
type ChartMeta struct {
	CompanyName string
	Ticker      TickerSymbol
}

// Title formats the chart heading, e.g. "Apple Inc. (AAPL)".
func (m ChartMeta) Title() string {
	return m.CompanyName + " (" + string(m.Ticker) + ")"
}
