package chart

import (
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ForecastLens/internal/model"
)

var (
	colorUp        = drawing.ColorFromHex("22C55E")
	colorDown      = drawing.ColorFromHex("EF4444")
	colorUnchanged = drawing.ColorFromHex("9CA3AF")
)

// CandlestickSeries draws OHLC bars as candles on a go-chart canvas.
// It reports each bar as a bounded value (high, low) so the price axis
// covers the full wick range.
type CandlestickSeries struct {
	Name  string
	Style gochart.Style
	Bars  []model.HistoricalBar
}

func (cs CandlestickSeries) GetName() string { return cs.Name }

func (cs CandlestickSeries) GetStyle() gochart.Style { return cs.Style }

func (cs CandlestickSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }

func (cs CandlestickSeries) Len() int { return len(cs.Bars) }

// GetBoundedValues returns the bar time with its high and low.
func (cs CandlestickSeries) GetBoundedValues(index int) (x, y1, y2 float64) {
	b := cs.Bars[index]
	return gochart.TimeToFloat64(b.Time), b.High, b.Low
}

func (cs CandlestickSeries) Validate() error {
	if len(cs.Bars) == 0 {
		return fmt.Errorf("candlestick series must have bars")
	}
	return nil
}

// Render draws one wick and one body per bar.
func (cs CandlestickSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, _ gochart.Style) {
	half := bodyHalfWidth(canvasBox.Width(), len(cs.Bars))

	r.SetStrokeWidth(1)
	r.SetStrokeDashArray(nil)
	for _, b := range cs.Bars {
		col := candleColor(b)
		x := canvasBox.Left + xrange.Translate(gochart.TimeToFloat64(b.Time))
		yHigh := canvasBox.Bottom - yrange.Translate(b.High)
		yLow := canvasBox.Bottom - yrange.Translate(b.Low)
		yOpen := canvasBox.Bottom - yrange.Translate(b.Open)
		yClose := canvasBox.Bottom - yrange.Translate(b.Close)

		r.SetStrokeColor(col)
		r.MoveTo(x, yHigh)
		r.LineTo(x, yLow)
		r.Stroke()

		top, bottom := yOpen, yClose
		if top > bottom {
			top, bottom = bottom, top
		}
		if bottom-top < 1 {
			bottom = top + 1
		}
		r.SetStrokeColor(col)
		r.SetFillColor(col)
		r.MoveTo(x-half, top)
		r.LineTo(x+half, top)
		r.LineTo(x+half, bottom)
		r.LineTo(x-half, bottom)
		r.LineTo(x-half, top)
		r.Close()
		r.FillStroke()
	}
}

func candleColor(b model.HistoricalBar) drawing.Color {
	switch {
	case b.Close > b.Open:
		return colorUp
	case b.Close < b.Open:
		return colorDown
	default:
		return colorUnchanged
	}
}

// bodyHalfWidth sizes candle bodies to roughly 60% of the per-bar slot.
func bodyHalfWidth(canvasWidth, bars int) int {
	if bars <= 0 {
		return 1
	}
	half := int(float64(canvasWidth) / float64(bars) * 0.3)
	if half < 1 {
		return 1
	}
	if half > 12 {
		return 12
	}
	return half
}
