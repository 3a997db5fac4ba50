package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"ForecastLens/internal/model"
)

// Format selects the image encoding of a rendered chart.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ErrDestroyed is returned when rendering a chart that has been replaced.
var ErrDestroyed = errors.New("chart instance destroyed")

var (
	colorForecast   = drawing.ColorFromHex("F59E0B")
	colorBackground = drawing.ColorFromHex("111827")
	colorTick       = drawing.ColorFromHex("9CA3AF")
	colorLegend     = drawing.ColorFromHex("E5E7EB")
	colorGrid       = drawing.Color{R: 255, G: 255, B: 255, A: 26}
)

// Chart is one rendered instance: a candlestick layer and a dashed forecast
// line sharing a time axis and a price axis. Its data never changes after
// creation; a new result always produces a new Chart.
type Chart struct {
	id        int64
	meta      model.ChartMeta
	series    *model.CombinedSeries
	width     int
	height    int
	createdAt time.Time

	// axis is the sorted union of time positions across both layers.
	axis   []time.Time
	barAt  map[int64]int
	lineAt map[int64]int

	mu        sync.RWMutex
	destroyed bool
}

func newChart(id int64, series *model.CombinedSeries, meta model.ChartMeta, width, height int) *Chart {
	c := &Chart{
		id:        id,
		meta:      meta,
		series:    series,
		width:     width,
		height:    height,
		createdAt: time.Now(),
		barAt:     make(map[int64]int, len(series.Bars)),
		lineAt:    make(map[int64]int, len(series.Line)),
	}
	for i, b := range series.Bars {
		k := b.Time.UnixNano()
		if _, dup := c.barAt[k]; !dup {
			c.axis = append(c.axis, b.Time)
		}
		c.barAt[k] = i
	}
	for i, p := range series.Line {
		k := p.Time.UnixNano()
		if _, ok := c.lineAt[k]; ok {
			c.lineAt[k] = i
			continue
		}
		if _, ok := c.barAt[k]; !ok {
			c.axis = append(c.axis, p.Time)
		}
		c.lineAt[k] = i
	}
	sortTimes(c.axis)
	return c
}

func (c *Chart) ID() int64 { return c.id }

func (c *Chart) Title() string { return c.meta.Title() }

func (c *Chart) Meta() model.ChartMeta { return c.meta }

func (c *Chart) Series() *model.CombinedSeries { return c.series }

func (c *Chart) CreatedAt() time.Time { return c.createdAt }

// Destroy releases the instance; later renders fail with ErrDestroyed.
func (c *Chart) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.mu.Unlock()
}

func (c *Chart) Destroyed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.destroyed
}

// Render encodes the chart to w.
func (c *Chart) Render(w io.Writer, format Format) error {
	if c.Destroyed() {
		return ErrDestroyed
	}
	var provider gochart.RendererProvider
	switch format {
	case FormatPNG:
		provider = gochart.PNG
	case FormatSVG:
		provider = gochart.SVG
	default:
		return fmt.Errorf("unsupported chart format %q", format)
	}
	gc := c.build()
	if err := gc.Render(provider, w); err != nil {
		return fmt.Errorf("render %s chart: %w", format, err)
	}
	return nil
}

func (c *Chart) build() gochart.Chart {
	bars := c.series.Bars
	xs := make([]time.Time, len(c.series.Line))
	ys := make([]float64, len(c.series.Line))
	for i, p := range c.series.Line {
		xs[i] = p.Time
		ys[i] = p.Price
	}
	axisStyle := gochart.Style{StrokeColor: colorTick, FontColor: colorTick}
	gridStyle := gochart.Style{StrokeColor: colorGrid, StrokeWidth: 1}

	gc := gochart.Chart{
		Title:      c.meta.Title(),
		TitleStyle: gochart.Style{FontColor: colorLegend},
		Width:      c.width,
		Height:     c.height,
		Background: gochart.Style{
			FillColor: colorBackground,
			Padding:   gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: gochart.Style{FillColor: colorBackground},
		XAxis: gochart.XAxis{
			Style:          axisStyle,
			ValueFormatter: gochart.TimeDateValueFormatter,
			Range:          c.timeRange(),
			GridMajorStyle: gridStyle,
		},
		YAxis: gochart.YAxis{
			Style:          axisStyle,
			Range:          c.priceRange(),
			GridMajorStyle: gridStyle,
		},
		Series: []gochart.Series{
			CandlestickSeries{
				Name:  "Historical Price",
				Style: gochart.Style{StrokeColor: colorUp, FillColor: colorUp},
				Bars:  bars,
			},
			gochart.TimeSeries{
				Name: "Predicted Price",
				Style: gochart.Style{
					StrokeColor:     colorForecast,
					StrokeWidth:     2,
					StrokeDashArray: []float64{5, 5},
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	gc.Elements = []gochart.Renderable{
		gochart.Legend(&gc, gochart.Style{FillColor: colorBackground, FontColor: colorLegend, StrokeColor: colorTick}),
	}
	return gc
}

// timeRange pads the shared time axis by half a day on each side so a
// single-point chart still has a non-zero span.
func (c *Chart) timeRange() *gochart.ContinuousRange {
	first, last := c.axis[0], c.axis[len(c.axis)-1]
	pad := 12 * time.Hour
	return &gochart.ContinuousRange{
		Min: gochart.TimeToFloat64(first.Add(-pad)),
		Max: gochart.TimeToFloat64(last.Add(pad)),
	}
}

func (c *Chart) priceRange() *gochart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range c.series.Bars {
		lo = math.Min(lo, b.Low)
		hi = math.Max(hi, b.High)
	}
	for _, p := range c.series.Line {
		lo = math.Min(lo, p.Price)
		hi = math.Max(hi, p.Price)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.01, 1)
	}
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
