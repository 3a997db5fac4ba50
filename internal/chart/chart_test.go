package chart

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"ForecastLens/internal/model"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func sampleSeries() *model.CombinedSeries {
	return &model.CombinedSeries{
		Bars: []model.HistoricalBar{
			{Time: day(3), Open: 145, High: 147, Low: 143, Close: 146},
			{Time: day(4), Open: 146, High: 149, Low: 145, Close: 148},
			{Time: day(5), Open: 148, High: 151, Low: 147, Close: 150},
		},
		Line: []model.ForecastPoint{
			{Time: day(5), Price: 150},
			{Time: day(6), Price: 152},
			{Time: day(7), Price: 154},
		},
	}
}

var meta = model.ChartMeta{CompanyName: "Apple Inc.", Ticker: "AAPL"}

func TestPresenter_DestroyBeforeCreate(t *testing.T) {
	p := NewPresenter(800, 400)
	if p.Live() != 0 || p.Current() != nil {
		t.Fatal("new presenter should have no chart")
	}

	first := p.Present(sampleSeries(), meta)
	if p.Live() != 1 {
		t.Fatalf("live = %d, want 1", p.Live())
	}
	second := p.Present(sampleSeries(), meta)
	if p.Live() != 1 {
		t.Fatalf("live = %d after re-render, want 1", p.Live())
	}
	if !first.Destroyed() {
		t.Error("previous chart should be destroyed")
	}
	if second.Destroyed() {
		t.Error("current chart should be live")
	}
	if p.Current() != second {
		t.Error("current should be the newest chart")
	}
	if second.ID() == first.ID() {
		t.Error("instances should have distinct ids")
	}
	if err := first.Render(&bytes.Buffer{}, FormatPNG); !errors.Is(err, ErrDestroyed) {
		t.Errorf("render of destroyed chart: err = %v, want ErrDestroyed", err)
	}

	p.Reset()
	if p.Live() != 0 || !second.Destroyed() {
		t.Error("reset should destroy the live chart")
	}
}

func TestPresenter_ConcurrentPresentKeepsOneInstance(t *testing.T) {
	p := NewPresenter(0, 0)
	var wg sync.WaitGroup
	charts := make([]*Chart, 20)
	for i := range charts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			charts[i] = p.Present(sampleSeries(), meta)
		}(i)
	}
	wg.Wait()

	if p.Live() != 1 {
		t.Fatalf("live = %d, want 1", p.Live())
	}
	alive := 0
	for _, c := range charts {
		if !c.Destroyed() {
			alive++
		}
	}
	if alive != 1 {
		t.Errorf("%d undestroyed instances, want 1", alive)
	}
}

func TestChart_Title(t *testing.T) {
	c := NewPresenter(0, 0).Present(sampleSeries(), meta)
	if c.Title() != "Apple Inc. (AAPL)" {
		t.Errorf("title = %q", c.Title())
	}
}

func TestChart_TooltipSharedIndex(t *testing.T) {
	c := NewPresenter(0, 0).Present(sampleSeries(), meta)

	if got := len(c.Axis()); got != 5 {
		t.Fatalf("axis has %d positions, want 5", got)
	}

	// Anchor position shows the bar and the connector together.
	tip := c.TooltipAt(day(5))
	if tip.Bar == nil || tip.Bar.Close != 150 {
		t.Fatalf("expected anchor bar, got %+v", tip.Bar)
	}
	if tip.Forecast == nil || *tip.Forecast != 150 || !tip.Connector {
		t.Errorf("expected connector value 150, got %+v", tip)
	}

	// Forecast-only position.
	tip = c.TooltipAt(day(6).Add(3 * time.Hour))
	if !tip.Time.Equal(day(6)) {
		t.Errorf("snapped to %s, want %s", tip.Time, day(6))
	}
	if tip.Bar != nil {
		t.Error("no bar expected in the forecast range")
	}
	if tip.Forecast == nil || *tip.Forecast != 152 || tip.Connector {
		t.Errorf("unexpected forecast tooltip: %+v", tip)
	}

	// History-only position, and clamping at both ends.
	if tip := c.TooltipAt(day(1)); tip.Bar == nil || tip.Bar.Close != 146 || tip.Forecast != nil {
		t.Errorf("unexpected leading tooltip: %+v", tip)
	}
	if tip := c.TooltipAt(day(20)); !tip.Time.Equal(day(7)) {
		t.Errorf("trailing tooltip snapped to %s", tip.Time)
	}
}

func TestChart_Render(t *testing.T) {
	c := NewPresenter(640, 320).Present(sampleSeries(), meta)

	var png bytes.Buffer
	if err := c.Render(&png, FormatPNG); err != nil {
		t.Fatalf("render png: %v", err)
	}
	if !bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}

	var svg bytes.Buffer
	if err := c.Render(&svg, FormatSVG); err != nil {
		t.Fatalf("render svg: %v", err)
	}
	if !strings.Contains(svg.String(), "<svg") {
		t.Error("output is not an SVG")
	}

	if err := c.Render(&bytes.Buffer{}, Format("gif")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestChart_RenderSinglePoint(t *testing.T) {
	series := &model.CombinedSeries{
		Bars: []model.HistoricalBar{{Time: day(5), Open: 150, High: 150, Low: 150, Close: 150}},
		Line: []model.ForecastPoint{{Time: day(5), Price: 150}},
	}
	c := NewPresenter(320, 200).Present(series, meta)
	if err := c.Render(&bytes.Buffer{}, FormatPNG); err != nil {
		t.Fatalf("render single point: %v", err)
	}
}

func TestCandleColor(t *testing.T) {
	if candleColor(model.HistoricalBar{Open: 1, Close: 2}) != colorUp {
		t.Error("rising bar should be green")
	}
	if candleColor(model.HistoricalBar{Open: 2, Close: 1}) != colorDown {
		t.Error("falling bar should be red")
	}
	if candleColor(model.HistoricalBar{Open: 1, Close: 1}) != colorUnchanged {
		t.Error("flat bar should be gray")
	}
}
