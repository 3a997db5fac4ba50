package chart

import (
	"log"
	"sync"

	"ForecastLens/internal/model"
)

// Presenter owns the single chart instance bound to one rendering surface.
type Presenter struct {
	Width  int
	Height int

	mu      sync.Mutex
	current *Chart
	nextID  int64
	live    int
}

// NewPresenter creates a presenter for a surface of the given size.
func NewPresenter(width, height int) *Presenter {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 512
	}
	return &Presenter{Width: width, Height: height}
}

// Present destroys the current instance, if any, then creates the chart for
// series. Both steps happen under one lock, so no caller can observe two
// live instances.
func (p *Presenter) Present(series *model.CombinedSeries, meta model.ChartMeta) *Chart {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		p.current.Destroy()
		p.current = nil
		p.live--
	}
	p.nextID++
	c := newChart(p.nextID, series, meta, p.Width, p.Height)
	p.current = c
	p.live++
	log.Printf("[INFO] chart #%d created: %s (%d bars, %d line points)",
		c.id, meta.Title(), len(series.Bars), len(series.Line))
	return c
}

// Current returns the live instance or nil.
func (p *Presenter) Current() *Chart {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Live returns the number of live instances, always 0 or 1.
func (p *Presenter) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// Reset destroys the live instance without creating a new one.
func (p *Presenter) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.Destroy()
		p.current = nil
		p.live--
	}
}
