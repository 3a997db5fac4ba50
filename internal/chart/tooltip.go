package chart

import (
	"sort"
	"time"

	"ForecastLens/internal/model"
)

// Tooltip reports both layers at one shared time position.
type Tooltip struct {
	Time     time.Time            `json:"time"`
	Bar      *model.HistoricalBar `json:"bar,omitempty"`
	Forecast *float64             `json:"forecast,omitempty"`
	// Connector is set when the forecast value is the anchor close.
	Connector bool `json:"connector,omitempty"`
}

// TooltipAt snaps ts to the nearest time position on the shared axis and
// returns every layer's value at that position.
func (c *Chart) TooltipAt(ts time.Time) Tooltip {
	if len(c.axis) == 0 {
		return Tooltip{Time: ts}
	}
	pos := c.nearest(ts)
	tip := Tooltip{Time: pos}
	k := pos.UnixNano()
	if i, ok := c.barAt[k]; ok {
		b := c.series.Bars[i]
		tip.Bar = &b
	}
	if i, ok := c.lineAt[k]; ok {
		v := c.series.Line[i].Price
		tip.Forecast = &v
		tip.Connector = i == 0
	}
	return tip
}

// Axis returns the shared time positions in ascending order.
func (c *Chart) Axis() []time.Time {
	out := make([]time.Time, len(c.axis))
	copy(out, c.axis)
	return out
}

func (c *Chart) nearest(ts time.Time) time.Time {
	i := sort.Search(len(c.axis), func(i int) bool { return !c.axis[i].Before(ts) })
	switch {
	case i == 0:
		return c.axis[0]
	case i == len(c.axis):
		return c.axis[len(c.axis)-1]
	}
	before, after := c.axis[i-1], c.axis[i]
	if ts.Sub(before) <= after.Sub(ts) {
		return before
	}
	return after
}

func sortTimes(ts []time.Time) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
}
