package dashboard

import (
	"context"
	"fmt"
)

// Named UI events.
const (
	EventSubmit = "submit"
	EventClick  = "click"
)

// Handler reacts to one UI event carrying raw input.
type Handler func(ctx context.Context, raw any) error

func (d *Dashboard) bindDefaults() {
	run := func(ctx context.Context, raw any) error {
		_, err := d.Predict(ctx, raw)
		return err
	}
	d.Bind(EventSubmit, run)
	d.Bind(EventClick, run)
}

// Bind registers h for event, replacing any previous handler.
func (d *Dashboard) Bind(event string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = h
}

// Dispatch invokes the handler bound to event.
func (d *Dashboard) Dispatch(ctx context.Context, event string, raw any) error {
	d.mu.Lock()
	h, ok := d.handlers[event]
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("no handler bound for event %q", event)
	}
	return h(ctx, raw)
}
