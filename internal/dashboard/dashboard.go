package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"ForecastLens/internal/calculator"
	"ForecastLens/internal/chart"
	"ForecastLens/internal/merger"
	"ForecastLens/internal/metrics"
	"ForecastLens/internal/model"
	"ForecastLens/internal/predictor"
	"ForecastLens/internal/recorder"
	"ForecastLens/internal/selection"
	"ForecastLens/internal/validator"
)

// ErrStale is returned for an action that finished after a newer one started.
// Its result is discarded and the UI is left to the newer action.
var ErrStale = errors.New("superseded by a newer request")

// Result describes one successful display.
type Result struct {
	Seq     uint64
	Ticker  model.TickerSymbol
	Chart   *chart.Chart
	Series  *model.CombinedSeries
	Summary *calculator.Summary
}

// State is a copy of everything the UI surface shows.
type State struct {
	ErrorMessage string              `json:"error_message,omitempty"`
	Loading      bool                `json:"loading"`
	ChartVisible bool                `json:"chart_visible"`
	Title        string              `json:"title"`
	Active       model.TickerSymbol  `json:"active,omitempty"`
	ChartID      int64               `json:"chart_id,omitempty"`
	Summary      *calculator.Summary `json:"summary,omitempty"`
	Entries      []selection.Entry   `json:"entries"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// Dashboard runs the validate, predict, merge, present pipeline and owns the
// UI flags. Every action gets a sequence number; only the latest action may
// change what is displayed.
type Dashboard struct {
	Predictor     predictor.Predictor
	Presenter     *chart.Presenter
	Selection     *selection.Selection
	Recorder      recorder.Recorder
	Metrics       *metrics.Metrics
	Location      *time.Location
	DefaultTicker string

	mu           sync.Mutex
	seq          uint64
	errMsg       string
	loading      bool
	chartVisible bool
	title        string
	active       model.TickerSymbol
	summary      *calculator.Summary
	updatedAt    time.Time

	handlers map[string]Handler
}

// New creates a Dashboard with the submit and click events bound.
func New(p predictor.Predictor, pres *chart.Presenter, sel *selection.Selection, rec recorder.Recorder, m *metrics.Metrics, loc *time.Location) *Dashboard {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if loc == nil {
		loc = time.UTC
	}
	d := &Dashboard{
		Predictor:     p,
		Presenter:     pres,
		Selection:     sel,
		Recorder:      rec,
		Metrics:       m,
		Location:      loc,
		DefaultTicker: "AAPL",
		title:         "Stock Forecast",
		handlers:      make(map[string]Handler),
	}
	d.bindDefaults()
	return d
}

// Start displays the default ticker.
func (d *Dashboard) Start(ctx context.Context) {
	log.Printf("[INFO] initial display for %s", d.DefaultTicker)
	if _, err := d.Predict(ctx, d.DefaultTicker); err != nil {
		log.Printf("[WARN] initial display failed: %v", err)
	}
}

// Refresh re-runs the pipeline for the active ticker, or the default one.
func (d *Dashboard) Refresh(ctx context.Context) (*Result, error) {
	d.mu.Lock()
	t := d.active
	d.mu.Unlock()
	if t == "" {
		return d.Predict(ctx, d.DefaultTicker)
	}
	return d.Predict(ctx, string(t))
}

// Predict runs the whole pipeline for raw user input.
func (d *Dashboard) Predict(ctx context.Context, raw any) (res *Result, err error) {
	seq := d.begin()
	input := fmt.Sprint(raw)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] pipeline panic for %q: %v", input, r)
			res, err = nil, d.fail(seq, input, model.NewError(model.KindMalformedResponse, model.MsgMalformedResponse, fmt.Errorf("panic: %v", r)))
		}
	}()

	ticker, err := validator.Validate(raw)
	if err != nil {
		return nil, d.fail(seq, input, err)
	}

	if !d.startLoading(seq) {
		d.Metrics.ObserveRun("stale")
		d.Metrics.IncStale()
		return nil, ErrStale
	}
	log.Printf("[INFO] requesting forecast for %s via %s (seq=%d)", ticker, d.Predictor.Name(), seq)

	start := time.Now()
	pred, err := d.Predictor.Predict(ctx, ticker)
	d.Metrics.ObservePrediction(time.Since(start))
	if err != nil {
		return nil, d.fail(seq, string(ticker), err)
	}

	series, err := merger.Merge(pred, d.Location)
	if err != nil {
		return nil, d.fail(seq, string(ticker), err)
	}
	summary, err := calculator.Summarize(series)
	if err != nil {
		return nil, d.fail(seq, string(ticker), model.NewError(model.KindMalformedResponse, model.MsgMalformedResponse, err))
	}

	meta := model.ChartMeta{CompanyName: pred.CompanyName, Ticker: model.TickerSymbol(pred.Ticker)}
	if meta.Ticker == "" {
		meta.Ticker = ticker
	}

	res, ok := d.display(seq, ticker, series, summary, meta)
	if !ok {
		log.Printf("[INFO] discarding stale forecast for %s (seq=%d)", ticker, seq)
		d.Metrics.ObserveRun("stale")
		d.Metrics.IncStale()
		return nil, ErrStale
	}
	d.Metrics.ObserveRun("ok")
	d.Metrics.IncChartCreated()

	if err := d.Recorder.RecordForecast(&recorder.ForecastRecord{
		Ticker:      ticker,
		CompanyName: pred.CompanyName,
		Summary:     summary,
		Line:        series.Line,
	}); err != nil {
		log.Printf("[ERROR] record forecast: %v", err)
		d.Metrics.IncRecorderError()
	}
	return res, nil
}

// Snapshot returns a copy of the display state.
func (d *Dashboard) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := State{
		ErrorMessage: d.errMsg,
		Loading:      d.loading,
		ChartVisible: d.chartVisible,
		Title:        d.title,
		Active:       d.active,
		Summary:      d.summary,
		Entries:      d.Selection.Entries(),
		UpdatedAt:    d.updatedAt,
	}
	if c := d.Presenter.Current(); c != nil {
		st.ChartID = c.ID()
	}
	return st
}

// VisibleChart returns the live chart when the chart area is shown.
func (d *Dashboard) VisibleChart() *chart.Chart {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.chartVisible {
		return nil
	}
	return d.Presenter.Current()
}

func (d *Dashboard) begin() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	return d.seq
}

// startLoading hides the chart and error and shows the loading indicator.
func (d *Dashboard) startLoading(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		return false
	}
	d.loading = true
	d.chartVisible = false
	d.errMsg = ""
	d.updatedAt = time.Now()
	return true
}

// display swaps in the new chart and marks the ticker active, unless a
// newer action has started.
func (d *Dashboard) display(seq uint64, ticker model.TickerSymbol, series *model.CombinedSeries, summary *calculator.Summary, meta model.ChartMeta) (*Result, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		return nil, false
	}
	c := d.Presenter.Present(series, meta)
	d.title = c.Title()
	d.chartVisible = true
	d.loading = false
	d.errMsg = ""
	d.active = ticker
	d.summary = summary
	d.updatedAt = time.Now()
	d.Selection.MarkActive(ticker)
	return &Result{Seq: seq, Ticker: ticker, Chart: c, Series: series, Summary: summary}, true
}

// fail shows err for the latest action and leaves the displayed ticker and
// the live chart instance untouched.
func (d *Dashboard) fail(seq uint64, input string, err error) error {
	msg := model.UserMessage(err)
	kind := model.KindOf(err)
	if kind == "" {
		kind = model.KindTransportFailure
	}

	d.mu.Lock()
	latest := seq == d.seq
	if latest {
		d.errMsg = msg
		d.chartVisible = false
		d.loading = false
		d.updatedAt = time.Now()
	}
	d.mu.Unlock()

	if !latest {
		log.Printf("[INFO] discarding stale failure for %q (seq=%d): %v", input, seq, err)
		d.Metrics.ObserveRun("stale")
		d.Metrics.IncStale()
		return ErrStale
	}

	log.Printf("[WARN] forecast for %q failed: %v", input, err)
	d.Metrics.ObserveRun(string(kind))
	cause := ""
	if err != nil {
		cause = err.Error()
	}
	if rerr := d.Recorder.RecordFailure(&recorder.FailureRecord{
		Input: input, Kind: kind, Message: msg, Cause: cause,
	}); rerr != nil {
		log.Printf("[ERROR] record failure: %v", rerr)
		d.Metrics.IncRecorderError()
	}
	return err
}
