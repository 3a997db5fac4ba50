package scheduler

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"ForecastLens/internal/chart"
	"ForecastLens/internal/dashboard"
	"ForecastLens/internal/model"
	"ForecastLens/internal/predictor"
	"ForecastLens/internal/selection"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingSender) SendWithRetry(_ context.Context, text string, _ int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, text)
	return nil
}

func (r *recordingSender) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

func newScheduler(t *testing.T, p predictor.Predictor, sender Sender) (*Scheduler, *dashboard.Dashboard) {
	t.Helper()
	dash := dashboard.New(p, chart.NewPresenter(320, 160), selection.New(model.PopularTickers), nil, nil, time.UTC)
	return NewScheduler(context.Background(), dash, sender), dash
}

func fixedPayload() *model.Prediction {
	return predictor.GenerateMockPrediction("AAPL", 100, 10, 3, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
}

func TestRefreshSendsSummary(t *testing.T) {
	sender := &recordingSender{}
	mock := &predictor.MockPredictor{Payload: fixedPayload()}
	s, _ := newScheduler(t, mock, sender)

	s.RunRefreshNow()

	if got := mock.Tickers(); len(got) != 1 || got[0] != "AAPL" {
		t.Errorf("refresh should use the default ticker, got %v", got)
	}
	msgs := sender.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "AAPL Corp. (AAPL)") || !strings.Contains(msgs[0], "Forecast 3d") {
		t.Errorf("messages = %v", msgs)
	}
}

func TestRefreshUsesActiveTicker(t *testing.T) {
	mock := &predictor.MockPredictor{Payload: fixedPayload()}
	s, dash := newScheduler(t, mock, nil)
	if _, err := dash.Predict(context.Background(), "msft"); err != nil {
		t.Fatalf("Predict() = %v", err)
	}
	s.RunRefreshNow()
	if got := mock.Tickers(); len(got) != 2 || got[1] != "MSFT" {
		t.Errorf("tickers = %v", got)
	}
}

func TestRefreshFailureNotifies(t *testing.T) {
	sender := &recordingSender{}
	mock := &predictor.MockPredictor{Err: model.NewError(model.KindServiceFailure, "ticker not found", nil)}
	s, _ := newScheduler(t, mock, sender)

	s.RunRefreshNow()

	msgs := sender.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "ticker not found") {
		t.Errorf("messages = %v", msgs)
	}
}

func TestHandleCommand(t *testing.T) {
	mock := &predictor.MockPredictor{Payload: fixedPayload()}
	s, _ := newScheduler(t, mock, nil)
	ctx := context.Background()

	if got := s.HandleCommand(ctx, "/active", ""); got != "Nothing is displayed yet." {
		t.Errorf("/active before display = %q", got)
	}
	if got := s.HandleCommand(ctx, "/forecast", "aapl"); !strings.Contains(got, "Last close") {
		t.Errorf("/forecast reply = %q", got)
	}
	if got := s.HandleCommand(ctx, "/active", ""); !strings.Contains(got, "AAPL Corp. (AAPL)") {
		t.Errorf("/active reply = %q", got)
	}
	if got := s.HandleCommand(ctx, "/forecast", ""); !strings.Contains(got, model.MsgInvalidTicker) {
		t.Errorf("/forecast without ticker = %q", got)
	}
	if got := s.HandleCommand(ctx, "/start", ""); !strings.Contains(got, "/forecast") {
		t.Errorf("help reply = %q", got)
	}
}

func TestRegisterAll(t *testing.T) {
	s, _ := newScheduler(t, &predictor.MockPredictor{}, nil)
	if err := s.RegisterAll(""); err != nil {
		t.Errorf("empty expression should disable refresh: %v", err)
	}
	if len(s.Cron.Entries()) != 0 {
		t.Errorf("entries = %d, want 0", len(s.Cron.Entries()))
	}
	if err := s.RegisterAll("0 */5 * * * *"); err != nil {
		t.Fatalf("RegisterAll() = %v", err)
	}
	if len(s.Cron.Entries()) != 1 {
		t.Errorf("entries = %d, want 1", len(s.Cron.Entries()))
	}
	if err := s.RegisterAll("not a cron"); err == nil {
		t.Error("expected error for invalid expression")
	}
}
