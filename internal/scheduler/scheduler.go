package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"ForecastLens/internal/dashboard"
	"ForecastLens/internal/model"
	"ForecastLens/internal/notifier"

	"github.com/robfig/cron/v3"
)

// Sender delivers a notification. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron refresh and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Dashboard *dashboard.Dashboard
	Notifier  Sender
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. sender may be nil.
func NewScheduler(ctx context.Context, dash *dashboard.Dashboard, sender Sender) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Dashboard: dash,
		Notifier:  sender,
		Ctx:       ctx,
	}
}

// RegisterAll registers the refresh task. An empty expression disables it.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if strings.TrimSpace(refreshCron) == "" {
		log.Println("[INFO] scheduled refresh disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately.
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running scheduled refresh")
	res, err := s.Dashboard.Refresh(s.Ctx)
	if errors.Is(err, dashboard.ErrStale) {
		log.Println("[INFO] scheduled refresh superseded by a user action")
		return
	}
	if err != nil {
		log.Printf("[ERROR] scheduled refresh: %v", err)
		s.trySend(notifier.FormatFailure(string(s.Dashboard.Snapshot().Active), model.UserMessage(err)))
		return
	}
	s.trySend(notifier.FormatForecast(res.Chart.Title(), res.Summary))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command, arg string) string {
	switch command {
	case "/forecast":
		res, err := s.Dashboard.Predict(ctx, arg)
		if errors.Is(err, dashboard.ErrStale) {
			return "A newer request replaced this one."
		}
		if err != nil {
			return notifier.FormatFailure(strings.ToUpper(strings.TrimSpace(arg)), model.UserMessage(err))
		}
		return notifier.FormatForecast(res.Chart.Title(), res.Summary)
	case "/active":
		st := s.Dashboard.Snapshot()
		return notifier.FormatActive(st.Active, st.Title)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
