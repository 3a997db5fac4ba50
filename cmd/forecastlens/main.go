package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"ForecastLens/internal/chart"
	"ForecastLens/internal/config"
	"ForecastLens/internal/dashboard"
	"ForecastLens/internal/metrics"
	"ForecastLens/internal/notifier"
	"ForecastLens/internal/predictor"
	"ForecastLens/internal/recorder"
	"ForecastLens/internal/scheduler"
	"ForecastLens/internal/selection"
	"ForecastLens/internal/web"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ForecastLens starting...")

	if err := config.LoadEnvFile(".env"); err != nil {
		log.Printf("[WARN] %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init predictor
	var pred predictor.Predictor
	if cfg.Prediction.Mock {
		pred = &predictor.MockPredictor{}
	} else {
		pred = predictor.NewHTTPPredictor(cfg.Prediction.Endpoint, cfg.Proxy, cfg.Prediction.Timeout)
	}
	log.Printf("[INFO] prediction source: %s (%s)", pred.Name(), cfg.Prediction.Endpoint)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	// Dashboard
	pres := chart.NewPresenter(cfg.UI.ChartWidth, cfg.UI.ChartHeight)
	sel := selection.New(cfg.TickerSymbols())
	dash := dashboard.New(pred, pres, sel, rec, m, cfg.Location())
	dash.DefaultTicker = cfg.UI.DefaultTicker

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Telegram notifier
	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, dash, sender)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Web server
	srv := web.NewServer(dash, rec, m, reg)
	srvDone := make(chan struct{})
	go func() {
		defer close(srvDone)
		if err := srv.Run(ctx, cfg.UI.ListenAddr); err != nil {
			log.Printf("[ERROR] %v", err)
			cancel()
		}
	}()

	go dash.Start(ctx)

	log.Println("[INFO] ForecastLens is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case <-ctx.Done():
	}
	cancel()
	<-srvDone
	log.Println("[INFO] ForecastLens stopped")
}
