// Package web serves the dashboard over HTTP.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ForecastLens/internal/chart"
	"ForecastLens/internal/dashboard"
	"ForecastLens/internal/metrics"
	"ForecastLens/internal/model"
	"ForecastLens/internal/recorder"
)

// Server exposes the dashboard page, chart images and a JSON API.
type Server struct {
	Dashboard *dashboard.Dashboard
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
}

// NewServer creates a Server. A nil gatherer serves the default registry.
func NewServer(dash *dashboard.Dashboard, rec recorder.Recorder, m *metrics.Metrics, g prometheus.Gatherer) *Server {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return &Server{Dashboard: dash, Recorder: rec, Metrics: m, Gatherer: g}
}

// Handler returns the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /predict", s.handleSubmit)
	mux.HandleFunc("GET /select/{ticker}", s.handleSelect)
	mux.HandleFunc("GET /chart.png", s.handleChart(chart.FormatPNG))
	mux.HandleFunc("GET /chart.svg", s.handleChart(chart.FormatSVG))
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/predict", s.handleAPIPredict)
	mux.HandleFunc("GET /api/tooltip", s.handleTooltip)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] web server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("web server: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown web server: %w", err)
	}
	log.Println("[INFO] web server stopped")
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, s.Dashboard.Snapshot()); err != nil {
		log.Printf("[ERROR] render page: %v", err)
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	s.dispatch(detach(r), dashboard.EventSubmit, r.FormValue("ticker"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.dispatch(detach(r), dashboard.EventClick, r.PathValue("ticker"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// detach keeps a pipeline run alive when the client goes away; its result
// belongs to every viewer of the dashboard.
func detach(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// dispatch runs the pipeline; its outcome is reflected in the dashboard state.
func (s *Server) dispatch(ctx context.Context, event, ticker string) {
	if err := s.Dashboard.Dispatch(ctx, event, ticker); err != nil && !errors.Is(err, dashboard.ErrStale) {
		log.Printf("[WARN] %s %q: %v", event, ticker, err)
	}
}

func (s *Server) handleChart(format chart.Format) http.HandlerFunc {
	contentType := "image/png"
	if format == chart.FormatSVG {
		contentType = "image/svg+xml"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		c := s.Dashboard.VisibleChart()
		if c == nil {
			http.NotFound(w, r)
			return
		}
		s.writeChart(w, r, c, format, contentType)
	}
}

// writeChart encodes c before any header is written.
func (s *Server) writeChart(w http.ResponseWriter, r *http.Request, c *chart.Chart, format chart.Format, contentType string) {
	var buf bytes.Buffer
	if err := c.Render(&buf, format); err != nil {
		if errors.Is(err, chart.ErrDestroyed) {
			http.NotFound(w, r)
			return
		}
		log.Printf("[ERROR] render chart %d: %v", c.ID(), err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
	s.Metrics.IncRender(string(format))
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Dashboard.Snapshot())
}

type predictRequest struct {
	Ticker any `json:"ticker"`
}

type predictResponse struct {
	Error string          `json:"error,omitempty"`
	State dashboard.State `json:"state"`
}

func (s *Server) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	_, err := s.Dashboard.Predict(detach(r), req.Ticker)
	resp := predictResponse{State: s.Dashboard.Snapshot()}
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, dashboard.ErrStale):
		resp.Error = err.Error()
		status = http.StatusConflict
	default:
		resp.Error = model.UserMessage(err)
		status = statusFor(model.KindOf(err))
	}
	writeJSON(w, status, resp)
}

func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindInvalidInput:
		return http.StatusBadRequest
	case model.KindServiceFailure, model.KindMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusServiceUnavailable
	}
}

func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	c := s.Dashboard.VisibleChart()
	if c == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no chart displayed"})
		return
	}
	ms, err := strconv.ParseInt(r.URL.Query().Get("ts"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ts must be unix milliseconds"})
		return
	}
	writeJSON(w, http.StatusOK, c.TooltipAt(time.UnixMilli(ms).In(s.Dashboard.Location)))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	rows, err := s.Recorder.RecentForecasts(limit)
	if err != nil {
		log.Printf("[ERROR] load history: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}
	if rows == nil {
		rows = []recorder.ForecastRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}
