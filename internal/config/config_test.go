package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "time/tzdata"
)

var overrideVars = []string{
	"PREDICT_ENDPOINT", "PREDICT_TIMEOUT", "PREDICT_MOCK", "LISTEN_ADDR", "DEFAULT_TICKER", "TICKERS",
	"TIMEZONE", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "CRON_REFRESH", "SQLITE_PATH", "HTTPS_PROXY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range overrideVars {
		t.Setenv(k, "")
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "forecastlens-config-*.yaml")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatalf("failed to close temp file: %v", err)
	}
	return tmpFile.Name()
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Prediction.Endpoint != "http://127.0.0.1:5000/predict" {
		t.Errorf("Prediction.Endpoint = %q", cfg.Prediction.Endpoint)
	}
	if cfg.Prediction.Timeout != 0 {
		t.Errorf("Prediction.Timeout = %v, want no timeout", cfg.Prediction.Timeout)
	}
	if cfg.UI.DefaultTicker != "AAPL" {
		t.Errorf("UI.DefaultTicker = %q", cfg.UI.DefaultTicker)
	}
	if len(cfg.UI.Tickers) != 34 {
		t.Errorf("len(UI.Tickers) = %d, want 34", len(cfg.UI.Tickers))
	}
	if cfg.UI.ListenAddr != ":8080" {
		t.Errorf("UI.ListenAddr = %q", cfg.UI.ListenAddr)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeTemp(t, `
prediction:
  endpoint: "http://forecast.local/predict"
  timeout: 15s
ui:
  listen_addr: "127.0.0.1:9000"
  default_ticker: " msft "
  tickers: ["aapl", "msft", " "]
  timezone: "America/New_York"
  chart_width: 800
  chart_height: 400
schedule:
  refresh_cron: "0 */5 * * * *"
database:
  sqlite_path: "/tmp/forecastlens.db"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Prediction.Endpoint != "http://forecast.local/predict" {
		t.Errorf("Prediction.Endpoint = %q", cfg.Prediction.Endpoint)
	}
	if cfg.Prediction.Timeout != 15*time.Second {
		t.Errorf("Prediction.Timeout = %v", cfg.Prediction.Timeout)
	}
	if cfg.UI.DefaultTicker != "MSFT" {
		t.Errorf("UI.DefaultTicker = %q", cfg.UI.DefaultTicker)
	}
	syms := cfg.TickerSymbols()
	if len(syms) != 2 || syms[0] != "AAPL" || syms[1] != "MSFT" {
		t.Errorf("TickerSymbols() = %v", syms)
	}
	if cfg.Location().String() != "America/New_York" {
		t.Errorf("Location() = %v", cfg.Location())
	}
	if cfg.Schedule.RefreshCron != "0 */5 * * * *" {
		t.Errorf("Schedule.RefreshCron = %q", cfg.Schedule.RefreshCron)
	}
	if cfg.UI.ChartWidth != 800 || cfg.UI.ChartHeight != 400 {
		t.Errorf("chart size = %dx%d", cfg.UI.ChartWidth, cfg.UI.ChartHeight)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeTemp(t, "prediction:\n  endpoint: \"http://file/predict\"\n")
	t.Setenv("PREDICT_ENDPOINT", "http://env/predict")
	t.Setenv("PREDICT_TIMEOUT", "2s")
	t.Setenv("TICKERS", "tsla, nvda")
	t.Setenv("PREDICT_MOCK", "true")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Prediction.Endpoint != "http://env/predict" {
		t.Errorf("Prediction.Endpoint = %q", cfg.Prediction.Endpoint)
	}
	if cfg.Prediction.Timeout != 2*time.Second {
		t.Errorf("Prediction.Timeout = %v", cfg.Prediction.Timeout)
	}
	if syms := cfg.TickerSymbols(); len(syms) != 2 || syms[0] != "TSLA" {
		t.Errorf("TickerSymbols() = %v", syms)
	}
	if !cfg.Prediction.Mock {
		t.Error("Prediction.Mock should be set from env")
	}
	if !cfg.TelegramEnabled() {
		t.Error("telegram should be enabled")
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	if _, err := Load(writeTemp(t, "prediction: [unclosed")); err == nil {
		t.Error("expected parse error")
	}
	t.Setenv("PREDICT_TIMEOUT", "soon")
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected timeout parse error")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad timezone", func(c *Config) { c.UI.Timezone = "Mars/Olympus" }},
		{"negative timeout", func(c *Config) { c.Prediction.Timeout = -time.Second }},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "tok" }},
		{"zero width", func(c *Config) { c.UI.ChartWidth = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatalf("Load() returned error: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CRON_REFRESH=0 0 * * * *\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	os.Unsetenv("CRON_REFRESH")
	t.Cleanup(func() { os.Unsetenv("CRON_REFRESH") })
	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() = %v", err)
	}
	if got := os.Getenv("CRON_REFRESH"); got != "0 0 * * * *" {
		t.Errorf("CRON_REFRESH = %q", got)
	}
}
