package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ForecastLens/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Prediction struct {
		Endpoint string        `yaml:"endpoint"`
		Timeout  time.Duration `yaml:"timeout"`
		// Mock serves generated data instead of calling Endpoint.
		Mock bool `yaml:"mock"`
	} `yaml:"prediction"`
	UI struct {
		ListenAddr    string   `yaml:"listen_addr"`
		DefaultTicker string   `yaml:"default_ticker"`
		Tickers       []string `yaml:"tickers"`
		Timezone      string   `yaml:"timezone"`
		ChartWidth    int      `yaml:"chart_width"`
		ChartHeight   int      `yaml:"chart_height"`
	} `yaml:"ui"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. A missing file is not an error; existing variables win.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PREDICT_ENDPOINT"); v != "" {
		cfg.Prediction.Endpoint = v
	}
	if v := os.Getenv("PREDICT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse PREDICT_TIMEOUT: %w", err)
		}
		cfg.Prediction.Timeout = d
	}
	if v := os.Getenv("PREDICT_MOCK"); v != "" {
		cfg.Prediction.Mock = v == "true" || v == "1"
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.UI.ListenAddr = v
	}
	if v := os.Getenv("DEFAULT_TICKER"); v != "" {
		cfg.UI.DefaultTicker = v
	}
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.UI.Tickers = splitList(v)
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		cfg.UI.Timezone = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Prediction.Endpoint == "" {
		cfg.Prediction.Endpoint = "http://127.0.0.1:5000/predict"
	}
	if cfg.UI.ListenAddr == "" {
		cfg.UI.ListenAddr = ":8080"
	}
	if cfg.UI.DefaultTicker == "" {
		cfg.UI.DefaultTicker = "AAPL"
	}
	cfg.UI.DefaultTicker = strings.ToUpper(strings.TrimSpace(cfg.UI.DefaultTicker))
	if len(cfg.UI.Tickers) == 0 {
		for _, t := range model.PopularTickers {
			cfg.UI.Tickers = append(cfg.UI.Tickers, string(t))
		}
	}
	if cfg.UI.Timezone == "" {
		cfg.UI.Timezone = "UTC"
	}
	if cfg.UI.ChartWidth == 0 {
		cfg.UI.ChartWidth = 1024
	}
	if cfg.UI.ChartHeight == 0 {
		cfg.UI.ChartHeight = 512
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Prediction.Endpoint == "" {
		return fmt.Errorf("prediction.endpoint is required")
	}
	if c.Prediction.Timeout < 0 {
		return fmt.Errorf("prediction.timeout must not be negative")
	}
	if c.UI.DefaultTicker == "" {
		return fmt.Errorf("ui.default_ticker is required")
	}
	if c.UI.ChartWidth <= 0 || c.UI.ChartHeight <= 0 {
		return fmt.Errorf("ui.chart_width and ui.chart_height must be positive")
	}
	if _, err := time.LoadLocation(c.UI.Timezone); err != nil {
		return fmt.Errorf("ui.timezone: %w", err)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Location returns the configured display time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TickerSymbols returns the sidebar list normalized to upper case.
func (c *Config) TickerSymbols() []model.TickerSymbol {
	out := make([]model.TickerSymbol, 0, len(c.UI.Tickers))
	for _, t := range c.UI.Tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			out = append(out, model.TickerSymbol(t))
		}
	}
	return out
}

// TelegramEnabled reports whether notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
