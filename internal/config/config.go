package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Portfolio struct {
		File string `yaml:"file"`
	} `yaml:"portfolio"`
	Refresh struct {
		IntradayInterval time.Duration `yaml:"intraday_interval"`
		OffHoursInterval time.Duration `yaml:"off_hours_interval"`
		FetchPeriod      string        `yaml:"fetch_period"`
		FetchInterval    string        `yaml:"fetch_interval"`
		SparklineBars    int           `yaml:"sparkline_bars"`
	} `yaml:"refresh"`
	Market struct {
		Timezone    string `yaml:"timezone"`
		OpenHour    int    `yaml:"open_hour"`
		OpenMinute  int    `yaml:"open_minute"`
		CloseHour   int    `yaml:"close_hour"`
		CloseMinute int    `yaml:"close_minute"`
	} `yaml:"market"`
	Cache struct {
		StaleThreshold time.Duration `yaml:"stale_threshold"`
	} `yaml:"cache"`
	Indicators struct {
		RSIPeriod      int `yaml:"rsi_period"`
		MACDFast       int `yaml:"macd_fast"`
		MACDSlow       int `yaml:"macd_slow"`
		MACDSignal     int `yaml:"macd_signal"`
		SMAWindow      int `yaml:"sma_window"`
		LevelsLookback int `yaml:"levels_lookback"`
		LevelsTopK     int `yaml:"levels_top_k"`
	} `yaml:"indicators"`
	Alerts struct {
		PollInterval  time.Duration `yaml:"poll_interval"`
		RetentionDays int           `yaml:"retention_days"`
	} `yaml:"alerts"`
	Schedule struct {
		DailyReportCron string `yaml:"daily_report_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A .env file in the working directory is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

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
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("PORTFOLIO_FILE"); v != "" {
		cfg.Portfolio.File = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REFRESH_INTRADAY_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Refresh.IntradayInterval = d
		}
	}
	if v := os.Getenv("REFRESH_OFF_HOURS_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Refresh.OffHoursInterval = d
		}
	}
	if v := os.Getenv("ALERT_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Alerts.PollInterval = d
		}
	}
	if v := os.Getenv("ALERT_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Alerts.RetentionDays = n
		}
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Portfolio.File == "" {
		cfg.Portfolio.File = "data/portfolio.json"
	}
	if cfg.Refresh.IntradayInterval == 0 {
		cfg.Refresh.IntradayInterval = 5 * time.Minute
	}
	if cfg.Refresh.OffHoursInterval == 0 {
		cfg.Refresh.OffHoursInterval = time.Hour
	}
	if cfg.Refresh.FetchPeriod == "" {
		cfg.Refresh.FetchPeriod = "5d"
	}
	if cfg.Refresh.FetchInterval == "" {
		cfg.Refresh.FetchInterval = "15m"
	}
	if cfg.Refresh.SparklineBars == 0 {
		cfg.Refresh.SparklineBars = 40
	}
	if cfg.Market.Timezone == "" {
		cfg.Market.Timezone = "America/New_York"
	}
	if cfg.Market.OpenHour == 0 && cfg.Market.OpenMinute == 0 {
		cfg.Market.OpenHour = 9
		cfg.Market.OpenMinute = 30
	}
	if cfg.Market.CloseHour == 0 {
		cfg.Market.CloseHour = 16
	}
	if cfg.Cache.StaleThreshold == 0 {
		cfg.Cache.StaleThreshold = 30 * time.Minute
	}
	if cfg.Indicators.RSIPeriod == 0 {
		cfg.Indicators.RSIPeriod = 14
	}
	if cfg.Indicators.MACDFast == 0 {
		cfg.Indicators.MACDFast = 12
	}
	if cfg.Indicators.MACDSlow == 0 {
		cfg.Indicators.MACDSlow = 26
	}
	if cfg.Indicators.MACDSignal == 0 {
		cfg.Indicators.MACDSignal = 9
	}
	if cfg.Indicators.SMAWindow == 0 {
		cfg.Indicators.SMAWindow = 20
	}
	if cfg.Indicators.LevelsLookback == 0 {
		cfg.Indicators.LevelsLookback = 90
	}
	if cfg.Indicators.LevelsTopK == 0 {
		cfg.Indicators.LevelsTopK = 5
	}
	if cfg.Alerts.PollInterval == 0 {
		cfg.Alerts.PollInterval = 5 * time.Minute
	}
	if cfg.Alerts.RetentionDays == 0 {
		cfg.Alerts.RetentionDays = 2
	}
	if cfg.Schedule.DailyReportCron == "" {
		cfg.Schedule.DailyReportCron = "0 0 8 * * 1-5"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/price_sentinel.db"
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Refresh.IntradayInterval <= 0 || c.Refresh.OffHoursInterval <= 0 {
		return fmt.Errorf("refresh intervals must be positive")
	}
	if c.Refresh.IntradayInterval > c.Refresh.OffHoursInterval {
		return fmt.Errorf("refresh.intraday_interval must not exceed refresh.off_hours_interval")
	}
	if _, err := time.LoadLocation(c.Market.Timezone); err != nil {
		return fmt.Errorf("market.timezone: %w", err)
	}
	if c.Alerts.RetentionDays < 1 {
		return fmt.Errorf("alerts.retention_days must be at least 1")
	}
	return nil
}
