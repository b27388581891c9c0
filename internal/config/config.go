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
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider    string `yaml:"provider"` // "yahoo" or "fmp"
		BaseURL     string `yaml:"base_url"`
		APIKey      string `yaml:"api_key"`
		Symbol      string `yaml:"symbol"`
		Days        int    `yaml:"days"`
		SymbolsFile string `yaml:"symbols_file"`
		Retries     int    `yaml:"retries"`
	} `yaml:"data_source"`
	Analysis struct {
		SMAPeriod     int    `yaml:"sma_period"`
		SwingLookback int    `yaml:"swing_lookback"`
		PreviousCount int    `yaml:"previous_count"`
		RSIPeriod     int    `yaml:"rsi_period"`
		Currency      string `yaml:"currency"`
	} `yaml:"analysis"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Cache struct {
		SQLitePath string        `yaml:"sqlite_path"`
		TTL        time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Log struct {
		Level string `yaml:"level"`
		Env   string `yaml:"env"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads an optional .env file, then the YAML config, then applies
// environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

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
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("FMP_BASE_URL"); v != "" && cfg.DataSource.Provider == "fmp" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("FMP_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Log.Env = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.Provider == "fmp" && cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://financialmodelingprep.com"
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "RELIANCE.NS"
	}
	if cfg.DataSource.Days == 0 {
		cfg.DataSource.Days = 365
	}
	if cfg.DataSource.Retries == 0 {
		cfg.DataSource.Retries = 3
	}
	if cfg.Analysis.SMAPeriod == 0 {
		cfg.Analysis.SMAPeriod = 10
	}
	if cfg.Analysis.SwingLookback == 0 {
		cfg.Analysis.SwingLookback = 5
	}
	if cfg.Analysis.PreviousCount == 0 {
		cfg.Analysis.PreviousCount = 10
	}
	if cfg.Analysis.RSIPeriod == 0 {
		cfg.Analysis.RSIPeriod = 14
	}
	if cfg.Analysis.Currency == "" {
		cfg.Analysis.Currency = "₹"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 16 * * 1-5"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 6 * time.Hour
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Env == "" {
		cfg.Log.Env = "development"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "fmp":
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for fmp")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.Days < c.Analysis.SMAPeriod {
		return fmt.Errorf("data_source.days must cover analysis.sma_period")
	}
	if c.Analysis.SMAPeriod <= 0 || c.Analysis.SwingLookback <= 0 || c.Analysis.PreviousCount <= 0 {
		return fmt.Errorf("analysis windows must be positive")
	}
	return nil
}

// ValidateBot checks the fields only the long-running bot needs.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
