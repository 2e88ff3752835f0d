package config

import (
	"time"

	"golang-alpha-seek/pkg/config"
	"golang-alpha-seek/pkg/mailer"
)

// Batch holds batch-run configuration.
type Batch struct {
	Schedule              string        `mapstructure:"schedule"`
	ChartDir              string        `mapstructure:"chart_dir"`
	EnableIndicators      bool          `mapstructure:"enable_indicators"`
	MaxConcurrentTickers  int           `mapstructure:"max_concurrent_tickers"`
	RedisStreamTimeout    time.Duration `mapstructure:"redis_stream_timeout"`
	ReportSubjectTemplate string        `mapstructure:"report_subject_template"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// News holds configuration for news providers.
type News struct {
	Provider   string `mapstructure:"provider"`
	Days       int    `mapstructure:"days"`
	MaxResults int    `mapstructure:"max_results"`
}

// Tavily holds the configuration for the Tavily search API.
type Tavily struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	QuoteCacheTTL       time.Duration `mapstructure:"quote_cache_ttl"`
}

// Config holds the full configuration for the batch service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	Batch        Batch           `mapstructure:"batch"`
	AI           AI              `mapstructure:"ai"`
	Gemini       Gemini          `mapstructure:"gemini"`
	News         News            `mapstructure:"news"`
	Tavily       Tavily          `mapstructure:"tavily"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	SMTP         mailer.Config   `mapstructure:"smtp"`
	Telegram     config.Telegram `mapstructure:"telegram"`
}

// Load loads the batch service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
