package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Upstream    UpstreamConfig    `yaml:"upstream" mapstructure:"upstream"`
	CoinGecko   CoinGeckoConfig   `yaml:"coingecko" mapstructure:"coingecko"`
	Binance     BinanceConfig     `yaml:"binance" mapstructure:"binance"`
	Historical  HistoricalConfig  `yaml:"historical" mapstructure:"historical"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Development DevelopmentConfig `yaml:"development" mapstructure:"development"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" mapstructure:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// CacheConfig contains the price cache and HTTP caching header settings
type CacheConfig struct {
	TTLSeconds                  int           `yaml:"ttl_seconds" mapstructure:"ttl_seconds"`
	StaleWhileRevalidateSeconds int           `yaml:"stale_while_revalidate_seconds" mapstructure:"stale_while_revalidate_seconds"`
	ErrorMaxAgeSeconds          int           `yaml:"error_max_age_seconds" mapstructure:"error_max_age_seconds"`
	Warmup                      bool          `yaml:"warmup" mapstructure:"warmup"`
	RefreshInterval             time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"`
}

// TTL returns the cache freshness window
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// UpstreamConfig contains the shared HTTP client settings for price APIs
type UpstreamConfig struct {
	Timeout            time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxAttempts        int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	RetryBackoff       time.Duration `yaml:"retry_backoff" mapstructure:"retry_backoff"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" mapstructure:"rate_limit_per_minute"` // por proveedor, 0 = sin limite
	RateLimitBurst     int           `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// CoinGeckoConfig contains CoinGecko-specific configuration
type CoinGeckoConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	APIKeyHeader string `yaml:"api_key_header" mapstructure:"api_key_header"`
}

// BinanceConfig contains Binance-specific configuration
type BinanceConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Symbol  string `yaml:"symbol" mapstructure:"symbol"`
}

// HistoricalConfig controls the two-years-ago lookup
type HistoricalConfig struct {
	Window            time.Duration `yaml:"window" mapstructure:"window"`
	SkippableStatuses []int         `yaml:"skippable_statuses" mapstructure:"skippable_statuses"`
}

// LoggingConfig contains logging system configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DevelopmentConfig contiene configuraciones para desarrollo y testing
type DevelopmentConfig struct {
	MockMode bool `yaml:"mock_mode" mapstructure:"mock_mode"`
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			TTLSeconds:                  900,
			StaleWhileRevalidateSeconds: 300,
			ErrorMaxAgeSeconds:          30,
			Warmup:                      false,
			RefreshInterval:             0, // lazy refresh only
		},
		Upstream: UpstreamConfig{
			Timeout:            10 * time.Second,
			MaxAttempts:        1,
			RetryBackoff:       200 * time.Millisecond,
			RateLimitPerMinute: 30, // CoinGecko demo plan
			RateLimitBurst:     5,
		},
		CoinGecko: CoinGeckoConfig{
			BaseURL:      "https://api.coingecko.com/api/v3",
			APIKey:       "",
			APIKeyHeader: "x-cg-demo-api-key",
		},
		Binance: BinanceConfig{
			BaseURL: "https://api.binance.com",
			Symbol:  "BTCUSDT",
		},
		Historical: HistoricalConfig{
			Window:            14 * 24 * time.Hour,
			SkippableStatuses: []int{401},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Development: DevelopmentConfig{
			MockMode: false,
		},
	}
}
