package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading using Viper
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader instance
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// Load loads configuration from files and environment variables
func (l *Loader) Load() (*Config, error) {
	// 1. Configure Viper
	l.setupViper()

	// 2. Read configuration
	if err := l.v.ReadInConfig(); err != nil {
		// If config.yaml doesn't exist, use only env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 3. Unmarshall a struct
	config := GetDefaultConfig()
	if err := l.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 4. Env vars que viper no sabe decodificar
	if err := l.overrideWithEnvVars(config); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadAndValidate loads the configuration and runs the Validator over it
func (l *Loader) LoadAndValidate() (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setupViper configures Viper to read files and env vars
func (l *Loader) setupViper() {
	l.v.SetConfigName("config")
	l.v.SetConfigType("yaml")

	l.v.AddConfigPath("./configs")
	l.v.AddConfigPath("../configs")
	l.v.AddConfigPath(".")
	l.v.AddConfigPath("/etc/btc-price-service")

	// BTC_PRICES_CACHE_TTL_SECONDS, BTC_PRICES_UPSTREAM_TIMEOUT, ...
	l.v.AutomaticEnv()
	l.v.SetEnvPrefix("BTC_PRICES")
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.bindEnvVars()
}

// bindEnvVars maps the unprefixed deployment environment variables
func (l *Loader) bindEnvVars() {
	envMappings := map[string]string{
		"server.port":                          "PORT",
		"server.shutdown_timeout":              "SHUTDOWN_TIMEOUT",
		"cache.ttl_seconds":                    "CACHE_TTL_SECONDS",
		"cache.stale_while_revalidate_seconds": "CACHE_SWR_SECONDS",
		"cache.error_max_age_seconds":          "CACHE_ERROR_MAX_AGE_SECONDS",
		"cache.warmup":                         "CACHE_WARMUP",
		"cache.refresh_interval":               "CACHE_REFRESH_INTERVAL",
		"upstream.timeout":                     "UPSTREAM_TIMEOUT",
		"upstream.max_attempts":                "UPSTREAM_MAX_ATTEMPTS",
		"upstream.retry_backoff":               "UPSTREAM_RETRY_BACKOFF",
		"upstream.rate_limit_per_minute":       "UPSTREAM_RATE_LIMIT_PER_MINUTE",
		"upstream.rate_limit_burst":            "UPSTREAM_RATE_LIMIT_BURST",
		"coingecko.base_url":                   "COINGECKO_BASE_URL",
		"coingecko.api_key":                    "COINGECKO_API_KEY",
		"coingecko.api_key_header":             "COINGECKO_API_KEY_HEADER",
		"binance.base_url":                     "BINANCE_BASE_URL",
		"binance.symbol":                       "BINANCE_SYMBOL",
		"historical.window":                    "HISTORICAL_WINDOW",
		"logging.level":                        "LOG_LEVEL",
		"logging.format":                       "LOG_FORMAT",
	}

	for configKey, envVar := range envMappings {
		_ = l.v.BindEnv(configKey, envVar)
	}
}

// overrideWithEnvVars maneja casos especiales de env vars
func (l *Loader) overrideWithEnvVars(config *Config) error {
	if mockMode := os.Getenv("MOCK_MODE"); mockMode == "true" || mockMode == "1" {
		config.Development.MockMode = true
	}

	// HISTORICAL_SKIPPABLE_STATUSES como lista separada por comas: "401,429"
	raw, ok := os.LookupEnv("HISTORICAL_SKIPPABLE_STATUSES")
	if !ok {
		return nil
	}

	statuses, err := parseStatusList(raw)
	if err != nil {
		return fmt.Errorf("invalid HISTORICAL_SKIPPABLE_STATUSES: %w", err)
	}
	config.Historical.SkippableStatuses = statuses
	return nil
}

func parseStatusList(raw string) ([]int, error) {
	statuses := []int{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("status %q is not a number", part)
		}
		statuses = append(statuses, code)
	}
	return statuses, nil
}
