package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validator valida la configuración cargada
type Validator struct{}

// NewValidator crea una nueva instancia del validador
func NewValidator() *Validator {
	return &Validator{}
}

// Validate valida toda la configuración
func (v *Validator) Validate(config *Config) error {
	if err := v.validateServer(config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := v.validateCache(config.Cache); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}

	if err := v.validateUpstream(config.Upstream); err != nil {
		return fmt.Errorf("upstream config validation failed: %w", err)
	}

	if err := v.validateCoinGecko(config.CoinGecko); err != nil {
		return fmt.Errorf("coingecko config validation failed: %w", err)
	}

	if err := v.validateBinance(config.Binance); err != nil {
		return fmt.Errorf("binance config validation failed: %w", err)
	}

	if err := v.validateHistorical(config.Historical); err != nil {
		return fmt.Errorf("historical config validation failed: %w", err)
	}

	if err := v.validateLogging(config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	return nil
}

// validateServer valida la configuración del servidor
func (v *Validator) validateServer(config ServerConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid port: %d, must be between 1-65535", config.Port)
	}

	if config.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got: %v", config.ShutdownTimeout)
	}

	if config.ShutdownTimeout > 5*time.Minute {
		return fmt.Errorf("shutdown_timeout too long: %v, max 5 minutes", config.ShutdownTimeout)
	}

	return nil
}

// validateCache valida la configuración del cache
func (v *Validator) validateCache(config CacheConfig) error {
	if config.TTLSeconds <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %ds", config.TTLSeconds)
	}

	if config.TTL() > 24*time.Hour {
		return fmt.Errorf("cache TTL too long: %v, max 24 hours", config.TTL())
	}

	if config.StaleWhileRevalidateSeconds < 0 {
		return fmt.Errorf("stale_while_revalidate_seconds cannot be negative, got: %d", config.StaleWhileRevalidateSeconds)
	}

	if config.ErrorMaxAgeSeconds < 0 {
		return fmt.Errorf("error_max_age_seconds cannot be negative, got: %d", config.ErrorMaxAgeSeconds)
	}

	if config.RefreshInterval < 0 {
		return fmt.Errorf("refresh_interval cannot be negative, got: %v", config.RefreshInterval)
	}

	if config.RefreshInterval > 0 && config.RefreshInterval < time.Second {
		return fmt.Errorf("refresh_interval too short: %v, min 1s", config.RefreshInterval)
	}

	return nil
}

// validateUpstream valida la configuración del cliente HTTP compartido
func (v *Validator) validateUpstream(config UpstreamConfig) error {
	if config.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got: %v", config.Timeout)
	}

	if config.MaxAttempts < 1 || config.MaxAttempts > 10 {
		return fmt.Errorf("upstream max_attempts must be between 1-10, got: %d", config.MaxAttempts)
	}

	if config.MaxAttempts > 1 && config.RetryBackoff <= 0 {
		return fmt.Errorf("upstream retry_backoff must be positive when retries are enabled, got: %v", config.RetryBackoff)
	}

	if config.RateLimitPerMinute < 0 {
		return fmt.Errorf("upstream rate_limit_per_minute cannot be negative, got: %d", config.RateLimitPerMinute)
	}

	if config.RateLimitPerMinute > 0 && config.RateLimitBurst < 1 {
		return fmt.Errorf("upstream rate_limit_burst must be at least 1 when rate limiting is enabled, got: %d", config.RateLimitBurst)
	}

	return nil
}

func (v *Validator) validateCoinGecko(config CoinGeckoConfig) error {
	if err := v.validateURL(config.BaseURL, "coingecko base_url"); err != nil {
		return err
	}

	if config.APIKey != "" && strings.TrimSpace(config.APIKeyHeader) == "" {
		return fmt.Errorf("coingecko api_key_header cannot be empty when api_key is set")
	}

	return nil
}

func (v *Validator) validateBinance(config BinanceConfig) error {
	if err := v.validateURL(config.BaseURL, "binance base_url"); err != nil {
		return err
	}

	if strings.TrimSpace(config.Symbol) == "" {
		return fmt.Errorf("binance symbol cannot be empty")
	}

	return nil
}

// validateHistorical valida la ventana y los status que permiten fallback
func (v *Validator) validateHistorical(config HistoricalConfig) error {
	if config.Window <= 0 {
		return fmt.Errorf("historical window must be positive, got: %v", config.Window)
	}

	for _, status := range config.SkippableStatuses {
		if status < 400 || status > 599 {
			return fmt.Errorf("invalid skippable status: %d, must be between 400-599", status)
		}
	}

	return nil
}

// validateLogging valida la configuración de logging
func (v *Validator) validateLogging(config LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, strings.ToLower(config.Level)) {
		return fmt.Errorf("invalid log level: %s, must be one of: %v", config.Level, validLevels)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, strings.ToLower(config.Format)) {
		return fmt.Errorf("invalid log format: %s, must be one of: %v", config.Format, validFormats)
	}

	return nil
}

// validateURL valida que una URL sea válida para HTTP/HTTPS
func (v *Validator) validateURL(rawURL, fieldName string) error {
	if rawURL == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %s, error: %v", fieldName, rawURL, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid %s scheme: %s, must be http or https", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s must have a host", fieldName)
	}

	return nil
}

// contains verifica si un slice contiene un elemento
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
