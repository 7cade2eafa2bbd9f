package exchange

import (
	"btc-price-service/internal/domain/interfaces"
	"btc-price-service/internal/infrastructure/config"
	"btc-price-service/internal/infrastructure/exchange/binance"
	"btc-price-service/internal/infrastructure/exchange/coingecko"
	"btc-price-service/internal/infrastructure/exchange/transport"
	"btc-price-service/internal/infrastructure/logging"
	"btc-price-service/internal/infrastructure/ratelimit"
	"context"
)

// NewPriceFetcherFromConfig wires the providers described by cfg. The keyed
// CoinGecko range lookup only joins the historical chain when an API key is
// configured; Binance candles are always the last resort.
func NewPriceFetcherFromConfig(cfg *config.Config) *PriceFetcher {
	if cfg.Development.MockMode {
		mock := NewMockExchange()
		logging.Warn(context.Background(), "Mock mode enabled, upstream APIs will not be called", nil)
		return NewPriceFetcher(mock, NewHistoricalChain(mock), cfg.Historical.Window)
	}

	gecko := coingecko.NewClient(cfg.CoinGecko, cfg.Historical,
		transport.NewClient(coingecko.ServiceName, transportOptions(cfg.Upstream, coingecko.ServiceName)))
	candles := binance.NewClient(cfg.Binance,
		transport.NewClient(binance.ServiceName, transportOptions(cfg.Upstream, binance.ServiceName)))

	var providers []interfaces.HistoricalPriceProvider
	if gecko.HasAPIKey() {
		providers = append(providers, gecko)
	}
	providers = append(providers, candles)

	chain := NewHistoricalChain(providers...)
	logging.Info(context.Background(), "Historical provider chain configured", logging.Fields{
		"providers": chain.Providers(),
	})

	return NewPriceFetcher(gecko, chain, cfg.Historical.Window)
}

// transportOptions builds the client options; each provider gets its own limiter
func transportOptions(cfg config.UpstreamConfig, service string) transport.Options {
	return transport.Options{
		Timeout:     cfg.Timeout,
		MaxAttempts: uint(cfg.MaxAttempts),
		Backoff:     cfg.RetryBackoff,
		Limiter:     ratelimit.NewUpstreamLimiter(service, cfg.RateLimitPerMinute, cfg.RateLimitBurst),
	}
}
