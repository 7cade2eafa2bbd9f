package exchange

import (
	"btc-price-service/internal/domain/entities"
	"btc-price-service/internal/domain/interfaces"
	"btc-price-service/internal/infrastructure/logging"
	"btc-price-service/internal/infrastructure/metrics"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HistoricalChain tries historical providers in order. A skipped provider
// hands over to the next one; any other failure stops the chain.
type HistoricalChain struct {
	providers []interfaces.HistoricalPriceProvider
}

// NewHistoricalChain crea la cadena respetando el orden recibido
func NewHistoricalChain(providers ...interfaces.HistoricalPriceProvider) *HistoricalChain {
	return &HistoricalChain{providers: providers}
}

// Providers returns the provider names in evaluation order
func (c *HistoricalChain) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

func (c *HistoricalChain) Name() string {
	return "historical_chain"
}

// HistoricalPrice returns the first provider answer
func (c *HistoricalChain) HistoricalPrice(ctx context.Context, target time.Time, window time.Duration) (float64, error) {
	for _, provider := range c.providers {
		price, err := provider.HistoricalPrice(ctx, target, window)
		if err == nil {
			metrics.RecordHistoricalSource(provider.Name())
			logging.Debug(ctx, "Historical price resolved", logging.Fields{
				logging.FieldProvider:   provider.Name(),
				logging.FieldTargetDate: target.Format(time.RFC3339),
			})
			return price, nil
		}

		if !errors.Is(err, entities.ErrProviderSkipped) {
			logging.ErrorWithError(ctx, "Historical provider failed", err, logging.Fields{
				logging.FieldProvider: provider.Name(),
			})
			return 0, err
		}

		reason := fallbackReason(err)
		metrics.RecordFallbackActivation(provider.Name(), reason)
		logging.Info(ctx, "Historical provider skipped, falling back", logging.Fields{
			logging.FieldProvider: provider.Name(),
			"fallback_reason":     reason,
			"provider_error":      err.Error(),
		})
	}

	return 0, entities.NewUpstreamError(c.Name(), "no historical price available")
}

// fallbackReason da una etiqueta de baja cardinalidad al motivo del salto
func fallbackReason(err error) string {
	var upstreamErr *entities.UpstreamError
	if errors.As(err, &upstreamErr) && upstreamErr.StatusCode != 0 {
		switch upstreamErr.StatusCode {
		case http.StatusUnauthorized:
			return "unauthorized"
		case http.StatusForbidden:
			return "forbidden"
		case http.StatusTooManyRequests:
			return "rate_limited"
		default:
			return fmt.Sprintf("status_%d", upstreamErr.StatusCode)
		}
	}
	return "no_data"
}
