package services

import (
	"btc-price-service/internal/domain/interfaces"
	"btc-price-service/internal/infrastructure/logging"
	"context"
	"fmt"
	"time"
)

// Warmup fills the cache once before serving. The caller decides what a
// failure means; the first request retries through the normal miss path.
func Warmup(ctx context.Context, service interfaces.PriceService) error {
	logging.Info(ctx, "Pre-warming price cache", nil)

	payload, err := service.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("pre-warm price cache: %w", err)
	}

	logging.Info(ctx, "Price cache pre-warmed", logging.Fields{
		logging.FieldCurrentPrice:  payload.CurrentPriceUSD,
		logging.FieldHistoricalUSD: payload.HistoricalPriceUSD,
	})
	return nil
}

// RunBackgroundRefresh refreshes the cache every interval until ctx is done
func RunBackgroundRefresh(ctx context.Context, service interfaces.PriceService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logging.Info(ctx, "Starting background price refresh routine", logging.Fields{
		"interval": interval.String(),
	})

	for {
		select {
		case <-ctx.Done():
			logging.Info(ctx, "Background price refresh stopped", nil)
			return
		case <-ticker.C:
			if _, err := service.Refresh(ctx); err != nil {
				logging.ErrorWithError(ctx, "Background price refresh failed", err, nil)
				continue
			}
			logging.Debug(ctx, "Background price refresh completed", nil)
		}
	}
}
