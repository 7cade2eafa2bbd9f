package ratelimit

import (
	"btc-price-service/internal/infrastructure/logging"
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// waitLogThreshold es la espera minima que vale la pena loguear
const waitLogThreshold = 10 * time.Millisecond

// UpstreamLimiter paces outgoing requests to one upstream provider. A nil
// *UpstreamLimiter never blocks.
type UpstreamLimiter struct {
	service string
	limiter *rate.Limiter
}

// NewUpstreamLimiter crea un limiter de perMinute requests con el burst dado.
// Devuelve nil cuando perMinute <= 0 (sin limite).
func NewUpstreamLimiter(service string, perMinute, burst int) *UpstreamLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}

	logging.Debug(context.Background(), "Upstream rate limiter initialized", logging.Fields{
		logging.FieldExternalService: service,
		"per_minute":                 perMinute,
		"burst":                      burst,
	})

	return &UpstreamLimiter{
		service: service,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), burst),
	}
}

// Wait blocks until a request may be sent or ctx is done
func (l *UpstreamLimiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	start := time.Now()
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limiter: %w", l.service, err)
	}

	if waited := time.Since(start); waited > waitLogThreshold {
		logging.Debug(ctx, "Rate limiter delayed upstream request", logging.Fields{
			logging.FieldExternalService: l.service,
			"wait_ms":                    waited.Milliseconds(),
		})
	}
	return nil
}
