package logging

import (
	"context"
	"time"
)

// HTTPLogger especializado para logs relacionados con HTTP
type HTTPLogger interface {
	Logger

	RequestCompleted(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// ExternalAPILogger especializado para las APIs de precios
type ExternalAPILogger interface {
	Logger

	RequestCompleted(ctx context.Context, service, endpoint string, statusCode int, duration time.Duration)
	RequestFailed(ctx context.Context, service, endpoint string, err error, duration time.Duration)
	RetryScheduled(ctx context.Context, service, endpoint string, attempt uint, err error)
}

// CacheLogger especializado para el cache de precios
type CacheLogger interface {
	Logger

	Hit(ctx context.Context, key string, age time.Duration)
	Miss(ctx context.Context, key string)
	Stored(ctx context.Context, key string, ttl time.Duration, fields Fields)
	RefreshFailed(ctx context.Context, key string, err error)
}
