package logging

import (
	"context"
	"time"
)

// domainLogger agrega el campo de dominio a todo lo que registra
type domainLogger struct {
	Logger
	domain string
}

func (dl *domainLogger) with(fields Fields) Fields {
	return mergeFields(fields, Fields{FieldDomain: dl.domain})
}

func (dl *domainLogger) Debug(ctx context.Context, message string, fields Fields) {
	dl.Logger.Debug(ctx, message, dl.with(fields))
}

func (dl *domainLogger) Info(ctx context.Context, message string, fields Fields) {
	dl.Logger.Info(ctx, message, dl.with(fields))
}

func (dl *domainLogger) Warn(ctx context.Context, message string, fields Fields) {
	dl.Logger.Warn(ctx, message, dl.with(fields))
}

func (dl *domainLogger) Error(ctx context.Context, message string, fields Fields) {
	dl.Logger.Error(ctx, message, dl.with(fields))
}

func (dl *domainLogger) WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	dl.Logger.WarnWithError(ctx, message, err, dl.with(fields))
}

func (dl *domainLogger) ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	dl.Logger.ErrorWithError(ctx, message, err, dl.with(fields))
}

type httpDomainLogger struct {
	*domainLogger
}

// NewHTTPLogger crea un nuevo logger HTTP
func NewHTTPLogger(base Logger) HTTPLogger {
	return &httpDomainLogger{&domainLogger{Logger: base, domain: "http"}}
}

func (hl *httpDomainLogger) RequestCompleted(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	fields := Fields{
		FieldHTTPMethod:     method,
		FieldHTTPPath:       path,
		FieldHTTPStatusCode: statusCode,
		FieldDuration:       durationMs(duration),
	}

	switch {
	case statusCode >= 500:
		hl.Error(ctx, "HTTP request completed", fields)
	case statusCode >= 400:
		hl.Warn(ctx, "HTTP request completed", fields)
	default:
		hl.Info(ctx, "HTTP request completed", fields)
	}
}

type externalAPIDomainLogger struct {
	*domainLogger
}

// NewExternalAPILogger crea un nuevo logger para APIs externas
func NewExternalAPILogger(base Logger) ExternalAPILogger {
	return &externalAPIDomainLogger{&domainLogger{Logger: base, domain: "external_api"}}
}

func (el *externalAPIDomainLogger) RequestCompleted(ctx context.Context, service, endpoint string, statusCode int, duration time.Duration) {
	fields := Fields{
		FieldExternalService:  service,
		FieldExternalEndpoint: endpoint,
		FieldExternalStatus:   statusCode,
		FieldExternalDuration: durationMs(duration),
	}

	if statusCode >= 400 {
		el.Warn(ctx, "External API request completed with error status", fields)
		return
	}
	el.Debug(ctx, "External API request completed", fields)
}

func (el *externalAPIDomainLogger) RequestFailed(ctx context.Context, service, endpoint string, err error, duration time.Duration) {
	el.ErrorWithError(ctx, "External API request failed", err, Fields{
		FieldExternalService:  service,
		FieldExternalEndpoint: endpoint,
		FieldExternalDuration: durationMs(duration),
	})
}

func (el *externalAPIDomainLogger) RetryScheduled(ctx context.Context, service, endpoint string, attempt uint, err error) {
	el.WarnWithError(ctx, "Retrying external API request", err, Fields{
		FieldExternalService:  service,
		FieldExternalEndpoint: endpoint,
		FieldAttempt:          attempt + 1,
	})
}

type cacheDomainLogger struct {
	*domainLogger
}

// NewCacheLogger crea un nuevo logger para el cache
func NewCacheLogger(base Logger) CacheLogger {
	return &cacheDomainLogger{&domainLogger{Logger: base, domain: "cache"}}
}

func (cl *cacheDomainLogger) Hit(ctx context.Context, key string, age time.Duration) {
	cl.Debug(ctx, "Cache hit", Fields{
		FieldCacheOperation: CacheOpGet,
		FieldCacheKey:       key,
		FieldCacheHit:       true,
		FieldCacheAge:       age.Seconds(),
	})
}

func (cl *cacheDomainLogger) Miss(ctx context.Context, key string) {
	cl.Debug(ctx, "Cache miss", Fields{
		FieldCacheOperation: CacheOpGet,
		FieldCacheKey:       key,
		FieldCacheHit:       false,
	})
}

func (cl *cacheDomainLogger) Stored(ctx context.Context, key string, ttl time.Duration, fields Fields) {
	cl.Info(ctx, "Cache entry stored", mergeFields(fields, Fields{
		FieldCacheOperation: CacheOpRefresh,
		FieldCacheKey:       key,
		FieldCacheTTL:       ttl.Seconds(),
	}))
}

func (cl *cacheDomainLogger) RefreshFailed(ctx context.Context, key string, err error) {
	cl.ErrorWithError(ctx, "Cache refresh failed", err, Fields{
		FieldCacheOperation: CacheOpRefresh,
		FieldCacheKey:       key,
	})
}
