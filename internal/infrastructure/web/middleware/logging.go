package middleware

import (
	"btc-price-service/internal/infrastructure/logging"
	"net/http"
)

// LoggingMiddleware logs request details at debug level. Completion is logged
// by RequestTracingMiddleware, so this one must run inside it.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		logging.Debug(ctx, "HTTP request received", logging.Fields{
			logging.FieldHTTPMethod:    r.Method,
			logging.FieldHTTPPath:      r.URL.Path,
			logging.FieldHTTPUserAgent: r.UserAgent(),
			logging.FieldHTTPRemoteIP:  getRemoteIP(r),
			"headers":                  extractImportantHeaders(r),
		})

		next.ServeHTTP(w, r)
	})
}

// extractImportantHeaders extracts relevant headers for logging
func extractImportantHeaders(r *http.Request) map[string]string {
	headers := make(map[string]string)

	// Solo headers sin datos sensibles
	importantHeaders := []string{
		"Accept",
		"Cache-Control",
		"If-None-Match",
		"X-Forwarded-For",
		"X-Real-IP",
	}

	for _, header := range importantHeaders {
		if value := r.Header.Get(header); value != "" {
			headers[header] = value
		}
	}

	return headers
}
