package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the BTC price service
var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btc_prices_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "btc_prices_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPResponseSizeBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "btc_prices_http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 1000, 10000, 100000},
		},
		[]string{"method", "path"},
	)

	// Cache Metrics
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btc_prices_cache_lookups_total",
			Help: "Total number of price cache lookups",
		},
		[]string{"result"}, // result: hit/miss
	)

	CacheAgeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "btc_prices_cache_age_seconds",
			Help: "Age of the cached price payload when last served",
		},
	)

	CoalescedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "btc_prices_coalesced_requests_total",
			Help: "Callers that received a refresh result shared with concurrent callers",
		},
	)

	// External API Metrics
	ExternalAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btc_prices_external_api_requests_total",
			Help: "Total number of external API requests",
		},
		[]string{"service", "endpoint", "status_code"}, // status_code 0: transport error
	)

	ExternalAPIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "btc_prices_external_api_request_duration_seconds",
			Help:    "External API request duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"service", "endpoint"},
	)

	ExternalAPIRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btc_prices_external_api_retries_total",
			Help: "Total number of external API retry attempts",
		},
		[]string{"service", "endpoint", "attempt"},
	)

	// Business Metrics
	PriceRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btc_prices_refreshes_total",
			Help: "Total number of upstream pipeline executions",
		},
		[]string{"result"}, // result: success/error
	)

	PriceRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "btc_prices_refresh_duration_seconds",
			Help:    "Duration of a full upstream pipeline execution",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 20.0},
		},
	)

	CurrentPrices = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "btc_prices_usd",
			Help: "Last cached BTC/USD prices",
		},
		[]string{"series"}, // series: current/historical
	)

	FallbackActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btc_prices_historical_fallback_activations_total",
			Help: "Historical providers skipped in favour of the next one in the chain",
		},
		[]string{"provider", "reason"},
	)

	HistoricalSourceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btc_prices_historical_source_total",
			Help: "Which historical provider produced the served price",
		},
		[]string{"provider"},
	)

	// Application Metrics
	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "btc_prices_application_info",
			Help: "Application information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, path string, statusCode int, duration float64, responseSize int64) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)

	if responseSize > 0 {
		HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordCacheLookup records a hit or a miss
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// UpdateCacheAge updates the cache age gauge
func UpdateCacheAge(ageSeconds float64) {
	CacheAgeSeconds.Set(ageSeconds)
}

// RecordCoalescedRequest counts a caller served by a shared refresh
func RecordCoalescedRequest() {
	CoalescedRequestsTotal.Inc()
}

// RecordExternalAPICall records external API call metrics
func RecordExternalAPICall(service, endpoint string, statusCode int, duration float64) {
	ExternalAPIRequestsTotal.WithLabelValues(service, endpoint, strconv.Itoa(statusCode)).Inc()
	ExternalAPIRequestDuration.WithLabelValues(service, endpoint).Observe(duration)
}

// RecordExternalAPIRetry records external API retry attempts
func RecordExternalAPIRetry(service, endpoint string, attempt int) {
	ExternalAPIRetries.WithLabelValues(service, endpoint, strconv.Itoa(attempt)).Inc()
}

// RecordPriceRefresh records the outcome and duration of a pipeline run
func RecordPriceRefresh(success bool, duration float64) {
	result := "error"
	if success {
		result = "success"
	}
	PriceRefreshesTotal.WithLabelValues(result).Inc()
	PriceRefreshDuration.Observe(duration)
}

// UpdateCurrentPrices updates both price gauges
func UpdateCurrentPrices(current, historical int64) {
	CurrentPrices.WithLabelValues("current").Set(float64(current))
	CurrentPrices.WithLabelValues("historical").Set(float64(historical))
}

// RecordFallbackActivation records a skipped historical provider
func RecordFallbackActivation(provider, reason string) {
	FallbackActivationsTotal.WithLabelValues(provider, reason).Inc()
}

// RecordHistoricalSource records the provider that answered the historical lookup
func RecordHistoricalSource(provider string) {
	HistoricalSourceTotal.WithLabelValues(provider).Inc()
}

// SetApplicationInfo sets application information
func SetApplicationInfo(version, goVersion string) {
	ApplicationInfo.WithLabelValues(version, goVersion).Set(1)
}
