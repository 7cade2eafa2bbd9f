package handlers

import (
	"btc-price-service/internal/application/dto"
	"btc-price-service/internal/domain/interfaces"
	"net/http"
	"time"
)

const (
	CacheWarm  = "warm"
	CacheStale = "stale"
	CacheCold  = "cold"
)

// HealthHandler maneja los endpoints de health check
type HealthHandler struct {
	priceService interfaces.PriceService
	ttl          time.Duration
	now          func() time.Time
}

// NewHealthHandler crea una nueva instancia del health handler
func NewHealthHandler(priceService interfaces.PriceService, ttl time.Duration) *HealthHandler {
	return &HealthHandler{
		priceService: priceService,
		ttl:          ttl,
		now:          time.Now,
	}
}

// Health godoc
// @Summary Basic health check
// @Description Verifies that the service is running. Never touches upstream providers.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service is running correctly"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"service": "running",
	}

	writeJSON(r.Context(), w, http.StatusOK, dto.NewHealthResponse("healthy", services))
}

// Ready godoc
// @Summary Readiness check
// @Description Reports the state of the price cache: warm (fresh entry), stale (expired entry) or cold (nothing cached yet). A cold cache is still ready; the first request fills it.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service is ready to receive traffic"
// @Router /ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"service": "ready",
		"cache":   h.cacheState(),
	}

	writeJSON(r.Context(), w, http.StatusOK, dto.NewHealthResponse("ready", services))
}

func (h *HealthHandler) cacheState() string {
	entry, ok := h.priceService.CachedEntry()
	if !ok {
		return CacheCold
	}
	if entry.IsFresh(h.now(), h.ttl) {
		return CacheWarm
	}
	return CacheStale
}
