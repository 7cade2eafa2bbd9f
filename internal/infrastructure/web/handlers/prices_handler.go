package handlers

import (
	"btc-price-service/internal/application/dto"
	"btc-price-service/internal/domain/entities"
	"btc-price-service/internal/domain/interfaces"
	"btc-price-service/internal/infrastructure/config"
	"btc-price-service/internal/infrastructure/logging"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	HeaderCacheControl = "Cache-Control"
	HeaderXCache       = "X-Cache"
)

// PricesHandler serves the cached BTC price payload
type PricesHandler struct {
	priceService interfaces.PriceService
	cacheConfig  config.CacheConfig
}

// NewPricesHandler creates a new instance of the prices handler
func NewPricesHandler(priceService interfaces.PriceService, cacheConfig config.CacheConfig) *PricesHandler {
	return &PricesHandler{
		priceService: priceService,
		cacheConfig:  cacheConfig,
	}
}

// GetPrices godoc
// @Summary Current and historical BTC price
// @Description Returns the current BTC/USD price and the price closest to the same instant two years earlier, both rounded to whole USD. Served from an in-memory cache; concurrent misses share one upstream fetch.
// @Tags prices
// @Produce json
// @Success 200 {object} dto.PricesResponse "Prices retrieved"
// @Header 200 {string} X-Cache "HIT or MISS"
// @Header 200 {string} Cache-Control "public, s-maxage={ttl}, stale-while-revalidate={swr}"
// @Failure 502 {object} dto.ErrorResponse "Upstream price provider failed"
// @Router /prices [get]
func (h *PricesHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, status, err := h.priceService.GetPrices(ctx)
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to get prices", err, logging.Fields{
			"upstream_error": entities.IsUpstreamError(err),
		})

		w.Header().Set(HeaderCacheControl, fmt.Sprintf("public, s-maxage=%d", h.cacheConfig.ErrorMaxAgeSeconds))
		w.Header().Set(HeaderXCache, string(entities.CacheMiss))
		h.writeJSONResponse(ctx, w, http.StatusBadGateway, dto.NewErrorResponse(err.Error()))
		return
	}

	logging.Debug(ctx, "Prices served", logging.Fields{
		"x_cache":                  string(status),
		logging.FieldCurrentPrice:  payload.CurrentPriceUSD,
		logging.FieldHistoricalUSD: payload.HistoricalPriceUSD,
	})

	w.Header().Set(HeaderCacheControl, fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d",
		h.cacheConfig.TTLSeconds, h.cacheConfig.StaleWhileRevalidateSeconds))
	w.Header().Set(HeaderXCache, string(status))
	h.writeJSONResponse(ctx, w, http.StatusOK, dto.NewPricesResponse(payload))
}

// writeJSONResponse escribe una respuesta JSON
func (h *PricesHandler) writeJSONResponse(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(ctx, w, statusCode, data)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.ErrorWithError(ctx, "Failed to encode JSON response", err, logging.Fields{
			"status_code": statusCode,
		})
	}
}
