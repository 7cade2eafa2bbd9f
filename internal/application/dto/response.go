package dto

import (
	"btc-price-service/internal/domain/entities"
	"time"
)

// PricesResponse represents the response from the /prices endpoint
// @Description Current BTC price and the price two years earlier, in whole USD
type PricesResponse struct {
	CurrentPriceUSD      int64  `json:"currentPriceUsd" example:"65001" validate:"required,min=1"`                   // Current BTC/USD price
	HistoricalPriceUSD   int64  `json:"historicalPriceUsd" example:"28512" validate:"required,min=1"`                // BTC/USD price closest to the target date
	HistoricalTargetDate string `json:"historicalTargetDate" example:"2024-10-17T12:00:00.000Z" validate:"required"` // Instant two years before the fetch
}

// ErrorResponse represents an error returned by the /prices endpoint
// @Description Upstream failure message
type ErrorResponse struct {
	Error string `json:"error" example:"coingecko responded with status 500" validate:"required"` // Upstream message
}

// HealthResponse represents the health check response with service status
// @Description Health check response with service status
type HealthResponse struct {
	Status    string            `json:"status" example:"healthy" validate:"required" enums:"healthy,ready"` // Overall service status
	Timestamp time.Time         `json:"timestamp" example:"2026-10-17T12:00:00Z" validate:"required"`       // When the check was performed
	Services  map[string]string `json:"services,omitempty" example:"cache:warm"`                            // Individual component statuses
}

// NewPricesResponse maps the cached payload to the response body
func NewPricesResponse(payload entities.PricePayload) *PricesResponse {
	return &PricesResponse{
		CurrentPriceUSD:      payload.CurrentPriceUSD,
		HistoricalPriceUSD:   payload.HistoricalPriceUSD,
		HistoricalTargetDate: payload.HistoricalTargetDate,
	}
}

// NewErrorResponse creates the error body
func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}

// NewHealthResponse creates a new health response
func NewHealthResponse(status string, services map[string]string) *HealthResponse {
	return &HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Services:  services,
	}
}
