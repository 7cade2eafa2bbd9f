package handlers

import (
	"btc-price-service/internal/application/dto"
	"btc-price-service/internal/domain/entities"
	"btc-price-service/internal/infrastructure/config"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPriceService es un mock de interfaces.PriceService
type MockPriceService struct {
	mock.Mock
}

func (m *MockPriceService) GetPrices(ctx context.Context) (entities.PricePayload, entities.CacheStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(entities.PricePayload), args.Get(1).(entities.CacheStatus), args.Error(2)
}

func (m *MockPriceService) Refresh(ctx context.Context) (entities.PricePayload, error) {
	args := m.Called(ctx)
	return args.Get(0).(entities.PricePayload), args.Error(1)
}

func (m *MockPriceService) CachedEntry() (*entities.CacheEntry, bool) {
	args := m.Called()
	entry, _ := args.Get(0).(*entities.CacheEntry)
	return entry, args.Bool(1)
}

var testPayload = entities.PricePayload{
	CurrentPriceUSD:      65001,
	HistoricalPriceUSD:   28512,
	HistoricalTargetDate: "2024-10-17T12:00:00.000Z",
}

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		TTLSeconds:                  900,
		StaleWhileRevalidateSeconds: 300,
		ErrorMaxAgeSeconds:          30,
	}
}

func TestPricesHandler_GetPrices(t *testing.T) {
	tests := []struct {
		name         string
		status       entities.CacheStatus
		wantXCache   string
		cacheControl string
	}{
		{"cache hit", entities.CacheHit, "HIT", "public, s-maxage=900, stale-while-revalidate=300"},
		{"cache miss", entities.CacheMiss, "MISS", "public, s-maxage=900, stale-while-revalidate=300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &MockPriceService{}
			service.On("GetPrices", mock.Anything).Return(testPayload, tt.status, nil)
			handler := NewPricesHandler(service, testCacheConfig())

			rec := httptest.NewRecorder()
			handler.GetPrices(rec, httptest.NewRequest(http.MethodGet, "/prices", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantXCache, rec.Header().Get("X-Cache"))
			assert.Equal(t, tt.cacheControl, rec.Header().Get("Cache-Control"))

			var body dto.PricesResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, int64(65001), body.CurrentPriceUSD)
			assert.Equal(t, int64(28512), body.HistoricalPriceUSD)
			assert.Equal(t, "2024-10-17T12:00:00.000Z", body.HistoricalTargetDate)
		})
	}
}

func TestPricesHandler_UpstreamFailure(t *testing.T) {
	service := &MockPriceService{}
	service.On("GetPrices", mock.Anything).
		Return(entities.PricePayload{}, entities.CacheMiss, entities.NewUpstreamStatusError("coingecko", 500))
	handler := NewPricesHandler(service, testCacheConfig())

	rec := httptest.NewRecorder()
	handler.GetPrices(rec, httptest.NewRequest(http.MethodGet, "/prices", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "public, s-maxage=30", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, `{"error":"coingecko responded with status 500"}`, rec.Body.String())
}

func TestPricesHandler_NonUpstreamErrorIsStill502(t *testing.T) {
	service := &MockPriceService{}
	service.On("GetPrices", mock.Anything).
		Return(entities.PricePayload{}, entities.CacheMiss, errors.New("context deadline exceeded"))
	handler := NewPricesHandler(service, testCacheConfig())

	rec := httptest.NewRecorder()
	handler.GetPrices(rec, httptest.NewRequest(http.MethodGet, "/prices", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"context deadline exceeded"}`, rec.Body.String())
}

func TestHealthHandler_Health(t *testing.T) {
	handler := NewHealthHandler(&MockPriceService{}, 15*time.Minute)

	rec := httptest.NewRecorder()
	handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body dto.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
}

func TestHealthHandler_Ready(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		entry *entities.CacheEntry
		ok    bool
		want  string
	}{
		{"sin entrada", nil, false, CacheCold},
		{"entrada fresca", entities.NewCacheEntry(testPayload, now.Add(-time.Minute)), true, CacheWarm},
		{"entrada vencida", entities.NewCacheEntry(testPayload, now.Add(-time.Hour)), true, CacheStale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &MockPriceService{}
			service.On("CachedEntry").Return(tt.entry, tt.ok)
			handler := NewHealthHandler(service, 15*time.Minute)
			handler.now = func() time.Time { return now }

			rec := httptest.NewRecorder()
			handler.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			var body dto.HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "ready", body.Status)
			assert.Equal(t, tt.want, body.Services["cache"])
		})
	}
}
