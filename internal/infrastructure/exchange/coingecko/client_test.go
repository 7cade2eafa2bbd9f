package coingecko

import (
	"btc-price-service/internal/domain/entities"
	"btc-price-service/internal/infrastructure/config"
	"btc-price-service/internal/infrastructure/exchange/transport"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createMockServer crea un servidor mock que responde con status y body fijos
func createMockServer(statusCode int, response string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(response))
	}))
}

func newTestClient(baseURL, apiKey string) *Client {
	return NewClient(
		config.CoinGeckoConfig{BaseURL: baseURL, APIKey: apiKey, APIKeyHeader: "x-cg-demo-api-key"},
		config.HistoricalConfig{Window: 14 * 24 * time.Hour, SkippableStatuses: []int{401}},
		transport.NewClient(ServiceName, transport.Options{Timeout: 2 * time.Second}),
	)
}

func TestClient_CurrentPrice(t *testing.T) {
	tests := []struct {
		name          string
		statusCode    int
		response      string
		expectedPrice float64
		errorContains string
	}{
		{
			name:          "valid price",
			statusCode:    http.StatusOK,
			response:      `{"bitcoin":{"usd":65000.7}}`,
			expectedPrice: 65000.7,
		},
		{
			name:          "integer price",
			statusCode:    http.StatusOK,
			response:      `{"bitcoin":{"usd":64000}}`,
			expectedPrice: 64000,
		},
		{
			name:          "server error",
			statusCode:    http.StatusInternalServerError,
			response:      `{"error":"internal"}`,
			errorContains: "status 500",
		},
		{
			name:          "rate limited",
			statusCode:    http.StatusTooManyRequests,
			response:      `{"status":{"error_code":429}}`,
			errorContains: "status 429",
		},
		{
			name:          "malformed json",
			statusCode:    http.StatusOK,
			response:      `{"bitcoin":`,
			errorContains: "malformed",
		},
		{
			name:          "missing field",
			statusCode:    http.StatusOK,
			response:      `{"ethereum":{"usd":3200}}`,
			errorContains: "no bitcoin.usd",
		},
		{
			name:          "string price",
			statusCode:    http.StatusOK,
			response:      `{"bitcoin":{"usd":"65000"}}`,
			errorContains: "no bitcoin.usd",
		},
		{
			name:          "zero price",
			statusCode:    http.StatusOK,
			response:      `{"bitcoin":{"usd":0}}`,
			errorContains: "not positive",
		},
		{
			name:          "negative price",
			statusCode:    http.StatusOK,
			response:      `{"bitcoin":{"usd":-1}}`,
			errorContains: "not positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := createMockServer(tt.statusCode, tt.response)
			defer server.Close()

			price, err := newTestClient(server.URL, "").CurrentPrice(context.Background())

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.True(t, entities.IsUpstreamError(err))
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedPrice, price)
		})
	}
}

func TestClient_CurrentPrice_RequestShape(t *testing.T) {
	var path, ids, vs, key string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		ids = r.URL.Query().Get("ids")
		vs = r.URL.Query().Get("vs_currencies")
		key = r.Header.Get("x-cg-demo-api-key")
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":1}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, "demo-key").CurrentPrice(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/simple/price", path)
	assert.Equal(t, "bitcoin", ids)
	assert.Equal(t, "usd", vs)
	assert.Equal(t, "demo-key", key)
}

func TestClient_CurrentPrice_TransportFailure(t *testing.T) {
	server := createMockServer(http.StatusOK, `{}`)
	server.Close()

	_, err := newTestClient(server.URL, "").CurrentPrice(context.Background())
	require.Error(t, err)
	assert.True(t, entities.IsUpstreamError(err))
	assert.ErrorIs(t, err, transport.ErrTransport)
}

func TestClient_HistoricalPrice_PicksClosestPoint(t *testing.T) {
	target := time.Date(2024, 10, 17, 12, 0, 0, 0, time.UTC)
	ms := target.UnixMilli()

	var from, to, key string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart/range", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		from = r.URL.Query().Get("from")
		to = r.URL.Query().Get("to")
		key = r.Header.Get("x-cg-demo-api-key")
		_, _ = fmt.Fprintf(w, `{"prices":[[%d,61000.1],[%d,62000.2],[%d,63000.3],[%d,64000.4]]}`,
			ms-5000, ms-10, ms+10, ms+9999)
	}))
	defer server.Close()

	price, err := newTestClient(server.URL, "secret").HistoricalPrice(context.Background(), target, 14*24*time.Hour)

	require.NoError(t, err)
	assert.Equal(t, 62000.2, price)
	assert.Equal(t, strconv.FormatInt(target.Unix(), 10), from)
	assert.Equal(t, strconv.FormatInt(target.Add(14*24*time.Hour).Unix(), 10), to)
	assert.Equal(t, "secret", key)
}

func TestClient_HistoricalPrice_IgnoresUnusablePoints(t *testing.T) {
	target := time.Date(2024, 10, 17, 12, 0, 0, 0, time.UTC)
	ms := target.UnixMilli()
	server := createMockServer(http.StatusOK, fmt.Sprintf(
		`{"prices":[[%d,null],[%d,0],["x",1],[%d],[%d,59000.5]]}`, ms, ms, ms, ms+3_600_000))
	defer server.Close()

	price, err := newTestClient(server.URL, "secret").HistoricalPrice(context.Background(), target, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 59000.5, price)
}

func TestClient_HistoricalPrice_Failures(t *testing.T) {
	tests := []struct {
		name        string
		statusCode  int
		response    string
		skippable   bool
		errContains string
	}{
		{
			name:        "unauthorized is skippable",
			statusCode:  http.StatusUnauthorized,
			response:    `{"status":{"error_code":10002}}`,
			skippable:   true,
			errContains: "status 401",
		},
		{
			name:        "server error is fatal",
			statusCode:  http.StatusInternalServerError,
			response:    `{}`,
			errContains: "status 500",
		},
		{
			name:        "rate limit is fatal by default",
			statusCode:  http.StatusTooManyRequests,
			response:    `{}`,
			errContains: "status 429",
		},
		{
			name:        "empty dataset is skippable",
			statusCode:  http.StatusOK,
			response:    `{"prices":[]}`,
			skippable:   true,
			errContains: "no price points",
		},
		{
			name:        "malformed payload is fatal",
			statusCode:  http.StatusOK,
			response:    `{"prices":`,
			errContains: "malformed",
		},
		{
			name:        "missing prices array is fatal",
			statusCode:  http.StatusOK,
			response:    `{"market_caps":[]}`,
			errContains: "no prices array",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := createMockServer(tt.statusCode, tt.response)
			defer server.Close()

			_, err := newTestClient(server.URL, "secret").HistoricalPrice(context.Background(), time.Now(), time.Hour)

			require.Error(t, err)
			assert.Equal(t, tt.skippable, errors.Is(err, entities.ErrProviderSkipped))
			assert.Contains(t, err.Error(), tt.errContains)
			if !tt.skippable {
				assert.True(t, entities.IsUpstreamError(err))
			}
		})
	}
}

func TestClient_HistoricalPrice_ConfigurableSkippableStatuses(t *testing.T) {
	server := createMockServer(http.StatusTooManyRequests, `{}`)
	defer server.Close()

	client := NewClient(
		config.CoinGeckoConfig{BaseURL: server.URL, APIKey: "secret", APIKeyHeader: "x-cg-pro-api-key"},
		config.HistoricalConfig{SkippableStatuses: []int{401, 429}},
		transport.NewClient(ServiceName, transport.Options{}),
	)

	_, err := client.HistoricalPrice(context.Background(), time.Now(), time.Hour)
	assert.ErrorIs(t, err, entities.ErrProviderSkipped)
}

func TestClient_HistoricalPrice_NoAPIKeyIsSkippedWithoutRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")
	_, err := client.HistoricalPrice(context.Background(), time.Now(), time.Hour)

	assert.ErrorIs(t, err, entities.ErrProviderSkipped)
	assert.False(t, called)
	assert.False(t, client.HasAPIKey())
	assert.Equal(t, "coingecko", client.Name())
}
