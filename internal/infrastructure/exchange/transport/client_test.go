package transport

import (
	"btc-price-service/internal/infrastructure/ratelimit"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get_Success(t *testing.T) {
	var gotUA, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotKey = r.Header.Get("x-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient("test", Options{Timeout: time.Second})
	resp, err := client.Get(context.Background(), "/ok", server.URL, map[string]string{"x-api-key": "k"})

	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "k", gotKey)
}

func TestClient_Get_StatusIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer server.Close()

	client := NewClient("test", Options{Timeout: time.Second, MaxAttempts: 3, Backoff: time.Millisecond})
	resp, err := client.Get(context.Background(), "/boom", server.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, int32(1), calls.Load())
}

// closedAddr returns an address with nothing listening on it
func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return "http://" + addr
}

func TestClient_Get_TransportErrorSingleAttemptByDefault(t *testing.T) {
	var attempts atomic.Int32
	httpClient := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		attempts.Add(1)
		return http.DefaultTransport.RoundTrip(r)
	})}

	client := NewClientWithHTTP("test", httpClient, Options{})
	_, err := client.Get(context.Background(), "/down", closedAddr(t), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_Get_TransportErrorRetriedWhenEnabled(t *testing.T) {
	var attempts atomic.Int32
	httpClient := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		attempts.Add(1)
		return http.DefaultTransport.RoundTrip(r)
	})}

	client := NewClientWithHTTP("test", httpClient, Options{MaxAttempts: 3, Backoff: time.Millisecond})
	_, err := client.Get(context.Background(), "/down", closedAddr(t), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_Get_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test", Options{MaxAttempts: 3, Backoff: time.Millisecond})
	_, err := client.Get(ctx, "/cancel", server.URL, nil)
	assert.Error(t, err)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestClient_Get_LimiterBlocksUntilContextDone(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("test", Options{
		Timeout: time.Second,
		Limiter: ratelimit.NewUpstreamLimiter("test", 1, 1),
	})

	_, err := client.Get(context.Background(), "/ok", server.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Get(ctx, "/ok", server.URL, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, int32(1), calls.Load())
}
