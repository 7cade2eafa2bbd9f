package services

import (
	"btc-price-service/internal/domain/entities"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPriceFetcher es un mock de interfaces.PriceFetcher
type MockPriceFetcher struct {
	mock.Mock
}

func (m *MockPriceFetcher) FetchPrices(ctx context.Context) (entities.PricePayload, error) {
	args := m.Called(ctx)
	return args.Get(0).(entities.PricePayload), args.Error(1)
}

// blockingFetcher cuenta llamadas y espera a release antes de responder
type blockingFetcher struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	payload entities.PricePayload
	err     error
}

func newBlockingFetcher(payload entities.PricePayload, err error) *blockingFetcher {
	return &blockingFetcher{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		payload: payload,
		err:     err,
	}
}

func (f *blockingFetcher) FetchPrices(ctx context.Context) (entities.PricePayload, error) {
	f.calls.Add(1)
	select {
	case f.started <- struct{}{}:
	default:
	}
	<-f.release
	return f.payload, f.err
}

// fakeClock permite mover el tiempo en los tests
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var samplePayload = entities.PricePayload{
	CurrentPriceUSD:      65001,
	HistoricalPriceUSD:   28512,
	HistoricalTargetDate: "2024-10-17T12:00:00.000Z",
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)}
}

func TestGetPrices_MissThenHit(t *testing.T) {
	fetcher := &MockPriceFetcher{}
	fetcher.On("FetchPrices", mock.Anything).Return(samplePayload, nil).Once()
	clock := newClock()
	service := NewPriceCacheServiceWithClock(fetcher, DefaultCacheTTL, clock.Now)

	payload, status, err := service.GetPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, samplePayload, payload)
	assert.Equal(t, entities.CacheMiss, status)

	clock.Advance(DefaultCacheTTL - time.Second)
	payload, status, err = service.GetPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, samplePayload, payload)
	assert.Equal(t, entities.CacheHit, status)

	fetcher.AssertNumberOfCalls(t, "FetchPrices", 1)
}

func TestGetPrices_ExpiredEntryRefetches(t *testing.T) {
	updated := samplePayload
	updated.CurrentPriceUSD = 66000

	fetcher := &MockPriceFetcher{}
	fetcher.On("FetchPrices", mock.Anything).Return(samplePayload, nil).Once()
	fetcher.On("FetchPrices", mock.Anything).Return(updated, nil).Once()
	clock := newClock()
	service := NewPriceCacheServiceWithClock(fetcher, DefaultCacheTTL, clock.Now)

	_, _, err := service.GetPrices(context.Background())
	require.NoError(t, err)

	clock.Advance(DefaultCacheTTL + time.Second)
	payload, status, err := service.GetPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.CacheMiss, status)
	assert.Equal(t, int64(66000), payload.CurrentPriceUSD)

	entry, ok := service.CachedEntry()
	require.True(t, ok)
	assert.Equal(t, clock.Now(), entry.CachedAt)
	fetcher.AssertExpectations(t)
}

func TestGetPrices_ExactlyTTLIsStale(t *testing.T) {
	fetcher := &MockPriceFetcher{}
	fetcher.On("FetchPrices", mock.Anything).Return(samplePayload, nil).Twice()
	clock := newClock()
	service := NewPriceCacheServiceWithClock(fetcher, 10*time.Second, clock.Now)

	_, _, err := service.GetPrices(context.Background())
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	_, status, err := service.GetPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.CacheMiss, status)
	fetcher.AssertNumberOfCalls(t, "FetchPrices", 2)
}

func TestGetPrices_ConcurrentMissesShareOneFetch(t *testing.T) {
	fetcher := newBlockingFetcher(samplePayload, nil)
	service := NewPriceCacheServiceWithClock(fetcher, DefaultCacheTTL, newClock().Now)

	const callers = 20
	var wg sync.WaitGroup
	results := make(chan entities.PricePayload, callers)
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			payload, _, err := service.GetPrices(context.Background())
			if err != nil {
				errs <- err
				return
			}
			results <- payload
		}()
	}

	<-fetcher.started
	// Dar tiempo a que el resto de goroutines se sume al vuelo en curso
	time.Sleep(50 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()
	close(results)
	close(errs)

	assert.Empty(t, errs)
	count := 0
	for payload := range results {
		assert.Equal(t, samplePayload, payload)
		count++
	}
	assert.Equal(t, callers, count)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestGetPrices_FailureReachesEveryWaiterAndIsNotCached(t *testing.T) {
	upstreamErr := entities.NewUpstreamStatusError("coingecko", 500)
	fetcher := newBlockingFetcher(entities.PricePayload{}, upstreamErr)
	service := NewPriceCacheServiceWithClock(fetcher, DefaultCacheTTL, newClock().Now)

	const callers = 5
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := service.GetPrices(context.Background())
			errs <- err
		}()
	}

	<-fetcher.started
	time.Sleep(50 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.Error(t, err)
		assert.True(t, entities.IsUpstreamError(err))
	}

	_, ok := service.CachedEntry()
	assert.False(t, ok)

	// Con el vuelo liberado, la siguiente llamada vuelve a ir upstream
	before := fetcher.calls.Load()
	_, _, err := service.GetPrices(context.Background())
	require.Error(t, err)
	assert.Equal(t, before+1, fetcher.calls.Load())
}

func TestGetPrices_FailureKeepsPreviousEntry(t *testing.T) {
	fetcher := &MockPriceFetcher{}
	fetcher.On("FetchPrices", mock.Anything).Return(samplePayload, nil).Once()
	fetcher.On("FetchPrices", mock.Anything).Return(entities.PricePayload{}, errors.New("boom")).Once()
	clock := newClock()
	service := NewPriceCacheServiceWithClock(fetcher, DefaultCacheTTL, clock.Now)

	_, _, err := service.GetPrices(context.Background())
	require.NoError(t, err)
	firstCachedAt := clock.Now()

	clock.Advance(DefaultCacheTTL + time.Minute)
	_, _, err = service.GetPrices(context.Background())
	require.Error(t, err)

	entry, ok := service.CachedEntry()
	require.True(t, ok)
	assert.Equal(t, firstCachedAt, entry.CachedAt)
	assert.Equal(t, samplePayload, entry.Payload)
}

func TestGetPrices_CancelledCallerStopsWaiting(t *testing.T) {
	fetcher := newBlockingFetcher(samplePayload, nil)
	service := NewPriceCacheServiceWithClock(fetcher, DefaultCacheTTL, newClock().Now)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := service.GetPrices(ctx)
		done <- err
	}()

	<-fetcher.started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	// El pipeline sigue y llena el cache para los siguientes
	close(fetcher.release)
	require.Eventually(t, func() bool {
		_, ok := service.CachedEntry()
		return ok
	}, time.Second, 10*time.Millisecond)

	_, status, err := service.GetPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.CacheHit, status)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestRefresh_IgnoresFreshness(t *testing.T) {
	fetcher := &MockPriceFetcher{}
	fetcher.On("FetchPrices", mock.Anything).Return(samplePayload, nil).Twice()
	service := NewPriceCacheServiceWithClock(fetcher, DefaultCacheTTL, newClock().Now)

	_, _, err := service.GetPrices(context.Background())
	require.NoError(t, err)

	payload, err := service.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, samplePayload, payload)
	fetcher.AssertNumberOfCalls(t, "FetchPrices", 2)
}

func TestNewPriceCacheService_DefaultsTTL(t *testing.T) {
	service := NewPriceCacheService(&MockPriceFetcher{}, 0)
	assert.Equal(t, DefaultCacheTTL, service.TTL())
}
