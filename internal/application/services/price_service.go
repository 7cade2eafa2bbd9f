package services

import (
	"btc-price-service/internal/domain/entities"
	"btc-price-service/internal/domain/interfaces"
	"btc-price-service/internal/infrastructure/logging"
	"btc-price-service/internal/infrastructure/metrics"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheTTL = 900 * time.Second
	CacheKey        = "btc-prices"
)

// PriceCacheService holds the single cached price payload and makes sure at
// most one upstream pipeline runs at a time. Callers that miss the cache while
// a refresh is pending share its outcome.
type PriceCacheService struct {
	fetcher interfaces.PriceFetcher
	ttl     time.Duration
	now     func() time.Time

	entry atomic.Pointer[entities.CacheEntry]
	group singleflight.Group
}

// NewPriceCacheService creates the service with the wall clock
func NewPriceCacheService(fetcher interfaces.PriceFetcher, ttl time.Duration) *PriceCacheService {
	return NewPriceCacheServiceWithClock(fetcher, ttl, time.Now)
}

// NewPriceCacheServiceWithClock creates the service with an injected clock
func NewPriceCacheServiceWithClock(fetcher interfaces.PriceFetcher, ttl time.Duration, now func() time.Time) *PriceCacheService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &PriceCacheService{
		fetcher: fetcher,
		ttl:     ttl,
		now:     now,
	}
}

// TTL returns the freshness window
func (s *PriceCacheService) TTL() time.Duration {
	return s.ttl
}

// GetPrices serves the cached payload while it is fresh, otherwise joins or
// starts the single in-flight refresh.
func (s *PriceCacheService) GetPrices(ctx context.Context) (entities.PricePayload, entities.CacheStatus, error) {
	now := s.now()
	if entry := s.entry.Load(); entry != nil && entry.IsFresh(now, s.ttl) {
		age := entry.Age(now)
		metrics.RecordCacheLookup(true)
		metrics.UpdateCacheAge(age.Seconds())
		logging.Cache().Hit(ctx, CacheKey, age)
		return entry.Payload, entities.CacheHit, nil
	}

	metrics.RecordCacheLookup(false)
	logging.Cache().Miss(ctx, CacheKey)

	payload, err := s.refresh(ctx, false)
	if err != nil {
		return entities.PricePayload{}, entities.CacheMiss, err
	}
	return payload, entities.CacheMiss, nil
}

// Refresh runs the pipeline regardless of freshness. A refresh already in
// flight is joined instead of starting a second one.
func (s *PriceCacheService) Refresh(ctx context.Context) (entities.PricePayload, error) {
	return s.refresh(ctx, true)
}

// CachedEntry returns the current entry, fresh or stale
func (s *PriceCacheService) CachedEntry() (*entities.CacheEntry, bool) {
	entry := s.entry.Load()
	return entry, entry != nil
}

func (s *PriceCacheService) refresh(ctx context.Context, force bool) (entities.PricePayload, error) {
	// El pipeline corre con un contexto sin cancelación: si el llamador que lo
	// inició se va, los demás siguen esperando el mismo resultado
	fetchCtx := context.WithoutCancel(ctx)
	results := s.group.DoChan(CacheKey, func() (interface{}, error) {
		return s.runPipeline(fetchCtx, force)
	})

	select {
	case res := <-results:
		if res.Shared {
			metrics.RecordCoalescedRequest()
		}
		if res.Err != nil {
			return entities.PricePayload{}, res.Err
		}
		payload, ok := res.Val.(entities.PricePayload)
		if !ok {
			return entities.PricePayload{}, fmt.Errorf("unexpected refresh result type %T", res.Val)
		}
		return payload, nil
	case <-ctx.Done():
		return entities.PricePayload{}, ctx.Err()
	}
}

func (s *PriceCacheService) runPipeline(ctx context.Context, force bool) (entities.PricePayload, error) {
	// Otro vuelo pudo haber guardado una entrada entre el lookup y este punto
	if !force {
		if entry := s.entry.Load(); entry != nil && entry.IsFresh(s.now(), s.ttl) {
			return entry.Payload, nil
		}
	}

	start := time.Now()
	payload, err := s.fetcher.FetchPrices(ctx)
	metrics.RecordPriceRefresh(err == nil, time.Since(start).Seconds())
	if err != nil {
		logging.Cache().RefreshFailed(ctx, CacheKey, err)
		return entities.PricePayload{}, err
	}

	s.entry.Store(entities.NewCacheEntry(payload, s.now()))
	metrics.UpdateCurrentPrices(payload.CurrentPriceUSD, payload.HistoricalPriceUSD)
	metrics.UpdateCacheAge(0)
	logging.Cache().Stored(ctx, CacheKey, s.ttl, logging.Fields{
		logging.FieldCurrentPrice:  payload.CurrentPriceUSD,
		logging.FieldHistoricalUSD: payload.HistoricalPriceUSD,
		logging.FieldTargetDate:    payload.HistoricalTargetDate,
	})

	return payload, nil
}
