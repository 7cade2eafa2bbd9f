package entities

import "time"

// PricePayload is the body served by GET /prices. Both prices are whole USD.
type PricePayload struct {
	CurrentPriceUSD      int64  `json:"currentPriceUsd" example:"65001"`
	HistoricalPriceUSD   int64  `json:"historicalPriceUsd" example:"28512"`
	HistoricalTargetDate string `json:"historicalTargetDate" example:"2024-10-17T12:00:00.000Z"`
}

// CacheEntry is the single cached payload and the instant it was stored.
type CacheEntry struct {
	Payload  PricePayload `json:"payload"`
	CachedAt time.Time    `json:"cachedAt"`
}

func NewCacheEntry(payload PricePayload, cachedAt time.Time) *CacheEntry {
	return &CacheEntry{
		Payload:  payload,
		CachedAt: cachedAt,
	}
}

// IsFresh reports whether the entry is still servable at now.
func (e *CacheEntry) IsFresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CachedAt) < ttl
}

// Age returns how long ago the entry was stored.
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.CachedAt)
}

// CacheStatus labels how a GetPrices call was served.
type CacheStatus string

const (
	CacheHit  CacheStatus = "HIT"
	CacheMiss CacheStatus = "MISS"
)
