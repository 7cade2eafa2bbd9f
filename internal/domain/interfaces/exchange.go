package interfaces

import (
	"btc-price-service/internal/domain/entities"
	"context"
	"time"
)

// CurrentPriceProvider devuelve el precio spot BTC/USD sin redondear.
type CurrentPriceProvider interface {
	CurrentPrice(ctx context.Context) (float64, error)
}

// HistoricalPriceProvider looks up the BTC/USD price closest to target inside
// [target, target+window]. Failures wrapping entities.ErrProviderSkipped let
// the caller try the next provider; anything else is final.
type HistoricalPriceProvider interface {
	Name() string
	HistoricalPrice(ctx context.Context, target time.Time, window time.Duration) (float64, error)
}

// PriceFetcher runs the full upstream pipeline once.
type PriceFetcher interface {
	FetchPrices(ctx context.Context) (entities.PricePayload, error)
}
