package exchange

import (
	"btc-price-service/internal/domain/entities"
	"btc-price-service/internal/domain/interfaces"
	"btc-price-service/internal/infrastructure/logging"
	"btc-price-service/pkg/utils"
	"context"
	"fmt"
	"time"
)

const (
	// HistoricalYearsBack is how far back the historical price is taken
	HistoricalYearsBack = 2
	// DefaultHistoricalWindow is the lookup window after the target instant
	DefaultHistoricalWindow = 14 * 24 * time.Hour
)

// PriceFetcher runs the upstream pipeline: current price, then the historical
// price two calendar years back, both rounded to whole USD.
type PriceFetcher struct {
	current    interfaces.CurrentPriceProvider
	historical interfaces.HistoricalPriceProvider
	window     time.Duration
	now        func() time.Time
}

// NewPriceFetcher crea el pipeline con reloj real
func NewPriceFetcher(current interfaces.CurrentPriceProvider, historical interfaces.HistoricalPriceProvider, window time.Duration) *PriceFetcher {
	return NewPriceFetcherWithClock(current, historical, window, time.Now)
}

// NewPriceFetcherWithClock crea el pipeline con un reloj inyectado (tests)
func NewPriceFetcherWithClock(current interfaces.CurrentPriceProvider, historical interfaces.HistoricalPriceProvider, window time.Duration, now func() time.Time) *PriceFetcher {
	if window <= 0 {
		window = DefaultHistoricalWindow
	}
	return &PriceFetcher{
		current:    current,
		historical: historical,
		window:     window,
		now:        now,
	}
}

// FetchPrices executes the pipeline once. Every failure is an *entities.UpstreamError.
func (f *PriceFetcher) FetchPrices(ctx context.Context) (entities.PricePayload, error) {
	currentRaw, err := f.current.CurrentPrice(ctx)
	if err != nil {
		return entities.PricePayload{}, asUpstreamError("current_price", err)
	}

	target := utils.YearsBefore(f.now(), HistoricalYearsBack)

	historicalRaw, err := f.historical.HistoricalPrice(ctx, target, f.window)
	if err != nil {
		return entities.PricePayload{}, asUpstreamError(f.historical.Name(), err)
	}

	payload := entities.PricePayload{
		CurrentPriceUSD:      utils.RoundUSD(currentRaw),
		HistoricalPriceUSD:   utils.RoundUSD(historicalRaw),
		HistoricalTargetDate: utils.FormatISO(target),
	}

	if payload.CurrentPriceUSD < 1 {
		return entities.PricePayload{}, entities.NewUpstreamError("current_price",
			fmt.Sprintf("current price rounds below 1 USD: %v", currentRaw))
	}
	if payload.HistoricalPriceUSD < 1 {
		return entities.PricePayload{}, entities.NewUpstreamError(f.historical.Name(),
			fmt.Sprintf("historical price rounds below 1 USD: %v", historicalRaw))
	}

	logging.Info(ctx, "Upstream prices fetched", logging.Fields{
		logging.FieldCurrentPrice:  payload.CurrentPriceUSD,
		logging.FieldHistoricalUSD: payload.HistoricalPriceUSD,
		logging.FieldTargetDate:    payload.HistoricalTargetDate,
	})

	return payload, nil
}

// asUpstreamError keeps UpstreamErrors as they are and wraps anything else
func asUpstreamError(stage string, err error) error {
	if entities.IsUpstreamError(err) {
		return err
	}
	return entities.WrapUpstreamError(stage, stage+" lookup failed", err)
}
