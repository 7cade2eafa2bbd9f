package interfaces

import (
	"btc-price-service/internal/domain/entities"
	"context"
)

// PriceService define los casos de uso del cache de precios BTC
type PriceService interface {
	// GetPrices sirve desde cache mientras esté fresco; en miss comparte
	// una única consulta upstream entre todos los llamadores concurrentes
	GetPrices(ctx context.Context) (entities.PricePayload, entities.CacheStatus, error)

	// Refresh fuerza una consulta upstream (warmup y refresco en background)
	Refresh(ctx context.Context) (entities.PricePayload, error)

	// CachedEntry retorna la entrada actual, fresca o no, sin consultar upstream
	CachedEntry() (*entities.CacheEntry, bool)
}
