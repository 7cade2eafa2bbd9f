package exchange

import (
	"btc-price-service/internal/infrastructure/logging"
	"context"
	"math/rand"
	"time"
)

// MockExchange serves realistic fake prices without network access. It backs
// MOCK_MODE for local development and satisfies both provider interfaces.
type MockExchange struct {
	currentBase    float64
	historicalBase float64
	variance       float64 // variación relativa, ±variance
}

// NewMockExchange crea una nueva instancia del mock exchange
func NewMockExchange() *MockExchange {
	return &MockExchange{
		currentBase:    65000.0,
		historicalBase: 28500.0,
		variance:       0.02,
	}
}

func (m *MockExchange) Name() string {
	return "mock"
}

// CurrentPrice retorna un precio spot falso con volatilidad simulada
func (m *MockExchange) CurrentPrice(ctx context.Context) (float64, error) {
	price := m.jitter(m.currentBase)
	logging.Debug(ctx, "MockExchange: current price", logging.Fields{
		logging.FieldProvider: m.Name(),
		"amount":              price,
	})
	return price, nil
}

// HistoricalPrice retorna un precio histórico falso
func (m *MockExchange) HistoricalPrice(ctx context.Context, target time.Time, _ time.Duration) (float64, error) {
	price := m.jitter(m.historicalBase)
	logging.Debug(ctx, "MockExchange: historical price", logging.Fields{
		logging.FieldProvider:   m.Name(),
		logging.FieldTargetDate: target.Format(time.RFC3339),
		"amount":                price,
	})
	return price, nil
}

func (m *MockExchange) jitter(base float64) float64 {
	variation := (rand.Float64()*2 - 1) * m.variance
	return base * (1 + variation)
}
