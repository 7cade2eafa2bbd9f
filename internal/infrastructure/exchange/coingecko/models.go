package coingecko

import (
	"btc-price-service/pkg/utils"
	"time"

	"github.com/tidwall/gjson"
)

// PricePoint is one [timestampMs, price] pair of a market_chart response
type PricePoint struct {
	TimestampMs int64
	Price       float64
}

// Time returns the point timestamp in UTC
func (p PricePoint) Time() time.Time {
	return utils.UnixMillis(p.TimestampMs)
}

// newPricePoint acepta solo pares [número, número positivo]
func newPricePoint(pair gjson.Result) (PricePoint, bool) {
	values := pair.Array()
	if len(values) < 2 || values[0].Type != gjson.Number || values[1].Type != gjson.Number {
		return PricePoint{}, false
	}

	point := PricePoint{
		TimestampMs: values[0].Int(),
		Price:       values[1].Float(),
	}
	if !isPositivePrice(point.Price) {
		return PricePoint{}, false
	}
	return point, true
}
