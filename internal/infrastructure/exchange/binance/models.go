package binance

import (
	"btc-price-service/pkg/utils"
	"time"

	"github.com/tidwall/gjson"
)

// Posiciones dentro de cada fila de /api/v3/klines
const (
	klineClose     = 4
	klineCloseTime = 6
)

// Candle is the subset of a kline row the historical lookup needs
type Candle struct {
	CloseTimeMs int64
	Close       float64
}

// CloseAt returns the candle close time in UTC
func (c Candle) CloseAt() time.Time {
	return utils.UnixMillis(c.CloseTimeMs)
}

// newCandle descarta filas incompletas o con close no positivo
func newCandle(row gjson.Result) (Candle, bool) {
	fields := row.Array()
	if len(fields) <= klineCloseTime || fields[klineCloseTime].Type != gjson.Number {
		return Candle{}, false
	}

	closeField := fields[klineClose]
	var closePrice float64
	switch closeField.Type {
	case gjson.String:
		parsed, err := utils.ParseUSD(closeField.Str)
		if err != nil {
			return Candle{}, false
		}
		closePrice = parsed
	case gjson.Number:
		closePrice = closeField.Float()
	default:
		return Candle{}, false
	}

	if closePrice <= 0 {
		return Candle{}, false
	}

	return Candle{
		CloseTimeMs: fields[klineCloseTime].Int(),
		Close:       closePrice,
	}, true
}
