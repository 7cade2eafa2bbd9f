package binance

import (
	"btc-price-service/internal/domain/entities"
	"btc-price-service/internal/infrastructure/config"
	"btc-price-service/internal/infrastructure/exchange/transport"
	"btc-price-service/pkg/utils"
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

const (
	ServiceName = "binance"

	endpointKlines = "/api/v3/klines"
	dailyInterval  = "1d"
)

// Client reads public daily candles from Binance. It is the last provider of
// the historical chain, so it never reports a skippable failure.
type Client struct {
	baseURL string
	symbol  string
	http    *transport.Client
}

// NewClient crea el cliente de velas de Binance
func NewClient(cfg config.BinanceConfig, httpClient *transport.Client) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		symbol:  cfg.Symbol,
		http:    httpClient,
	}
}

func (c *Client) Name() string {
	return ServiceName
}

// HistoricalPrice returns the close of the daily candle whose close time is
// nearest to target, looking at candles in [target, target+window].
func (c *Client) HistoricalPrice(ctx context.Context, target time.Time, window time.Duration) (float64, error) {
	query := url.Values{}
	query.Set("symbol", c.symbol)
	query.Set("interval", dailyInterval)
	query.Set("startTime", strconv.FormatInt(target.UnixMilli(), 10))
	query.Set("endTime", strconv.FormatInt(target.Add(window).UnixMilli(), 10))
	rawURL := c.baseURL + endpointKlines + "?" + query.Encode()

	resp, err := c.http.Get(ctx, endpointKlines, rawURL, nil)
	if err != nil {
		return 0, entities.WrapUpstreamError(ServiceName, "binance candle request failed", err)
	}
	if !resp.IsSuccess() {
		return 0, entities.NewUpstreamStatusError(ServiceName, resp.StatusCode)
	}

	candles, err := parseKlines(resp.Body)
	if err != nil {
		return 0, err
	}

	closest, ok := utils.PickClosest(candles, target, Candle.CloseAt)
	if !ok {
		return 0, entities.NewUpstreamError(ServiceName, "binance returned no usable candle")
	}
	return closest.Close, nil
}

func parseKlines(body []byte) ([]Candle, error) {
	if !gjson.ValidBytes(body) {
		return nil, entities.NewUpstreamError(ServiceName, "binance returned malformed candle payload")
	}

	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, entities.NewUpstreamError(ServiceName, "binance candle payload is not an array")
	}

	var candles []Candle
	root.ForEach(func(_, row gjson.Result) bool {
		if candle, ok := newCandle(row); ok {
			candles = append(candles, candle)
		}
		return true
	})
	return candles, nil
}
