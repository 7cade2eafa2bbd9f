package coingecko

import (
	"btc-price-service/internal/domain/entities"
	"btc-price-service/internal/infrastructure/config"
	"btc-price-service/internal/infrastructure/exchange/transport"
	"btc-price-service/pkg/utils"
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

const (
	ServiceName = "coingecko"

	endpointSimplePrice      = "/simple/price"
	endpointMarketChartRange = "/coins/bitcoin/market_chart/range"
)

// Client reads BTC/USD prices from the CoinGecko REST API. It serves the
// current spot price and, when an API key is configured, the keyed
// market_chart/range historical lookup.
type Client struct {
	baseURL      string
	apiKey       string
	apiKeyHeader string
	skippable    map[int]struct{}
	http         *transport.Client
}

// NewClient crea el cliente de CoinGecko a partir de la configuración
func NewClient(cfg config.CoinGeckoConfig, historical config.HistoricalConfig, httpClient *transport.Client) *Client {
	skippable := make(map[int]struct{}, len(historical.SkippableStatuses))
	for _, status := range historical.SkippableStatuses {
		skippable[status] = struct{}{}
	}

	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		apiKeyHeader: cfg.APIKeyHeader,
		skippable:    skippable,
		http:         httpClient,
	}
}

// Name identifies the provider in the historical chain
func (c *Client) Name() string {
	return ServiceName
}

// HasAPIKey reports whether the keyed historical endpoint can be used
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

func (c *Client) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{c.apiKeyHeader: c.apiKey}
}

// CurrentPrice returns the unrounded spot BTC/USD price
func (c *Client) CurrentPrice(ctx context.Context) (float64, error) {
	query := url.Values{}
	query.Set("ids", "bitcoin")
	query.Set("vs_currencies", "usd")
	rawURL := c.baseURL + endpointSimplePrice + "?" + query.Encode()

	resp, err := c.http.Get(ctx, endpointSimplePrice, rawURL, c.headers())
	if err != nil {
		return 0, entities.WrapUpstreamError(ServiceName, "coingecko current price request failed", err)
	}
	if !resp.IsSuccess() {
		return 0, entities.NewUpstreamStatusError(ServiceName, resp.StatusCode)
	}

	return parseSimplePrice(resp.Body)
}

// HistoricalPrice returns the price point closest to target inside
// [target, target+window]. Statuses configured as skippable (401 by default)
// and empty datasets wrap entities.ErrProviderSkipped.
func (c *Client) HistoricalPrice(ctx context.Context, target time.Time, window time.Duration) (float64, error) {
	if !c.HasAPIKey() {
		return 0, fmt.Errorf("%w: coingecko api key not configured", entities.ErrProviderSkipped)
	}

	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("from", strconv.FormatInt(target.Unix(), 10))
	query.Set("to", strconv.FormatInt(target.Add(window).Unix(), 10))
	rawURL := c.baseURL + endpointMarketChartRange + "?" + query.Encode()

	resp, err := c.http.Get(ctx, endpointMarketChartRange, rawURL, c.headers())
	if err != nil {
		return 0, entities.WrapUpstreamError(ServiceName, "coingecko historical request failed", err)
	}

	if !resp.IsSuccess() {
		statusErr := entities.NewUpstreamStatusError(ServiceName, resp.StatusCode)
		if _, ok := c.skippable[resp.StatusCode]; ok {
			return 0, fmt.Errorf("%w: %w", entities.ErrProviderSkipped, statusErr)
		}
		return 0, statusErr
	}

	points, err := parseMarketChart(resp.Body)
	if err != nil {
		return 0, err
	}

	closest, ok := utils.PickClosest(points, target, PricePoint.Time)
	if !ok {
		return 0, fmt.Errorf("%w: coingecko returned no price points", entities.ErrProviderSkipped)
	}
	return closest.Price, nil
}

func parseSimplePrice(body []byte) (float64, error) {
	if !gjson.ValidBytes(body) {
		return 0, entities.NewUpstreamError(ServiceName, "coingecko returned malformed current price payload")
	}

	usd := gjson.GetBytes(body, "bitcoin.usd")
	if !usd.Exists() || usd.Type != gjson.Number {
		return 0, entities.NewUpstreamError(ServiceName, "coingecko current price payload has no bitcoin.usd")
	}

	price := usd.Float()
	if !isPositivePrice(price) {
		return 0, entities.NewUpstreamError(ServiceName, fmt.Sprintf("coingecko current price is not positive: %v", price))
	}
	return price, nil
}

func parseMarketChart(body []byte) ([]PricePoint, error) {
	if !gjson.ValidBytes(body) {
		return nil, entities.NewUpstreamError(ServiceName, "coingecko returned malformed market chart payload")
	}

	prices := gjson.GetBytes(body, "prices")
	if !prices.IsArray() {
		return nil, entities.NewUpstreamError(ServiceName, "coingecko market chart payload has no prices array")
	}

	var points []PricePoint
	prices.ForEach(func(_, pair gjson.Result) bool {
		if point, ok := newPricePoint(pair); ok {
			points = append(points, point)
		}
		return true
	})
	return points, nil
}

func isPositivePrice(price float64) bool {
	return price > 0 && !math.IsInf(price, 0) && !math.IsNaN(price)
}
