package main

import (
	"btc-price-service/internal/application/dto"
	"btc-price-service/internal/domain/entities"
	"btc-price-service/internal/infrastructure/config"
	"btc-price-service/internal/infrastructure/exchange"
	"btc-price-service/internal/infrastructure/logging"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
)

// newApp builds the pricectl command tree writing results to out
func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "pricectl",
		Usage: "BTC price service operator tool",
		Commands: []*cli.Command{
			fetchCommand(out),
			getCommand(out),
		},
	}
}

// fetchCommand runs the upstream pipeline once, without the cache
func fetchCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "fetch prices from the upstream providers using the service config",
		UsageText: "pricectl fetch [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the raw JSON payload",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log upstream requests to stderr",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.NewLoader().LoadAndValidate()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			// Los logs van a stderr para no mezclarse con la salida
			loggerConfig := logging.NewConfig("pricectl", "dev", "cli").
				WithLevel(logging.LevelWarn).
				WithFormat(logging.FormatText).
				WithOutput(os.Stderr)
			if err := logging.InitializeGlobalLoggers(loggerConfig); err != nil {
				return err
			}
			if cmd.Bool("verbose") {
				logging.SetGlobalLogLevel(logging.LevelDebug)
			}

			payload, err := exchange.NewPriceFetcherFromConfig(cfg).FetchPrices(ctx)
			if err != nil {
				return err
			}

			if cmd.Bool("json") {
				return writeJSONPayload(out, payload)
			}
			return writeHumanPayload(out, payload, "")
		},
	}
}

// getCommand calls a running service's /prices endpoint
func getCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "get prices from a running service",
		UsageText: "pricectl get --url http://localhost:8080 [--json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "base URL of the service",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("PRICECTL_URL"),
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "request timeout",
				Value: 30 * time.Second,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the raw JSON payload",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			payload, xCache, err := getPrices(ctx, cmd.String("url"), cmd.Duration("timeout"))
			if err != nil {
				return err
			}

			if cmd.Bool("json") {
				return writeJSONPayload(out, payload)
			}
			return writeHumanPayload(out, payload, xCache)
		},
	}
}

func getPrices(ctx context.Context, baseURL string, timeout time.Duration) (entities.PricePayload, string, error) {
	endpoint := strings.TrimSuffix(baseURL, "/") + "/prices"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return entities.PricePayload{}, "", fmt.Errorf("invalid url %q: %w", baseURL, err)
	}
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return entities.PricePayload{}, "", fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	xCache := resp.Header.Get("X-Cache")

	if resp.StatusCode != http.StatusOK {
		var errBody dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Error != "" {
			return entities.PricePayload{}, xCache, fmt.Errorf("service responded %d: %s", resp.StatusCode, errBody.Error)
		}
		return entities.PricePayload{}, xCache, fmt.Errorf("service responded %d", resp.StatusCode)
	}

	var body dto.PricesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return entities.PricePayload{}, xCache, fmt.Errorf("failed to decode response: %w", err)
	}

	return entities.PricePayload{
		CurrentPriceUSD:      body.CurrentPriceUSD,
		HistoricalPriceUSD:   body.HistoricalPriceUSD,
		HistoricalTargetDate: body.HistoricalTargetDate,
	}, xCache, nil
}
