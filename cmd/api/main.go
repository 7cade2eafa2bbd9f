// @title BTC Price Service API
// @version 1.0
// @description Current BTC/USD price and the price two years earlier, cached in memory with single-flight refresh.
// @host localhost:8080
// @BasePath /
package main

import (
	"btc-price-service/internal/application/services"
	"btc-price-service/internal/infrastructure/config"
	"btc-price-service/internal/infrastructure/exchange"
	"btc-price-service/internal/infrastructure/logging"
	"btc-price-service/internal/infrastructure/metrics"
	"btc-price-service/internal/infrastructure/web/handlers"
	"btc-price-service/internal/infrastructure/web/router"
	"btc-price-service/internal/infrastructure/web/server"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "btc-price-service: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewLoader().LoadAndValidate()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	environment := "production"
	if cfg.Development.MockMode {
		environment = "development"
	}

	loggerConfig := logging.NewConfig("btc-price-service", version, environment).
		WithLevel(logging.LogLevelFromString(cfg.Logging.Level)).
		WithFormat(logging.LogFormatFromString(cfg.Logging.Format))
	if err := logging.InitializeGlobalLoggers(loggerConfig); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info(ctx, "Starting BTC price service", logging.Fields{
		"version":   version,
		"port":      cfg.Server.Port,
		"cache_ttl": cfg.Cache.TTL().String(),
		"mock_mode": cfg.Development.MockMode,
	})
	metrics.SetApplicationInfo(version, runtime.Version())

	fetcher := exchange.NewPriceFetcherFromConfig(cfg)
	priceService := services.NewPriceCacheService(fetcher, cfg.Cache.TTL())

	if cfg.Cache.Warmup {
		// Un fallo aqui no es fatal, la primera request reintenta
		if err := services.Warmup(ctx, priceService); err != nil {
			logging.WarnWithError(ctx, "Failed to pre-warm price cache, starting cold", err, nil)
		}
	}

	if cfg.Cache.RefreshInterval > 0 {
		go services.RunBackgroundRefresh(ctx, priceService, cfg.Cache.RefreshInterval)
	}

	handler := router.New(router.Handlers{
		Prices: handlers.NewPricesHandler(priceService, cfg.Cache),
		Health: handlers.NewHealthHandler(priceService, cfg.Cache.TTL()),
	})
	srv := server.NewServer(handler, cfg.Server.Port, cfg.Upstream.Timeout)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info(context.Background(), "Shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logging.ErrorWithError(shutdownCtx, "Server forced to shutdown", err, nil)
		return err
	}

	logging.Info(shutdownCtx, "Server exited", nil)
	return nil
}
