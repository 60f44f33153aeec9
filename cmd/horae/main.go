package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/UnknownOlympus/horae/internal/api"
	"github.com/UnknownOlympus/horae/internal/attendance"
	"github.com/UnknownOlympus/horae/internal/auth"
	"github.com/UnknownOlympus/horae/internal/client"
	"github.com/UnknownOlympus/horae/internal/config"
	"github.com/UnknownOlympus/horae/internal/console"
	"github.com/UnknownOlympus/horae/internal/metrics"
	"github.com/UnknownOlympus/horae/internal/repository"
	"github.com/UnknownOlympus/horae/internal/review"
	"github.com/UnknownOlympus/horae/internal/server"
	"github.com/UnknownOlympus/horae/internal/session"
	"github.com/UnknownOlympus/horae/internal/storage"
	"github.com/UnknownOlympus/horae/internal/validate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	store, closeStorage, err := openStorage(ctx, logger, cfg, appMetrics)
	if err != nil {
		log.Fatalf("Failed to open client storage: %v", err)
	}
	defer closeStorage()

	httpClient := client.CreateHTTPClient(logger, cfg.API.InsecureTLS)
	transport, err := client.NewTransport(logger, httpClient, cfg.API.BaseURL, store, cfg.Storage.TokenKey)
	if err != nil {
		log.Fatalf("Failed to create API transport: %v", err)
	}

	gateway := api.NewGateway(logger, transport, appMetrics)
	authService := auth.NewService(logger, gateway, store, cfg.Storage.TokenKey, validate.New(), appMetrics)
	flow := attendance.NewFlow(logger, gateway, appMetrics)
	reviewer := review.NewReviewer(logger, gateway, appMetrics)

	if cfg.Monitoring.Port != 0 {
		wgr.Add(1)
		go func() {
			defer wgr.Done()
			server.StartMonitoringServer(ctx, logger, reg, store, transport.BaseURL(), httpClient, cfg.Monitoring.Port)
		}()
	}

	logger.InfoContext(ctx, "Application started", "api", transport.BaseURL(), "storage", cfg.Storage.Driver)

	con := console.New(logger, os.Stdin, os.Stdout, authService, flow, reviewer)
	if err = con.Run(session.NewContext(ctx, session.NewStore())); err != nil && ctx.Err() == nil {
		logger.ErrorContext(ctx, "Console stopped with error", "error", err)
	}

	stop()
	wgr.Wait()

	logger.InfoContext(context.Background(), "Application stopped gracefully...")
}

// openStorage selects the durable storage that keeps the bearer token between runs.
func openStorage(
	ctx context.Context,
	logger *slog.Logger,
	cfg *config.Config,
	appMetrics *metrics.Metrics,
) (storage.Storage, func(), error) {
	if cfg.Storage.Driver != config.DriverPostgres {
		store, err := storage.NewFile(logger, cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}

	dtb, err := repository.NewDatabase(ctx, repository.OptionsFromConfig(cfg.Postgres))
	if err != nil {
		return nil, nil, err
	}

	return repository.NewStorageRepository(dtb, appMetrics, cfg.Storage.Namespace), dtb.Close, nil
}

// setupLogger initializes and returns a logger based on the environment provided.
// Logs go to stderr, stdout belongs to the console.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
