package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/damon-houk/currency-converter/internal/application/service"
	"github.com/damon-houk/currency-converter/internal/domain/repository"
	"github.com/damon-houk/currency-converter/internal/infrastructure/api"
	"github.com/damon-houk/currency-converter/internal/infrastructure/cache"
	"github.com/damon-houk/currency-converter/internal/infrastructure/config"
	"github.com/damon-houk/currency-converter/internal/infrastructure/db"
	"github.com/damon-houk/currency-converter/internal/infrastructure/handler"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// run returns only after its deferred cleanup, so exiting here is safe
	if err := run(cfg, os.Stdout, http.ListenAndServe); err != nil {
		logger.Fatal("Server stopped", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// serveFunc matches http.ListenAndServe
type serveFunc func(addr string, handler http.Handler) error

// run wires the application and serves until serve returns
func run(cfg *config.Config, out io.Writer, serve serveFunc) error {
	log := logger.NewJSONLogger(out, logger.ParseLevel(cfg.LogLevel))
	logger.SetDefaultLogger(log)
	defer log.Sync()

	for _, warning := range cfg.Warnings {
		log.Warn("Configuration warning", map[string]interface{}{
			"warning": warning,
		})
	}

	log.Info("Starting currency converter", map[string]interface{}{
		"port":         cfg.Port,
		"upstream":     cfg.UpstreamBaseURL,
		"timeout":      cfg.UpstreamTimeout.String(),
		"default_from": cfg.DefaultFrom,
		"default_to":   cfg.DefaultTo,
		"journal":      cfg.JournalEnabled(),
	})

	m := metrics.New()

	ratesAPI := api.NewFrankfurterClient(
		&http.Client{Timeout: cfg.UpstreamTimeout},
		log,
		api.WithBaseURL(cfg.UpstreamBaseURL),
		api.WithMetrics(m),
	)

	// The journal stays a nil interface when disabled
	var journal repository.ConversionJournal
	if cfg.JournalEnabled() {
		badgerDB, err := db.OpenBadger(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("failed to open conversion journal at %s: %w", cfg.JournalPath, err)
		}
		defer func() {
			if err := badgerDB.Close(); err != nil {
				log.Error("Error closing conversion journal", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}()
		journal = db.NewBadgerConversionJournal(badgerDB)
	}

	catalogService := service.NewCatalogService(ratesAPI, cache.NewCatalogCache(), log, m)
	catalogService.SetPreferredCodes(cfg.DefaultFrom, cfg.DefaultTo)
	conversionService := service.NewConversionService(ratesAPI, journal, log, m)

	background, err := handler.LoadBackground(cfg.BackgroundImage)
	if err != nil {
		return fmt.Errorf("failed to load background image: %w", err)
	}

	form, err := handler.NewConverterHandler(catalogService, conversionService, background, log)
	if err != nil {
		return fmt.Errorf("failed to parse page template: %w", err)
	}
	apiHandler := handler.NewAPIHandler(catalogService, conversionService, log)

	router := handler.NewRouter(log, m, form, apiHandler)

	log.Info("Server listening", map[string]interface{}{
		"addr": cfg.Addr(),
	})

	return serve(cfg.Addr(), router)
}
