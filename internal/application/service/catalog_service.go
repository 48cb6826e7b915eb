// Package service internal/application/service/catalog_service.go
package service

import (
	"context"
	"fmt"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
	ports "github.com/damon-houk/currency-converter/internal/domain/service"
	"github.com/damon-houk/currency-converter/internal/infrastructure/cache"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/metrics"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
)

// CatalogView is what a form needs to render its two currency selectors
type CatalogView struct {
	Catalog     entity.Catalog
	Labels      []entity.DisplayLabel
	DefaultFrom int
	DefaultTo   int
}

// Empty reports whether the catalog failed to load
func (v CatalogView) Empty() bool {
	return len(v.Labels) == 0
}

// CatalogService loads the currency catalog once per process
type CatalogService struct {
	api           ports.RatesAPI
	cache         *cache.CatalogCache
	logger        logger.Logger
	metrics       *metrics.Metrics
	preferredFrom string
	preferredTo   string
}

// NewCatalogService creates a new catalog service
func NewCatalogService(api ports.RatesAPI, catalogCache *cache.CatalogCache, log logger.Logger, m *metrics.Metrics) *CatalogService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if catalogCache == nil {
		catalogCache = cache.NewCatalogCache()
	}

	return &CatalogService{
		api:           api,
		cache:         catalogCache,
		logger:        log,
		metrics:       m,
		preferredFrom: entity.DefaultFromCode,
		preferredTo:   entity.DefaultToCode,
	}
}

// SetPreferredCodes overrides the currencies selected by default
func (s *CatalogService) SetPreferredCodes(from, to string) {
	if from != "" {
		s.preferredFrom = from
	}
	if to != "" {
		s.preferredTo = to
	}
}

// GetOrLoad returns the memoized catalog. It never fails: an empty catalog
// means the currency list could not be loaded.
func (s *CatalogService) GetOrLoad(ctx context.Context) entity.Catalog {
	return s.cache.GetOrLoad(ctx, s.load)
}

// View returns the sorted labels and default selections for the catalog
func (s *CatalogService) View(ctx context.Context) CatalogView {
	catalog := s.GetOrLoad(ctx)
	labels := catalog.Labels()
	from, to := entity.ComputeDefaultsFor(labels, s.preferredFrom, s.preferredTo)

	return CatalogView{
		Catalog:     catalog,
		Labels:      labels,
		DefaultFrom: from,
		DefaultTo:   to,
	}
}

// load fetches the currency list, converting every failure into an empty catalog
func (s *CatalogService) load(ctx context.Context) (catalog entity.Catalog) {
	requestID := middleware.GetRequestID(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Panic while loading currency catalog", map[string]interface{}{
				"request_id": requestID,
				"panic":      fmt.Sprint(rec),
			})
			catalog = entity.Catalog{}
		}

		outcome := metrics.OutcomeSuccess
		if catalog.IsEmpty() {
			outcome = metrics.OutcomeFailure
		}
		s.metrics.ObserveCatalogLoad(outcome, len(catalog))
	}()

	s.logger.Info("Loading currency catalog", map[string]interface{}{
		"request_id": requestID,
	})

	currencies, err := s.api.FetchCurrencies(ctx)
	if err != nil {
		s.logger.Warn("Currency catalog could not be loaded", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return entity.Catalog{}
	}

	catalog = entity.Catalog(currencies)

	s.logger.Info("Currency catalog loaded", map[string]interface{}{
		"request_id": requestID,
		"currencies": len(catalog),
	})

	return catalog
}
