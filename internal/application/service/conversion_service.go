// Package service internal/application/service/conversion_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/domain/repository"
	ports "github.com/damon-houk/currency-converter/internal/domain/service"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/metrics"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/google/uuid"
)

// ErrJournalDisabled is returned by History when no journal is configured
var ErrJournalDisabled = errors.New("conversion journal is disabled")

// ConversionService converts amounts between currencies through the rates API
type ConversionService struct {
	api     ports.RatesAPI
	journal repository.ConversionJournal
	logger  logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewConversionService creates a new conversion service. journal may be nil.
func NewConversionService(api ports.RatesAPI, journal repository.ConversionJournal, log logger.Logger, m *metrics.Metrics) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ConversionService{
		api:     api,
		journal: journal,
		logger:  log,
		metrics: m,
		now:     time.Now,
	}
}

// Convert performs a single conversion. It never returns an error: every
// failure is reported through a result whose OK field is false.
func (s *ConversionService) Convert(ctx context.Context, req entity.ConversionRequest) entity.ConversionResult {
	requestID := middleware.GetRequestID(ctx)

	s.logger.Info("Converting amount", map[string]interface{}{
		"request_id": requestID,
		"amount":     req.Amount,
		"from":       req.From,
		"to":         req.To,
	})

	result, outcome := s.convert(ctx, req)

	s.metrics.ObserveConversion(outcome)
	s.record(ctx, result)

	return result
}

func (s *ConversionService) convert(ctx context.Context, req entity.ConversionRequest) (result entity.ConversionResult, outcome string) {
	requestID := middleware.GetRequestID(ctx)

	if err := req.Validate(); err != nil {
		s.logger.Warn("Rejected conversion request", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return entity.Failed(req), metrics.OutcomeInvalid
	}

	// Same currency on both sides never reaches the API
	if req.IsIdentity() {
		s.logger.Debug("Identity conversion", map[string]interface{}{
			"request_id": requestID,
			"currency":   req.From,
		})
		result = entity.SucceededWith(req, req.Amount)
		result.Identity = true
		return result, metrics.OutcomeIdentity
	}

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Panic during conversion", map[string]interface{}{
				"request_id": requestID,
				"panic":      fmt.Sprint(rec),
			})
			result, outcome = entity.Failed(req), metrics.OutcomeFailure
		}
	}()

	value, err := s.api.FetchConversion(ctx, req.Amount, req.From, req.To)
	if err != nil {
		s.logger.Error("Conversion failed", map[string]interface{}{
			"request_id": requestID,
			"amount":     req.Amount,
			"from":       req.From,
			"to":         req.To,
			"error":      err.Error(),
		})
		return entity.Failed(req), metrics.OutcomeFailure
	}

	s.logger.Info("Conversion completed", map[string]interface{}{
		"request_id": requestID,
		"amount":     req.Amount,
		"from":       req.From,
		"to":         req.To,
		"value":      value,
	})

	return entity.SucceededWith(req, value), metrics.OutcomeSuccess
}

// record appends the outcome to the journal; journal errors are only logged
func (s *ConversionService) record(ctx context.Context, result entity.ConversionResult) {
	if s.journal == nil {
		return
	}

	entry := &entity.JournalEntry{
		ID:        uuid.New().String(),
		Request:   result.Request,
		Value:     result.Value,
		OK:        result.OK,
		Identity:  result.Identity,
		CreatedAt: s.now().UTC(),
	}

	if _, err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Warn("Failed to record conversion", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"entry_id":   entry.ID,
			"error":      err.Error(),
		})
	}
}

// History returns the most recent journal entries, newest first
func (s *ConversionService) History(ctx context.Context, limit int) ([]entity.JournalEntry, error) {
	if s.journal == nil {
		return nil, ErrJournalDisabled
	}

	entries, err := s.journal.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversion history: %w", err)
	}

	return entries, nil
}
