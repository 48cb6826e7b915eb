// internal/application/service/conversion_service_test.go
package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/infrastructure/metrics"
	"github.com/damon-houk/currency-converter/internal/mocks"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	api := new(mocks.MockRatesAPI)
	service := NewConversionService(api, nil, quietLogger(), nil)
	ctx := context.Background()

	t.Run("Successful conversion", func(t *testing.T) {
		req := entity.ConversionRequest{Amount: 100, From: "USD", To: "INR"}
		api.On("FetchConversion", ctx, 100.0, "USD", "INR").Return(8300.0, nil).Once()

		result := service.Convert(ctx, req)

		assert.True(t, result.OK)
		assert.False(t, result.Identity)
		assert.Equal(t, 8300.0, result.Value)
		assert.Equal(t, req, result.Request)
		assert.Equal(t, "100 USD = 8300.00 INR", result.Message())
		api.AssertExpectations(t)
	})

	t.Run("Upstream failure", func(t *testing.T) {
		req := entity.ConversionRequest{Amount: 5, From: "USD", To: "EUR"}
		api.On("FetchConversion", ctx, 5.0, "USD", "EUR").
			Return(0.0, errors.New("unexpected status from exchange-rate API: 500")).Once()

		result := service.Convert(ctx, req)

		assert.False(t, result.OK)
		assert.Equal(t, req, result.Request, "selections are kept for a retry")
		assert.Empty(t, result.Message())
		api.AssertExpectations(t)
	})

	t.Run("Idempotent against an unchanged upstream", func(t *testing.T) {
		req := entity.ConversionRequest{Amount: 10, From: "EUR", To: "GBP"}
		api.On("FetchConversion", ctx, 10.0, "EUR", "GBP").Return(8.5, nil).Twice()

		first := service.Convert(ctx, req)
		second := service.Convert(ctx, req)

		assert.Equal(t, first, second)
		api.AssertExpectations(t)
	})
}

func TestConvertIdentityMakesNoCall(t *testing.T) {
	amounts := []float64{0, 0.1, 1, 42.5, 1e9}

	for _, amount := range amounts {
		api := new(mocks.MockRatesAPI)
		service := NewConversionService(api, nil, quietLogger(), nil)

		result := service.Convert(context.Background(), entity.ConversionRequest{Amount: amount, From: "JPY", To: "JPY"})

		assert.True(t, result.OK)
		assert.True(t, result.Identity)
		assert.Equal(t, amount, result.Value)
		api.AssertNotCalled(t, "FetchConversion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestConvertRejectsInvalidRequests(t *testing.T) {
	requests := []entity.ConversionRequest{
		{Amount: -1, From: "USD", To: "INR"},
		{Amount: math.NaN(), From: "USD", To: "INR"},
		{Amount: 1, From: "", To: "INR"},
		{Amount: 1, From: "USD", To: ""},
	}

	api := new(mocks.MockRatesAPI)
	m := metrics.New()
	service := NewConversionService(api, nil, quietLogger(), m)

	for _, req := range requests {
		result := service.Convert(context.Background(), req)
		assert.False(t, result.OK)
	}

	api.AssertNotCalled(t, "FetchConversion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	series, err := testutil.GatherAndCount(m.Registry(), "currency_converter_conversions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, series)
}

func TestConvertRecoversFromPanic(t *testing.T) {
	api := new(mocks.MockRatesAPI)
	api.On("FetchConversion", mock.Anything, 1.0, "USD", "EUR").Run(func(args mock.Arguments) {
		panic("nil map")
	}).Return(0.0, nil)

	service := NewConversionService(api, nil, quietLogger(), nil)

	var result entity.ConversionResult
	assert.NotPanics(t, func() {
		result = service.Convert(context.Background(), entity.ConversionRequest{Amount: 1, From: "USD", To: "EUR"})
	})
	assert.False(t, result.OK)
}

func TestConvertRecordsJournal(t *testing.T) {
	api := new(mocks.MockRatesAPI)
	journal := new(mocks.MockConversionJournal)
	service := NewConversionService(api, journal, quietLogger(), nil)
	fixed := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }
	ctx := context.Background()

	api.On("FetchConversion", ctx, 100.0, "USD", "INR").Return(8300.0, nil).Once()
	journal.On("Record", ctx, mock.MatchedBy(func(e *entity.JournalEntry) bool {
		return e.OK && e.Value == 8300.0 && e.Request.To == "INR" && e.CreatedAt.Equal(fixed) && len(e.ID) == 36
	})).Return("id", nil).Once()

	result := service.Convert(ctx, entity.ConversionRequest{Amount: 100, From: "USD", To: "INR"})

	assert.True(t, result.OK)
	api.AssertExpectations(t)
	journal.AssertExpectations(t)
}

func TestConvertIgnoresJournalFailure(t *testing.T) {
	api := new(mocks.MockRatesAPI)
	journal := new(mocks.MockConversionJournal)
	log := new(mocks.MockLogger)
	log.On("Info", mock.Anything, mock.Anything)
	log.On("Debug", mock.Anything, mock.Anything)
	log.On("Warn", "Failed to record conversion", mock.Anything).Once()

	service := NewConversionService(api, journal, log, nil)
	ctx := context.Background()

	journal.On("Record", ctx, mock.Anything).Return("", errors.New("disk full")).Once()

	result := service.Convert(ctx, entity.ConversionRequest{Amount: 3, From: "CHF", To: "CHF"})

	assert.True(t, result.OK)
	assert.Equal(t, 3.0, result.Value)
	journal.AssertExpectations(t)
	log.AssertExpectations(t)
}

func TestHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled journal", func(t *testing.T) {
		service := NewConversionService(new(mocks.MockRatesAPI), nil, quietLogger(), nil)

		entries, err := service.History(ctx, 10)

		assert.Nil(t, entries)
		assert.ErrorIs(t, err, ErrJournalDisabled)
	})

	t.Run("entries from journal", func(t *testing.T) {
		journal := new(mocks.MockConversionJournal)
		service := NewConversionService(new(mocks.MockRatesAPI), journal, quietLogger(), nil)
		stored := []entity.JournalEntry{{ID: "b"}, {ID: "a"}}
		journal.On("Recent", ctx, 2).Return(stored, nil).Once()

		entries, err := service.History(ctx, 2)

		require.NoError(t, err)
		assert.Equal(t, stored, entries)
	})

	t.Run("journal error", func(t *testing.T) {
		journal := new(mocks.MockConversionJournal)
		service := NewConversionService(new(mocks.MockRatesAPI), journal, quietLogger(), nil)
		journal.On("Recent", ctx, 5).Return(nil, errors.New("closed")).Once()

		_, err := service.History(ctx, 5)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read conversion history")
	})
}
