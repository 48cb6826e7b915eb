// Package handler internal/infrastructure/handler/api_handler.go
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/damon-houk/currency-converter/internal/application/service"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// APIHandler exposes the catalog and conversion operations as JSON
type APIHandler struct {
	catalog   *service.CatalogService
	converter *service.ConversionService
	logger    logger.Logger
}

// NewAPIHandler creates a new JSON API handler
func NewAPIHandler(catalog *service.CatalogService, converter *service.ConversionService, log logger.Logger) *APIHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &APIHandler{
		catalog:   catalog,
		converter: converter,
		logger:    log,
	}
}

// ListCurrencies returns the sorted catalog with the default selections
func (h *APIHandler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	view := h.catalog.View(r.Context())
	if view.Empty() {
		sendErrorResponse(w, h.logger, "Currency data unavailable",
			"The list of currencies could not be loaded. Please check your connection.",
			http.StatusServiceUnavailable, requestID)
		return
	}

	resp := CurrenciesResponse{
		Currencies:  make([]CurrencyResponse, 0, len(view.Labels)),
		DefaultFrom: view.DefaultFrom,
		DefaultTo:   view.DefaultTo,
	}
	for _, l := range view.Labels {
		resp.Currencies = append(resp.Currencies, CurrencyResponse{
			Code:  l.Code,
			Name:  l.Name,
			Label: l.String(),
		})
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Convert handles GET /api/convert?amount=&from=&to=
func (h *APIHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	from := strings.ToUpper(strings.TrimSpace(query.Get("from")))
	to := strings.ToUpper(strings.TrimSpace(query.Get("to")))
	if from == "" || to == "" {
		sendErrorResponse(w, h.logger, "Missing currency parameter",
			"Both 'from' and 'to' query parameters are required", http.StatusBadRequest, requestID)
		return
	}

	amount := 1.0
	if raw := query.Get("amount"); raw != "" {
		parsed, err := parseAmount(raw)
		if err != nil {
			h.logger.Warn("Invalid amount parameter", map[string]interface{}{
				"request_id": requestID,
				"amount":     raw,
			})
			sendErrorResponse(w, h.logger, "Invalid amount",
				"The 'amount' query parameter must be a number of at least 0", http.StatusBadRequest, requestID)
			return
		}
		amount = parsed
	}

	view := h.catalog.View(r.Context())
	if view.Empty() {
		sendErrorResponse(w, h.logger, "Currency data unavailable",
			"The list of currencies could not be loaded. Please check your connection.",
			http.StatusServiceUnavailable, requestID)
		return
	}

	for _, code := range []string{from, to} {
		if !view.Catalog.Contains(code) {
			h.logger.Warn("Unsupported currency requested", map[string]interface{}{
				"request_id": requestID,
				"currency":   code,
			})
			sendErrorResponse(w, h.logger, "Unsupported currency",
				"Currency '"+code+"' is not in the list of supported currencies", http.StatusBadRequest, requestID)
			return
		}
	}

	result := h.converter.Convert(r.Context(), entity.ConversionRequest{Amount: amount, From: from, To: to})
	if !result.OK {
		sendErrorResponse(w, h.logger, "Conversion failed",
			"The exchange-rate service could not convert the amount. Please try again.",
			http.StatusBadGateway, requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, ConversionResponse{
		Amount:   amount,
		From:     from,
		To:       to,
		Result:   result.Value,
		Identity: result.Identity,
		Message:  result.Message(),
	})
}

// History returns the most recent journaled conversions
func (h *APIHandler) History(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			sendErrorResponse(w, h.logger, "Invalid limit",
				"The 'limit' query parameter must be a positive integer", http.StatusBadRequest, requestID)
			return
		}
		limit = parsed
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := h.converter.History(r.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrJournalDisabled) {
			sendErrorResponse(w, h.logger, "History disabled",
				"Conversion history is not enabled on this server", http.StatusNotFound, requestID)
			return
		}

		h.logger.Error("Failed to read conversion history", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while reading the history", http.StatusInternalServerError, requestID)
		return
	}

	resp := HistoryResponse{Entries: make([]HistoryEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toHistoryEntry(e))
	}

	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Health reports liveness
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// RegisterRoutes registers the JSON API routes
func (h *APIHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/currencies", h.ListCurrencies).Methods(http.MethodGet)
	router.HandleFunc("/api/convert", h.Convert).Methods(http.MethodGet)
	router.HandleFunc("/api/history", h.History).Methods(http.MethodGet)
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	h.logger.Info("API routes registered", map[string]interface{}{
		"routes": []string{
			"GET /api/currencies",
			"GET /api/convert",
			"GET /api/history",
			"GET /health",
		},
	})
}
