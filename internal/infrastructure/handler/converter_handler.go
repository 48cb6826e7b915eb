// Package handler internal/infrastructure/handler/converter_handler.go
package handler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/damon-houk/currency-converter/internal/application/service"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

//go:embed templates/index.html
var templateFS embed.FS

// User-facing messages
const (
	msgCatalogUnavailable = "Currency data couldn't be loaded. Please check your connection."
	msgConversionFailed   = "Conversion failed. Please try again."
	msgUnknownCurrency    = "Please choose both currencies from the list."
	msgInvalidAmount      = "Amount must be a number of at least 0."

	defaultAmount = "1"
)

var errInvalidAmount = errors.New("amount must be a finite number of at least 0")

// pageData is everything the form template renders
type pageData struct {
	Background template.CSS
	LoadError  string
	Labels     []string
	FromIndex  int
	ToIndex    int
	Amount     string
	Success    string
	Failure    string
}

// ConverterHandler serves the HTML conversion form
type ConverterHandler struct {
	catalog    *service.CatalogService
	converter  *service.ConversionService
	page       *template.Template
	background template.CSS
	logger     logger.Logger
}

// NewConverterHandler creates a new form handler. background is the CSS
// declaration produced by LoadBackground and may be empty.
func NewConverterHandler(catalog *service.CatalogService, converter *service.ConversionService, background template.CSS, log logger.Logger) (*ConverterHandler, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}

	return &ConverterHandler{
		catalog:    catalog,
		converter:  converter,
		page:       page,
		background: background,
		logger:     log,
	}, nil
}

// ShowForm renders the form. Selections passed as query parameters are kept,
// so changing a selection never triggers a conversion.
func (h *ConverterHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	view := h.catalog.View(r.Context())
	if view.Empty() {
		h.renderLoadError(w, r)
		return
	}

	data := h.formData(view)
	query := r.URL.Query()
	data.FromIndex = labelIndex(view, query.Get("from"), view.DefaultFrom)
	data.ToIndex = labelIndex(view, query.Get("to"), view.DefaultTo)
	if amount := strings.TrimSpace(query.Get("amount")); amount != "" {
		data.Amount = amount
	}

	h.render(w, r, http.StatusOK, data)
}

// Convert handles the explicit convert action
func (h *ConverterHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	view := h.catalog.View(r.Context())
	if view.Empty() {
		h.renderLoadError(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.logger.Warn("Invalid form submission", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		data := h.formData(view)
		data.Failure = msgConversionFailed
		h.render(w, r, http.StatusBadRequest, data)
		return
	}

	fromLabel := r.PostForm.Get("from")
	toLabel := r.PostForm.Get("to")
	amountText := strings.TrimSpace(r.PostForm.Get("amount"))

	data := h.formData(view)
	data.FromIndex = labelIndex(view, fromLabel, view.DefaultFrom)
	data.ToIndex = labelIndex(view, toLabel, view.DefaultTo)
	data.Amount = amountText

	from, fromOK := view.Catalog.CodeForLabel(fromLabel)
	to, toOK := view.Catalog.CodeForLabel(toLabel)
	if !fromOK || !toOK {
		h.logger.Warn("Unknown currency selected", map[string]interface{}{
			"request_id": requestID,
			"from":       fromLabel,
			"to":         toLabel,
		})
		data.Failure = msgUnknownCurrency
		h.render(w, r, http.StatusBadRequest, data)
		return
	}

	amount, err := parseAmount(amountText)
	if err != nil {
		h.logger.Warn("Invalid amount submitted", map[string]interface{}{
			"request_id": requestID,
			"amount":     amountText,
		})
		data.Failure = msgInvalidAmount
		h.render(w, r, http.StatusBadRequest, data)
		return
	}

	result := h.converter.Convert(r.Context(), entity.ConversionRequest{Amount: amount, From: from, To: to})
	if !result.OK {
		data.Failure = msgConversionFailed
		h.render(w, r, http.StatusBadGateway, data)
		return
	}

	data.Success = result.Message()
	h.render(w, r, http.StatusOK, data)
}

// RegisterRoutes registers the form routes
func (h *ConverterHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.ShowForm).Methods(http.MethodGet)
	router.HandleFunc("/convert", h.Convert).Methods(http.MethodPost)

	h.logger.Info("Form routes registered", map[string]interface{}{
		"routes": []string{
			"GET /",
			"POST /convert",
		},
	})
}

func (h *ConverterHandler) formData(view service.CatalogView) pageData {
	labels := make([]string, len(view.Labels))
	for i, l := range view.Labels {
		labels[i] = l.String()
	}

	return pageData{
		Background: h.background,
		Labels:     labels,
		FromIndex:  view.DefaultFrom,
		ToIndex:    view.DefaultTo,
		Amount:     defaultAmount,
	}
}

func (h *ConverterHandler) renderLoadError(w http.ResponseWriter, r *http.Request) {
	h.logger.Warn("Rendering without currency catalog", map[string]interface{}{
		"request_id": middleware.GetRequestID(r.Context()),
	})

	h.render(w, r, http.StatusServiceUnavailable, pageData{
		Background: h.background,
		LoadError:  msgCatalogUnavailable,
	})
}

// render executes into a buffer first so a template error never sends a partial page
func (h *ConverterHandler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		h.logger.Error("Failed to render page", map[string]interface{}{
			"request_id": middleware.GetRequestID(r.Context()),
			"error":      err.Error(),
		})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// labelIndex finds a submitted label in the sorted view, else returns fallback
func labelIndex(view service.CatalogView, label string, fallback int) int {
	if code, ok := view.Catalog.CodeForLabel(label); ok {
		for i, l := range view.Labels {
			if l.Code == code {
				return i
			}
		}
	}
	return fallback
}

// parseAmount accepts finite, non-negative decimal numbers
func parseAmount(s string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0, errInvalidAmount
	}
	return amount, nil
}
