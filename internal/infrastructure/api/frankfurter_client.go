// Package api internal/infrastructure/api/frankfurter_client.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/metrics"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
)

const (
	frankfurterBaseURL = "https://api.frankfurter.app"
	currenciesPath     = "/currencies"
	latestPath         = "/latest"

	// maxResponseBytes bounds how much of an upstream body is read
	maxResponseBytes = 1 << 20
)

// Endpoint names used in logs and metrics
const (
	EndpointCurrencies = "currencies"
	EndpointLatest     = "latest"
)

var (
	// ErrUnexpectedStatus is returned when the API answers with a non-200 status
	ErrUnexpectedStatus = errors.New("unexpected status from exchange-rate API")
	// ErrMalformedResponse is returned when the body is not the expected JSON shape
	ErrMalformedResponse = errors.New("malformed response from exchange-rate API")
	// ErrRateNotFound is returned when the rates object lacks the target currency
	ErrRateNotFound = errors.New("rate not found in response")
)

// FrankfurterClient implements the RatesAPI interface against the Frankfurter API
type FrankfurterClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// Option configures a FrankfurterClient
type Option func(*FrankfurterClient)

// WithBaseURL points the client at another deployment of the API
func WithBaseURL(baseURL string) Option {
	return func(c *FrankfurterClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithMetrics records every upstream call
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *FrankfurterClient) {
		c.metrics = m
	}
}

// NewFrankfurterClient creates a new Frankfurter API client
func NewFrankfurterClient(httpClient *http.Client, log logger.Logger, opts ...Option) *FrankfurterClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	c := &FrankfurterClient{
		baseURL:    frankfurterBaseURL,
		httpClient: httpClient,
		logger:     log,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ConversionResponse represents the body returned by the latest endpoint
type ConversionResponse struct {
	Amount float64 `json:"amount"`
	Base   string  `json:"base"`
	Date   string  `json:"date"`

	// Pointers tell a null rate apart from a zero one
	Rates map[string]*float64 `json:"rates"`
}

// FetchCurrencies retrieves the supported currencies as a code to name mapping
func (c *FrankfurterClient) FetchCurrencies(ctx context.Context) (map[string]string, error) {
	var currencies map[string]string
	if err := c.getJSON(ctx, EndpointCurrencies, currenciesPath, nil, &currencies); err != nil {
		return nil, err
	}

	// A literal null decodes without error
	if currencies == nil {
		return nil, fmt.Errorf("%w: currencies body is not an object", ErrMalformedResponse)
	}

	return currencies, nil
}

// FetchConversion converts amount from one currency into another
func (c *FrankfurterClient) FetchConversion(ctx context.Context, amount float64, from, to string) (float64, error) {
	query := url.Values{}
	query.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	query.Set("from", from)
	query.Set("to", to)

	var resp ConversionResponse
	if err := c.getJSON(ctx, EndpointLatest, latestPath, query, &resp); err != nil {
		return 0, err
	}

	value, ok := resp.Rates[to]
	if !ok || value == nil {
		return 0, fmt.Errorf("%w: %s", ErrRateNotFound, to)
	}

	return *value, nil
}

// getJSON issues a single GET and decodes a 200 response into out
func (c *FrankfurterClient) getJSON(ctx context.Context, endpoint, path string, query url.Values, out interface{}) (err error) {
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailure
		}
		c.metrics.ObserveUpstream(endpoint, outcome, time.Since(start))
	}()

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	c.logger.Debug("Calling exchange-rate API", map[string]interface{}{
		"request_id": requestID,
		"endpoint":   endpoint,
		"url":        reqURL,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"request_id": requestID,
				"endpoint":   endpoint,
				"error":      closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("Exchange-rate API responded", map[string]interface{}{
		"request_id":  requestID,
		"endpoint":    endpoint,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d, body: %s", ErrUnexpectedStatus, resp.StatusCode, truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
