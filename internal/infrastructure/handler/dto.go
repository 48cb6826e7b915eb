package handler

import (
	"time"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
)

// CurrencyResponse is one catalog entry
type CurrencyResponse struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// CurrenciesResponse represents the response for the currencies endpoint
type CurrenciesResponse struct {
	Currencies  []CurrencyResponse `json:"currencies"`
	DefaultFrom int                `json:"default_from"`
	DefaultTo   int                `json:"default_to"`
}

// ConversionResponse represents the response for the convert endpoint
type ConversionResponse struct {
	Amount   float64 `json:"amount"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Result   float64 `json:"result"`
	Identity bool    `json:"identity"`
	Message  string  `json:"message"`
}

// HistoryEntryResponse is one journaled conversion
type HistoryEntryResponse struct {
	ID        string  `json:"id"`
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Result    float64 `json:"result,omitempty"`
	OK        bool    `json:"ok"`
	Identity  bool    `json:"identity"`
	CreatedAt string  `json:"created_at"`
}

// HistoryResponse represents the response for the history endpoint
type HistoryResponse struct {
	Entries []HistoryEntryResponse `json:"entries"`
}

func toHistoryEntry(e entity.JournalEntry) HistoryEntryResponse {
	resp := HistoryEntryResponse{
		ID:        e.ID,
		Amount:    e.Request.Amount,
		From:      e.Request.From,
		To:        e.Request.To,
		OK:        e.OK,
		Identity:  e.Identity,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
	if e.OK {
		resp.Result = e.Value
	}
	return resp
}
