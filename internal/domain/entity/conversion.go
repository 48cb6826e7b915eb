package entity

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// ErrInvalidAmount is returned when the amount is not a finite number
var ErrInvalidAmount = errors.New("amount must be a finite number")

// ConversionRequest is a single user-triggered conversion
type ConversionRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
	From   string  `json:"from" validate:"required"`
	To     string  `json:"to" validate:"required"`
}

// Validate ensures the request meets all requirements
func (r ConversionRequest) Validate() error {
	if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return ErrInvalidAmount
	}

	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid conversion request: %w", err)
	}

	return nil
}

// IsIdentity reports whether the request converts a currency into itself
func (r ConversionRequest) IsIdentity() bool {
	return r.From == r.To
}

// ConversionResult is the outcome of a conversion. OK is false when the
// conversion failed, in which case Value is meaningless.
type ConversionResult struct {
	Request  ConversionRequest `json:"request"`
	Value    float64           `json:"value"`
	OK       bool              `json:"ok"`
	Identity bool              `json:"identity"`
}

// SucceededWith builds a successful result
func SucceededWith(req ConversionRequest, value float64) ConversionResult {
	return ConversionResult{Request: req, Value: value, OK: true}
}

// Failed builds the failure marker for a request
func Failed(req ConversionRequest) ConversionResult {
	return ConversionResult{Request: req}
}

// Message formats a successful result as "100 USD = 8300.00 INR".
// It returns an empty string for failed results.
func (r ConversionResult) Message() string {
	if !r.OK {
		return ""
	}

	return fmt.Sprintf("%s %s = %s %s",
		FormatAmount(r.Request.Amount),
		r.Request.From,
		decimal.NewFromFloat(r.Value).StringFixed(2),
		r.Request.To)
}

// FormatAmount renders an amount without trailing zeros
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).String()
}

// JournalEntry is an audit record of one conversion outcome
type JournalEntry struct {
	ID        string            `json:"id"`
	Request   ConversionRequest `json:"request"`
	Value     float64           `json:"value"`
	OK        bool              `json:"ok"`
	Identity  bool              `json:"identity"`
	CreatedAt time.Time         `json:"created_at"`
}
