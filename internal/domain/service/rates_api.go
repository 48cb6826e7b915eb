package service

import (
	"context"
)

// RatesAPI defines the interface for the upstream exchange-rate service
type RatesAPI interface {
	// FetchCurrencies retrieves the supported currency codes and their names
	FetchCurrencies(ctx context.Context) (map[string]string, error)

	// FetchConversion converts amount from one currency to another
	FetchConversion(ctx context.Context, amount float64, from, to string) (float64, error)
}
