// Package repository internal/domain/repository/conversion_journal.go
package repository

import (
	"context"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
)

// ConversionJournal defines the interface for the conversion audit log
type ConversionJournal interface {
	// Record appends a conversion outcome and returns its ID
	Record(ctx context.Context, entry *entity.JournalEntry) (string, error)

	// Recent returns up to limit entries, newest first
	Recent(ctx context.Context, limit int) ([]entity.JournalEntry, error)
}
