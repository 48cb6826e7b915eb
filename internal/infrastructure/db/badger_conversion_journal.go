// Package db internal/infrastructure/db/badger_conversion_journal.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
)

const journalPrefix = "conv:"

// ErrInvalidEntry is returned when an entry cannot be keyed
var ErrInvalidEntry = errors.New("journal entry requires an ID and a timestamp")

// OpenBadger opens (creating if needed) a BadgerDB at path with logging disabled
func OpenBadger(path string) (*badger.DB, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}

// BadgerConversionJournal implements the conversion journal using BadgerDB
type BadgerConversionJournal struct {
	db *badger.DB
}

// NewBadgerConversionJournal creates a new BadgerDB conversion journal
func NewBadgerConversionJournal(db *badger.DB) *BadgerConversionJournal {
	return &BadgerConversionJournal{db: db}
}

// journalKey orders entries by creation time, then by ID
func journalKey(entry *entity.JournalEntry) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", journalPrefix, entry.CreatedAt.UnixNano(), entry.ID))
}

// Record appends a conversion outcome and returns its ID
func (j *BadgerConversionJournal) Record(ctx context.Context, entry *entity.JournalEntry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if entry == nil || entry.ID == "" || entry.CreatedAt.IsZero() {
		return "", ErrInvalidEntry
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(journalKey(entry), data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store journal entry: %w", err)
	}

	return entry.ID, nil
}

// Recent returns up to limit entries, newest first
func (j *BadgerConversionJournal) Recent(ctx context.Context, limit int) ([]entity.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []entity.JournalEntry{}, nil
	}

	entries := make([]entity.JournalEntry, 0, limit)
	prefix := []byte(journalPrefix)

	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts from the largest key under the prefix
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(entries) < limit; it.Next() {
			var entry entity.JournalEntry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return fmt.Errorf("failed to decode journal entry %q: %w", it.Item().Key(), err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	return entries, nil
}
