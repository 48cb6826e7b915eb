// Package entity internal/domain/entity/currency.go
package entity

import (
	"sort"
	"strings"
)

// labelSeparator joins a currency code and its name in a display label
const labelSeparator = " - "

// Catalog maps a currency code (e.g. "USD") to its display name (e.g. "US Dollar").
// An empty catalog signals that the currency list could not be loaded.
type Catalog map[string]string

// DisplayLabel is the human-facing view of a catalog entry
type DisplayLabel struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// String renders the label as "<code> - <name>"
func (l DisplayLabel) String() string {
	return l.Code + labelSeparator + l.Name
}

// IsEmpty reports whether the catalog holds no currencies
func (c Catalog) IsEmpty() bool {
	return len(c) == 0
}

// Contains reports whether the code is part of the catalog
func (c Catalog) Contains(code string) bool {
	_, ok := c[code]
	return ok
}

// Name returns the display name for a code
func (c Catalog) Name(code string) (string, bool) {
	name, ok := c[code]
	return name, ok
}

// Labels returns the display labels sorted by currency code
func (c Catalog) Labels() []DisplayLabel {
	labels := make([]DisplayLabel, 0, len(c))
	for code, name := range c {
		labels = append(labels, DisplayLabel{Code: code, Name: name})
	}

	sort.Slice(labels, func(i, j int) bool {
		return labels[i].Code < labels[j].Code
	})

	return labels
}

// CodeForLabel maps a rendered display label back to its currency code.
// Only labels that round-trip exactly through the catalog are accepted.
func (c Catalog) CodeForLabel(label string) (string, bool) {
	code, name, found := strings.Cut(label, labelSeparator)
	if !found {
		return "", false
	}

	expected, ok := c[code]
	if !ok || expected != name {
		return "", false
	}

	return code, true
}
