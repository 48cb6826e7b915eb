package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleCatalog() Catalog {
	return Catalog{
		"USD": "US Dollar",
		"INR": "Indian Rupee",
		"EUR": "Euro",
	}
}

func TestCatalogLabels(t *testing.T) {
	labels := sampleCatalog().Labels()

	rendered := make([]string, 0, len(labels))
	for _, l := range labels {
		rendered = append(rendered, l.String())
	}

	assert.Equal(t, []string{"EUR - Euro", "INR - Indian Rupee", "USD - US Dollar"}, rendered)
	assert.Empty(t, Catalog{}.Labels())
}

func TestCatalogCodeForLabel(t *testing.T) {
	catalog := sampleCatalog()

	code, ok := catalog.CodeForLabel("INR - Indian Rupee")
	assert.True(t, ok)
	assert.Equal(t, "INR", code)

	// Every rendered label maps back to its code
	for _, l := range catalog.Labels() {
		code, ok := catalog.CodeForLabel(l.String())
		assert.True(t, ok)
		assert.Equal(t, l.Code, code)
	}

	_, ok = catalog.CodeForLabel("INR - Rupee")
	assert.False(t, ok)

	_, ok = catalog.CodeForLabel("GBP - British Pound")
	assert.False(t, ok)

	_, ok = catalog.CodeForLabel("USD")
	assert.False(t, ok)
}

func TestCatalogLookups(t *testing.T) {
	catalog := sampleCatalog()

	assert.False(t, catalog.IsEmpty())
	assert.True(t, Catalog{}.IsEmpty())
	assert.True(t, Catalog(nil).IsEmpty())
	assert.True(t, catalog.Contains("EUR"))
	assert.False(t, catalog.Contains("eur"))

	name, ok := catalog.Name("USD")
	assert.True(t, ok)
	assert.Equal(t, "US Dollar", name)
}

func TestComputeDefaults(t *testing.T) {
	t.Run("USD and INR present", func(t *testing.T) {
		from, to := ComputeDefaults(sampleCatalog().Labels())
		assert.Equal(t, 2, from)
		assert.Equal(t, 1, to)
	})

	t.Run("USD missing falls back to first entry", func(t *testing.T) {
		labels := Catalog{"EUR": "Euro", "GBP": "British Pound", "INR": "Indian Rupee"}.Labels()
		from, to := ComputeDefaults(labels)
		assert.Equal(t, 0, from)
		assert.Equal(t, 2, to)
	})

	t.Run("INR missing falls back to second entry", func(t *testing.T) {
		labels := Catalog{"EUR": "Euro", "GBP": "British Pound", "USD": "US Dollar"}.Labels()
		from, to := ComputeDefaults(labels)
		assert.Equal(t, 2, from)
		assert.Equal(t, 1, to)
	})

	t.Run("code match is exact", func(t *testing.T) {
		labels := []DisplayLabel{
			{Code: "AUD", Name: "Not USD"},
			{Code: "USD", Name: "US Dollar"},
		}
		from, _ := ComputeDefaults(labels)
		assert.Equal(t, 1, from)
	})

	t.Run("single entry is clamped", func(t *testing.T) {
		from, to := ComputeDefaults([]DisplayLabel{{Code: "EUR", Name: "Euro"}})
		assert.Equal(t, 0, from)
		assert.Equal(t, 0, to)
	})

	t.Run("empty sequence", func(t *testing.T) {
		from, to := ComputeDefaults(nil)
		assert.Equal(t, 0, from)
		assert.Equal(t, 0, to)
	})

	t.Run("configured preferences", func(t *testing.T) {
		from, to := ComputeDefaultsFor(sampleCatalog().Labels(), "EUR", "USD")
		assert.Equal(t, 0, from)
		assert.Equal(t, 2, to)
	})
}

func TestConversionRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     ConversionRequest
		wantErr bool
	}{
		{"valid", ConversionRequest{Amount: 1, From: "USD", To: "INR"}, false},
		{"zero amount", ConversionRequest{Amount: 0, From: "USD", To: "INR"}, false},
		{"negative amount", ConversionRequest{Amount: -0.1, From: "USD", To: "INR"}, true},
		{"NaN amount", ConversionRequest{Amount: math.NaN(), From: "USD", To: "INR"}, true},
		{"infinite amount", ConversionRequest{Amount: math.Inf(1), From: "USD", To: "INR"}, true},
		{"missing from", ConversionRequest{Amount: 1, To: "INR"}, true},
		{"missing to", ConversionRequest{Amount: 1, From: "USD"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConversionResultMessage(t *testing.T) {
	req := ConversionRequest{Amount: 100, From: "USD", To: "INR"}

	assert.Equal(t, "100 USD = 8300.00 INR", SucceededWith(req, 8300.0).Message())
	assert.Equal(t, "100 USD = 0.33 INR", SucceededWith(req, 0.3333).Message())
	assert.Equal(t, "", Failed(req).Message())

	fractional := ConversionRequest{Amount: 2.5, From: "EUR", To: "USD"}
	assert.Equal(t, "2.5 EUR = 2.71 USD", SucceededWith(fractional, 2.7125).Message())
}
