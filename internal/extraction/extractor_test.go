package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceNumericStrings(t *testing.T) {
	raw := rawExtraction{
		Header: rawHeader{
			NumberOfDays: "3",
			VendorName:   "Acme Supplies",
			TotalAmount:  "₹1,18,000.50",
			TaxAmount:    float64(18000),
		},
		LineItems: []rawItem{
			{Description: "Laptop rental", Quantity: float64(2), UnitPrice: "45,000", TotalAmount: "90000"},
		},
	}

	data := coerce(&raw)

	require.NotNil(t, data.Header.NumberOfDays)
	assert.Equal(t, 3, *data.Header.NumberOfDays)
	require.NotNil(t, data.Header.VendorName)
	assert.Equal(t, "Acme Supplies", *data.Header.VendorName)
	require.NotNil(t, data.Header.TotalAmount)
	assert.Equal(t, 118000.50, *data.Header.TotalAmount)
	require.NotNil(t, data.Header.TaxAmount)
	assert.Equal(t, 18000.0, *data.Header.TaxAmount)

	require.Len(t, data.LineItems, 1)
	item := data.LineItems[0]
	assert.Equal(t, "Laptop rental", item.Description)
	require.NotNil(t, item.UnitPrice)
	assert.Equal(t, 45000.0, *item.UnitPrice)
	require.NotNil(t, item.TotalAmount)
	assert.Equal(t, 90000.0, *item.TotalAmount)
}

func TestCoerceMissingFields(t *testing.T) {
	data := coerce(&rawExtraction{})

	assert.Nil(t, data.Header.VendorName)
	assert.Nil(t, data.Header.TotalAmount)
	assert.Nil(t, data.Header.NumberOfDays)
	assert.Equal(t, 1, data.Header.Days())
	assert.Empty(t, data.LineItems)
}

func TestAsFloatGarbage(t *testing.T) {
	assert.Nil(t, asFloat("n/a"))
	assert.Nil(t, asFloat("  "))
	assert.Nil(t, asFloat(nil))
	assert.Nil(t, asFloat(true))
}

func TestAsStringBlankAndNumeric(t *testing.T) {
	assert.Nil(t, asString("   "))
	assert.Nil(t, asString(nil))

	got := asString(float64(42))
	require.NotNil(t, got)
	assert.Equal(t, "42", *got)
}
