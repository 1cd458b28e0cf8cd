package validator

import (
	"math"

	"github.com/finvue/expense-engine/internal/models"
)

// ResolveUnitPrice derives a unit price from whatever fields the extraction
// produced. Resolution order:
//
//  1. explicit unit_price (even zero)
//  2. total_amount / quantity rounded to 2 decimals, when both are nonzero
//  3. total_amount alone, when nonzero
//  4. nil (unresolvable)
//
// Step 3 deliberately conflates unit price with total amount when quantity
// is unknown. Historical decisions were made on that basis, so it is kept.
func ResolveUnitPrice(item models.LineItem) *float64 {
	if item.UnitPrice != nil {
		price := *item.UnitPrice
		return &price
	}

	qty := item.Quantity
	total := item.TotalAmount

	if qty != nil && *qty != 0 && total != nil && *total != 0 {
		price := round2(*total / *qty)
		return &price
	}

	if total != nil && *total != 0 {
		price := *total
		return &price
	}

	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
