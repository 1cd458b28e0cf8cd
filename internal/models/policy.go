package models

import (
	"encoding/json"
	"math"
)

// Policy categories. Every line item maps to exactly one of these via its
// detected spending intent. UNSUPPORTED never carries a rule and always
// rejects; Statutory is always approved regardless of amount.
const (
	CategoryFood          = "Food"
	CategoryTravel        = "Travel"
	CategoryAccommodation = "Accommodation"
	CategoryEducation     = "Education"
	CategoryUtilities     = "Utilities"
	CategoryHousehold     = "Household"
	CategoryIT            = "IT"
	CategoryCorporate     = "Corporate"
	CategoryStatutory     = "Statutory"
	CategoryUnsupported   = "UNSUPPORTED"
)

// Limit frequencies control how a category cap is normalized.
const (
	FrequencyDaily   = "daily"
	FrequencyMonthly = "monthly"
	FrequencyTotal   = "total"
)

// PolicyRule is one category-level spending rule. MaxAmount is +Inf for
// always-allow categories (Statutory).
type PolicyRule struct {
	ID             int64   `json:"id"`
	Category       string  `json:"category"`
	SubCategory    string  `json:"sub_category"`
	Rule           string  `json:"rule"`
	MaxAmount      float64 `json:"max_amount"`
	Conditions     string  `json:"conditions"`
	LimitFrequency string  `json:"limit_frequency"`
}

// Unbounded reports whether the rule has no effective spending cap.
func (r *PolicyRule) Unbounded() bool {
	return math.IsInf(r.MaxAmount, 1)
}

// MarshalJSON renders an unbounded MaxAmount as null; encoding/json refuses
// to emit +Inf.
func (r PolicyRule) MarshalJSON() ([]byte, error) {
	type alias struct {
		ID             int64    `json:"id"`
		Category       string   `json:"category"`
		SubCategory    string   `json:"sub_category"`
		Rule           string   `json:"rule"`
		MaxAmount      *float64 `json:"max_amount"`
		Conditions     string   `json:"conditions"`
		LimitFrequency string   `json:"limit_frequency"`
	}
	a := alias{
		ID:             r.ID,
		Category:       r.Category,
		SubCategory:    r.SubCategory,
		Rule:           r.Rule,
		Conditions:     r.Conditions,
		LimitFrequency: r.LimitFrequency,
	}
	if !math.IsInf(r.MaxAmount, 1) {
		max := r.MaxAmount
		a.MaxAmount = &max
	}
	return json.Marshal(a)
}

// CategoryAggregate accumulates line-item totals for one policy category
// within a single validation run. RepresentativeUnitPrice and
// RepresentativeQuantity are those of the last line item processed for the
// category (overwrite semantics, kept for parity with historical decisions).
type CategoryAggregate struct {
	Category                string   `json:"category"`
	TotalAmount             float64  `json:"total_amount"`
	RepresentativeUnitPrice *float64 `json:"representative_unit_price"`
	RepresentativeQuantity  float64  `json:"representative_quantity"`
}
