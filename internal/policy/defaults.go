// Package policy holds the company's default spending policy set. The list
// is loaded into the policies table on first startup and on explicit reload.
package policy

import (
	"math"

	"github.com/finvue/expense-engine/internal/models"
)

// Defaults returns the fixed default policy set. Callers receive a fresh
// slice each time; the seed is never mutated in place.
func Defaults() []*models.PolicyRule {
	return []*models.PolicyRule{
		// Food & meals
		{Category: models.CategoryFood, SubCategory: "Meals", Rule: "Daily meal expense", MaxAmount: 2000, Conditions: "Food only, no liquor", LimitFrequency: models.FrequencyDaily},

		// Travel
		{Category: models.CategoryTravel, SubCategory: "Cab", Rule: "Local cab travel", MaxAmount: 1500, Conditions: "Within city limits", LimitFrequency: models.FrequencyDaily},
		{Category: models.CategoryTravel, SubCategory: "Train", Rule: "Train travel", MaxAmount: 5000, Conditions: "AC 2-tier maximum", LimitFrequency: models.FrequencyTotal},
		{Category: models.CategoryTravel, SubCategory: "Flight", Rule: "Flight travel", MaxAmount: 20000, Conditions: "Economy class only", LimitFrequency: models.FrequencyTotal},

		// Accommodation
		{Category: models.CategoryAccommodation, SubCategory: "Hotel", Rule: "Hotel stay", MaxAmount: 5000, Conditions: "3-star hotels only", LimitFrequency: models.FrequencyDaily},

		// Education & learning
		{Category: models.CategoryEducation, SubCategory: "Online Course", Rule: "Online learning programs", MaxAmount: 15000, Conditions: "Job-related courses only", LimitFrequency: models.FrequencyTotal},
		{Category: models.CategoryEducation, SubCategory: "Workshop", Rule: "Workshops & seminars", MaxAmount: 20000, Conditions: "Pre-approval mandatory", LimitFrequency: models.FrequencyTotal},
		{Category: models.CategoryEducation, SubCategory: "Books", Rule: "Books & study material", MaxAmount: 3000, Conditions: "Technical / professional books only", LimitFrequency: models.FrequencyMonthly},

		// Utilities
		{Category: models.CategoryUtilities, SubCategory: "Internet", Rule: "Internet bill reimbursement", MaxAmount: 2000, Conditions: "Single active connection", LimitFrequency: models.FrequencyMonthly},

		// Household / support
		{Category: models.CategoryHousehold, SubCategory: "Laundry", Rule: "Laundry services", MaxAmount: 2000, Conditions: "Reimbursable for business travel", LimitFrequency: models.FrequencyDaily},
		{Category: models.CategoryHousehold, SubCategory: "Driver", Rule: "Driver services", MaxAmount: 5000, Conditions: "Pre-approval mandatory", LimitFrequency: models.FrequencyMonthly},

		// IT / cloud / software
		{Category: models.CategoryIT, SubCategory: "Cloud", Rule: "Cloud infrastructure usage", MaxAmount: 20000, Conditions: "Project and cost-center approved", LimitFrequency: models.FrequencyMonthly},
		{Category: models.CategoryIT, SubCategory: "SaaS", Rule: "SaaS / software subscriptions", MaxAmount: 20000, Conditions: "Business tools only", LimitFrequency: models.FrequencyMonthly},

		// Corporate
		{Category: models.CategoryCorporate, SubCategory: "Events", Rule: "Corporate events & offsites", MaxAmount: 50000, Conditions: "HR approval required", LimitFrequency: models.FrequencyTotal},

		// Statutory taxes are never limited.
		{Category: models.CategoryStatutory, SubCategory: "Tax", Rule: "Statutory taxes", MaxAmount: math.Inf(1), Conditions: "Always allowed", LimitFrequency: models.FrequencyTotal},
	}
}
