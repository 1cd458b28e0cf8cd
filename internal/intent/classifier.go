// Package intent maps free-text line-item descriptions to semantic spending
// intents, and intents to policy categories. Generic and domain-agnostic:
// the tables carry no company-specific rules, only recognition vocabulary.
package intent

import (
	"strings"

	"github.com/finvue/expense-engine/internal/models"
)

// Intent is a semantic label inferred from a purchase description.
type Intent string

const (
	FoodConsumption      Intent = "FOOD_CONSUMPTION"
	Lodging              Intent = "LODGING"
	PersonalService      Intent = "PERSONAL_SERVICE"
	CloudCompute         Intent = "CLOUD_COMPUTE"
	SoftwareSubscription Intent = "SOFTWARE_SUBSCRIPTION"
	BusinessEvent        Intent = "BUSINESS_EVENT"
	Gambling             Intent = "GAMBLING"
	AlcoholEntertainment Intent = "ALCOHOL_ENTERTAINMENT"
	StatutoryTax         Intent = "STATUTORY_TAX"
	Travel               Intent = "TRAVEL"
)

type keywordEntry struct {
	intent   Intent
	keywords []string
}

// intentKeywords is ordered: the first intent whose keyword set produces a
// substring match wins, ties broken by table position rather than match
// specificity. Changing the order changes classification results.
var intentKeywords = []keywordEntry{
	{FoodConsumption, []string{
		"food", "meal", "breakfast", "lunch", "dinner",
		"paneer", "roti", "dal", "rice", "pulav", "pulao",
		"khichdi", "salad", "water", "mineral", "papad",
		"tikka", "curry", "sabzi", "naan", "paratha",
	}},
	{Lodging, []string{"room", "stay", "night", "accommodation", "suite"}},
	{PersonalService, []string{"laundry", "dry clean", "driver", "cleaning"}},
	{CloudCompute, []string{
		"aws", "ec2", "rds", "s3", "cloud",
		"compute", "storage", "bandwidth",
		"data transfer", "cloudwatch", "guardduty",
	}},
	{SoftwareSubscription, []string{"license", "subscription", "saas", "software"}},
	{BusinessEvent, []string{"conference", "seminar", "workshop", "event"}},
	{Gambling, []string{"casino", "poker", "bet", "gambling"}},
	{AlcoholEntertainment, []string{"bar", "pub", "liquor", "wine", "beer"}},
	{StatutoryTax, []string{"cgst", "sgst", "igst", "gst"}},
	{Travel, []string{"cab", "taxi", "transport", "uber", "ola"}},
}

// intentToCategory maps recognized intents to policy categories. GAMBLING and
// ALCOHOL_ENTERTAINMENT are recognized but hard-stopped to UNSUPPORTED.
var intentToCategory = map[Intent]string{
	FoodConsumption:      models.CategoryFood,
	Lodging:              models.CategoryAccommodation,
	PersonalService:      models.CategoryHousehold,
	CloudCompute:         models.CategoryIT,
	SoftwareSubscription: models.CategoryIT,
	BusinessEvent:        models.CategoryCorporate,
	StatutoryTax:         models.CategoryStatutory,
	Travel:               models.CategoryTravel,
	Gambling:             models.CategoryUnsupported,
	AlcoholEntertainment: models.CategoryUnsupported,
}

// Classify returns the spending intent for a line-item description, or
// ok=false when the description is blank or matches nothing.
func Classify(description string) (Intent, bool) {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return "", false
	}
	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(desc, kw) {
				return entry.intent, true
			}
		}
	}
	return "", false
}

// PolicyCategory maps an intent to its policy category. Unrecognized or
// missing intents map to UNSUPPORTED.
func PolicyCategory(in Intent, ok bool) string {
	if !ok {
		return models.CategoryUnsupported
	}
	if category, found := intentToCategory[in]; found {
		return category
	}
	return models.CategoryUnsupported
}
