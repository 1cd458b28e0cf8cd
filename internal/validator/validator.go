// Package validator is the expense validation engine: it turns extracted
// line items plus the policy store into a deterministic APPROVE/REJECT
// decision with per-category reasons.
package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/finvue/expense-engine/internal/intent"
	"github.com/finvue/expense-engine/internal/models"
	"go.uber.org/zap"
)

// Reason strings surfaced to finance users.
const (
	ReasonNoLineItems      = "No line items found in receipt"
	ReasonNoMatchingPolicy = "No matching company policy"
	ReasonPolicyNotDefined = "Policy not defined"

	StatusStatutoryTax = "Statutory tax"
	StatusWithinLimits = "Within policy limits"
)

// PolicyLister supplies the current policy rule set.
type PolicyLister interface {
	List() ([]*models.PolicyRule, error)
}

// AuditWriter appends validation decisions to the audit trail.
type AuditWriter interface {
	Append(receiptID int64, decision, details string) error
}

// Validator validates receipts against category spending policies.
type Validator struct {
	policies PolicyLister
	audit    AuditWriter
	logger   *zap.Logger
}

// New creates a new Validator
func New(policies PolicyLister, audit AuditWriter, logger *zap.Logger) *Validator {
	return &Validator{
		policies: policies,
		audit:    audit,
		logger:   logger,
	}
}

// Validate runs one receipt through intent classification, category
// aggregation, and frequency-aware limit checks. Every run except the
// empty-line-items short circuit writes an audit trail row.
func (v *Validator) Validate(ctx context.Context, receiptID int64, data *models.ReceiptData) (*models.ValidationResult, error) {
	if len(data.LineItems) == 0 {
		// Terminal result; no audit row is written on this path.
		return &models.ValidationResult{
			Decision:      models.DecisionRejected,
			ApprovedItems: []models.ApprovedItem{},
			Violations:    []models.Violation{},
			UncoveredItems: []models.UncoveredItem{
				{Reason: ReasonNoLineItems},
			},
			Explanation: models.ExplanationUnvalidated,
		}, nil
	}

	rules, err := v.policies.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}

	// Duplicate categories collapse last-row-wins, matching insertion order.
	policyMap := make(map[string]*models.PolicyRule, len(rules))
	for _, rule := range rules {
		policyMap[rule.Category] = rule
	}

	result := &models.ValidationResult{
		ApprovedItems:  []models.ApprovedItem{},
		Violations:     []models.Violation{},
		UncoveredItems: []models.UncoveredItem{},
	}

	aggregates, categoryOrder := v.aggregate(data.LineItems, result)

	days := data.Header.Days()
	for _, category := range categoryOrder {
		agg := aggregates[category]
		rule, found := policyMap[category]

		if !found {
			result.Violations = append(result.Violations, models.Violation{
				Policy:    category,
				Limit:     nil,
				UnitPrice: agg.RepresentativeUnitPrice,
				Actual:    agg.TotalAmount,
				Reason:    ReasonPolicyNotDefined,
			})
			continue
		}

		if withinLimit(rule, agg.TotalAmount, days) {
			total := agg.TotalAmount
			result.ApprovedItems = append(result.ApprovedItems, models.ApprovedItem{
				Category:  category,
				Total:     &total,
				UnitPrice: agg.RepresentativeUnitPrice,
				Status:    StatusWithinLimits,
			})
		} else {
			limit := rule.MaxAmount
			result.Violations = append(result.Violations, models.Violation{
				Policy:    category,
				Rule:      rule.Rule,
				Limit:     &limit,
				UnitPrice: agg.RepresentativeUnitPrice,
				Actual:    agg.TotalAmount,
				Reason:    fmt.Sprintf("%s expense exceeds allowed limit", category),
			})
		}
	}

	if result.Rejected() {
		result.Decision = models.DecisionRejected
		result.Explanation = models.ExplanationRejected
	} else {
		result.Decision = models.DecisionApproved
		result.Explanation = models.ExplanationApproved
	}

	details, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize validation result: %w", err)
	}
	if err := v.audit.Append(receiptID, result.Decision, string(details)); err != nil {
		return nil, fmt.Errorf("failed to write audit log: %w", err)
	}

	v.logger.Info("Receipt validated",
		zap.Int64("receipt_id", receiptID),
		zap.String("decision", result.Decision),
		zap.Int("violations", len(result.Violations)),
		zap.Int("uncovered", len(result.UncoveredItems)))

	return result, nil
}

// aggregate routes each line item to uncovered/approved/category buckets and
// accumulates per-category totals. The representative unit price and quantity
// for a category are those of the last item processed for it.
func (v *Validator) aggregate(items []models.LineItem, result *models.ValidationResult) (map[string]*models.CategoryAggregate, []string) {
	aggregates := make(map[string]*models.CategoryAggregate)
	var order []string

	for _, item := range items {
		// The lowercased description doubles as the display name, matching
		// what the audit trail has always recorded.
		desc := strings.ToLower(item.Description)
		amount := 0.0
		if item.TotalAmount != nil {
			amount = *item.TotalAmount
		}

		detected, ok := intent.Classify(desc)
		category := intent.PolicyCategory(detected, ok)

		switch category {
		case models.CategoryUnsupported:
			result.UncoveredItems = append(result.UncoveredItems, models.UncoveredItem{
				Item:      desc,
				UnitPrice: ResolveUnitPrice(item),
				Reason:    ReasonNoMatchingPolicy,
			})

		case models.CategoryStatutory:
			// Taxes are never limited.
			result.ApprovedItems = append(result.ApprovedItems, models.ApprovedItem{
				Item:      desc,
				UnitPrice: ResolveUnitPrice(item),
				Status:    StatusStatutoryTax,
			})

		default:
			agg, seen := aggregates[category]
			if !seen {
				agg = &models.CategoryAggregate{Category: category}
				aggregates[category] = agg
				order = append(order, category)
			}
			agg.TotalAmount += amount
			agg.RepresentativeUnitPrice = ResolveUnitPrice(item)
			agg.RepresentativeQuantity = 1
			if item.Quantity != nil {
				agg.RepresentativeQuantity = *item.Quantity
			}
		}
	}

	return aggregates, order
}

// withinLimit applies the frequency-aware limit check. Daily limits compare
// the per-day average when the receipt spans more than one day; monthly and
// total limits compare the raw total. Equality passes.
func withinLimit(rule *models.PolicyRule, total float64, days int) bool {
	value := total
	if rule.LimitFrequency == models.FrequencyDaily && days > 1 {
		value = total / float64(days)
	}
	return value <= rule.MaxAmount
}
