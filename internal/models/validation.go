package models

import "time"

// Validation decisions.
const (
	DecisionApproved = "APPROVED"
	DecisionRejected = "REJECTED"
)

// Fixed explanation strings attached to the final decision.
const (
	ExplanationApproved    = "All receipt expenses comply with company policies."
	ExplanationRejected    = "Receipt contains expenses that are either not covered by company policy or violate defined limits."
	ExplanationUnvalidated = "Receipt could not be validated."
)

// ApprovedItem is a line item or category total that cleared policy checks.
type ApprovedItem struct {
	Item      string   `json:"item,omitempty"`
	Category  string   `json:"category,omitempty"`
	Total     *float64 `json:"total,omitempty"`
	UnitPrice *float64 `json:"unit_price"`
	Status    string   `json:"status"`
}

// Violation is a category whose aggregated total breaches its policy limit,
// or a category with no policy defined (Limit nil in that case).
type Violation struct {
	Policy    string   `json:"policy"`
	Rule      string   `json:"rule,omitempty"`
	Limit     *float64 `json:"limit"`
	UnitPrice *float64 `json:"unit_price"`
	Actual    float64  `json:"actual"`
	Reason    string   `json:"reason"`
}

// UncoveredItem is a line item with no applicable policy category. Not a
// violation, but its presence still rejects the receipt.
type UncoveredItem struct {
	Item      string   `json:"item,omitempty"`
	UnitPrice *float64 `json:"unit_price,omitempty"`
	Reason    string   `json:"reason"`
}

// ValidationResult is the immutable outcome of one receipt validation run.
// Decision is REJECTED iff Violations or UncoveredItems is non-empty.
type ValidationResult struct {
	Decision       string          `json:"decision"`
	ApprovedItems  []ApprovedItem  `json:"approved_items"`
	Violations     []Violation     `json:"violations"`
	UncoveredItems []UncoveredItem `json:"uncovered_items"`
	Explanation    string          `json:"explanation"`
}

// Rejected reports whether the result carries any rejection cause.
func (r *ValidationResult) Rejected() bool {
	return len(r.Violations) > 0 || len(r.UncoveredItems) > 0
}

// ValidationLog is one append-only audit trail row.
type ValidationLog struct {
	ID        int64     `json:"id"`
	ReceiptID int64     `json:"receipt_id"`
	Decision  string    `json:"decision"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
