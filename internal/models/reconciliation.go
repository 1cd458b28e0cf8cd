package models

// TransactionDetail is the per-transaction slice of a reconciliation report,
// passed verbatim to the narrative adapter.
type TransactionDetail struct {
	TransactionDate string  `json:"transaction_date"`
	Amount          float64 `json:"amount"`
	TaxDeducted     float64 `json:"tax_deducted"`
	BankCharges     float64 `json:"bank_charges"`
	GatewayFee      float64 `json:"gateway_fee"`
	ForexCharges    float64 `json:"forex_charges"`
	Currency        string  `json:"currency"`
	Narration       string  `json:"narration"`
}

// ReconciliationReport matches one invoice against the sum of its linked
// payment transactions. Computed on demand, never persisted.
type ReconciliationReport struct {
	InvoiceNumber     string              `json:"invoice_number"`
	InvoiceDate       string              `json:"invoice_date"`
	Currency          string              `json:"currency"`
	BasicAmount       float64             `json:"basic_amount"`
	TaxAmount         float64             `json:"tax_amount"`
	InvoiceTotal      float64             `json:"invoice_total_amount"`
	PaidAmount        float64             `json:"paid_amount"`
	OutstandingAmount float64             `json:"outstanding_amount"`
	Status            string              `json:"status"`
	Transactions      []TransactionDetail `json:"transactions"`
}

// ReconciliationSummary is the single-invoice variant with deduction totals.
type ReconciliationSummary struct {
	InvoiceTotal    float64 `json:"invoice_total"`
	TotalPaid       float64 `json:"total_paid"`
	TotalDeductions float64 `json:"total_deductions"`
	Difference      float64 `json:"difference"`
}
