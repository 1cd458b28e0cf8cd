package models

import "time"

// Invoice payment statuses. An invoice only ever moves toward COMPLETED;
// nothing restores PENDING once a payment has landed.
const (
	PaymentStatusPending       = "PENDING"
	PaymentStatusPartiallyPaid = "PARTIALLY_PAID"
	PaymentStatusCompleted     = "COMPLETED"
)

// Invoice is a receivable owned by a customer. InvoiceTotalAmount must equal
// BasicAmount + TaxAmount; PaymentStatus is mutated only by the ledger.
type Invoice struct {
	ID             int64     `json:"id"`
	InvoiceNumber  string    `json:"invoice_number"`
	InvoiceDate    string    `json:"invoice_date"`
	DueDate        string    `json:"due_date"`
	InvoiceType    string    `json:"invoice_type"`
	Currency       string    `json:"currency"`
	BasicAmount    float64   `json:"basic_amount"`
	TaxAmount      float64   `json:"tax_amount"`
	TotalAmount    float64   `json:"invoice_total_amount"`
	RawInvoiceText string    `json:"raw_invoice_text,omitempty"`
	PaymentStatus  string    `json:"payment_status"`
	CustomerID     int64     `json:"customer_id"`
	CustomerName   string    `json:"customer_name"`
	CreatedAt      time.Time `json:"created_at"`
}

// Transaction is one payment event against an invoice. Append-only once
// inserted; the deduction fields default to zero.
type Transaction struct {
	ID              int64   `json:"id"`
	TransactionDate string  `json:"transaction_date"`
	Narration       string  `json:"narration,omitempty"`
	Amount          float64 `json:"amount"`
	BankName        string  `json:"bank_name"`
	ReferenceNumber string  `json:"reference_number,omitempty"`
	AccountNumber   string  `json:"account_number"`
	AccountType     string  `json:"account_type,omitempty"`
	PaymentMode     string  `json:"payment_mode"`
	Currency        string  `json:"currency"`
	BankCharges     float64 `json:"bank_charges"`
	TaxDeducted     float64 `json:"tax_deducted"`
	GatewayFee      float64 `json:"gateway_fee"`
	ForexCharges    float64 `json:"forex_charges"`
	CustomerID      int64   `json:"customer_id"`
	CustomerName    string  `json:"customer_name"`
	// LinkedInvoiceNumber references invoices.invoice_number.
	LinkedInvoiceNumber string `json:"linked_invoice_id"`
}
