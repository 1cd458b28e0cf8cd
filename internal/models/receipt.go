package models

import "time"

// Receipt represents an extracted receipt/invoice document header as persisted
// in the receipts table.
type Receipt struct {
	ID            int64     `json:"id"`
	GSTNumber     string    `json:"gst_number"`
	ReceiptNumber string    `json:"receipt_number"`
	DocumentType  string    `json:"document_type"`
	ReceiptDate   string    `json:"receipt_date"`
	VendorName    string    `json:"vendor_name"`
	BuyerName     string    `json:"buyer_name"`
	VendorAddress string    `json:"vendor_address"`
	BillType      string    `json:"bill_type"`
	TotalAmount   *float64  `json:"total_amount"`
	TaxAmount     *float64  `json:"tax_amount"`
	RawText       string    `json:"raw_text,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReceiptHeader holds the header fields produced by the extraction adapter.
// Upstream data is text-derived and untrustworthy, so every field is optional.
type ReceiptHeader struct {
	NumberOfDays  *int     `json:"number_of_days"`
	GSTNumber     *string  `json:"gst_number"`
	ReceiptNumber *string  `json:"receipt_number"`
	DocumentType  *string  `json:"document_type"`
	Date          *string  `json:"date"`
	VendorName    *string  `json:"vendor_name"`
	BuyerName     *string  `json:"buyer_name"`
	VendorAddress *string  `json:"vendor_address"`
	BillType      *string  `json:"bill_type"`
	TotalAmount   *float64 `json:"total_amount"`
	TaxAmount     *float64 `json:"tax_amount"`
}

// Days returns the billed number of days, defaulting to 1 when the
// extraction could not determine it.
func (h *ReceiptHeader) Days() int {
	if h == nil || h.NumberOfDays == nil || *h.NumberOfDays < 1 {
		return 1
	}
	return *h.NumberOfDays
}

// LineItem is a single extracted expense row. At least one of
// {Quantity & UnitPrice, TotalAmount} should resolve to a total; items that
// resolve to nothing still flow through validation and surface as uncovered.
type LineItem struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	TotalAmount *float64 `json:"total_amount"`
}

// ReceiptData is the full extraction payload handed to the validator.
type ReceiptData struct {
	Header    ReceiptHeader `json:"header"`
	LineItems []LineItem    `json:"line_items"`
}
