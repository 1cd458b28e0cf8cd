package ledger

import (
	"errors"
	"fmt"
)

// ErrInvoiceNotFound is returned when a transaction references an invoice
// number that does not exist.
var ErrInvoiceNotFound = errors.New("invoice not found")

// OverpaymentError is returned when a transaction would push the cumulative
// paid amount past the invoice total. The caller must not retry with the
// same amount; Remaining is the maximum acceptable amount.
type OverpaymentError struct {
	InvoiceNumber string
	Amount        float64
	Remaining     float64
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("transaction amount %.2f exceeds remaining invoice balance. Remaining amount: %.2f",
		e.Amount, e.Remaining)
}

// IsOverpayment reports whether err wraps an OverpaymentError.
func IsOverpayment(err error) bool {
	var target *OverpaymentError
	return errors.As(err, &target)
}
