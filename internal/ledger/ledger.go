// Package ledger records payment transactions against invoices and derives
// payment status transitions. It is the only writer of invoices.payment_status.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/finvue/expense-engine/internal/models"
	"github.com/finvue/expense-engine/internal/repository"
	"github.com/finvue/expense-engine/pkg/database"
	"go.uber.org/zap"
)

// Ledger enforces the overpayment invariant: the cumulative sum of accepted
// transaction amounts for an invoice never exceeds its total.
//
// The check-then-insert sequence is serialized per invoice: a striped mutex
// keeps concurrent writers to the same invoice out of each other's window,
// and the whole sequence runs inside one database transaction. Without both,
// two concurrent inserts could read the same remaining balance and both pass
// validation.
type Ledger struct {
	db       *database.DB
	invoices *repository.InvoiceRepository
	txns     *repository.TransactionRepository
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a new Ledger
func New(db *database.DB, invoices *repository.InvoiceRepository, txns *repository.TransactionRepository, logger *zap.Logger) *Ledger {
	return &Ledger{
		db:       db,
		invoices: invoices,
		txns:     txns,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (l *Ledger) invoiceLock(invoiceNumber string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[invoiceNumber]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[invoiceNumber] = lock
	}
	return lock
}

// InsertTransaction validates and appends one payment transaction, then
// updates the invoice payment status. Returns the new status.
//
// The remaining balance is evaluated before the new row is inserted; the
// invoice is COMPLETED only when the transaction amount equals the remaining
// balance exactly, otherwise PARTIALLY_PAID. PENDING is never re-set: an
// invoice only moves toward COMPLETED.
func (l *Ledger) InsertTransaction(ctx context.Context, txn *models.Transaction) (string, error) {
	if txn.Amount <= 0 {
		return "", fmt.Errorf("transaction amount must be positive: %.2f", txn.Amount)
	}
	if txn.LinkedInvoiceNumber == "" {
		return "", fmt.Errorf("linked invoice number is required")
	}

	lock := l.invoiceLock(txn.LinkedInvoiceNumber)
	lock.Lock()
	defer lock.Unlock()

	var newStatus string
	err := l.db.WithTransaction(func(tx *sql.Tx) error {
		invoice, err := l.invoices.GetByNumber(tx, txn.LinkedInvoiceNumber)
		if err != nil {
			return err
		}
		if invoice == nil {
			return fmt.Errorf("%w: %s", ErrInvoiceNotFound, txn.LinkedInvoiceNumber)
		}

		paidSoFar, err := l.txns.SumForInvoice(tx, txn.LinkedInvoiceNumber)
		if err != nil {
			return err
		}

		remaining := invoice.TotalAmount - paidSoFar
		if txn.Amount > remaining {
			return &OverpaymentError{
				InvoiceNumber: txn.LinkedInvoiceNumber,
				Amount:        txn.Amount,
				Remaining:     remaining,
			}
		}

		if err := l.txns.Insert(tx, txn); err != nil {
			return err
		}

		// Exact equality marks the invoice fully paid. Callers submitting
		// rounded amounts land in PARTIALLY_PAID until the residue is paid.
		if txn.Amount == remaining {
			newStatus = models.PaymentStatusCompleted
		} else {
			newStatus = models.PaymentStatusPartiallyPaid
		}

		return l.invoices.UpdateStatus(tx, txn.LinkedInvoiceNumber, newStatus)
	})
	if err != nil {
		if IsOverpayment(err) {
			l.logger.Warn("Transaction rejected: overpayment",
				zap.String("invoice_number", txn.LinkedInvoiceNumber),
				zap.Float64("amount", txn.Amount))
		}
		return "", err
	}

	l.logger.Info("Transaction recorded",
		zap.String("invoice_number", txn.LinkedInvoiceNumber),
		zap.Float64("amount", txn.Amount),
		zap.String("payment_status", newStatus))

	return newStatus, nil
}
