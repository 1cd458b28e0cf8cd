// Package recon matches invoices against their linked payment transactions
// to derive outstanding balances and reconciliation status. Pure
// read/aggregate work; nothing here mutates stored state.
package recon

import (
	"context"
	"fmt"

	"github.com/finvue/expense-engine/internal/models"
	"go.uber.org/zap"
)

// TransactionSource supplies the per-invoice transaction detail rows.
type TransactionSource interface {
	DetailsByInvoice(invoiceNumber string) ([]models.TransactionDetail, error)
}

// Analyzer computes reconciliation reports for invoice batches.
type Analyzer struct {
	txns   TransactionSource
	logger *zap.Logger
}

// NewAnalyzer creates a new Analyzer
func NewAnalyzer(txns TransactionSource, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		txns:   txns,
		logger: logger,
	}
}

// Analyze produces one report per invoice: paid amount, outstanding amount,
// derived tri-state status, and the transaction detail list handed to the
// narrative adapter downstream.
func (a *Analyzer) Analyze(ctx context.Context, invoices []*models.Invoice) ([]*models.ReconciliationReport, error) {
	reports := make([]*models.ReconciliationReport, 0, len(invoices))

	for _, inv := range invoices {
		details, err := a.txns.DetailsByInvoice(inv.InvoiceNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch transactions for %s: %w", inv.InvoiceNumber, err)
		}

		totalPaid := 0.0
		for _, d := range details {
			totalPaid += d.Amount
		}

		outstanding := inv.TotalAmount - totalPaid

		reports = append(reports, &models.ReconciliationReport{
			InvoiceNumber:     inv.InvoiceNumber,
			InvoiceDate:       inv.InvoiceDate,
			Currency:          inv.Currency,
			BasicAmount:       inv.BasicAmount,
			TaxAmount:         inv.TaxAmount,
			InvoiceTotal:      inv.TotalAmount,
			PaidAmount:        totalPaid,
			OutstandingAmount: outstanding,
			Status:            deriveStatus(totalPaid, outstanding),
			Transactions:      details,
		})
	}

	a.logger.Debug("Reconciliation analysis completed", zap.Int("invoices", len(reports)))
	return reports, nil
}

// ReconcileOne summarizes a single invoice: total paid, total deductions
// withheld across its transactions, and the difference against the invoice
// total.
func (a *Analyzer) ReconcileOne(ctx context.Context, invoice *models.Invoice) (*models.ReconciliationSummary, error) {
	details, err := a.txns.DetailsByInvoice(invoice.InvoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for %s: %w", invoice.InvoiceNumber, err)
	}

	paid := 0.0
	deductions := 0.0
	for _, d := range details {
		paid += d.Amount
		deductions += d.BankCharges + d.TaxDeducted + d.GatewayFee + d.ForexCharges
	}

	return &models.ReconciliationSummary{
		InvoiceTotal:    invoice.TotalAmount,
		TotalPaid:       paid,
		TotalDeductions: deductions,
		Difference:      invoice.TotalAmount - paid,
	}, nil
}

// deriveStatus is the tri-state reconciliation rule: COMPLETED when fully
// paid, PARTIALLY_PAID when anything has landed, PENDING when nothing has.
func deriveStatus(paid, outstanding float64) string {
	switch {
	case outstanding == 0 && paid > 0:
		return models.PaymentStatusCompleted
	case paid > 0:
		return models.PaymentStatusPartiallyPaid
	default:
		return models.PaymentStatusPending
	}
}
