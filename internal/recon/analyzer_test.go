package recon

import (
	"context"
	"errors"
	"testing"

	"github.com/finvue/expense-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubTxnSource struct {
	byInvoice map[string][]models.TransactionDetail
	err       error
}

func (s *stubTxnSource) DetailsByInvoice(invoiceNumber string) ([]models.TransactionDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byInvoice[invoiceNumber], nil
}

func invoice(number string, total float64) *models.Invoice {
	return &models.Invoice{
		InvoiceNumber: number,
		InvoiceDate:   "2026-02-01",
		Currency:      "INR",
		BasicAmount:   total * 0.9,
		TaxAmount:     total * 0.1,
		TotalAmount:   total,
	}
}

func TestAnalyzeStatusDerivation(t *testing.T) {
	source := &stubTxnSource{byInvoice: map[string][]models.TransactionDetail{
		"INV-PARTIAL": {
			{TransactionDate: "2026-02-03", Amount: 400, Currency: "INR"},
			{TransactionDate: "2026-02-07", Amount: 200, Currency: "INR"},
		},
		"INV-FULL": {
			{TransactionDate: "2026-02-05", Amount: 1000, Currency: "INR"},
		},
	}}
	analyzer := NewAnalyzer(source, zap.NewNop())

	reports, err := analyzer.Analyze(context.Background(), []*models.Invoice{
		invoice("INV-NONE", 1000),
		invoice("INV-PARTIAL", 1000),
		invoice("INV-FULL", 1000),
	})
	require.NoError(t, err)
	require.Len(t, reports, 3)

	none := reports[0]
	assert.Equal(t, models.PaymentStatusPending, none.Status)
	assert.Equal(t, 0.0, none.PaidAmount)
	assert.Equal(t, 1000.0, none.OutstandingAmount)
	assert.Empty(t, none.Transactions)

	partial := reports[1]
	assert.Equal(t, models.PaymentStatusPartiallyPaid, partial.Status)
	assert.Equal(t, 600.0, partial.PaidAmount)
	assert.Equal(t, 400.0, partial.OutstandingAmount)
	assert.Len(t, partial.Transactions, 2)

	full := reports[2]
	assert.Equal(t, models.PaymentStatusCompleted, full.Status)
	assert.Equal(t, 1000.0, full.PaidAmount)
	assert.Equal(t, 0.0, full.OutstandingAmount)
}

func TestAnalyzeCarriesInvoiceFields(t *testing.T) {
	analyzer := NewAnalyzer(&stubTxnSource{}, zap.NewNop())

	reports, err := analyzer.Analyze(context.Background(), []*models.Invoice{invoice("INV-9", 500)})
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, "INV-9", r.InvoiceNumber)
	assert.Equal(t, "2026-02-01", r.InvoiceDate)
	assert.Equal(t, "INR", r.Currency)
	assert.InDelta(t, 450.0, r.BasicAmount, 1e-9)
	assert.InDelta(t, 50.0, r.TaxAmount, 1e-9)
	assert.Equal(t, 500.0, r.InvoiceTotal)
}

func TestAnalyzePropagatesSourceError(t *testing.T) {
	analyzer := NewAnalyzer(&stubTxnSource{err: errors.New("db down")}, zap.NewNop())

	_, err := analyzer.Analyze(context.Background(), []*models.Invoice{invoice("INV-1", 100)})
	assert.Error(t, err)
}

func TestReconcileOneDeductions(t *testing.T) {
	source := &stubTxnSource{byInvoice: map[string][]models.TransactionDetail{
		"INV-D": {
			{Amount: 950, BankCharges: 20, TaxDeducted: 25, GatewayFee: 3, ForexCharges: 2},
			{Amount: 40, BankCharges: 0, TaxDeducted: 10},
		},
	}}
	analyzer := NewAnalyzer(source, zap.NewNop())

	summary, err := analyzer.ReconcileOne(context.Background(), invoice("INV-D", 1000))
	require.NoError(t, err)

	assert.Equal(t, 1000.0, summary.InvoiceTotal)
	assert.Equal(t, 990.0, summary.TotalPaid)
	assert.Equal(t, 60.0, summary.TotalDeductions)
	assert.Equal(t, 10.0, summary.Difference)
}
