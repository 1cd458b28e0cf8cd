package ledger

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/finvue/expense-engine/internal/models"
	"github.com/finvue/expense-engine/internal/repository"
	"github.com/finvue/expense-engine/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLedger(t *testing.T) (*Ledger, *repository.InvoiceRepository, *repository.TransactionRepository) {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "ledger_test.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).Run())

	invoices := repository.NewInvoiceRepository(db, logger)
	txns := repository.NewTransactionRepository(db, logger)
	return New(db, invoices, txns, logger), invoices, txns
}

func testInvoice(number string, total float64) *models.Invoice {
	return &models.Invoice{
		InvoiceNumber: number,
		InvoiceDate:   "2026-01-10",
		DueDate:       "2026-01-25",
		InvoiceType:   "SERVICE",
		Currency:      "INR",
		BasicAmount:   total * 0.9,
		TaxAmount:     total * 0.1,
		TotalAmount:   total,
		CustomerID:    1,
		CustomerName:  "Acme Industries",
	}
}

func testTxn(invoiceNumber string, amount float64) *models.Transaction {
	return &models.Transaction{
		TransactionDate:     "2026-01-12",
		Amount:              amount,
		BankName:            "HDFC",
		AccountNumber:       "0012345678",
		PaymentMode:         "NEFT",
		Currency:            "INR",
		CustomerID:          1,
		CustomerName:        "Acme Industries",
		LinkedInvoiceNumber: invoiceNumber,
	}
}

func TestInsertTransactionPartialThenCompleted(t *testing.T) {
	ledger, invoices, _ := newTestLedger(t)
	require.NoError(t, invoices.Create(testInvoice("INV-001", 1000)))

	status, err := ledger.InsertTransaction(context.Background(), testTxn("INV-001", 600))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartiallyPaid, status)

	inv, err := invoices.GetByNumber(nil, "INV-001")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartiallyPaid, inv.PaymentStatus)

	// Paying the exact remaining balance completes the invoice.
	status, err = ledger.InsertTransaction(context.Background(), testTxn("INV-001", 400))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, status)

	inv, err = invoices.GetByNumber(nil, "INV-001")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, inv.PaymentStatus)
}

func TestInsertTransactionExactFullPayment(t *testing.T) {
	ledger, invoices, _ := newTestLedger(t)
	require.NoError(t, invoices.Create(testInvoice("INV-002", 2500)))

	status, err := ledger.InsertTransaction(context.Background(), testTxn("INV-002", 2500))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, status)
}

func TestInsertTransactionOverpaymentRejected(t *testing.T) {
	ledger, invoices, txns := newTestLedger(t)
	require.NoError(t, invoices.Create(testInvoice("INV-003", 1000)))

	_, err := ledger.InsertTransaction(context.Background(), testTxn("INV-003", 700))
	require.NoError(t, err)

	_, err = ledger.InsertTransaction(context.Background(), testTxn("INV-003", 500))
	require.Error(t, err)
	assert.True(t, IsOverpayment(err))

	var overpayment *OverpaymentError
	require.ErrorAs(t, err, &overpayment)
	assert.Equal(t, 300.0, overpayment.Remaining)

	// The rejected insert left no trace: sum unchanged, status unchanged.
	paid, err := txns.SumForInvoice(nil, "INV-003")
	require.NoError(t, err)
	assert.Equal(t, 700.0, paid)

	inv, err := invoices.GetByNumber(nil, "INV-003")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartiallyPaid, inv.PaymentStatus)
}

func TestInsertTransactionUnknownInvoice(t *testing.T) {
	ledger, _, _ := newTestLedger(t)

	_, err := ledger.InsertTransaction(context.Background(), testTxn("NO-SUCH", 100))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestInsertTransactionNonPositiveAmount(t *testing.T) {
	ledger, invoices, _ := newTestLedger(t)
	require.NoError(t, invoices.Create(testInvoice("INV-004", 1000)))

	_, err := ledger.InsertTransaction(context.Background(), testTxn("INV-004", 0))
	assert.Error(t, err)

	_, err = ledger.InsertTransaction(context.Background(), testTxn("INV-004", -50))
	assert.Error(t, err)
}

func TestInsertTransactionConcurrentWritersHoldInvariant(t *testing.T) {
	ledger, invoices, txns := newTestLedger(t)
	require.NoError(t, invoices.Create(testInvoice("INV-005", 1000)))

	// Ten concurrent 300s against a 1000 invoice: at most three can land.
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.InsertTransaction(context.Background(), testTxn("INV-005", 300)); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, accepted)

	paid, err := txns.SumForInvoice(nil, "INV-005")
	require.NoError(t, err)
	assert.LessOrEqual(t, paid, 1000.0)
	assert.Equal(t, 900.0, paid)
}
