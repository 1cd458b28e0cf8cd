package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/finvue/expense-engine/internal/models"
	"github.com/finvue/expense-engine/internal/policy"
	"github.com/finvue/expense-engine/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "repo_test.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).Run())
	return db
}

func TestPolicySeedAndReload(t *testing.T) {
	db := newTestDB(t)
	repo := NewPolicyRepository(db, zap.NewNop())

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, repo.Seed(policy.Defaults()))

	rules, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, rules, len(policy.Defaults()))

	// Reload after a stray add restores exactly the default set.
	require.NoError(t, repo.Add(&models.PolicyRule{
		Category:       models.CategoryFood,
		SubCategory:    "Snacks",
		Rule:           "Office snacks",
		MaxAmount:      500,
		LimitFrequency: models.FrequencyDaily,
	}))

	require.NoError(t, repo.Seed(policy.Defaults()))
	rules, err = repo.List()
	require.NoError(t, err)
	assert.Len(t, rules, len(policy.Defaults()))
}

func TestPolicyUnboundedRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewPolicyRepository(db, zap.NewNop())
	require.NoError(t, repo.Seed(policy.Defaults()))

	rules, err := repo.List()
	require.NoError(t, err)

	var statutory *models.PolicyRule
	for _, r := range rules {
		if r.Category == models.CategoryStatutory {
			statutory = r
		}
	}
	require.NotNil(t, statutory)
	assert.True(t, statutory.Unbounded())
}

func TestPolicyAddDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewPolicyRepository(db, zap.NewNop())

	rule := &models.PolicyRule{
		Category:       models.CategoryUtilities,
		SubCategory:    "Mobile",
		Rule:           "Mobile bill reimbursement",
		MaxAmount:      1000,
		Conditions:     "Single connection",
		LimitFrequency: models.FrequencyMonthly,
	}
	require.NoError(t, repo.Add(rule))
	require.NotZero(t, rule.ID)

	require.NoError(t, repo.Delete(rule.ID))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestValidationLogOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewValidationLogRepository(db, zap.NewNop())

	require.NoError(t, repo.Append(1, models.DecisionApproved, `{"decision":"APPROVED"}`))
	require.NoError(t, repo.Append(2, models.DecisionRejected, `{"decision":"REJECTED"}`))
	require.NoError(t, repo.Append(3, models.DecisionApproved, `{"decision":"APPROVED"}`))

	logs, err := repo.List()
	require.NoError(t, err)
	require.Len(t, logs, 3)

	// Most recent first.
	assert.Equal(t, int64(3), logs[0].ReceiptID)
	assert.Equal(t, int64(2), logs[1].ReceiptID)
	assert.Equal(t, int64(1), logs[2].ReceiptID)
	assert.WithinDuration(t, time.Now(), logs[0].CreatedAt, time.Minute)
}

func TestReceiptCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewReceiptRepository(db, zap.NewNop())

	vendor := "Cloud Hosting Co"
	total := 11800.0
	tax := 1800.0
	header := &models.ReceiptHeader{
		VendorName:  &vendor,
		TotalAmount: &total,
		TaxAmount:   &tax,
	}

	id, err := repo.Create(header, "raw invoice text")
	require.NoError(t, err)
	require.NotZero(t, id)

	receipt, err := repo.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, "Cloud Hosting Co", receipt.VendorName)
	require.NotNil(t, receipt.TotalAmount)
	assert.Equal(t, 11800.0, *receipt.TotalAmount)
	assert.Equal(t, "raw invoice text", receipt.RawText)

	missing, err := repo.GetByID(9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCustomerCreateAndList(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db, zap.NewNop())

	customer := &models.Customer{
		CustomerName: "Zenith Traders",
		CustomerType: "SMB",
		Email:        "accounts@zenith.example.com",
		PhoneNumber:  "9812345670",
		CompanyName:  "Zenith Traders LLP",
		Address:      "2 Market Road",
		City:         "Mumbai",
		State:        "Maharashtra",
		Country:      "India",
		ZipCode:      "400001",
	}
	require.NoError(t, repo.Create(customer))
	require.NotZero(t, customer.ID)

	customers, err := repo.List()
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Zenith Traders", customers[0].CustomerName)

	got, err := repo.GetByID(customer.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "accounts@zenith.example.com", got.Email)
}

func TestInvoiceListByCustomerDateRange(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db, zap.NewNop())

	mk := func(number, date string) *models.Invoice {
		return &models.Invoice{
			InvoiceNumber: number,
			InvoiceDate:   date,
			DueDate:       "2026-03-01",
			InvoiceType:   "SERVICE",
			Currency:      "INR",
			BasicAmount:   900,
			TaxAmount:     100,
			TotalAmount:   1000,
			CustomerID:    1,
			CustomerName:  "Acme Industries",
		}
	}
	require.NoError(t, repo.Create(mk("INV-A", "2026-01-05")))
	require.NoError(t, repo.Create(mk("INV-B", "2026-02-10")))
	require.NoError(t, repo.Create(mk("INV-C", "2026-03-15")))

	all, err := repo.ListByCustomer(1, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ranged, err := repo.ListByCustomer(1, "2026-02-01", "2026-02-28")
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "INV-B", ranged[0].InvoiceNumber)

	// Each bound applies on its own.
	fromOnly, err := repo.ListByCustomer(1, "2026-02-01", "")
	require.NoError(t, err)
	require.Len(t, fromOnly, 2)
	assert.Equal(t, "INV-B", fromOnly[0].InvoiceNumber)
	assert.Equal(t, "INV-C", fromOnly[1].InvoiceNumber)

	toOnly, err := repo.ListByCustomer(1, "", "2026-01-31")
	require.NoError(t, err)
	require.Len(t, toOnly, 1)
	assert.Equal(t, "INV-A", toOnly[0].InvoiceNumber)
}

func TestInvoiceOpenListing(t *testing.T) {
	db := newTestDB(t)
	repo := NewInvoiceRepository(db, zap.NewNop())

	inv := &models.Invoice{
		InvoiceNumber: "INV-OPEN",
		InvoiceDate:   "2026-01-05",
		DueDate:       "2026-01-20",
		InvoiceType:   "GOODS",
		Currency:      "INR",
		BasicAmount:   450,
		TaxAmount:     50,
		TotalAmount:   500,
		CustomerID:    2,
		CustomerName:  "Beta Corp",
	}
	require.NoError(t, repo.Create(inv))

	open, err := repo.ListOpenByCustomer(2)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	require.NoError(t, repo.UpdateStatus(nil, "INV-OPEN", models.PaymentStatusCompleted))

	open, err = repo.ListOpenByCustomer(2)
	require.NoError(t, err)
	assert.Empty(t, open)
}
