package narrative

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finvue/expense-engine/internal/models"
)

func TestBuildUserPromptPassesNumbersVerbatim(t *testing.T) {
	reports := []*models.ReconciliationReport{
		{
			InvoiceNumber:     "INV-2026-001",
			InvoiceDate:       "2026-01-10",
			Currency:          "INR",
			BasicAmount:       900,
			TaxAmount:         100,
			InvoiceTotal:      1000,
			PaidAmount:        600.55,
			OutstandingAmount: 399.45,
			Status:            models.PaymentStatusPartiallyPaid,
			Transactions: []models.TransactionDetail{
				{TransactionDate: "2026-01-15", Amount: 600.55, Currency: "INR"},
			},
		},
	}

	dataset, err := json.MarshalIndent(reports, "", "  ")
	require.NoError(t, err)
	prompt := buildUserPrompt("Acme Industries", string(dataset))

	assert.Contains(t, prompt, "Acme Industries")
	assert.Contains(t, prompt, "INV-2026-001")
	assert.Contains(t, prompt, "600.55")
	assert.Contains(t, prompt, "399.45")
	assert.Contains(t, prompt, "PARTIALLY_PAID")
}

func TestSystemPromptForbidsRecomputation(t *testing.T) {
	assert.Contains(t, systemPrompt, "Do NOT perform calculations")
	assert.Contains(t, systemPrompt, "Do NOT recompute totals")
}
