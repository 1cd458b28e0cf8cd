// Package narrative produces audit-grade reconciliation narratives from
// analyzer output. The generator only explains data the analyzer computed;
// it never alters a numeric value or performs its own calculations.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/finvue/expense-engine/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = `You are a Senior Finance Reconciliation Analyst preparing an audit-grade
reconciliation narrative for finance, compliance, and audit stakeholders.

YOUR RESPONSIBILITY:
- Read and understand ALL invoice and transaction data provided.
- Internally analyze transaction patterns per invoice.
- Produce a SUMMARY-ONLY explanation.

ABSOLUTE RULES (MANDATORY):
- Use ONLY the data explicitly provided.
- Do NOT perform calculations of any kind.
- Do NOT recompute totals, balances, or deductions.
- Do NOT alter, normalize, or convert currencies.
- Do NOT infer missing data or assume business intent.
- Do NOT provide recommendations or corrective actions.
- Do NOT repeat tables or list transaction rows.
- Do NOT enumerate individual transactions, even if many exist.

Transactions are provided ONLY for internal analysis,
NOT for reproduction in the explanation.`

// Generator turns reconciliation reports into human-readable summaries.
type Generator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewGenerator creates a new Generator
func NewGenerator(apiKey, model string, logger *zap.Logger) *Generator {
	return &Generator{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

// Explain produces a per-invoice narrative for a customer's reconciliation
// reports. The reports are serialized verbatim; the model is instructed to
// explain, not restate or recompute.
func (g *Generator) Explain(ctx context.Context, customerName string, reports []*models.ReconciliationReport) (string, error) {
	dataset, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize reconciliation dataset: %w", err)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildUserPrompt(customerName, string(dataset)),
			},
		},
	})
	if err != nil {
		g.logger.Error("LLM narrative call failed", zap.Error(err))
		return "", fmt.Errorf("narrative call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildUserPrompt(customerName, dataset string) string {
	return fmt.Sprintf(`Customer Name:
%s

Reconciliation Dataset (Invoices with Transactions):
%s

INSTRUCTIONS FOR OUTPUT:

Generate a structured, narrative reconciliation explanation.
Write one clearly separated section per invoice.
Do NOT include tables, bullet lists of transactions, or raw rows.

FOR EACH INVOICE, EXPLAIN:

1. Invoice Overview: invoice number, date, currency, basic amount,
   tax amount, total invoice amount.
2. Transaction Assessment (SUMMARY ONLY): whether the invoice has no
   transactions, a single transaction, or multiple transactions; describe
   behavior at a pattern level (partial payments, presence of deductions);
   explicitly mention if tax deducted, bank charges, gateway fees, or forex
   charges appear across transactions.
3. Currency Observations: state whether transaction currency matches the
   invoice currency. Mention differences ONLY as an observation.
4. Reconciliation Outcome: paid amount (as provided), outstanding amount
   (as provided), final invoice status (PENDING / PARTIALLY_PAID / COMPLETED).

LANGUAGE & TONE: professional, neutral, audit-friendly, factual.
No assumptions. No conclusions beyond the provided data.`, customerName, dataset)
}
