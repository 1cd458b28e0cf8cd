// Package extraction is the boundary adapter that turns uploaded receipt
// documents into structured header and line-item data. Everything produced
// here is text-derived and untrustworthy; the coercion step normalizes it
// into typed records before the core ever sees it.
package extraction

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/finvue/expense-engine/internal/models"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Outcome is the result of one document extraction. A failed LLM parse does
// not abort the pipeline: Data degrades to empty header/items and Err
// carries the cause, so a degraded receipt record still flows downstream.
type Outcome struct {
	Data      models.ReceiptData
	RawText   string
	RawOutput string
	Err       string
}

// Degraded reports whether extraction produced unusable data.
func (o *Outcome) Degraded() bool {
	return o.Err != ""
}

// Extractor extracts structured receipt data from documents using an LLM.
type Extractor struct {
	client *openai.Client
	model  string
	temp   float32
	logger *zap.Logger
}

// NewExtractor creates a new Extractor
func NewExtractor(apiKey, model string, temperature float32, logger *zap.Logger) *Extractor {
	return &Extractor{
		client: openai.NewClient(apiKey),
		model:  model,
		temp:   temperature,
		logger: logger,
	}
}

// rawExtraction mirrors the field names the prompt asks the model to emit.
// Numeric fields arrive as numbers or strings depending on the model's mood,
// so everything is interface-typed and coerced afterwards.
type rawExtraction struct {
	Header    rawHeader `json:"header"`
	LineItems []rawItem `json:"line_items"`
}

type rawHeader struct {
	NumberOfDays  any `json:"Number of days"`
	GSTNumber     any `json:"GST Number"`
	ReceiptNumber any `json:"Receipt Number"`
	DocumentType  any `json:"Document Type"`
	Date          any `json:"Date"`
	VendorName    any `json:"Vendor Name"`
	BuyerName     any `json:"Buyer Name"`
	VendorAddress any `json:"Vendor Address"`
	BillType      any `json:"Bill Type"`
	TotalAmount   any `json:"Total Amount"`
	TaxAmount     any `json:"Tax Amount"`
}

type rawItem struct {
	Description any `json:"description"`
	Quantity    any `json:"quantity"`
	UnitPrice   any `json:"unit_price"`
	TotalAmount any `json:"total_amount"`
}

// Extract reads the document text and asks the LLM for structured data.
// Transport failures return an error; unparseable LLM output returns a
// degraded Outcome instead.
func (e *Extractor) Extract(ctx context.Context, path string) (*Outcome, error) {
	rawText, err := ExtractText(path)
	if err != nil {
		return nil, err
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: e.temp,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert enterprise finance document parser. Return ONLY valid JSON, no explanations, no markdown.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildExtractionPrompt(rawText),
			},
		},
	})
	if err != nil {
		e.logger.Error("LLM extraction call failed", zap.Error(err))
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from LLM")
	}

	content := resp.Choices[0].Message.Content

	var raw rawExtraction
	if err := SanitizeJSON(content, &raw); err != nil {
		e.logger.Warn("Failed to parse extraction output",
			zap.Error(err),
			zap.String("content", content))
		return &Outcome{
			RawText:   rawText,
			RawOutput: content,
			Err:       err.Error(),
		}, nil
	}

	outcome := &Outcome{
		Data:    coerce(&raw),
		RawText: rawText,
	}

	e.logger.Info("Receipt extracted",
		zap.Int("line_items", len(outcome.Data.LineItems)))

	return outcome, nil
}

// coerce normalizes interface-typed extraction output into the typed
// receipt data records the validator consumes.
func coerce(raw *rawExtraction) models.ReceiptData {
	header := models.ReceiptHeader{
		NumberOfDays:  asInt(raw.Header.NumberOfDays),
		GSTNumber:     asString(raw.Header.GSTNumber),
		ReceiptNumber: asString(raw.Header.ReceiptNumber),
		DocumentType:  asString(raw.Header.DocumentType),
		Date:          asString(raw.Header.Date),
		VendorName:    asString(raw.Header.VendorName),
		BuyerName:     asString(raw.Header.BuyerName),
		VendorAddress: asString(raw.Header.VendorAddress),
		BillType:      asString(raw.Header.BillType),
		TotalAmount:   asFloat(raw.Header.TotalAmount),
		TaxAmount:     asFloat(raw.Header.TaxAmount),
	}

	items := make([]models.LineItem, 0, len(raw.LineItems))
	for _, it := range raw.LineItems {
		desc := ""
		if s := asString(it.Description); s != nil {
			desc = *s
		}
		items = append(items, models.LineItem{
			Description: desc,
			Quantity:    asFloat(it.Quantity),
			UnitPrice:   asFloat(it.UnitPrice),
			TotalAmount: asFloat(it.TotalAmount),
		})
	}

	return models.ReceiptData{Header: header, LineItems: items}
}

func asString(v any) *string {
	switch s := v.(type) {
	case string:
		if strings.TrimSpace(s) == "" {
			return nil
		}
		out := s
		return &out
	case float64:
		out := strconv.FormatFloat(s, 'f', -1, 64)
		return &out
	default:
		return nil
	}
}

func asFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		cleaned = strings.TrimPrefix(cleaned, "₹")
		if cleaned == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

func asInt(v any) *int {
	f := asFloat(v)
	if f == nil {
		return nil
	}
	out := int(math.Round(*f))
	return &out
}
