package http

import (
	"errors"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/finvue/expense-engine/internal/config"
	"github.com/finvue/expense-engine/internal/ledger"
	"github.com/finvue/expense-engine/internal/models"
	"github.com/finvue/expense-engine/internal/policy"
	"github.com/finvue/expense-engine/internal/statement"
	"github.com/finvue/expense-engine/internal/storage"
	"github.com/finvue/expense-engine/pkg/utils"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	upload   config.UploadConfig
	uploads  *storage.UploadStore
	logger   *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, upload config.UploadConfig, logger *zap.Logger) *Handlers {
	return &Handlers{
		services: services,
		upload:   upload,
		uploads:  storage.NewUploadStore(upload.Dir, logger),
		logger:   logger,
	}
}

// saveUpload reads a multipart file and persists it through the upload store.
func (h *Handlers) saveUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	return h.uploads.Save(file.Filename, content)
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// ValidateReceiptRequest carries pre-extracted receipt data for validation.
type ValidateReceiptRequest struct {
	ReceiptID   int64              `json:"receipt_id"`
	ReceiptData models.ReceiptData `json:"receipt_data"`
}

// ValidateReceipt handles POST /api/receipts/validate
func (h *Handlers) ValidateReceipt(c *gin.Context) {
	var req ValidateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	result, err := h.services.Validator.Validate(c.Request.Context(), req.ReceiptID, &req.ReceiptData)
	if err != nil {
		h.logger.Error("Validation failed", zap.Int64("receipt_id", req.ReceiptID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "validation failed"})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// UploadReceiptResponse is the end-to-end result of a document upload.
type UploadReceiptResponse struct {
	ReceiptID       int64                    `json:"receipt_id"`
	ExtractionError string                   `json:"extraction_error,omitempty"`
	Validation      *models.ValidationResult `json:"validation"`
}

// UploadReceipt handles POST /api/receipts/upload. The document is parsed,
// extracted, persisted and validated in one pass.
func (h *Handlers) UploadReceipt(c *gin.Context) {
	if h.services.Extractor == nil {
		c.JSON(http.StatusServiceUnavailable, Response{Success: false, Error: "extraction is not configured"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "file is required"})
		return
	}
	if file.Size > int64(h.upload.MaxSizeMB)<<20 {
		c.JSON(http.StatusRequestEntityTooLarge, Response{Success: false, Error: "file too large"})
		return
	}

	dest, err := h.saveUpload(file)
	if err != nil {
		h.logger.Error("Failed to save upload", zap.String("file", file.Filename), zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	outcome, err := h.services.Extractor.Extract(c.Request.Context(), dest)
	if err != nil {
		h.logger.Error("Extraction failed", zap.String("file", file.Filename), zap.Error(err))
		c.JSON(http.StatusBadGateway, Response{Success: false, Error: "extraction failed: " + err.Error()})
		return
	}

	rawText := ""
	if h.upload.KeepRawText {
		rawText = outcome.RawText
	}
	receiptID, err := h.services.Receipts.Create(&outcome.Data.Header, rawText)
	if err != nil {
		h.logger.Error("Failed to persist receipt", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to persist receipt"})
		return
	}

	result, err := h.services.Validator.Validate(c.Request.Context(), receiptID, &outcome.Data)
	if err != nil {
		h.logger.Error("Validation failed", zap.Int64("receipt_id", receiptID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "validation failed"})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: UploadReceiptResponse{
			ReceiptID:       receiptID,
			ExtractionError: outcome.Err,
			Validation:      result,
		},
	})
}

// ListReceipts handles GET /api/receipts
func (h *Handlers) ListReceipts(c *gin.Context) {
	receipts, err := h.services.Receipts.List()
	if err != nil {
		h.logger.Error("Failed to list receipts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve receipts"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: receipts})
}

// GetReceipt handles GET /api/receipts/:id
func (h *Handlers) GetReceipt(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid receipt ID"})
		return
	}

	receipt, err := h.services.Receipts.GetByID(id)
	if err != nil {
		h.logger.Error("Failed to get receipt", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve receipt"})
		return
	}
	if receipt == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "receipt not found"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: receipt})
}

// ListPolicies handles GET /api/policies
func (h *Handlers) ListPolicies(c *gin.Context) {
	rules, err := h.services.Policies.List()
	if err != nil {
		h.logger.Error("Failed to list policies", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve policies"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: rules})
}

// AddPolicyRequest is the payload for creating a policy rule. A null or
// absent max_amount means the rule is unbounded.
type AddPolicyRequest struct {
	Category       string   `json:"category" binding:"required"`
	SubCategory    string   `json:"sub_category"`
	Rule           string   `json:"rule" binding:"required"`
	MaxAmount      *float64 `json:"max_amount"`
	Conditions     string   `json:"conditions"`
	LimitFrequency string   `json:"limit_frequency" binding:"required"`
}

// AddPolicy handles POST /api/policies
func (h *Handlers) AddPolicy(c *gin.Context) {
	var req AddPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	maxAmount := math.Inf(1)
	if req.MaxAmount != nil {
		maxAmount = *req.MaxAmount
	}
	rule := &models.PolicyRule{
		Category:       req.Category,
		SubCategory:    req.SubCategory,
		Rule:           req.Rule,
		MaxAmount:      maxAmount,
		Conditions:     req.Conditions,
		LimitFrequency: req.LimitFrequency,
	}
	if err := h.services.Policies.Add(rule); err != nil {
		h.logger.Error("Failed to add policy", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to add policy"})
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: rule})
}

// DeletePolicy handles DELETE /api/policies/:id
func (h *Handlers) DeletePolicy(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid policy ID"})
		return
	}
	if err := h.services.Policies.Delete(id); err != nil {
		h.logger.Error("Failed to delete policy", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to delete policy"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// ReloadPolicies handles POST /api/policies/reload. The current rule set is
// replaced with the built-in defaults.
func (h *Handlers) ReloadPolicies(c *gin.Context) {
	if err := h.services.Policies.Seed(policy.Defaults()); err != nil {
		h.logger.Error("Failed to reload default policies", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to reload policies"})
		return
	}
	rules, err := h.services.Policies.List()
	if err != nil {
		h.logger.Error("Failed to list policies", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve policies"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: rules})
}

// ListValidationLogs handles GET /api/validation-logs
func (h *Handlers) ListValidationLogs(c *gin.Context) {
	logs, err := h.services.ValidationLogs.List()
	if err != nil {
		h.logger.Error("Failed to list validation logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve validation logs"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: logs})
}

// CreateCustomer handles POST /api/customers
func (h *Handlers) CreateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	if err := utils.ValidateCustomer(&customer); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	if err := h.services.Customers.Create(&customer); err != nil {
		h.logger.Error("Failed to create customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to create customer"})
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: customer})
}

// ListCustomers handles GET /api/customers
func (h *Handlers) ListCustomers(c *gin.Context) {
	customers, err := h.services.Customers.List()
	if err != nil {
		h.logger.Error("Failed to list customers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve customers"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: customers})
}

// CreateInvoice handles POST /api/invoices
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var invoice models.Invoice
	if err := c.ShouldBindJSON(&invoice); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	if invoice.InvoiceNumber == "" || invoice.CustomerID == 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invoice_number and customer_id are required"})
		return
	}
	if invoice.TotalAmount <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invoice_total_amount must be positive"})
		return
	}
	if err := h.services.Invoices.Create(&invoice); err != nil {
		h.logger.Error("Failed to create invoice", zap.String("invoice_number", invoice.InvoiceNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to create invoice"})
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: invoice})
}

// ListInvoices handles GET /api/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Query("customer_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "customer_id is required"})
		return
	}

	invoices, err := h.services.Invoices.ListByCustomer(customerID, c.Query("from_date"), c.Query("to_date"))
	if err != nil {
		h.logger.Error("Failed to list invoices", zap.Int64("customer_id", customerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve invoices"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: invoices})
}

// TransactionResponse reports the accepted transaction and the invoice
// status after it was applied.
type TransactionResponse struct {
	Transaction   *models.Transaction `json:"transaction"`
	PaymentStatus string              `json:"payment_status"`
}

// CreateTransaction handles POST /api/transactions. Overpayments are
// rejected with 409 and leave the ledger unchanged.
func (h *Handlers) CreateTransaction(c *gin.Context) {
	var txn models.Transaction
	if err := c.ShouldBindJSON(&txn); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}
	if txn.LinkedInvoiceNumber == "" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "linked_invoice_id is required"})
		return
	}
	if txn.Amount <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "amount must be positive"})
		return
	}

	status, err := h.services.Ledger.InsertTransaction(c.Request.Context(), &txn)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvoiceNotFound):
			c.JSON(http.StatusNotFound, Response{Success: false, Error: "invoice not found"})
		case ledger.IsOverpayment(err):
			c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
		default:
			h.logger.Error("Failed to record transaction",
				zap.String("invoice_number", txn.LinkedInvoiceNumber), zap.Error(err))
			c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to record transaction"})
		}
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    TransactionResponse{Transaction: &txn, PaymentStatus: status},
	})
}

// ListTransactions handles GET /api/transactions. Results are scoped to one
// customer and optionally narrowed to a single linked invoice.
func (h *Handlers) ListTransactions(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Query("customer_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "customer_id is required"})
		return
	}

	txns, err := h.services.Transactions.ListByCustomer(customerID, c.Query("invoice_number"))
	if err != nil {
		h.logger.Error("Failed to list transactions", zap.Int64("customer_id", customerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve transactions"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: txns})
}

// ParseStatement handles POST /api/statements/parse. The uploaded bank
// statement is parsed into rows that feed manual transaction entry.
func (h *Handlers) ParseStatement(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "file is required"})
		return
	}

	dest, err := h.saveUpload(file)
	if err != nil {
		h.logger.Error("Failed to save upload", zap.String("file", file.Filename), zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}
	defer h.uploads.Remove(dest)

	rows, err := statement.Parse(dest)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "failed to parse statement: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: rows})
}

// ReconciliationResponse bundles per-invoice reports with an optional
// LLM-generated narrative.
type ReconciliationResponse struct {
	Customer  *models.Customer               `json:"customer"`
	Reports   []*models.ReconciliationReport `json:"reports"`
	Narrative string                         `json:"narrative,omitempty"`
}

// Reconcile handles GET /api/reconciliation
func (h *Handlers) Reconcile(c *gin.Context) {
	customerID, err := strconv.ParseInt(c.Query("customer_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "customer_id is required"})
		return
	}

	customer, err := h.services.Customers.GetByID(customerID)
	if err != nil {
		h.logger.Error("Failed to get customer", zap.Int64("id", customerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve customer"})
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "customer not found"})
		return
	}

	invoices, err := h.services.Invoices.ListByCustomer(customerID, c.Query("from_date"), c.Query("to_date"))
	if err != nil {
		h.logger.Error("Failed to list invoices", zap.Int64("customer_id", customerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve invoices"})
		return
	}

	reports, err := h.services.Analyzer.Analyze(c.Request.Context(), invoices)
	if err != nil {
		h.logger.Error("Reconciliation failed", zap.Int64("customer_id", customerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "reconciliation failed"})
		return
	}

	resp := ReconciliationResponse{Customer: customer, Reports: reports}

	if c.Query("narrative") == "true" {
		if h.services.Narrator == nil {
			c.JSON(http.StatusServiceUnavailable, Response{Success: false, Error: "narrative generation is not configured"})
			return
		}
		text, err := h.services.Narrator.Explain(c.Request.Context(), customer.CustomerName, reports)
		if err != nil {
			h.logger.Error("Narrative generation failed", zap.Int64("customer_id", customerID), zap.Error(err))
			c.JSON(http.StatusBadGateway, Response{Success: false, Error: "narrative generation failed"})
			return
		}
		resp.Narrative = text
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

// InvoiceSummaryResponse pairs one invoice with its reconciliation summary.
type InvoiceSummaryResponse struct {
	Invoice *models.Invoice               `json:"invoice"`
	Summary *models.ReconciliationSummary `json:"summary"`
}

// ReconcileInvoice handles GET /api/reconciliation/:invoice_number
func (h *Handlers) ReconcileInvoice(c *gin.Context) {
	invoiceNumber := c.Param("invoice_number")

	invoice, err := h.services.Invoices.GetByNumber(nil, invoiceNumber)
	if err != nil {
		h.logger.Error("Failed to get invoice", zap.String("invoice_number", invoiceNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve invoice"})
		return
	}
	if invoice == nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "invoice not found"})
		return
	}

	summary, err := h.services.Analyzer.ReconcileOne(c.Request.Context(), invoice)
	if err != nil {
		h.logger.Error("Reconciliation failed", zap.String("invoice_number", invoiceNumber), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "reconciliation failed"})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    InvoiceSummaryResponse{Invoice: invoice, Summary: summary},
	})
}
