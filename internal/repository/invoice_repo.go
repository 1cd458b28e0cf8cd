package repository

import (
	"database/sql"
	"fmt"

	"github.com/finvue/expense-engine/internal/models"
	"github.com/finvue/expense-engine/pkg/database"
	"go.uber.org/zap"
)

// InvoiceRepository persists invoices. PaymentStatus mutation goes through
// UpdateStatus only, and only the ledger calls it.
type InvoiceRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *database.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new invoice in PENDING status.
func (r *InvoiceRepository) Create(invoice *models.Invoice) error {
	if invoice.PaymentStatus == "" {
		invoice.PaymentStatus = models.PaymentStatusPending
	}

	query := `
		INSERT INTO invoices (
			invoice_number, invoice_date, due_date, invoice_type, currency,
			basic_amount, tax_amount, invoice_total_amount, raw_invoice_text,
			payment_status, customer_id, customer_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		invoice.InvoiceNumber,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.InvoiceType,
		invoice.Currency,
		invoice.BasicAmount,
		invoice.TaxAmount,
		invoice.TotalAmount,
		invoice.RawInvoiceText,
		invoice.PaymentStatus,
		invoice.CustomerID,
		invoice.CustomerName,
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.String("invoice_number", invoice.InvoiceNumber), zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	invoice.ID = id
	return nil
}

const invoiceColumns = `
	iid, invoice_number, invoice_date, due_date, invoice_type, currency,
	basic_amount, tax_amount, invoice_total_amount, payment_status,
	customer_id, customer_name, created_at
`

func scanInvoice(row interface{ Scan(...any) error }) (*models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(
		&inv.ID,
		&inv.InvoiceNumber,
		&inv.InvoiceDate,
		&inv.DueDate,
		&inv.InvoiceType,
		&inv.Currency,
		&inv.BasicAmount,
		&inv.TaxAmount,
		&inv.TotalAmount,
		&inv.PaymentStatus,
		&inv.CustomerID,
		&inv.CustomerName,
		&inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByNumber returns an invoice by its unique number, or nil when not
// found. Runs inside tx when one is given, so the ledger's read-validate-
// insert sequence sees a consistent snapshot.
func (r *InvoiceRepository) GetByNumber(tx *sql.Tx, invoiceNumber string) (*models.Invoice, error) {
	query := "SELECT " + invoiceColumns + " FROM invoices WHERE invoice_number = ?"

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRow(query, invoiceNumber)
	} else {
		row = r.db.QueryRow(query, invoiceNumber)
	}

	inv, err := scanInvoice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.String("invoice_number", invoiceNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return inv, nil
}

// ListByCustomer returns a customer's invoices, optionally bounded by an
// inclusive invoice_date range (ISO date strings). Each bound applies
// independently; an empty bound is ignored.
func (r *InvoiceRepository) ListByCustomer(customerID int64, fromDate, toDate string) ([]*models.Invoice, error) {
	query := "SELECT " + invoiceColumns + " FROM invoices WHERE customer_id = ?"
	args := []any{customerID}

	if fromDate != "" {
		query += " AND invoice_date >= ?"
		args = append(args, fromDate)
	}
	if toDate != "" {
		query += " AND invoice_date <= ?"
		args = append(args, toDate)
	}
	query += " ORDER BY invoice_date, iid"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Int64("customer_id", customerID), zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	return invoices, rows.Err()
}

// ListOpenByCustomer returns invoices still accepting payments.
func (r *InvoiceRepository) ListOpenByCustomer(customerID int64) ([]*models.Invoice, error) {
	query := "SELECT " + invoiceColumns + ` FROM invoices
		WHERE customer_id = ?
		AND UPPER(payment_status) IN ('PENDING', 'PARTIALLY_PAID')`

	rows, err := r.db.Query(query, customerID)
	if err != nil {
		r.logger.Error("Failed to list open invoices", zap.Int64("customer_id", customerID), zap.Error(err))
		return nil, fmt.Errorf("failed to list open invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	return invoices, rows.Err()
}

// UpdateStatus sets the payment status of an invoice.
func (r *InvoiceRepository) UpdateStatus(tx *sql.Tx, invoiceNumber, status string) error {
	query := "UPDATE invoices SET payment_status = ? WHERE invoice_number = ?"

	var err error
	if tx != nil {
		_, err = tx.Exec(query, status, invoiceNumber)
	} else {
		_, err = r.db.Exec(query, status, invoiceNumber)
	}
	if err != nil {
		r.logger.Error("Failed to update invoice status",
			zap.String("invoice_number", invoiceNumber),
			zap.String("status", status),
			zap.Error(err))
		return fmt.Errorf("failed to update invoice status: %w", err)
	}

	return nil
}
