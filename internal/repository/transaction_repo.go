package repository

import (
	"database/sql"
	"fmt"

	"github.com/finvue/expense-engine/internal/models"
	"github.com/finvue/expense-engine/pkg/database"
	"go.uber.org/zap"
)

// TransactionRepository persists payment transactions. Rows are append-only;
// there is no update or delete path.
type TransactionRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// SumForInvoice returns the cumulative paid amount for an invoice. Runs
// inside tx when given so the ledger's overpayment check and insert share
// one snapshot.
func (r *TransactionRepository) SumForInvoice(tx *sql.Tx, invoiceNumber string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE linked_invoice_id = ?
	`

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRow(query, invoiceNumber)
	} else {
		row = r.db.QueryRow(query, invoiceNumber)
	}

	var total float64
	if err := row.Scan(&total); err != nil {
		r.logger.Error("Failed to sum transactions", zap.String("invoice_number", invoiceNumber), zap.Error(err))
		return 0, fmt.Errorf("failed to sum transactions: %w", err)
	}

	return total, nil
}

// Insert appends one transaction row.
func (r *TransactionRepository) Insert(tx *sql.Tx, txn *models.Transaction) error {
	query := `
		INSERT INTO transactions (
			transaction_date, narration, amount, bank_name, reference_number,
			account_number, account_type, payment_mode, currency,
			bank_charges, tax_deducted, gateway_fee, forex_charges,
			customer_id, customer_name, linked_invoice_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	args := []any{
		txn.TransactionDate,
		txn.Narration,
		txn.Amount,
		txn.BankName,
		txn.ReferenceNumber,
		txn.AccountNumber,
		txn.AccountType,
		txn.PaymentMode,
		txn.Currency,
		txn.BankCharges,
		txn.TaxDeducted,
		txn.GatewayFee,
		txn.ForexCharges,
		txn.CustomerID,
		txn.CustomerName,
		txn.LinkedInvoiceNumber,
	}

	var result sql.Result
	var err error
	if tx != nil {
		result, err = tx.Exec(query, args...)
	} else {
		result, err = r.db.Exec(query, args...)
	}
	if err != nil {
		r.logger.Error("Failed to insert transaction",
			zap.String("invoice_number", txn.LinkedInvoiceNumber),
			zap.Error(err))
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	txn.ID = id
	return nil
}

// DetailsByInvoice returns the per-transaction detail rows used by the
// reconciliation analyzer and the narrative adapter.
func (r *TransactionRepository) DetailsByInvoice(invoiceNumber string) ([]models.TransactionDetail, error) {
	query := `
		SELECT transaction_date, amount, tax_deducted, bank_charges,
			gateway_fee, forex_charges, currency, narration
		FROM transactions
		WHERE linked_invoice_id = ?
	`

	rows, err := r.db.Query(query, invoiceNumber)
	if err != nil {
		r.logger.Error("Failed to list transactions", zap.String("invoice_number", invoiceNumber), zap.Error(err))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var details []models.TransactionDetail
	for rows.Next() {
		var d models.TransactionDetail
		var narration sql.NullString
		if err := rows.Scan(
			&d.TransactionDate,
			&d.Amount,
			&d.TaxDeducted,
			&d.BankCharges,
			&d.GatewayFee,
			&d.ForexCharges,
			&d.Currency,
			&narration,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		d.Narration = narration.String
		details = append(details, d)
	}

	return details, rows.Err()
}

// ListByCustomer returns a customer's transactions, newest first, optionally
// narrowed to one linked invoice.
func (r *TransactionRepository) ListByCustomer(customerID int64, invoiceNumber string) ([]*models.Transaction, error) {
	query := `
		SELECT tid, transaction_date, narration, amount, bank_name,
			reference_number, account_number, account_type, payment_mode,
			currency, bank_charges, tax_deducted, gateway_fee, forex_charges,
			customer_id, customer_name, linked_invoice_id
		FROM transactions
		WHERE customer_id = ?
	`
	args := []any{customerID}
	if invoiceNumber != "" {
		query += " AND linked_invoice_id = ?"
		args = append(args, invoiceNumber)
	}
	query += " ORDER BY tid DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list transactions", zap.Int64("customer_id", customerID), zap.Error(err))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		var narration, referenceNumber, accountType sql.NullString
		if err := rows.Scan(
			&t.ID,
			&t.TransactionDate,
			&narration,
			&t.Amount,
			&t.BankName,
			&referenceNumber,
			&t.AccountNumber,
			&accountType,
			&t.PaymentMode,
			&t.Currency,
			&t.BankCharges,
			&t.TaxDeducted,
			&t.GatewayFee,
			&t.ForexCharges,
			&t.CustomerID,
			&t.CustomerName,
			&t.LinkedInvoiceNumber,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Narration = narration.String
		t.ReferenceNumber = referenceNumber.String
		t.AccountType = accountType.String
		txns = append(txns, &t)
	}

	return txns, rows.Err()
}
