package repository

import (
	"database/sql"
	"fmt"

	"github.com/finvue/expense-engine/internal/models"
	"github.com/finvue/expense-engine/pkg/database"
	"go.uber.org/zap"
)

// ReceiptRepository persists extracted receipt headers.
type ReceiptRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *database.DB, logger *zap.Logger) *ReceiptRepository {
	return &ReceiptRepository{
		db:     db,
		logger: logger,
	}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create stores an extracted receipt header plus its raw text and returns
// the new receipt id. Extraction data is untrustworthy; missing fields are
// stored as empty/null rather than rejected.
func (r *ReceiptRepository) Create(header *models.ReceiptHeader, rawText string) (int64, error) {
	query := `
		INSERT INTO receipts (
			gst_number, receipt_number, document_type, receipt_date,
			vendor_name, buyer_name, vendor_address, bill_type,
			total_amount, tax_amount, raw_text
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		stringValue(header.GSTNumber),
		stringValue(header.ReceiptNumber),
		stringValue(header.DocumentType),
		stringValue(header.Date),
		stringValue(header.VendorName),
		stringValue(header.BuyerName),
		stringValue(header.VendorAddress),
		stringValue(header.BillType),
		header.TotalAmount,
		header.TaxAmount,
		rawText,
	)
	if err != nil {
		r.logger.Error("Failed to create receipt", zap.Error(err))
		return 0, fmt.Errorf("failed to create receipt: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return id, nil
}

// List returns all receipts, most recent first.
func (r *ReceiptRepository) List() ([]*models.Receipt, error) {
	query := `
		SELECT id, vendor_name, bill_type, total_amount, tax_amount, created_at
		FROM receipts
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list receipts", zap.Error(err))
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		var receipt models.Receipt
		var vendorName, billType sql.NullString
		var totalAmount, taxAmount sql.NullFloat64
		if err := rows.Scan(&receipt.ID, &vendorName, &billType, &totalAmount, &taxAmount, &receipt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipt.VendorName = vendorName.String
		receipt.BillType = billType.String
		if totalAmount.Valid {
			receipt.TotalAmount = &totalAmount.Float64
		}
		if taxAmount.Valid {
			receipt.TaxAmount = &taxAmount.Float64
		}
		receipts = append(receipts, &receipt)
	}

	return receipts, rows.Err()
}

// GetByID returns the full stored receipt, or nil when it does not exist.
func (r *ReceiptRepository) GetByID(id int64) (*models.Receipt, error) {
	query := `
		SELECT id, gst_number, receipt_number, document_type, receipt_date,
			vendor_name, buyer_name, vendor_address, bill_type,
			total_amount, tax_amount, raw_text, created_at
		FROM receipts
		WHERE id = ?
	`

	var receipt models.Receipt
	var gstNumber, receiptNumber, documentType, receiptDate sql.NullString
	var vendorName, buyerName, vendorAddress, billType, rawText sql.NullString
	var totalAmount, taxAmount sql.NullFloat64

	err := r.db.QueryRow(query, id).Scan(
		&receipt.ID,
		&gstNumber,
		&receiptNumber,
		&documentType,
		&receiptDate,
		&vendorName,
		&buyerName,
		&vendorAddress,
		&billType,
		&totalAmount,
		&taxAmount,
		&rawText,
		&receipt.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get receipt", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	receipt.GSTNumber = gstNumber.String
	receipt.ReceiptNumber = receiptNumber.String
	receipt.DocumentType = documentType.String
	receipt.ReceiptDate = receiptDate.String
	receipt.VendorName = vendorName.String
	receipt.BuyerName = buyerName.String
	receipt.VendorAddress = vendorAddress.String
	receipt.BillType = billType.String
	receipt.RawText = rawText.String
	if totalAmount.Valid {
		receipt.TotalAmount = &totalAmount.Float64
	}
	if taxAmount.Valid {
		receipt.TaxAmount = &taxAmount.Float64
	}

	return &receipt, nil
}
