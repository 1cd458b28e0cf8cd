package repository

import (
	"fmt"

	"github.com/finvue/expense-engine/internal/models"
	"github.com/finvue/expense-engine/pkg/database"
	"go.uber.org/zap"
)

// ValidationLogRepository is the append-only audit trail of validation
// decisions. Rows are never updated or deleted.
type ValidationLogRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewValidationLogRepository creates a new validation log repository
func NewValidationLogRepository(db *database.DB, logger *zap.Logger) *ValidationLogRepository {
	return &ValidationLogRepository{
		db:     db,
		logger: logger,
	}
}

// Append records one validation decision with its full serialized result.
func (r *ValidationLogRepository) Append(receiptID int64, decision, details string) error {
	query := `
		INSERT INTO validation_logs (receipt_id, decision, details)
		VALUES (?, ?, ?)
	`

	if _, err := r.db.Exec(query, receiptID, decision, details); err != nil {
		r.logger.Error("Failed to append validation log",
			zap.Int64("receipt_id", receiptID),
			zap.Error(err))
		return fmt.Errorf("failed to append validation log: %w", err)
	}

	return nil
}

// List returns all validation logs, most recent first.
func (r *ValidationLogRepository) List() ([]*models.ValidationLog, error) {
	query := `
		SELECT id, receipt_id, decision, details, created_at
		FROM validation_logs
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list validation logs", zap.Error(err))
		return nil, fmt.Errorf("failed to list validation logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.ValidationLog
	for rows.Next() {
		var log models.ValidationLog
		if err := rows.Scan(&log.ID, &log.ReceiptID, &log.Decision, &log.Details, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan validation log: %w", err)
		}
		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
