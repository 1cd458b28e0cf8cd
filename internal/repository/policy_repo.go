package repository

import (
	"database/sql"
	"fmt"

	"github.com/finvue/expense-engine/internal/models"
	"github.com/finvue/expense-engine/pkg/database"
	"go.uber.org/zap"
)

// PolicyRepository is the policy store: one spending rule per category in
// normal operation. Duplicate categories are possible if Add is misused;
// the validator resolves duplicates with last-row-wins.
type PolicyRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewPolicyRepository creates a new policy repository
func NewPolicyRepository(db *database.DB, logger *zap.Logger) *PolicyRepository {
	return &PolicyRepository{
		db:     db,
		logger: logger,
	}
}

// List returns all policy rules grouped by category in insertion order.
func (r *PolicyRepository) List() ([]*models.PolicyRule, error) {
	query := `
		SELECT id, category, sub_category, rule, max_amount, conditions, limit_frequency
		FROM policies
		ORDER BY category, id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list policies", zap.Error(err))
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	defer rows.Close()

	var policies []*models.PolicyRule
	for rows.Next() {
		var p models.PolicyRule
		var subCategory, rule, conditions, frequency sql.NullString
		if err := rows.Scan(&p.ID, &p.Category, &subCategory, &rule, &p.MaxAmount, &conditions, &frequency); err != nil {
			return nil, fmt.Errorf("failed to scan policy: %w", err)
		}
		p.SubCategory = subCategory.String
		p.Rule = rule.String
		p.Conditions = conditions.String
		p.LimitFrequency = frequency.String
		policies = append(policies, &p)
	}

	return policies, rows.Err()
}

// Add inserts a new policy rule
func (r *PolicyRepository) Add(rule *models.PolicyRule) error {
	query := `
		INSERT INTO policies (category, sub_category, rule, max_amount, conditions, limit_frequency)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		rule.Category,
		rule.SubCategory,
		rule.Rule,
		rule.MaxAmount,
		rule.Conditions,
		rule.LimitFrequency,
	)
	if err != nil {
		r.logger.Error("Failed to add policy", zap.String("category", rule.Category), zap.Error(err))
		return fmt.Errorf("failed to add policy: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rule.ID = id
	return nil
}

// Delete removes a policy rule by id
func (r *PolicyRepository) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM policies WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete policy", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete policy: %w", err)
	}
	return nil
}

// Count returns the number of stored policy rules. Used as the startup
// sentinel: an empty table triggers a default seed.
func (r *PolicyRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM policies").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count policies: %w", err)
	}
	return count, nil
}

// Seed destructively reloads the policy table with the given default set.
// All existing rows are deleted first; the whole reload is one transaction.
func (r *PolicyRepository) Seed(defaults []*models.PolicyRule) error {
	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM policies"); err != nil {
			return fmt.Errorf("failed to clear policies: %w", err)
		}

		query := `
			INSERT INTO policies (category, sub_category, rule, max_amount, conditions, limit_frequency)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		for _, rule := range defaults {
			if _, err := tx.Exec(query,
				rule.Category,
				rule.SubCategory,
				rule.Rule,
				rule.MaxAmount,
				rule.Conditions,
				rule.LimitFrequency,
			); err != nil {
				return fmt.Errorf("failed to insert default policy %s/%s: %w", rule.Category, rule.SubCategory, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("Policy table seeded", zap.Int("count", len(defaults)))
	return nil
}
