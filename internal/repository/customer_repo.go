package repository

import (
	"database/sql"
	"fmt"

	"github.com/finvue/expense-engine/internal/models"
	"github.com/finvue/expense-engine/pkg/database"
	"go.uber.org/zap"
)

// CustomerRepository persists customers. Validation happens before Create is
// called; an invalid customer never reaches this layer.
type CustomerRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *database.DB, logger *zap.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new customer
func (r *CustomerRepository) Create(customer *models.Customer) error {
	query := `
		INSERT INTO customers (
			customer_name, customer_type, email, phone_number,
			company_name, address, city, state, country, zip_code,
			industry, risk_rating
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		customer.CustomerName,
		customer.CustomerType,
		customer.Email,
		customer.PhoneNumber,
		customer.CompanyName,
		customer.Address,
		customer.City,
		customer.State,
		customer.Country,
		customer.ZipCode,
		customer.Industry,
		customer.RiskRating,
	)
	if err != nil {
		r.logger.Error("Failed to create customer", zap.String("name", customer.CustomerName), zap.Error(err))
		return fmt.Errorf("failed to create customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	customer.ID = id
	return nil
}

// List returns all customers ordered by name.
func (r *CustomerRepository) List() ([]*models.Customer, error) {
	query := `
		SELECT customer_id, customer_name, customer_type, email, phone_number,
			company_name, address, city, state, country, zip_code,
			industry, risk_rating
		FROM customers
		ORDER BY customer_name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to list customers", zap.Error(err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		var c models.Customer
		var industry, riskRating sql.NullString
		if err := rows.Scan(
			&c.ID,
			&c.CustomerName,
			&c.CustomerType,
			&c.Email,
			&c.PhoneNumber,
			&c.CompanyName,
			&c.Address,
			&c.City,
			&c.State,
			&c.Country,
			&c.ZipCode,
			&industry,
			&riskRating,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		c.Industry = industry.String
		c.RiskRating = riskRating.String
		customers = append(customers, &c)
	}

	return customers, rows.Err()
}

// GetByID returns a customer, or nil when not found.
func (r *CustomerRepository) GetByID(id int64) (*models.Customer, error) {
	query := `
		SELECT customer_id, customer_name, customer_type, email, phone_number,
			company_name, address, city, state, country, zip_code,
			industry, risk_rating
		FROM customers
		WHERE customer_id = ?
	`

	var c models.Customer
	var industry, riskRating sql.NullString
	err := r.db.QueryRow(query, id).Scan(
		&c.ID,
		&c.CustomerName,
		&c.CustomerType,
		&c.Email,
		&c.PhoneNumber,
		&c.CompanyName,
		&c.Address,
		&c.City,
		&c.State,
		&c.Country,
		&c.ZipCode,
		&industry,
		&riskRating,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get customer", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	c.Industry = industry.String
	c.RiskRating = riskRating.String
	return &c, nil
}
