package utils

import (
	"errors"
	"testing"

	"github.com/finvue/expense-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer() *models.Customer {
	return &models.Customer{
		CustomerName: "Acme Industries",
		CustomerType: "ENTERPRISE",
		Email:        "billing@acme.example.com",
		PhoneNumber:  "9876543210",
		CompanyName:  "Acme Industries Pvt Ltd",
		Address:      "14 Industrial Estate",
		City:         "Pune",
		State:        "Maharashtra",
		Country:      "India",
		ZipCode:      "411001",
	}
}

func TestValidateCustomerAcceptsValid(t *testing.T) {
	assert.NoError(t, ValidateCustomer(validCustomer()))
}

func TestValidateCustomerRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Customer)
		field  string
	}{
		{"missing name", func(c *models.Customer) { c.CustomerName = "" }, "customer_name"},
		{"missing type", func(c *models.Customer) { c.CustomerType = "" }, "customer_type"},
		{"missing email", func(c *models.Customer) { c.Email = "" }, "email"},
		{"missing phone", func(c *models.Customer) { c.PhoneNumber = "" }, "phone_number"},
		{"missing company", func(c *models.Customer) { c.CompanyName = "" }, "company_name"},
		{"missing zip", func(c *models.Customer) { c.ZipCode = "" }, "zip_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCustomer()
			tt.mutate(c)

			err := ValidateCustomer(c)
			require.Error(t, err)

			var verr *CustomerValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateCustomerFormats(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Customer)
		field  string
	}{
		{"malformed email", func(c *models.Customer) { c.Email = "not-an-email" }, "email"},
		{"email with spaces", func(c *models.Customer) { c.Email = "a b@c.com" }, "email"},
		{"phone too short", func(c *models.Customer) { c.PhoneNumber = "12345" }, "phone_number"},
		{"phone with letters", func(c *models.Customer) { c.PhoneNumber = "98765abc10" }, "phone_number"},
		{"zip too short", func(c *models.Customer) { c.ZipCode = "123" }, "zip_code"},
		{"zip with letters", func(c *models.Customer) { c.ZipCode = "41100A" }, "zip_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCustomer()
			tt.mutate(c)

			err := ValidateCustomer(c)
			require.Error(t, err)

			var verr *CustomerValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
