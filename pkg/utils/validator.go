package utils

import (
	"fmt"
	"regexp"

	"github.com/finvue/expense-engine/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRegex = regexp.MustCompile(`^\d{7,15}$`)
	zipRegex   = regexp.MustCompile(`^\d{4,10}$`)
)

// CustomerValidationError marks a customer record rejected before
// persistence. The invalid record is never stored.
type CustomerValidationError struct {
	Field   string
	Message string
}

func (e *CustomerValidationError) Error() string {
	return e.Message
}

// ValidateCustomer checks required fields and format constraints. It must be
// called before any persistence; an error here fails the whole request.
func ValidateCustomer(c *models.Customer) error {
	required := []struct {
		field string
		value string
	}{
		{"customer_name", c.CustomerName},
		{"customer_type", c.CustomerType},
		{"email", c.Email},
		{"phone_number", c.PhoneNumber},
		{"company_name", c.CompanyName},
		{"address", c.Address},
		{"city", c.City},
		{"state", c.State},
		{"country", c.Country},
		{"zip_code", c.ZipCode},
	}

	for _, r := range required {
		if r.value == "" {
			return &CustomerValidationError{
				Field:   r.field,
				Message: fmt.Sprintf("%s is mandatory", r.field),
			}
		}
	}

	if !emailRegex.MatchString(c.Email) {
		return &CustomerValidationError{Field: "email", Message: "Invalid email format"}
	}
	if !phoneRegex.MatchString(c.PhoneNumber) {
		return &CustomerValidationError{Field: "phone_number", Message: "Invalid phone number"}
	}
	if !zipRegex.MatchString(c.ZipCode) {
		return &CustomerValidationError{Field: "zip_code", Message: "Invalid zip code"}
	}

	return nil
}
