package models

// Customer owns invoices and transactions by reference. Validated at
// creation time; an invalid customer is never persisted.
type Customer struct {
	ID           int64  `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	CustomerType string `json:"customer_type"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	CompanyName  string `json:"company_name"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	ZipCode      string `json:"zip_code"`
	Industry     string `json:"industry,omitempty"`
	RiskRating   string `json:"risk_rating,omitempty"`
}
