package models

import "time"

// Customer is an account using the CRM/ERP integration product.
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"index"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Plan      string    `json:"plan" gorm:"default:basic"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateCustomerRequest is the payload for registering a customer.
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Plan    string `json:"plan"`
}

// UpdateCustomerRequest carries a partial customer mutation.
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
	Plan    *string `json:"plan"`
}
