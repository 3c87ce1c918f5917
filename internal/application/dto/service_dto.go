package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdateServiceRequest actualización parcial del perfil del taller.
type UpdateServiceRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string          `json:"description" validate:"omitempty,max=1000"`
	Address        *string          `json:"address" validate:"omitempty,max=300"`
	City           *string          `json:"city" validate:"omitempty,max=100"`
	Phone          *string          `json:"phone" validate:"omitempty,max=50"`
	Email          *string          `json:"email" validate:"omitempty,email"`
	Website        *string          `json:"website" validate:"omitempty,url"`
	TaxID          *string          `json:"tax_id" validate:"omitempty,max=50"`
	DefaultTaxRate *decimal.Decimal `json:"default_tax_rate"`
	Currency       *string          `json:"currency" validate:"omitempty,len=3"`
	InvoiceTerms   *int             `json:"invoice_terms" validate:"omitempty,min=0,max=365"`
}

// ServiceResponse perfil del taller.
type ServiceResponse struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"owner_id"`
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	Address        *string         `json:"address"`
	City           *string         `json:"city"`
	Phone          *string         `json:"phone"`
	Email          *string         `json:"email"`
	Website        *string         `json:"website"`
	TaxID          *string         `json:"tax_id"`
	DefaultTaxRate decimal.Decimal `json:"default_tax_rate"`
	Currency       string          `json:"currency"`
	InvoiceTerms   int             `json:"invoice_terms"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
