package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMenuItemRequest body para POST /api/menu-items.
type CreateMenuItemRequest struct {
	Name              string          `json:"name" validate:"required,max=200"`
	Description       string          `json:"description" validate:"omitempty,max=2000"`
	Category          string          `json:"category" validate:"omitempty,max=100"`
	Price             decimal.Decimal `json:"price"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	EstimatedDuration *int            `json:"estimated_duration" validate:"omitempty,min=0"`
	InventoryID       string          `json:"inventory_id" validate:"omitempty,uuid"`
	InventoryQuantity int             `json:"inventory_quantity" validate:"min=0"`
	IsActive          *bool           `json:"is_active"`
}

// UpdateMenuItemRequest actualización parcial. inventory_id "" desvincula el artículo.
type UpdateMenuItemRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description       *string          `json:"description" validate:"omitempty,max=2000"`
	Category          *string          `json:"category" validate:"omitempty,max=100"`
	Price             *decimal.Decimal `json:"price"`
	TaxRate           *decimal.Decimal `json:"tax_rate"`
	EstimatedDuration *int             `json:"estimated_duration" validate:"omitempty,min=0"`
	InventoryID       *string          `json:"inventory_id" validate:"omitempty,uuid"`
	InventoryQuantity *int             `json:"inventory_quantity" validate:"omitempty,min=0"`
	IsActive          *bool            `json:"is_active"`
}

// MenuItemResponse ítem del menú en respuestas.
type MenuItemResponse struct {
	ID                string          `json:"id"`
	ServiceID         string          `json:"service_id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description"`
	Category          *string         `json:"category"`
	Price             decimal.Decimal `json:"price"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	EstimatedDuration *int            `json:"estimated_duration"`
	InventoryID       *string         `json:"inventory_id"`
	InventoryQuantity int             `json:"inventory_quantity"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
