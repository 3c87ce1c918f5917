package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInventoryRequest body para POST /api/inventory.
type CreateInventoryRequest struct {
	Name          string           `json:"name" validate:"required,max=200"`
	SKU           string           `json:"sku" validate:"omitempty,max=100"`
	Category      string           `json:"category" validate:"omitempty,max=100"`
	Description   string           `json:"description" validate:"omitempty,max=2000"`
	Quantity      int              `json:"quantity" validate:"min=0"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel *int             `json:"max_stock_level" validate:"omitempty,min=0"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	Supplier      string           `json:"supplier" validate:"omitempty,max=200"`
	Location      string           `json:"location" validate:"omitempty,max=100"`
	Status        string           `json:"status" validate:"omitempty,oneof=active inactive out-of-stock low-stock"`
}

// UpdateInventoryRequest actualización parcial. Cambiar quantity o min_stock_level recalcula el estado.
type UpdateInventoryRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU           *string          `json:"sku" validate:"omitempty,max=100"`
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	Description   *string          `json:"description" validate:"omitempty,max=2000"`
	Quantity      *int             `json:"quantity" validate:"omitempty,min=0"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel *int             `json:"max_stock_level" validate:"omitempty,min=0"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	Supplier      *string          `json:"supplier" validate:"omitempty,max=200"`
	Location      *string          `json:"location" validate:"omitempty,max=100"`
	Status        *string          `json:"status" validate:"omitempty,oneof=active inactive out-of-stock low-stock"`
}

// AdjustQuantityRequest body para POST /api/inventory/:id/adjust y /api/parts/:id/adjust.
type AdjustQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// InventoryResponse artículo de inventario en respuestas.
type InventoryResponse struct {
	ID            string           `json:"id"`
	ServiceID     string           `json:"service_id"`
	Name          string           `json:"name"`
	SKU           *string          `json:"sku"`
	Category      *string          `json:"category"`
	Description   *string          `json:"description"`
	Quantity      int              `json:"quantity"`
	MinStockLevel *int             `json:"min_stock_level"`
	MaxStockLevel *int             `json:"max_stock_level"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	Supplier      *string          `json:"supplier"`
	Location      *string          `json:"location"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// CreatePartRequest body para POST /api/parts.
type CreatePartRequest struct {
	Name               string           `json:"name" validate:"required,max=200"`
	PartNumber         string           `json:"part_number" validate:"omitempty,max=100"`
	Brand              string           `json:"brand" validate:"omitempty,max=100"`
	Category           string           `json:"category" validate:"omitempty,max=100"`
	Description        string           `json:"description" validate:"omitempty,max=2000"`
	Quantity           int              `json:"quantity" validate:"min=0"`
	MinStockLevel      *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel      *int             `json:"max_stock_level" validate:"omitempty,min=0"`
	Price              decimal.Decimal  `json:"price"`
	Cost               *decimal.Decimal `json:"cost"`
	Supplier           string           `json:"supplier" validate:"omitempty,max=200"`
	Location           string           `json:"location" validate:"omitempty,max=100"`
	CompatibleVehicles []string         `json:"compatible_vehicles" validate:"omitempty,dive,max=200"`
	Status             string           `json:"status" validate:"omitempty,oneof=active inactive out-of-stock low-stock"`
}

// UpdatePartRequest actualización parcial de un repuesto.
type UpdatePartRequest struct {
	Name               *string          `json:"name" validate:"omitempty,min=1,max=200"`
	PartNumber         *string          `json:"part_number" validate:"omitempty,max=100"`
	Brand              *string          `json:"brand" validate:"omitempty,max=100"`
	Category           *string          `json:"category" validate:"omitempty,max=100"`
	Description        *string          `json:"description" validate:"omitempty,max=2000"`
	Quantity           *int             `json:"quantity" validate:"omitempty,min=0"`
	MinStockLevel      *int             `json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel      *int             `json:"max_stock_level" validate:"omitempty,min=0"`
	Price              *decimal.Decimal `json:"price"`
	Cost               *decimal.Decimal `json:"cost"`
	Supplier           *string          `json:"supplier" validate:"omitempty,max=200"`
	Location           *string          `json:"location" validate:"omitempty,max=100"`
	CompatibleVehicles *[]string        `json:"compatible_vehicles"`
	Status             *string          `json:"status" validate:"omitempty,oneof=active inactive out-of-stock low-stock"`
}

// PartResponse repuesto en respuestas.
type PartResponse struct {
	ID                 string           `json:"id"`
	ServiceID          string           `json:"service_id"`
	Name               string           `json:"name"`
	PartNumber         *string          `json:"part_number"`
	Brand              *string          `json:"brand"`
	Category           *string          `json:"category"`
	Description        *string          `json:"description"`
	Quantity           int              `json:"quantity"`
	MinStockLevel      *int             `json:"min_stock_level"`
	MaxStockLevel      *int             `json:"max_stock_level"`
	Price              decimal.Decimal  `json:"price"`
	Cost               *decimal.Decimal `json:"cost"`
	Supplier           *string          `json:"supplier"`
	Location           *string          `json:"location"`
	CompatibleVehicles []string         `json:"compatible_vehicles"`
	Status             string           `json:"status"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// StockStats resumen de existencias (inventario o repuestos).
type StockStats struct {
	Total      int             `json:"total"`
	ByStatus   map[string]int  `json:"by_status"`
	Units      int             `json:"units"`
	StockValue decimal.Decimal `json:"stock_value"` // Σ cantidad × precio
}

// RestockItemDTO artículo o repuesto por reponer.
type RestockItemDTO struct {
	Kind          string `json:"kind"` // inventory | part
	ID            string `json:"id"`
	Name          string `json:"name"`
	Reference     string `json:"reference,omitempty"` // SKU o número de parte
	Quantity      int    `json:"quantity"`
	MinStockLevel *int   `json:"min_stock_level"`
	MaxStockLevel *int   `json:"max_stock_level"`
	SuggestedQty  int    `json:"suggested_qty"`
	Status        string `json:"status"`

	EstimatedCost *decimal.Decimal `json:"estimated_cost"` // sugerido × costo, si hay costo
	Priority      int              `json:"priority"`       // 1 = más urgente
}
