package dto

import "time"

// CreateVehicleRequest body para POST /api/vehicles.
type CreateVehicleRequest struct {
	CustomerID   string `json:"customer_id" validate:"required,uuid"`
	Make         string `json:"make" validate:"required,max=100"`
	Model        string `json:"model" validate:"required,max=100"`
	Year         *int   `json:"year" validate:"omitempty,min=1900,max=2100"`
	VIN          string `json:"vin" validate:"omitempty,max=17"`
	LicensePlate string `json:"license_plate" validate:"omitempty,max=20"`
	Color        string `json:"color" validate:"omitempty,max=50"`
	Mileage      *int   `json:"mileage" validate:"omitempty,min=0"`
	EngineType   string `json:"engine_type" validate:"omitempty,max=50"`
	Notes        string `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateVehicleRequest actualización parcial.
type UpdateVehicleRequest struct {
	CustomerID   *string `json:"customer_id" validate:"omitempty,uuid"`
	Make         *string `json:"make" validate:"omitempty,min=1,max=100"`
	Model        *string `json:"model" validate:"omitempty,min=1,max=100"`
	Year         *int    `json:"year" validate:"omitempty,min=1900,max=2100"`
	VIN          *string `json:"vin" validate:"omitempty,max=17"`
	LicensePlate *string `json:"license_plate" validate:"omitempty,max=20"`
	Color        *string `json:"color" validate:"omitempty,max=50"`
	Mileage      *int    `json:"mileage" validate:"omitempty,min=0"`
	EngineType   *string `json:"engine_type" validate:"omitempty,max=50"`
	Notes        *string `json:"notes" validate:"omitempty,max=2000"`
}

// VehicleResponse vehículo en respuestas.
type VehicleResponse struct {
	ID           string    `json:"id"`
	ServiceID    string    `json:"service_id"`
	CustomerID   string    `json:"customer_id"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         *int      `json:"year"`
	VIN          *string   `json:"vin"`
	LicensePlate *string   `json:"license_plate"`
	Color        *string   `json:"color"`
	Mileage      *int      `json:"mileage"`
	EngineType   *string   `json:"engine_type"`
	Notes        *string   `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
