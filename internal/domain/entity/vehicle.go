package entity

import "time"

// Vehicle pertenece a un cliente; ServiceID se desnormaliza para consultar por taller.
type Vehicle struct {
	ID           string
	ServiceID    string
	CustomerID   string
	Make         string
	Model        string
	Year         *int
	VIN          *string
	LicensePlate *string
	Color        *string
	Mileage      *int
	EngineType   *string
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
