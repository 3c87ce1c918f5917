package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	Customers int `json:"customers"`
	Vehicles  int `json:"vehicles"`

	OpenJobs      int `json:"open_jobs"` // pending + in-progress
	CompletedJobs int `json:"completed_jobs"`

	LowStockItems   int `json:"low_stock_items"`   // inventario + repuestos en low-stock
	OutOfStockItems int `json:"out_of_stock_items"` // inventario + repuestos agotados

	TodaySales   decimal.Decimal `json:"today_sales"`
	MonthlySales decimal.Decimal `json:"monthly_sales"`

	OutstandingInvoices int             `json:"outstanding_invoices"`
	OutstandingAmount   decimal.Decimal `json:"outstanding_amount"`

	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}
