package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Taller-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los contadores del taller.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (customers, vehicles, open_jobs, completed_jobs,
// low_stock_items, out_of_stock_items, today_sales, monthly_sales, outstanding_*, date_label).
// No requiere parámetros; las fechas se calculan en el servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), GetSession(c))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
