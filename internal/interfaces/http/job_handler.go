package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
)

// JobHandler órdenes de trabajo y su facturación.
type JobHandler struct {
	uc       *usecase.JobUseCase
	invoices *billing.InvoiceUseCase
}

// NewJobHandler construye el handler.
func NewJobHandler(uc *usecase.JobUseCase, invoices *billing.InvoiceUseCase) *JobHandler {
	return &JobHandler{uc: uc, invoices: invoices}
}

// Create godoc
// @Summary      Crear orden de trabajo
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateJobRequest  true  "Datos de la orden"
// @Success      201   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/jobs [post]
func (h *JobHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateJobRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetSession(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query  string  false  "Filtrar por cliente"
// @Param        vehicle_id   query  string  false  "Filtrar por vehículo"
// @Param        status       query  string  false  "pending | in-progress | completed | cancelled | all"
// @Param        priority     query  string  false  "low | medium | high | urgent | all"
// @Param        search       query  string  false  "Título o descripción"
// @Success      200          {object}  dto.ListResponse[dto.JobResponse]
// @Router       /api/jobs [get]
func (h *JobHandler) List(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	f := usecase.JobFilter{CustomerID: c.Query("customer_id"), VehicleID: c.Query("vehicle_id")}
	out, err := h.uc.List(c.UserContext(), GetSession(c), f, q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID GET /api/jobs/:id
func (h *JobHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update PUT /api/jobs/:id
func (h *JobHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateJobRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la orden
// @Description  Pasar a completed fija completed_at.
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la orden"
// @Param        body  body  dto.UpdateJobStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.JobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/status [patch]
func (h *JobHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateJobStatusRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), GetSession(c), c.Params("id"), in.Status)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete DELETE /api/jobs/:id
func (h *JobHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats GET /api/jobs/stats
func (h *JobHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetSession(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CreateInvoice godoc
// @Summary      Facturar orden
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la orden"
// @Param        body  body  dto.InvoiceFromJobRequest  true  "Líneas de la factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/invoice [post]
func (h *JobHandler) CreateInvoice(c *fiber.Ctx) error {
	var in dto.InvoiceFromJobRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.invoices.CreateFromJob(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
