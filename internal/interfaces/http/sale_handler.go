package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/sales"
)

// SaleHandler punto de venta: checkout y consulta de ventas registradas.
type SaleHandler struct {
	checkout *sales.CheckoutUseCase
	uc       *sales.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(checkout *sales.CheckoutUseCase, uc *sales.SaleUseCase) *SaleHandler {
	return &SaleHandler{checkout: checkout, uc: uc}
}

// Checkout godoc
// @Summary      Registrar venta
// @Description  Descuenta stock, registra la venta, emite la factura pagada y publica su PDF.
// @Description  Si un paso falla se revierten los anteriores. Un fallo del PDF no anula la venta y se informa en pdf_error.
// @Description  Requiere cabecera Idempotency-Key cuando el servidor tiene Redis configurado.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string               false  "Clave única del intento"
// @Param        body             body    dto.CheckoutRequest  true   "Líneas, método de pago y descuento"
// @Success      201              {object}  dto.CheckoutResponse
// @Failure      400              {object}  dto.ErrorResponse
// @Failure      404              {object}  dto.ErrorResponse
// @Failure      409              {object}  dto.ErrorResponse
// @Router       /api/sales/checkout [post]
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.checkout.Checkout(c.UserContext(), GetSession(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        search          query  string  false  "Cliente o número de factura"
// @Param        status          query  string  false  "completed | refunded | voided | all"
// @Param        payment_method  query  string  false  "cash | card | transfer | other | all"
// @Success      200             {object}  dto.ListResponse[dto.SaleResponse]
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetSession(c), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update PUT /api/sales/:id (estado, método de pago, notas)
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSaleRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete DELETE /api/sales/:id. Solo ventas anuladas.
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stats GET /api/sales/stats
func (h *SaleHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetSession(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
