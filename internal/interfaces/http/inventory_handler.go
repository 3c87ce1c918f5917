package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
)

// InventoryHandler artículos de inventario y reporte de reposición.
type InventoryHandler struct {
	uc            *inventory.InventoryUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.InventoryUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, replenishment: replenishment}
}

// Create godoc
// @Summary      Crear artículo de inventario
// @Description  El estado se deriva de quantity y min_stock_level salvo que se envíe inactive.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryRequest  true  "Datos del artículo"
// @Success      201   {object}  dto.InventoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory [post]
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryRequest
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
// @Summary      Listar inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Nombre, SKU o proveedor"
// @Param        category  query  string  false  "Categoría o all"
// @Param        status    query  string  false  "active | inactive | low-stock | out-of-stock | all"
// @Success      200       {object}  dto.ListResponse[dto.InventoryResponse]
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
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

// GetByID GET /api/inventory/:id
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update PUT /api/inventory/:id
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInventoryRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete DELETE /api/inventory/:id
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Adjust godoc
// @Summary      Ajustar cantidad
// @Description  Suma delta a la cantidad sin bajar de cero y recalcula el estado.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del artículo"
// @Param        body  body  dto.AdjustQuantityRequest  true  "delta positivo o negativo"
// @Success      200   {object}  dto.InventoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustQuantityRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Adjust(c.UserContext(), GetSession(c), c.Params("id"), in.Delta)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Stats GET /api/inventory/stats
func (h *InventoryHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetSession(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Artículos y repuestos activos en o bajo su mínimo con la cantidad sugerida de pedido. Agotados primero.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.RestockItemDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/restock [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), GetSession(c))
	if err != nil {
		return err
	}
	return c.JSON(list)
}
