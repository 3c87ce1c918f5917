package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
)

// MenuItemHandler catálogo de servicios vendibles del taller.
type MenuItemHandler struct {
	uc *usecase.MenuItemUseCase
}

// NewMenuItemHandler construye el handler.
func NewMenuItemHandler(uc *usecase.MenuItemUseCase) *MenuItemHandler {
	return &MenuItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ítem de menú
// @Tags         menu-items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMenuItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.MenuItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/menu-items [post]
func (h *MenuItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMenuItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetSession(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *MenuItemHandler) List(c *fiber.Ctx) error {
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

func (h *MenuItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *MenuItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMenuItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

func (h *MenuItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
