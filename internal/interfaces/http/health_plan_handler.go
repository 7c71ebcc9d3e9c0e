package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/usecase"
)

// HealthPlanHandler convenios.
type HealthPlanHandler struct {
	uc *usecase.HealthPlanUseCase
}

// NewHealthPlanHandler construye el handler.
func NewHealthPlanHandler(uc *usecase.HealthPlanUseCase) *HealthPlanHandler {
	return &HealthPlanHandler{uc: uc}
}

// Create godoc
// @Summary      Crear convenio
// @Tags         health-plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.HealthPlanRequest  true  "name, ans_code"
// @Success      201   {object}  dto.HealthPlanResponse
// @Router       /api/health-plans [post]
func (h *HealthPlanHandler) Create(c *fiber.Ctx) error {
	var in dto.HealthPlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar convenios
// @Tags         health-plans
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "sólo activos"
// @Success      200  {object}  dto.ListResponse[dto.HealthPlanResponse]
// @Router       /api/health-plans [get]
func (h *HealthPlanHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(list))
}

// GetByID godoc
// @Summary      Obtener convenio
// @Tags         health-plans
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del convenio"
// @Success      200  {object}  dto.HealthPlanResponse
// @Router       /api/health-plans/{id} [get]
func (h *HealthPlanHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar convenio
// @Tags         health-plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                    true  "ID del convenio"
// @Param        body  body  dto.HealthPlanRequest  true  "name, ans_code, description"
// @Success      200   {object}  dto.HealthPlanResponse
// @Router       /api/health-plans/{id} [put]
func (h *HealthPlanHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.HealthPlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ToggleActive godoc
// @Summary      Alternar activo/inactivo
// @Tags         health-plans
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del convenio"
// @Success      200  {object}  dto.HealthPlanResponse
// @Router       /api/health-plans/{id}/toggle [patch]
func (h *HealthPlanHandler) ToggleActive(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	out, err := h.uc.ToggleActive(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar convenio sin pacientes vinculados
// @Tags         health-plans
// @Security     Bearer
// @Param        id  path  int  true  "ID del convenio"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/health-plans/{id} [delete]
func (h *HealthPlanHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
