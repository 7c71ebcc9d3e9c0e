package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/inventory"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

// InventoryHandler libro de movimientos y materiales usados en consultas (protegido).
// El usuario que registra siempre sale del token.
type InventoryHandler struct {
	movements     *inventory.RegisterMovementUseCase
	usages        *inventory.MaterialUsageUseCase
	queries       *inventory.LedgerQueryUseCase
	replenishment *inventory.ReplenishmentUseCase
	loc           *time.Location
}

// NewInventoryHandler construye el handler. loc interpreta las fechas sin hora de los filtros.
func NewInventoryHandler(
	movements *inventory.RegisterMovementUseCase,
	usages *inventory.MaterialUsageUseCase,
	queries *inventory.LedgerQueryUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	loc *time.Location,
) *InventoryHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &InventoryHandler{movements: movements, usages: usages, queries: queries, replenishment: replenishment, loc: loc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "material_id, type, quantity, notes, appointment_id"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.movements.RegisterMovement(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Consultar el libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        material_id     query  int     false  "Material"
// @Param        appointment_id  query  int     false  "Consulta"
// @Param        type            query  string  false  "ENTRADA, SAIDA, AJUSTE_POSITIVO, AJUSTE_NEGATIVO, USO_CONSULTA, PERDA, VENCIMENTO"
// @Param        from            query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to              query  string  false  "RFC3339 o YYYY-MM-DD (día incluido)"
// @Success      200  {object}  dto.ListResponse[dto.MovementResponse]
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var f repository.MovementFilter
	var ok bool
	if f.MaterialID, ok = queryID(c, "material_id"); !ok {
		return badParam(c, "material_id")
	}
	if f.AppointmentID, ok = queryID(c, "appointment_id"); !ok {
		return badParam(c, "appointment_id")
	}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		t := entity.MovementType(strings.ToUpper(raw))
		f.Type = &t
	}
	if raw := c.Query("from"); raw != "" {
		from, err := parseTime(raw, h.loc)
		if err != nil {
			return badParam(c, "from")
		}
		f.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, ok := queryTo(raw, h.loc)
		if !ok {
			return badParam(c, "to")
		}
		f.To = &to
	}
	list, err := h.queries.ListMovements(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(list))
}

// MovementsThisMonth godoc
// @Summary      Cantidad de movimientos del mes
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int64
// @Router       /api/inventory/movements/month-count [get]
func (h *InventoryHandler) MovementsThisMonth(c *fiber.Ctx) error {
	n, err := h.queries.MovementsThisMonth(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// RegisterUsage godoc
// @Summary      Registrar material usado en una consulta
// @Description  Crea el uso con el precio unitario vigente y el movimiento USO_CONSULTA en la misma transacción.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterUsageRequest  true  "material_id, appointment_id, quantity"
// @Success      201   {object}  dto.UsageResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/usages [post]
func (h *InventoryHandler) RegisterUsage(c *fiber.Ctx) error {
	var in dto.RegisterUsageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.usages.RegisterMaterialUsage(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateUsageQuantity godoc
// @Summary      Corregir la cantidad usada
// @Description  La diferencia se compensa con AJUSTE_POSITIVO o USO_CONSULTA.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                             true  "ID del uso"
// @Param        body  body  dto.UpdateUsageQuantityRequest  true  "quantity"
// @Success      200   {object}  dto.UsageResponse
// @Router       /api/inventory/usages/{id} [patch]
func (h *InventoryHandler) UpdateUsageQuantity(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.UpdateUsageQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.usages.UpdateUsageQuantity(c.UserContext(), GetUserID(c), id, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RemoveUsage godoc
// @Summary      Eliminar material usado (devuelve el stock)
// @Tags         inventory
// @Security     Bearer
// @Param        id  path  int  true  "ID del uso"
// @Success      204
// @Router       /api/inventory/usages/{id} [delete]
func (h *InventoryHandler) RemoveUsage(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	if err := h.usages.RemoveUsage(c.UserContext(), GetUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UsagesByAppointment godoc
// @Summary      Materiales usados en una consulta
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la consulta"
// @Success      200  {object}  dto.AppointmentMaterialsResponse
// @Router       /api/inventory/usages/appointment/{id} [get]
func (h *InventoryHandler) UsagesByAppointment(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	out, err := h.queries.UsagesByAppointment(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AppointmentMaterialTotal godoc
// @Summary      Valor de los materiales de una consulta
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la consulta"
// @Success      200  {object}  map[string]string
// @Router       /api/inventory/usages/appointment/{id}/total [get]
func (h *InventoryHandler) AppointmentMaterialTotal(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	total, err := h.queries.AppointmentMaterialTotal(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"appointment_id": id, "total": total})
}

// UsagesByMaterial godoc
// @Summary      Historial de usos de un material
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del material"
// @Success      200  {object}  dto.ListResponse[dto.UsageResponse]
// @Router       /api/inventory/usages/material/{id} [get]
func (h *InventoryHandler) UsagesByMaterial(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	list, err := h.queries.UsagesByMaterial(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(list))
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Materiales activos con stock bajo y la cantidad sugerida de compra,
//
//	priorizados por consumo de los últimos 90 días.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
