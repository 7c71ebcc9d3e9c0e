package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/scheduling"
)

// AppointmentHandler agenda de consultas.
type AppointmentHandler struct {
	uc *scheduling.AppointmentUseCase
}

// NewAppointmentHandler construye el handler.
func NewAppointmentHandler(uc *scheduling.AppointmentUseCase) *AppointmentHandler {
	return &AppointmentHandler{uc: uc}
}

// Create godoc
// @Summary      Agendar consulta
// @Description  Cada consulta ocupa una hora. Devuelve 409 SCHEDULING_CONFLICT si el dentista ya tiene
//
//	una consulta no cancelada que se superpone.
//
// @Tags         appointments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAppointmentRequest  true  "patient_id, dentist_id, scheduled_at"
// @Success      201   {object}  dto.AppointmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/appointments [post]
func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar consulta (parcial)
// @Tags         appointments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                            true  "ID de la consulta"
// @Param        body  body  dto.UpdateAppointmentRequest  true  "campos a modificar; null limpia los opcionales"
// @Success      200   {object}  dto.AppointmentResponse
// @Router       /api/appointments/{id} [put]
func (h *AppointmentHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.UpdateAppointmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ChangeStatus godoc
// @Summary      Cambiar estado de la consulta
// @Tags         appointments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "ID de la consulta"
// @Param        body  body  dto.ChangeStatusRequest  true  "status"
// @Success      200   {object}  dto.AppointmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/appointments/{id}/status [patch]
func (h *AppointmentHandler) ChangeStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), id, in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar consulta
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la consulta"
// @Success      200  {object}  dto.AppointmentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/appointments/{id}/cancel [post]
func (h *AppointmentHandler) Cancel(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	out, err := h.uc.Cancel(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener consulta
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la consulta"
// @Success      200  {object}  dto.AppointmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/appointments/{id} [get]
func (h *AppointmentHandler) GetByID(c *fiber.Ctx) error {
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

// ListByDentistDay godoc
// @Summary      Agenda diaria del dentista
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Param        dentistId  path   int     true   "ID del dentista"
// @Param        date       query  string  false  "YYYY-MM-DD (por defecto hoy)"
// @Success      200  {object}  dto.ListResponse[dto.AppointmentResponse]
// @Router       /api/appointments/dentist/{dentistId} [get]
func (h *AppointmentHandler) ListByDentistDay(c *fiber.Ctx) error {
	dentistID, ok := paramID(c, "dentistId")
	if !ok {
		return badParam(c, "dentistId")
	}
	loc := h.uc.Location()
	day := time.Now().In(loc)
	if raw := c.Query("date"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return badParam(c, "date")
		}
		day = d
	}
	list, err := h.uc.ListByDentistDay(c.UserContext(), dentistID, day)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(list))
}

// ListByPatient godoc
// @Summary      Historial de consultas del paciente
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Param        patientId  path  int  true  "ID del paciente"
// @Success      200  {object}  dto.ListResponse[dto.AppointmentResponse]
// @Router       /api/appointments/patient/{patientId} [get]
func (h *AppointmentHandler) ListByPatient(c *fiber.Ctx) error {
	patientID, ok := paramID(c, "patientId")
	if !ok {
		return badParam(c, "patientId")
	}
	list, err := h.uc.ListByPatient(c.UserContext(), patientID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(list))
}

// ListByPeriod godoc
// @Summary      Consultas en un período
// @Tags         appointments
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  true  "RFC3339 o YYYY-MM-DD"
// @Param        to    query  string  true  "RFC3339 o YYYY-MM-DD (día incluido)"
// @Success      200  {object}  dto.ListResponse[dto.AppointmentResponse]
// @Router       /api/appointments [get]
func (h *AppointmentHandler) ListByPeriod(c *fiber.Ctx) error {
	from, to, ok := queryRange(c, h.uc.Location())
	if !ok {
		return badParam(c, "from/to")
	}
	list, err := h.uc.ListByPeriod(c.UserContext(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewList(list))
}
