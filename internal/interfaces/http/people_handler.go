package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/usecase"
)

// PatientHandler registro de pacientes.
type PatientHandler struct {
	uc *usecase.PatientUseCase
}

// NewPatientHandler construye el handler.
func NewPatientHandler(uc *usecase.PatientUseCase) *PatientHandler {
	return &PatientHandler{uc: uc}
}

// Create godoc
// @Summary      Crear paciente
// @Tags         patients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePatientRequest  true  "name, cpf"
// @Success      201   {object}  dto.PatientResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/patients [post]
func (h *PatientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePatientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener paciente
// @Tags         patients
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del paciente"
// @Success      200  {object}  dto.PatientResponse
// @Router       /api/patients/{id} [get]
func (h *PatientHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Actualizar paciente (parcial)
// @Tags         patients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID del paciente"
// @Param        body  body  dto.UpdatePatientRequest  true  "campos a modificar"
// @Success      200   {object}  dto.PatientResponse
// @Router       /api/patients/{id} [put]
func (h *PatientHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.UpdatePatientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetActive godoc
// @Summary      Activar o desactivar paciente
// @Tags         patients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "ID del paciente"
// @Param        body  body  dto.ActiveRequest  true  "active"
// @Success      200   {object}  dto.PatientResponse
// @Router       /api/patients/{id}/active [patch]
func (h *PatientHandler) SetActive(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.ActiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetActive(c.UserContext(), id, in.Active)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DentistHandler registro de dentistas.
type DentistHandler struct {
	uc *usecase.DentistUseCase
}

// NewDentistHandler construye el handler.
func NewDentistHandler(uc *usecase.DentistUseCase) *DentistHandler {
	return &DentistHandler{uc: uc}
}

// Create godoc
// @Summary      Crear dentista
// @Tags         dentists
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDentistRequest  true  "name, email, cro"
// @Success      201   {object}  dto.DentistResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/dentists [post]
func (h *DentistHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDentistRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener dentista
// @Tags         dentists
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del dentista"
// @Success      200  {object}  dto.DentistResponse
// @Router       /api/dentists/{id} [get]
func (h *DentistHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Actualizar dentista (parcial)
// @Tags         dentists
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID del dentista"
// @Param        body  body  dto.UpdateDentistRequest  true  "campos a modificar"
// @Success      200   {object}  dto.DentistResponse
// @Router       /api/dentists/{id} [put]
func (h *DentistHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.UpdateDentistRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetActive godoc
// @Summary      Activar o desactivar dentista
// @Tags         dentists
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                true  "ID del dentista"
// @Param        body  body  dto.ActiveRequest  true  "active"
// @Success      200   {object}  dto.DentistResponse
// @Router       /api/dentists/{id}/active [patch]
func (h *DentistHandler) SetActive(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	var in dto.ActiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetActive(c.UserContext(), id, in.Active)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
