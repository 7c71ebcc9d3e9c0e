package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/odonto-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del panel.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetMetrics devuelve los indicadores del día y del mes en curso.
// GET /api/dashboard/metrics
//
// No requiere parámetros; las fechas se calculan en el servidor con la zona de la clínica.
func (h *DashboardHandler) GetMetrics(c *fiber.Ctx) error {
	m, err := h.uc.GetMetrics(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(m)
}
