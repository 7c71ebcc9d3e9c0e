package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/odonto-api/internal/application/report"
)

const (
	mimePDF  = "application/pdf"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReportHandler descargas de documentos.
type ReportHandler struct {
	uc  *report.ReportUseCase
	loc *time.Location
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{uc: uc, loc: loc}
}

// AppointmentReceipt godoc
// @Summary      Comprobante PDF de la consulta
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  int  true  "ID de la consulta"
// @Success      200  {file}  binary
// @Router       /api/appointments/{id}/receipt [get]
func (h *ReportHandler) AppointmentReceipt(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	data, name, err := h.uc.AppointmentReceiptPDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, mimePDF, name, data)
}

// MaterialLedger godoc
// @Summary      Libro del material en XLSX
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id    path   int     true  "ID del material"
// @Param        from  query  string  true  "RFC3339 o YYYY-MM-DD"
// @Param        to    query  string  true  "RFC3339 o YYYY-MM-DD (día incluido)"
// @Success      200  {file}  binary
// @Router       /api/materials/{id}/movements/export [get]
func (h *ReportHandler) MaterialLedger(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badParam(c, "id")
	}
	from, to, ok := queryRange(c, h.loc)
	if !ok {
		return badParam(c, "from/to")
	}
	data, name, err := h.uc.MaterialLedgerXLSX(c.UserContext(), id, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, mimeXLSX, name, data)
}

func sendFile(c *fiber.Ctx, contentType, name string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(data)
}
