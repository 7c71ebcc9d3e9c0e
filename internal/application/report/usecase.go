package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/odonto-api/internal/application/inventory"
	"github.com/jhoicas/odonto-api/internal/application/scheduling"
	"github.com/jhoicas/odonto-api/internal/application/usecase"
	"github.com/jhoicas/odonto-api/internal/domain"
)

// ReportUseCase documentos descargables: comprobante PDF de consulta y planilla XLSX del libro.
type ReportUseCase struct {
	clinicName   string
	appointments *scheduling.AppointmentUseCase
	ledger       *inventory.LedgerQueryUseCase
	materials    *usecase.MaterialUseCase
	pdf          AppointmentPDFGenerator
	xlsx         LedgerExporter
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso inyectando los generadores.
func NewReportUseCase(
	clinicName string,
	appointments *scheduling.AppointmentUseCase,
	ledger *inventory.LedgerQueryUseCase,
	materials *usecase.MaterialUseCase,
	pdf AppointmentPDFGenerator,
	xlsx LedgerExporter,
) *ReportUseCase {
	return &ReportUseCase{
		clinicName:   clinicName,
		appointments: appointments,
		ledger:       ledger,
		materials:    materials,
		pdf:          pdf,
		xlsx:         xlsx,
		now:          time.Now,
	}
}

// AppointmentReceiptPDF genera el comprobante de la consulta con los materiales usados.
// Retorna (pdfBytes, filename, nil) o domain.ErrNotFound si la consulta no existe.
func (uc *ReportUseCase) AppointmentReceiptPDF(ctx context.Context, appointmentID int64) ([]byte, string, error) {
	appt, err := uc.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, "", err
	}
	materials, err := uc.ledger.UsagesByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, "", fmt.Errorf("report: materiales de la consulta: %w", err)
	}
	doc, err := uc.pdf.GenerateAppointmentReceipt(ctx, AppointmentReceipt{
		ClinicName:  uc.clinicName,
		Appointment: *appt,
		Materials:   *materials,
		GeneratedAt: uc.now().In(uc.appointments.Location()),
	})
	if err != nil {
		return nil, "", fmt.Errorf("report: generación del PDF: %w", err)
	}
	return doc, fmt.Sprintf("consulta_%d.pdf", appointmentID), nil
}

// MaterialLedgerXLSX exporta los movimientos de un material en [from, to).
func (uc *ReportUseCase) MaterialLedgerXLSX(ctx context.Context, materialID int64, from, to time.Time) ([]byte, string, error) {
	if !from.Before(to) {
		return nil, "", fmt.Errorf("%w: el período es vacío", domain.ErrInvalidInput)
	}
	material, err := uc.materials.GetByID(ctx, materialID)
	if err != nil {
		return nil, "", err
	}
	movs, err := uc.ledger.MovementsByMaterial(ctx, materialID, &from, &to)
	if err != nil {
		return nil, "", fmt.Errorf("report: movimientos: %w", err)
	}
	doc, err := uc.xlsx.ExportLedger(ctx, LedgerReport{
		Material:    *material,
		From:        from,
		To:          to,
		Movements:   movs,
		GeneratedAt: uc.now(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("report: generación de la planilla: %w", err)
	}
	name := fmt.Sprintf("movimentos_%s_%s_%s.xlsx", material.Code, from.Format("20060102"), to.Format("20060102"))
	return doc, name, nil
}
