package report

import (
	"context"
	"time"

	"github.com/jhoicas/odonto-api/internal/application/dto"
)

// AppointmentReceipt datos del comprobante de una consulta con sus materiales.
type AppointmentReceipt struct {
	ClinicName  string
	Appointment dto.AppointmentResponse
	Materials   dto.AppointmentMaterialsResponse
	GeneratedAt time.Time
}

// LedgerReport libro de un material en un período.
type LedgerReport struct {
	Material    dto.MaterialResponse
	From, To    time.Time
	Movements   []dto.MovementResponse
	GeneratedAt time.Time
}

// AppointmentPDFGenerator puerto para el PDF del comprobante (adaptador Maroto).
type AppointmentPDFGenerator interface {
	GenerateAppointmentReceipt(ctx context.Context, r AppointmentReceipt) ([]byte, error)
}

// LedgerExporter puerto para la planilla del libro (adaptador excelize).
type LedgerExporter interface {
	ExportLedger(ctx context.Context, r LedgerReport) ([]byte, error)
}
