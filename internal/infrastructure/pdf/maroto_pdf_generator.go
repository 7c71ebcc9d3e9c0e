// Package pdf genera el comprobante de una consulta con sus materiales.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Clínica              │  N° Consulta + Fecha/Hora   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PACIENTE: Nombre + CPF                                     │
//	│  DENTISTA: Nombre + CRO  |  Estado  |  Procedimiento         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Material | P.Unit | Total                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Materiales / Valor de la consulta                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.AppointmentPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa report.AppointmentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateAppointmentReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateAppointmentReceipt(_ context.Context, r report.AppointmentReceipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Consulta %d", r.Appointment.ID), true).
		WithAuthor(r.ClinicName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(patientRow(r.Appointment))
	m.AddRows(dentistRow(r.Appointment))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(r.Materials.Items) == 0 {
		m.AddRows(row.New(7).Add(col.New(12).Add(
			text.New("Sin materiales registrados.", props.Text{Size: 8, Top: 1, Color: colorGray}),
		)))
	}
	for _, dr := range tableDetailRows(r.Materials.Items) {
		m.AddRows(dr)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(r))

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Generado el "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
			Size: 7, Color: colorGray, Align: align.Right,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la clínica (izq) y N° consulta + fecha (der).
func headerRow(r report.AppointmentReceipt) core.Row {
	a := r.Appointment
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.ClinicName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de atendimento", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CONSULTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("N° %d", a.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(fmt.Sprintf("%s - %s", a.ScheduledAt.Format("02/01/2006 15:04"), a.EndsAt.Format("15:04")), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func patientRow(a dto.AppointmentResponse) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PACIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(a.PatientName, fmt.Sprintf("#%d", a.PatientID)), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("CPF: "+formatCPF(a.PatientCPF), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func dentistRow(a dto.AppointmentResponse) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DENTISTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   CRO: %s   |   Estado: %s   |   Procedimiento: %s",
				nonEmpty(a.DentistName, fmt.Sprintf("#%d", a.DentistID)),
				nonEmpty(a.DentistCRO, "-"),
				nonEmpty(a.StatusLabel, a.Status),
				nonEmpty(deref(a.Procedure), "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de materiales.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Material", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

// tableDetailRows: una fila por material usado.
func tableDetailRows(items []dto.UsageResponse) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, u := range items {
		name := nonEmpty(u.MaterialName, fmt.Sprintf("#%d", u.MaterialID))
		if u.UnitMeasure != "" {
			name += " (" + u.UnitMeasure + ")"
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				u.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(u.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				formatMoney(u.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: costo de materiales y valor cobrado por la consulta.
func totalsRow(r report.AppointmentReceipt) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: top,
		})
	}

	consultValue := "-"
	if r.Appointment.Value != nil {
		consultValue = formatMoney(*r.Appointment.Value)
	}

	return row.New(16).Add(
		col.New(6),
		col.New(3).Add(
			label("Materiales:"),
			grand("VALOR CONSULTA:", 7),
		),
		col.New(3).Add(
			value(formatMoney(r.Materials.Total), 0),
			grand(consultValue, 7),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// formatMoney formatea en reales con puntos de miles y coma decimal.
// Ej: 1234.5 → "R$ 1.234,50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return "R$ " + sign + string(buf) + "," + frac
}

// formatCPF 12345678901 → 123.456.789-01; otros formatos se devuelven tal cual.
func formatCPF(cpf string) string {
	if len(cpf) != 11 {
		return nonEmpty(cpf, "-")
	}
	return cpf[:3] + "." + cpf[3:6] + "." + cpf[6:9] + "-" + cpf[9:]
}
