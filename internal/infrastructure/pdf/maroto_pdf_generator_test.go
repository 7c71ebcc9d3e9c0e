package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/report"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "R$ 0,00",
		"12.5":     "R$ 12,50",
		"999.99":   "R$ 999,99",
		"1234.5":   "R$ 1.234,50",
		"1000000":  "R$ 1.000.000,00",
		"-2500.10": "R$ -2.500,10",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestFormatCPF(t *testing.T) {
	assert.Equal(t, "123.456.789-01", formatCPF("12345678901"))
	assert.Equal(t, "123", formatCPF("123"))
	assert.Equal(t, "-", formatCPF(""))
}

func TestGenerateAppointmentReceipt(t *testing.T) {
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	value := decimal.NewFromInt(250)
	proc := "Restauración"
	r := report.AppointmentReceipt{
		ClinicName: "Clínica Sorriso",
		Appointment: dto.AppointmentResponse{
			ID: 7, PatientID: 1, PatientName: "Maria Silva", PatientCPF: "12345678901",
			DentistID: 2, DentistName: "Dr. João", DentistCRO: "SP-1234",
			ScheduledAt: at, EndsAt: at.Add(time.Hour),
			Status: "CONCLUIDA", StatusLabel: "Concluída",
			Procedure: &proc, Value: &value,
		},
		Materials: dto.AppointmentMaterialsResponse{
			AppointmentID: 7,
			Items: []dto.UsageResponse{{
				ID: 1, MaterialID: 3, MaterialName: "Resina A2", UnitMeasure: "g",
				Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("12.50"),
				Total: decimal.NewFromInt(25),
			}},
			Total: decimal.NewFromInt(25),
		},
		GeneratedAt: at.Add(2 * time.Hour),
	}

	out, err := NewMarotoPDFGenerator().GenerateAppointmentReceipt(context.Background(), r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateAppointmentReceipt_SinMateriales(t *testing.T) {
	r := report.AppointmentReceipt{
		ClinicName:  "Clínica Sorriso",
		Appointment: dto.AppointmentResponse{ID: 1, Status: "AGENDADA"},
		GeneratedAt: time.Now(),
	}
	out, err := NewMarotoPDFGenerator().GenerateAppointmentReceipt(context.Background(), r)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
