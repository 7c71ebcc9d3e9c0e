// Package excel exporta el libro de movimientos de un material a .xlsx.
package excel

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/odonto-api/internal/application/report"
)

const sheetName = "Movimientos"

var _ report.LedgerExporter = (*LedgerExporter)(nil)

// LedgerExporter implementa report.LedgerExporter con excelize.
type LedgerExporter struct{}

// NewLedgerExporter construye el exportador.
func NewLedgerExporter() *LedgerExporter { return &LedgerExporter{} }

// ExportLedger escribe una hoja con los datos del material y una fila por movimiento.
func (e *LedgerExporter) ExportLedger(_ context.Context, r report.LedgerReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetName); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	m := r.Material
	summary := [][]interface{}{
		{"Material", m.Code + " - " + m.Name},
		{"Unidad", m.UnitMeasure},
		{"Período", r.From.Format("02/01/2006") + " a " + r.To.Format("02/01/2006")},
		{"Saldo actual", m.CurrentStock.String()},
		{"Generado", r.GeneratedAt.Format("02/01/2006 15:04")},
	}
	for i, line := range summary {
		if err := setRow(f, i+1, line); err != nil {
			return nil, err
		}
	}

	headerRow := len(summary) + 2
	header := []interface{}{
		"Fecha", "Tipo", "Cantidad", "Saldo anterior", "Saldo posterior", "Consulta", "Usuario", "Observaciones",
	}
	if err := setRow(f, headerRow, header); err != nil {
		return nil, err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(header), headerRow)
		_ = f.SetCellStyle(sheetName, first, last, style)
	}

	row := headerRow + 1
	for _, mv := range r.Movements {
		appointment := ""
		if mv.AppointmentID != nil {
			appointment = fmt.Sprintf("%d", *mv.AppointmentID)
		}
		user := mv.UserName
		if user == "" {
			user = fmt.Sprintf("%d", mv.UserID)
		}
		qty, _ := mv.Quantity.Float64()
		before, _ := mv.BalanceBefore.Float64()
		after, _ := mv.BalanceAfter.Float64()
		line := []interface{}{
			mv.CreatedAt.Format("02/01/2006 15:04"),
			mv.TypeLabel,
			qty,
			before,
			after,
			appointment,
			user,
			mv.Notes,
		}
		if err := setRow(f, row, line); err != nil {
			return nil, err
		}
		row++
	}
	_ = f.SetColWidth(sheetName, "A", "A", 18)
	_ = f.SetColWidth(sheetName, "B", "B", 20)
	_ = f.SetColWidth(sheetName, "H", "H", 40)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("excel: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("excel: celda: %w", err)
	}
	if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
		return fmt.Errorf("excel: fila %d: %w", row, err)
	}
	return nil
}
