package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material insumo del consultorio. CurrentStock es un caché del saldo del libro:
// sólo cambia a través de movimientos.
type Material struct {
	ID           int64
	Code         string
	Name         string
	Category     string
	UnitMeasure  string
	CurrentStock decimal.Decimal
	MinStock     decimal.Decimal
	UnitPrice    decimal.Decimal
	Description  string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LowStock se deriva en cada lectura, nunca se persiste.
func (m *Material) LowStock() bool {
	return m.CurrentStock.LessThanOrEqual(m.MinStock)
}
