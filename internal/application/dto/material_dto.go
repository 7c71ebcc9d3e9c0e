package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest body para POST /api/materials. InitialStock se registra como ENTRADA.
type CreateMaterialRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	UnitMeasure  string          `json:"unit_measure"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Description  string          `json:"description,omitempty"`
}

// UpdateMaterialRequest PUT /api/materials/:id. El stock no se edita: sólo vía movimientos.
type UpdateMaterialRequest struct {
	Code        Optional[string]          `json:"code"`
	Name        Optional[string]          `json:"name"`
	Category    Optional[string]          `json:"category"`
	UnitMeasure Optional[string]          `json:"unit_measure"`
	MinStock    Optional[decimal.Decimal] `json:"min_stock"`
	UnitPrice   Optional[decimal.Decimal] `json:"unit_price"`
	Description Optional[string]          `json:"description"`
}

// MaterialResponse salida de un material; LowStock se calcula en cada lectura.
type MaterialResponse struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	UnitMeasure  string          `json:"unit_measure"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Description  string          `json:"description,omitempty"`
	Active       bool            `json:"active"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ActiveRequest body para PATCH /:id/active.
type ActiveRequest struct {
	Active bool `json:"active"`
}
