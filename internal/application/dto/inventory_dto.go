package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// El usuario que registra sale del token, nunca del cuerpo.
type RegisterMovementRequest struct {
	MaterialID    int64           `json:"material_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Notes         string          `json:"notes,omitempty"`
	AppointmentID *int64          `json:"appointment_id,omitempty"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID            int64           `json:"id"`
	MaterialID    int64           `json:"material_id"`
	MaterialName  string          `json:"material_name,omitempty"`
	MaterialCode  string          `json:"material_code,omitempty"`
	Type          string          `json:"type"`
	TypeLabel     string          `json:"type_label"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Notes         string          `json:"notes,omitempty"`
	AppointmentID *int64          `json:"appointment_id,omitempty"`
	UserID        int64           `json:"user_id"`
	UserName      string          `json:"user_name,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RegisterUsageRequest body para POST /api/inventory/usages.
type RegisterUsageRequest struct {
	MaterialID    int64           `json:"material_id"`
	AppointmentID int64           `json:"appointment_id"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// UpdateUsageQuantityRequest body para PATCH /api/inventory/usages/:id.
type UpdateUsageQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// UsageResponse salida de un material usado en consulta.
type UsageResponse struct {
	ID            int64           `json:"id"`
	MaterialID    int64           `json:"material_id"`
	MaterialName  string          `json:"material_name,omitempty"`
	MaterialCode  string          `json:"material_code,omitempty"`
	Category      string          `json:"category,omitempty"`
	UnitMeasure   string          `json:"unit_measure,omitempty"`
	AppointmentID int64           `json:"appointment_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Total         decimal.Decimal `json:"total"`
	UserID        int64           `json:"user_id"`
	UsedAt        time.Time       `json:"used_at"`
}

// AppointmentMaterialsResponse materiales de una consulta y su valor total.
type AppointmentMaterialsResponse struct {
	AppointmentID int64           `json:"appointment_id"`
	Items         []UsageResponse `json:"items"`
	Total         decimal.Decimal `json:"total"`
}

// MovementQuery filtros de GET /api/inventory/movements.
type MovementQuery struct {
	MaterialID    int64  `query:"material_id"`
	AppointmentID int64  `query:"appointment_id"`
	Type          string `query:"type"`
	From          string `query:"from"` // RFC3339 o YYYY-MM-DD
	To            string `query:"to"`
}

// ReplenishmentSuggestion sugerencia de compra para un material con stock bajo.
type ReplenishmentSuggestion struct {
	MaterialID     int64           `json:"material_id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	MinStock       decimal.Decimal `json:"min_stock"`
	IdealStock     decimal.Decimal `json:"ideal_stock"`   // MinStock * 1.5
	SuggestedQty   decimal.Decimal `json:"suggested_qty"` // IdealStock - CurrentStock
	UnitPrice      decimal.Decimal `json:"unit_price"`
	EstimatedCost  decimal.Decimal `json:"estimated_cost"`
	UsedLast90Days decimal.Decimal `json:"used_last_90d"`
	Priority       int             `json:"priority"` // 1 = más urgente
}
