package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialUsage material consumido en una consulta. UnitPrice es una foto del precio al momento del uso.
type MaterialUsage struct {
	ID            int64
	MaterialID    int64
	AppointmentID int64
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Total         decimal.Decimal
	UserID        int64
	UsedAt        time.Time
}

// Recalculate actualiza Total = Quantity × UnitPrice redondeado a centavos, igual que la columna total.
func (u *MaterialUsage) Recalculate() {
	u.Total = u.Quantity.Mul(u.UnitPrice).Round(2)
}
