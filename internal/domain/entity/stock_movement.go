package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del libro de inventario.
type MovementType string

const (
	MovementEntrada        MovementType = "ENTRADA"
	MovementSaida          MovementType = "SAIDA"
	MovementAjustePositivo MovementType = "AJUSTE_POSITIVO"
	MovementAjusteNegativo MovementType = "AJUSTE_NEGATIVO"
	MovementUsoConsulta    MovementType = "USO_CONSULTA"
	MovementPerda          MovementType = "PERDA"
	MovementVencimento     MovementType = "VENCIMENTO"
)

// StockMovement entrada inmutable del libro de inventario de un material.
// BalanceAfter = BalanceBefore ± Quantity según el signo del tipo.
type StockMovement struct {
	ID            int64
	MaterialID    int64
	Type          MovementType
	Quantity      decimal.Decimal // siempre > 0; el signo lo define Type
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Notes         string
	AppointmentID *int64
	UserID        int64
	CreatedAt     time.Time
}
