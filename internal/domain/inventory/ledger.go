package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
)

const (
	// QuantityScale decimales de cantidades y saldos; el libro los guarda en NUMERIC(14,3).
	QuantityScale int32 = 3
	// PriceScale decimales de precios y totales.
	PriceScale int32 = 2
)

// signs signo de cada tipo de movimiento sobre el saldo.
var signs = map[entity.MovementType]int{
	entity.MovementEntrada:        1,
	entity.MovementAjustePositivo: 1,
	entity.MovementSaida:          -1,
	entity.MovementUsoConsulta:    -1,
	entity.MovementPerda:          -1,
	entity.MovementVencimento:     -1,
	entity.MovementAjusteNegativo: -1,
}

var movementLabels = map[entity.MovementType]string{
	entity.MovementEntrada:        "Entrada",
	entity.MovementSaida:          "Saída",
	entity.MovementAjustePositivo: "Ajuste Positivo",
	entity.MovementAjusteNegativo: "Ajuste Negativo",
	entity.MovementUsoConsulta:    "Uso em Consulta",
	entity.MovementPerda:          "Perda",
	entity.MovementVencimento:     "Vencimento",
}

// ValidMovementType indica si t es un tipo conocido.
func ValidMovementType(t entity.MovementType) bool {
	_, ok := signs[t]
	return ok
}

// IsIncrease ENTRADA y AJUSTE_POSITIVO suman al saldo; el resto resta.
func IsIncrease(t entity.MovementType) bool {
	return signs[t] > 0
}

// MovementLabel descripción legible del tipo.
func MovementLabel(t entity.MovementType) string {
	return movementLabels[t]
}

// HasScale indica si v no tiene más de places decimales significativos.
func HasScale(v decimal.Decimal, places int32) bool {
	return v.Equal(v.Truncate(places))
}

// ValidQuantity cantidad > 0 con a lo sumo QuantityScale decimales.
func ValidQuantity(q decimal.Decimal) bool {
	return q.IsPositive() && HasScale(q, QuantityScale)
}

// ApplyMovement calcula el saldo resultante de aplicar un movimiento.
// Quantity debe ser > 0 y con a lo sumo QuantityScale decimales; una disminución que deje el saldo negativo falla con ErrInsufficientStock.
func ApplyMovement(balance decimal.Decimal, t entity.MovementType, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !ValidMovementType(t) || !ValidQuantity(quantity) {
		return balance, domain.ErrInvalidInput
	}
	if IsIncrease(t) {
		return balance.Add(quantity), nil
	}
	if balance.LessThan(quantity) {
		return balance, domain.ErrInsufficientStock
	}
	return balance.Sub(quantity), nil
}

// UsageAdjustment movimiento compensatorio al cambiar la cantidad de un uso:
// delta > 0 consume más (USO_CONSULTA), delta < 0 devuelve (AJUSTE_POSITIVO). ok=false si no hay cambio.
func UsageAdjustment(oldQty, newQty decimal.Decimal) (t entity.MovementType, quantity decimal.Decimal, ok bool) {
	delta := newQty.Sub(oldQty)
	switch delta.Sign() {
	case 1:
		return entity.MovementUsoConsulta, delta, true
	case -1:
		return entity.MovementAjustePositivo, delta.Abs(), true
	}
	return "", decimal.Zero, false
}
