package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

// consumptionWindow ventana de consumo usada para priorizar la reposición.
const consumptionWindow = 90 * 24 * time.Hour

// ReplenishmentUseCase genera la lista de reposición de materiales con stock bajo.
// Combina el saldo con el consumo reciente en consultas para priorizar los críticos.
type ReplenishmentUseCase struct {
	materials repository.MaterialRepository
	movements repository.StockMovementRepository
	now       func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(materials repository.MaterialRepository, movements repository.StockMovementRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{materials: materials, movements: movements, now: time.Now}
}

// GenerateReplenishmentList devuelve los materiales activos con stock <= mínimo, la cantidad
// sugerida para volver a 1.5 × mínimo y un ranking de prioridad (1 = más urgente).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestion, error) {
	low, err := uc.materials.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return []dto.ReplenishmentSuggestion{}, nil
	}

	// Consumo en consultas de los últimos 90 días, por material
	end := uc.now()
	start := end.Add(-consumptionWindow)
	usoConsulta := entity.MovementUsoConsulta
	movs, err := uc.movements.List(ctx, repository.MovementFilter{Type: &usoConsulta, From: &start, To: &end})
	if err != nil {
		return nil, err
	}
	used := make(map[int64]decimal.Decimal, len(low))
	for _, m := range movs {
		used[m.MaterialID] = used[m.MaterialID].Add(m.Quantity)
	}

	factor := decimal.NewFromFloat(1.5)
	suggestions := make([]dto.ReplenishmentSuggestion, 0, len(low))
	for _, m := range low {
		ideal := m.MinStock.Mul(factor)
		qty := ideal.Sub(m.CurrentStock)
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestion{
			MaterialID:     m.ID,
			Code:           m.Code,
			Name:           m.Name,
			Category:       m.Category,
			CurrentStock:   m.CurrentStock,
			MinStock:       m.MinStock,
			IdealStock:     ideal,
			SuggestedQty:   qty,
			UnitPrice:      m.UnitPrice,
			EstimatedCost:  qty.Mul(m.UnitPrice),
			UsedLast90Days: used[m.ID],
		})
	}

	// Primero mayor consumo reciente, luego mayor déficit bajo el mínimo.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.UsedLast90Days.Equal(b.UsedLast90Days) {
			return a.UsedLast90Days.GreaterThan(b.UsedLast90Days)
		}
		return a.MinStock.Sub(a.CurrentStock).GreaterThan(b.MinStock.Sub(b.CurrentStock))
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
