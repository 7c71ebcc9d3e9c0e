package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/inventory"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

// LedgerQueryUseCase consultas de sólo lectura sobre el libro y los usos en consulta.
type LedgerQueryUseCase struct {
	movements repository.StockMovementRepository
	usages    repository.MaterialUsageRepository
	materials repository.MaterialRepository
	users     repository.UserRepository
	loc       *time.Location
	now       func() time.Time
}

// NewLedgerQueryUseCase construye el caso de uso de consultas.
func NewLedgerQueryUseCase(
	movements repository.StockMovementRepository,
	usages repository.MaterialUsageRepository,
	materials repository.MaterialRepository,
	users repository.UserRepository,
	loc *time.Location,
) *LedgerQueryUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &LedgerQueryUseCase{
		movements: movements, usages: usages, materials: materials, users: users,
		loc: loc, now: time.Now,
	}
}

// ListMovements movimientos según filtro (material, consulta, tipo, período).
func (uc *LedgerQueryUseCase) ListMovements(ctx context.Context, f repository.MovementFilter) ([]dto.MovementResponse, error) {
	if f.Type != nil && !inventory.ValidMovementType(*f.Type) {
		return nil, fmt.Errorf("%w: tipo %q desconocido", domain.ErrInvalidInput, *f.Type)
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return nil, fmt.Errorf("%w: el período es vacío", domain.ErrInvalidInput)
	}
	list, err := uc.movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return uc.enrichMovements(ctx, list)
}

// MovementsByMaterial libro de un material, opcionalmente acotado a [from, to).
func (uc *LedgerQueryUseCase) MovementsByMaterial(ctx context.Context, materialID int64, from, to *time.Time) ([]dto.MovementResponse, error) {
	return uc.ListMovements(ctx, repository.MovementFilter{MaterialID: &materialID, From: from, To: to})
}

// MovementsByPeriod movimientos de todos los materiales en [from, to).
func (uc *LedgerQueryUseCase) MovementsByPeriod(ctx context.Context, from, to time.Time) ([]dto.MovementResponse, error) {
	return uc.ListMovements(ctx, repository.MovementFilter{From: &from, To: &to})
}

// MovementsByType movimientos de un tipo.
func (uc *LedgerQueryUseCase) MovementsByType(ctx context.Context, t entity.MovementType) ([]dto.MovementResponse, error) {
	return uc.ListMovements(ctx, repository.MovementFilter{Type: &t})
}

// MovementsByAppointment movimientos vinculados a una consulta.
func (uc *LedgerQueryUseCase) MovementsByAppointment(ctx context.Context, appointmentID int64) ([]dto.MovementResponse, error) {
	return uc.ListMovements(ctx, repository.MovementFilter{AppointmentID: &appointmentID})
}

// MovementsThisMonth cantidad de movimientos del mes en curso (zona de la clínica).
func (uc *LedgerQueryUseCase) MovementsThisMonth(ctx context.Context) (int64, error) {
	from, to := MonthRange(uc.now(), uc.loc)
	return uc.movements.CountBetween(ctx, from, to)
}

// UsagesByAppointment materiales usados en una consulta con el total.
func (uc *LedgerQueryUseCase) UsagesByAppointment(ctx context.Context, appointmentID int64) (*dto.AppointmentMaterialsResponse, error) {
	list, err := uc.usages.ListByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	items, err := uc.enrichUsages(ctx, list)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Total)
	}
	return &dto.AppointmentMaterialsResponse{AppointmentID: appointmentID, Items: items, Total: total}, nil
}

// UsagesByMaterial historial de usos de un material.
func (uc *LedgerQueryUseCase) UsagesByMaterial(ctx context.Context, materialID int64) ([]dto.UsageResponse, error) {
	list, err := uc.usages.ListByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	return uc.enrichUsages(ctx, list)
}

// AppointmentMaterialTotal valor total de materiales usados en una consulta.
func (uc *LedgerQueryUseCase) AppointmentMaterialTotal(ctx context.Context, appointmentID int64) (decimal.Decimal, error) {
	return uc.usages.SumTotalByAppointment(ctx, appointmentID)
}

// MonthRange devuelve [primer día del mes, primer día del mes siguiente) en loc.
func MonthRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	from := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

func (uc *LedgerQueryUseCase) material(ctx context.Context, cache map[int64]*entity.Material, id int64) (*entity.Material, error) {
	if m, ok := cache[id]; ok {
		return m, nil
	}
	m, err := uc.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = m
	return m, nil
}

func (uc *LedgerQueryUseCase) enrichMovements(ctx context.Context, list []*entity.StockMovement) ([]dto.MovementResponse, error) {
	materials := map[int64]*entity.Material{}
	users := map[int64]*entity.User{}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, mv := range list {
		m, err := uc.material(ctx, materials, mv.MaterialID)
		if err != nil {
			return nil, err
		}
		u, ok := users[mv.UserID]
		if !ok {
			if u, err = uc.users.GetByID(ctx, mv.UserID); err != nil {
				return nil, err
			}
			users[mv.UserID] = u
		}
		out = append(out, toMovementResponse(mv, m, u))
	}
	return out, nil
}

func (uc *LedgerQueryUseCase) enrichUsages(ctx context.Context, list []*entity.MaterialUsage) ([]dto.UsageResponse, error) {
	materials := map[int64]*entity.Material{}
	out := make([]dto.UsageResponse, 0, len(list))
	for _, u := range list {
		m, err := uc.material(ctx, materials, u.MaterialID)
		if err != nil {
			return nil, err
		}
		out = append(out, toUsageResponse(u, m))
	}
	return out, nil
}
