package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

var (
	_ repository.MaterialRepository      = (*MaterialRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.MaterialUsageRepository = (*UsageRepo)(nil)
)

// MaterialRepo materiales en memoria; código único.
type MaterialRepo struct{ s *Store }

func (r *MaterialRepo) Create(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("materials.Create"); err != nil {
		return err
	}
	for _, o := range r.s.data.materials {
		if o.Code == m.Code {
			return domain.ErrDuplicate
		}
	}
	m.ID = r.s.data.nextID()
	r.s.data.materials[m.ID] = *m
	return nil
}

func (r *MaterialRepo) GetByID(_ context.Context, id int64) (*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.data.materials[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MaterialRepo) GetByCode(_ context.Context, code string) (*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.data.materials {
		if m.Code == code {
			m := m
			return &m, nil
		}
	}
	return nil, nil
}

func (r *MaterialRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

// Update conserva el stock guardado: sólo UpdateStock lo modifica.
func (r *MaterialRepo) Update(_ context.Context, m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.data.materials[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, o := range r.s.data.materials {
		if o.ID != m.ID && o.Code == m.Code {
			return domain.ErrDuplicate
		}
	}
	next := *m
	next.CurrentStock = cur.CurrentStock
	r.s.data.materials[m.ID] = next
	return nil
}

func (r *MaterialRepo) UpdateStock(_ context.Context, id int64, stock decimal.Decimal, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("materials.UpdateStock"); err != nil {
		return err
	}
	m, ok := r.s.data.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.CurrentStock = stock
	m.UpdatedAt = at
	r.s.data.materials[id] = m
	return nil
}

func (r *MaterialRepo) ListLowStock(_ context.Context) ([]*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Material{}
	for _, m := range r.s.data.materials {
		if m.Active && m.LowStock() {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MaterialRepo) ListCategories(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, m := range r.s.data.materials {
		if m.Active && !seen[m.Category] {
			seen[m.Category] = true
			out = append(out, m.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *MaterialRepo) CountLowStock(ctx context.Context) (int64, error) {
	list, _ := r.ListLowStock(ctx)
	return int64(len(list)), nil
}

// MovementRepo libro de movimientos en memoria (sólo append).
type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("movements.Create"); err != nil {
		return err
	}
	m.ID = r.s.data.nextID()
	r.s.data.movements = append(r.s.data.movements, *m)
	return nil
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.StockMovement{}
	for _, m := range r.s.data.movements {
		if f.MaterialID != nil && m.MaterialID != *f.MaterialID {
			continue
		}
		if f.AppointmentID != nil && (m.AppointmentID == nil || *m.AppointmentID != *f.AppointmentID) {
			continue
		}
		if f.Type != nil && m.Type != *f.Type {
			continue
		}
		if f.From != nil && m.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !m.CreatedAt.Before(*f.To) {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MovementRepo) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	list, _ := r.List(ctx, repository.MovementFilter{From: &from, To: &to})
	return int64(len(list)), nil
}

// UsageRepo materiales usados en consultas, en memoria.
type UsageRepo struct{ s *Store }

func (r *UsageRepo) Create(_ context.Context, u *entity.MaterialUsage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("usages.Create"); err != nil {
		return err
	}
	u.ID = r.s.data.nextID()
	r.s.data.usages[u.ID] = *u
	return nil
}

func (r *UsageRepo) GetByID(_ context.Context, id int64) (*entity.MaterialUsage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.usages[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UsageRepo) Update(_ context.Context, u *entity.MaterialUsage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("usages.Update"); err != nil {
		return err
	}
	if _, ok := r.s.data.usages[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.data.usages[u.ID] = *u
	return nil
}

func (r *UsageRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("usages.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.data.usages[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.data.usages, id)
	return nil
}

func (r *UsageRepo) filter(keep func(entity.MaterialUsage) bool) []*entity.MaterialUsage {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.MaterialUsage{}
	for _, u := range r.s.data.usages {
		if keep(u) {
			u := u
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *UsageRepo) ListByAppointment(_ context.Context, appointmentID int64) ([]*entity.MaterialUsage, error) {
	return r.filter(func(u entity.MaterialUsage) bool { return u.AppointmentID == appointmentID }), nil
}

func (r *UsageRepo) ListByMaterial(_ context.Context, materialID int64) ([]*entity.MaterialUsage, error) {
	return r.filter(func(u entity.MaterialUsage) bool { return u.MaterialID == materialID }), nil
}

func (r *UsageRepo) SumTotalByAppointment(ctx context.Context, appointmentID int64) (decimal.Decimal, error) {
	list, _ := r.ListByAppointment(ctx, appointmentID)
	sum := decimal.Zero
	for _, u := range list {
		sum = sum.Add(u.Total)
	}
	return sum, nil
}

func (r *UsageRepo) SumTotalBetween(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, u := range r.filter(func(u entity.MaterialUsage) bool { return inRange(u.UsedAt, from, to) }) {
		sum = sum.Add(u.Total)
	}
	return sum, nil
}

// Ledger devuelve todos los movimientos de un material en orden de inserción.
func (s *Store) Ledger(materialID int64) []entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.StockMovement
	for _, m := range s.data.movements {
		if m.MaterialID == materialID {
			out = append(out, m)
		}
	}
	return out
}
