package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/testutil/memstore"
)

type fakeCache struct {
	data   map[string]*dto.DashboardMetrics
	ttl    time.Duration
	getErr error
	sets   int
}

func (c *fakeCache) Get(_ context.Context, key string) (*dto.DashboardMetrics, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.data[key], nil
}

func (c *fakeCache) Set(_ context.Context, key string, m *dto.DashboardMetrics, ttl time.Duration) error {
	c.data[key] = m
	c.ttl = ttl
	c.sets++
	return nil
}

func repos(s *memstore.Store) Repositories {
	return Repositories{
		Patients: s.Patients(), Dentists: s.Dentists(), Appointments: s.Appointments(),
		Materials: s.Materials(), Movements: s.Movements(), Usages: s.Usages(), Users: s.Users(),
	}
}

func TestGetMetrics(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	now := time.Date(2026, 3, 18, 15, 0, 0, 0, time.UTC)

	p := &entity.Patient{Name: "Maria", CPF: "12345678901", Active: true, CreatedAt: now.AddDate(0, 0, -3)}
	require.NoError(t, s.Patients().Create(ctx, p))
	require.NoError(t, s.Patients().Create(ctx, &entity.Patient{Name: "Velho", CPF: "10987654321", Active: false, CreatedAt: now.AddDate(0, -2, 0)}))
	dn := &entity.Dentist{Name: "Dr. João", Email: "j@c.com", CRO: "SP-1", Active: true}
	require.NoError(t, s.Dentists().Create(ctx, dn))
	require.NoError(t, s.Users().Create(ctx, &entity.User{Email: "admin@c.com", Role: entity.RoleAdmin, Active: true}))

	value := decimal.RequireFromString("150.00")
	for _, a := range []*entity.Appointment{
		{ScheduledAt: now.Add(-5 * time.Hour), Status: entity.StatusConcluida, Value: &value},
		{ScheduledAt: now.Add(2 * time.Hour), Status: entity.StatusAgendada},
		{ScheduledAt: now.Add(3 * time.Hour), Status: entity.StatusCancelada},
		{ScheduledAt: now.AddDate(0, 0, -10), Status: entity.StatusConcluida, Value: &value},
		{ScheduledAt: now.AddDate(0, -1, 0), Status: entity.StatusConcluida, Value: &value},
	} {
		a.PatientID, a.DentistID = p.ID, dn.ID
		require.NoError(t, s.Appointments().Create(ctx, a))
	}
	require.NoError(t, s.Materials().Create(ctx, &entity.Material{Code: "A", Name: "A", CurrentStock: decimal.NewFromInt(1), MinStock: decimal.NewFromInt(2), Active: true}))
	require.NoError(t, s.Movements().Create(ctx, &entity.StockMovement{MaterialID: 1, Type: entity.MovementEntrada, Quantity: decimal.NewFromInt(1), CreatedAt: now.AddDate(0, 0, -1)}))
	require.NoError(t, s.Usages().Create(ctx, &entity.MaterialUsage{MaterialID: 1, Quantity: decimal.NewFromInt(2), Total: decimal.RequireFromString("7.5"), UsedAt: now.Add(-time.Hour)}))

	cache := &fakeCache{data: map[string]*dto.DashboardMetrics{}}
	uc := NewDashboardUseCase(repos(s), cache, time.Minute, time.UTC, nil)
	uc.now = func() time.Time { return now }

	m, err := uc.GetMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.ActivePatients)
	assert.Equal(t, int64(1), m.PatientsRegisteredMonth)
	assert.Equal(t, int64(1), m.ActiveDentists)
	assert.Equal(t, int64(3), m.AppointmentsToday)
	assert.Equal(t, int64(1), m.ScheduledToday)
	assert.Equal(t, int64(1), m.CompletedToday)
	assert.Equal(t, int64(4), m.AppointmentsMonth)
	assert.True(t, decimal.RequireFromString("300").Equal(m.MonthlyRevenue))
	assert.Equal(t, int64(1), m.TotalUsers)
	assert.Equal(t, int64(1), m.LowStockMaterials)
	assert.Equal(t, int64(1), m.MovementsMonth)
	assert.True(t, decimal.RequireFromString("7.5").Equal(m.MaterialCostMonth))

	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, time.Minute, cache.ttl)
	assert.Contains(t, cache.data, "dashboard:metrics:2026-03-18")

	// Segunda lectura sale de la caché
	again, err := uc.GetMetrics(ctx)
	require.NoError(t, err)
	assert.Same(t, m, again)
	assert.Equal(t, 1, cache.sets)
}

func TestGetMetrics_CacheCaidaNoRompe(t *testing.T) {
	s := memstore.New()
	cache := &fakeCache{data: map[string]*dto.DashboardMetrics{}, getErr: errors.New("redis down")}
	uc := NewDashboardUseCase(repos(s), cache, time.Minute, time.UTC, nil)

	m, err := uc.GetMetrics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, m.ActivePatients)
	assert.True(t, m.MonthlyRevenue.IsZero())
}

func TestGetMetrics_SinCache(t *testing.T) {
	uc := NewDashboardUseCase(repos(memstore.New()), nil, 0, nil, nil)
	_, err := uc.GetMetrics(context.Background())
	require.NoError(t, err)
}
