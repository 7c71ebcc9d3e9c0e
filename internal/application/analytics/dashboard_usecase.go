// Package analytics contiene el caso de uso del panel de indicadores de la clínica.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/ports"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
	"github.com/jhoicas/odonto-api/pkg/logger"
)

const cacheKeyPrefix = "dashboard:metrics:"

// Repositories fuentes de datos read-only del panel.
type Repositories struct {
	Patients     repository.PatientRepository
	Dentists     repository.DentistRepository
	Appointments repository.AppointmentRepository
	Materials    repository.MaterialRepository
	Movements    repository.StockMovementRepository
	Usages       repository.MaterialUsageRepository
	Users        repository.UserRepository
}

// DashboardUseCase genera los indicadores del día y del mes en curso (zona horaria de la clínica).
// Si hay caché, el resultado se guarda por cacheTTL bajo una clave por día.
type DashboardUseCase struct {
	repos    Repositories
	cache    ports.DashboardCache
	cacheTTL time.Duration
	loc      *time.Location
	log      *logger.Logger
	now      func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(repos Repositories, cache ports.DashboardCache, cacheTTL time.Duration, loc *time.Location, log *logger.Logger) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{repos: repos, cache: cache, cacheTTL: cacheTTL, loc: loc, log: log.Named("dashboard"), now: time.Now}
}

// GetMetrics devuelve los indicadores, desde la caché si están vigentes.
func (uc *DashboardUseCase) GetMetrics(ctx context.Context) (*dto.DashboardMetrics, error) {
	now := uc.now().In(uc.loc)
	key := cacheKeyPrefix + now.Format("2006-01-02")

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("caché del dashboard no disponible")
		} else if cached != nil {
			return cached, nil
		}
	}

	m, err := uc.compute(ctx, now)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil && uc.cacheTTL > 0 {
		if err := uc.cache.Set(ctx, key, m, uc.cacheTTL); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el dashboard en caché")
		}
	}
	return m, nil
}

func (uc *DashboardUseCase) compute(ctx context.Context, now time.Time) (*dto.DashboardMetrics, error) {
	// Hoy: [00:00, 24:00); mes: [día 1, día 1 del mes siguiente)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	todayEnd := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var (
		m       dto.DashboardMetrics
		revenue decimal.Decimal
		cost    decimal.Decimal
	)
	r := uc.repos
	g, gctx := errgroup.WithContext(ctx)
	count := func(name string, dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				return fmt.Errorf("dashboard: %s: %w", name, err)
			}
			*dst = n
			return nil
		})
	}

	count("pacientes activos", &m.ActivePatients, r.Patients.CountActive)
	count("pacientes del mes", &m.PatientsRegisteredMonth, func(c context.Context) (int64, error) {
		return r.Patients.CountCreatedBetween(c, monthStart, monthEnd)
	})
	count("dentistas activos", &m.ActiveDentists, r.Dentists.CountActive)
	count("consultas de hoy", &m.AppointmentsToday, func(c context.Context) (int64, error) {
		return r.Appointments.CountBetween(c, todayStart, todayEnd)
	})
	count("agendadas hoy", &m.ScheduledToday, func(c context.Context) (int64, error) {
		return r.Appointments.CountBetween(c, todayStart, todayEnd, entity.StatusAgendada, entity.StatusConfirmada)
	})
	count("concluidas hoy", &m.CompletedToday, func(c context.Context) (int64, error) {
		return r.Appointments.CountBetween(c, todayStart, todayEnd, entity.StatusConcluida)
	})
	count("consultas del mes", &m.AppointmentsMonth, func(c context.Context) (int64, error) {
		return r.Appointments.CountBetween(c, monthStart, monthEnd)
	})
	count("usuarios", &m.TotalUsers, r.Users.Count)
	count("materiales con stock bajo", &m.LowStockMaterials, r.Materials.CountLowStock)
	count("movimientos del mes", &m.MovementsMonth, func(c context.Context) (int64, error) {
		return r.Movements.CountBetween(c, monthStart, monthEnd)
	})
	g.Go(func() error {
		v, err := r.Appointments.SumValueBetween(gctx, monthStart, monthEnd, entity.StatusConcluida)
		if err != nil {
			return fmt.Errorf("dashboard: facturación del mes: %w", err)
		}
		revenue = v
		return nil
	})
	g.Go(func() error {
		v, err := r.Usages.SumTotalBetween(gctx, monthStart, monthEnd)
		if err != nil {
			return fmt.Errorf("dashboard: materiales del mes: %w", err)
		}
		cost = v
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	m.MonthlyRevenue = revenue.Round(2)
	m.MaterialCostMonth = cost.Round(2)
	return &m, nil
}
