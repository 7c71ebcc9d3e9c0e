package inventory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	appinventory "github.com/jhoicas/odonto-api/internal/application/inventory"
	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
	"github.com/jhoicas/odonto-api/internal/testutil/memstore"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store         *memstore.Store
	ledger        *appinventory.RegisterMovementUseCase
	usages        *appinventory.MaterialUsageUseCase
	queries       *appinventory.LedgerQueryUseCase
	userID        int64
	appointmentID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memstore.New()

	u := &entity.User{Name: "Assistente Ana", Email: "ana@clinica.com", Role: entity.RoleAsistente, Active: true}
	require.NoError(t, s.Users().Create(ctx, u))
	p := &entity.Patient{Name: "Maria Silva", CPF: "12345678901", Active: true}
	require.NoError(t, s.Patients().Create(ctx, p))
	dn := &entity.Dentist{Name: "Dr. João", Email: "joao@clinica.com", CRO: "SP-1", Active: true}
	require.NoError(t, s.Dentists().Create(ctx, dn))
	a := &entity.Appointment{PatientID: p.ID, DentistID: dn.ID, ScheduledAt: time.Now(), Status: entity.StatusEmAndamento}
	require.NoError(t, s.Appointments().Create(ctx, a))

	ledger := appinventory.NewRegisterMovementUseCase(s, s.Users(), s.Appointments(), nil, nil)
	return &fixture{
		store:         s,
		ledger:        ledger,
		usages:        appinventory.NewMaterialUsageUseCase(s, ledger, s.Users(), s.Appointments(), s.Patients(), nil, nil),
		queries:       appinventory.NewLedgerQueryUseCase(s.Movements(), s.Usages(), s.Materials(), s.Users(), time.UTC),
		userID:        u.ID,
		appointmentID: a.ID,
	}
}

// material crea un material vacío y le da stock inicial con una ENTRADA.
func (f *fixture) material(t *testing.T, code, stock, min, price string) int64 {
	t.Helper()
	m := &entity.Material{
		Code: code, Name: "Material " + code, Category: "Consumo", UnitMeasure: "UN",
		CurrentStock: decimal.Zero, MinStock: d(min), UnitPrice: d(price), Active: true,
	}
	require.NoError(t, f.store.Materials().Create(context.Background(), m))
	if d(stock).IsPositive() {
		_, err := f.ledger.RegisterMovement(context.Background(), f.userID, dto.RegisterMovementRequest{
			MaterialID: m.ID, Type: "ENTRADA", Quantity: d(stock),
		})
		require.NoError(t, err)
	}
	return m.ID
}

func (f *fixture) stock(t *testing.T, id int64) *entity.Material {
	t.Helper()
	m, err := f.store.Materials().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

// assertLedgerConsistent verifica saldo = Σ movimientos firmados y el encadenamiento before/after.
func (f *fixture) assertLedgerConsistent(t *testing.T, id int64) {
	t.Helper()
	sum := decimal.Zero
	for _, mv := range f.store.Ledger(id) {
		assert.True(t, sum.Equal(mv.BalanceBefore), "balance_before encadenado en movimiento %d", mv.ID)
		switch mv.Type {
		case entity.MovementEntrada, entity.MovementAjustePositivo:
			sum = sum.Add(mv.Quantity)
		default:
			sum = sum.Sub(mv.Quantity)
		}
		assert.True(t, sum.Equal(mv.BalanceAfter), "balance_after en movimiento %d", mv.ID)
	}
	assert.True(t, sum.Equal(f.stock(t, id).CurrentStock), "saldo en caché = suma del libro")
}

func TestRegisterMovement_AplicaSignos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.material(t, "LUV-01", "10", "2", "1.00")

	steps := []struct {
		typ, qty, want string
	}{
		{"SAIDA", "3", "7"},
		{"AJUSTE_POSITIVO", "1.5", "8.5"},
		{"PERDA", "0.5", "8"},
		{"VENCIMENTO", "2", "6"},
		{"AJUSTE_NEGATIVO", "1", "5"},
		{"ENTRADA", "5", "10"},
	}
	for _, st := range steps {
		out, err := f.ledger.RegisterMovement(ctx, f.userID, dto.RegisterMovementRequest{MaterialID: id, Type: st.typ, Quantity: d(st.qty)})
		require.NoError(t, err, st.typ)
		assert.True(t, d(st.want).Equal(out.BalanceAfter), "%s: saldo %s", st.typ, out.BalanceAfter)
		assert.Equal(t, "Assistente Ana", out.UserName)
		assert.NotEmpty(t, out.TypeLabel)
	}
	f.assertLedgerConsistent(t, id)
}

func TestRegisterMovement_StockInsuficienteNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	id := f.material(t, "RES-01", "2", "1", "10")

	_, err := f.ledger.RegisterMovement(context.Background(), f.userID, dto.RegisterMovementRequest{
		MaterialID: id, Type: "SAIDA", Quantity: d("3"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, d("2").Equal(f.stock(t, id).CurrentStock))
	assert.Len(t, f.store.Ledger(id), 1, "sólo la entrada inicial")
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.material(t, "GAZ-01", "5", "1", "0.10")

	_, err := f.ledger.RegisterMovement(ctx, f.userID, dto.RegisterMovementRequest{MaterialID: id, Type: "ENTRADA", Quantity: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.RegisterMovement(ctx, f.userID, dto.RegisterMovementRequest{MaterialID: id, Type: "DOACAO", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.RegisterMovement(ctx, 999, dto.RegisterMovementRequest{MaterialID: id, Type: "ENTRADA", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound, "usuario inexistente")

	_, err = f.ledger.RegisterMovement(ctx, f.userID, dto.RegisterMovementRequest{MaterialID: 999, Type: "ENTRADA", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound, "material inexistente")

	missing := int64(999)
	_, err = f.ledger.RegisterMovement(ctx, f.userID, dto.RegisterMovementRequest{MaterialID: id, Type: "ENTRADA", Quantity: d("1"), AppointmentID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound, "consulta inexistente")
}

func TestRegisterMovement_EscalaDeCantidad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.material(t, "SUG-01", "10", "1", "1")

	_, err := f.ledger.RegisterMovement(ctx, f.userID, dto.RegisterMovementRequest{MaterialID: id, Type: "SAIDA", Quantity: d("1.2345")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.RegisterMovement(ctx, f.userID, dto.RegisterMovementRequest{MaterialID: id, Type: "ENTRADA", Quantity: d("0.0001")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, d("10").Equal(f.stock(t, id).CurrentStock))
	assert.Len(t, f.store.Ledger(id), 1)

	mov, err := f.ledger.RegisterMovement(ctx, f.userID, dto.RegisterMovementRequest{MaterialID: id, Type: "SAIDA", Quantity: d("1.235")})
	require.NoError(t, err)
	assert.True(t, d("8.765").Equal(mov.BalanceAfter))
	f.assertLedgerConsistent(t, id)
}

func TestRegisterMovement_DebitosConcurrentes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.material(t, "AGU-01", "10", "1", "1")

	const workers = 20
	var (
		wg           sync.WaitGroup
		ok, rejected atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.RegisterMovement(ctx, f.userID, dto.RegisterMovementRequest{MaterialID: id, Type: "SAIDA", Quantity: d("1.5")})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 6, ok.Load(), "10 / 1.5 = 6 débitos caben")
	assert.EqualValues(t, workers-6, rejected.Load())
	assert.True(t, d("1").Equal(f.stock(t, id).CurrentStock))
	assert.Len(t, f.store.Ledger(id), 7)
	f.assertLedgerConsistent(t, id)
}

func TestRegisterMovement_MaterialInactivoAceptaMovimientos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.material(t, "OLD-01", "4", "1", "1")
	m := f.stock(t, id)
	m.Active = false
	require.NoError(t, f.store.Materials().Update(ctx, m))

	out, err := f.ledger.RegisterMovement(ctx, f.userID, dto.RegisterMovementRequest{MaterialID: id, Type: "VENCIMENTO", Quantity: d("4")})
	require.NoError(t, err)
	assert.True(t, out.BalanceAfter.IsZero())
}

func TestRegisterMaterialUsage_StockBajo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.material(t, "ANE-01", "10", "5", "3.00")

	_, err := f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: id, AppointmentID: f.appointmentID, Quantity: d("4")})
	require.NoError(t, err)
	m := f.stock(t, id)
	assert.True(t, d("6").Equal(m.CurrentStock))
	assert.False(t, m.LowStock())

	_, err = f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: id, AppointmentID: f.appointmentID, Quantity: d("3")})
	require.NoError(t, err)
	m = f.stock(t, id)
	assert.True(t, d("3").Equal(m.CurrentStock))
	assert.True(t, m.LowStock())
	f.assertLedgerConsistent(t, id)
}

func TestMaterialUsage_CicloCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.material(t, "RES-02", "20", "2", "2.50")

	usage, err := f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: id, AppointmentID: f.appointmentID, Quantity: d("5")})
	require.NoError(t, err)
	assert.True(t, d("12.50").Equal(usage.Total))
	assert.True(t, d("2.50").Equal(usage.UnitPrice))

	ledger := f.store.Ledger(id)
	last := ledger[len(ledger)-1]
	assert.Equal(t, entity.MovementUsoConsulta, last.Type)
	assert.Equal(t, "Uso em consulta - Paciente: Maria Silva", last.Notes)
	require.NotNil(t, last.AppointmentID)
	assert.Equal(t, f.appointmentID, *last.AppointmentID)

	// El precio cambia después del uso: el uso conserva la foto.
	m := f.stock(t, id)
	m.UnitPrice = d("9.99")
	require.NoError(t, f.store.Materials().Update(ctx, m))

	updated, err := f.usages.UpdateUsageQuantity(ctx, f.userID, usage.ID, d("3"))
	require.NoError(t, err)
	assert.True(t, d("7.50").Equal(updated.Total))
	ledger = f.store.Ledger(id)
	last = ledger[len(ledger)-1]
	assert.Equal(t, entity.MovementAjustePositivo, last.Type)
	assert.True(t, d("2").Equal(last.Quantity))
	assert.Equal(t, "Ajuste de quantidade utilizada na consulta", last.Notes)
	assert.True(t, d("17").Equal(f.stock(t, id).CurrentStock))

	updated, err = f.usages.UpdateUsageQuantity(ctx, f.userID, usage.ID, d("4"))
	require.NoError(t, err)
	assert.True(t, d("10.00").Equal(updated.Total))
	ledger = f.store.Ledger(id)
	assert.Equal(t, entity.MovementUsoConsulta, ledger[len(ledger)-1].Type)
	assert.True(t, d("16").Equal(f.stock(t, id).CurrentStock))

	before := len(f.store.Ledger(id))
	_, err = f.usages.UpdateUsageQuantity(ctx, f.userID, usage.ID, d("4.000"))
	require.NoError(t, err)
	assert.Len(t, f.store.Ledger(id), before, "sin diferencia no hay movimiento")

	require.NoError(t, f.usages.RemoveUsage(ctx, f.userID, usage.ID))
	ledger = f.store.Ledger(id)
	last = ledger[len(ledger)-1]
	assert.Equal(t, entity.MovementAjustePositivo, last.Type)
	assert.True(t, d("4").Equal(last.Quantity))
	assert.Equal(t, "Estorno de material da consulta", last.Notes)
	assert.True(t, d("20").Equal(f.stock(t, id).CurrentStock))

	got, err := f.store.Usages().GetByID(ctx, usage.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	f.assertLedgerConsistent(t, id)

	assert.ErrorIs(t, f.usages.RemoveUsage(ctx, f.userID, usage.ID), domain.ErrNotFound)
}

func TestRegisterMaterialUsage_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.material(t, "FIO-01", "2", "1", "5")

	_, err := f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: id, AppointmentID: f.appointmentID, Quantity: d("3")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	list, _ := f.store.Usages().ListByAppointment(ctx, f.appointmentID)
	assert.Empty(t, list)

	inactive := f.material(t, "FIO-02", "5", "1", "5")
	m := f.stock(t, inactive)
	m.Active = false
	require.NoError(t, f.store.Materials().Update(ctx, m))
	_, err = f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: inactive, AppointmentID: f.appointmentID, Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrInactiveEntity)

	appt, _ := f.store.Appointments().GetByID(ctx, f.appointmentID)
	appt.Status = entity.StatusCancelada
	require.NoError(t, f.store.Appointments().Update(ctx, appt))
	_, err = f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: id, AppointmentID: f.appointmentID, Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: id, AppointmentID: 999, Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: id, AppointmentID: f.appointmentID, Quantity: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterMaterialUsage_FalloRevierteTodo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.material(t, "BRO-01", "10", "1", "1")
	boom := errors.New("disco lleno")
	f.store.FailOn("usages.Create", boom)

	_, err := f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: id, AppointmentID: f.appointmentID, Quantity: d("4")})
	assert.ErrorIs(t, err, boom)
	assert.True(t, d("10").Equal(f.stock(t, id).CurrentStock), "saldo intacto")
	assert.Len(t, f.store.Ledger(id), 1, "el movimiento se revirtió")
	f.assertLedgerConsistent(t, id)
}

func TestRegisterMaterialUsage_EscalaYTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.material(t, "FIO-01", "10", "1", "2.33")

	_, err := f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: id, AppointmentID: f.appointmentID, Quantity: d("0.0001")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, d("10").Equal(f.stock(t, id).CurrentStock))

	usage, err := f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: id, AppointmentID: f.appointmentID, Quantity: d("1.5")})
	require.NoError(t, err)
	assert.True(t, d("3.50").Equal(usage.Total), "1.5 × 2.33 redondeado a centavos")
	stored, err := f.store.Usages().GetByID(ctx, usage.ID)
	require.NoError(t, err)
	assert.True(t, usage.Total.Equal(stored.Total))
	f.assertLedgerConsistent(t, id)
}

func TestUpdateUsageQuantity_Rechazos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.material(t, "ALG-01", "5", "1", "1")
	usage, err := f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: id, AppointmentID: f.appointmentID, Quantity: d("2")})
	require.NoError(t, err)

	_, err = f.usages.UpdateUsageQuantity(ctx, f.userID, usage.ID, d("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.usages.UpdateUsageQuantity(ctx, f.userID, usage.ID, d("2.0005"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "más de 3 decimales")

	_, err = f.usages.UpdateUsageQuantity(ctx, f.userID, usage.ID, d("6"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	got, _ := f.store.Usages().GetByID(ctx, usage.ID)
	assert.True(t, d("2").Equal(got.Quantity), "el uso no cambia")

	_, err = f.usages.UpdateUsageQuantity(ctx, f.userID, 999, d("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.material(t, "Q-A", "10", "1", "2")
	b := f.material(t, "Q-B", "10", "1", "3")

	_, err := f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: a, AppointmentID: f.appointmentID, Quantity: d("2")})
	require.NoError(t, err)
	_, err = f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: b, AppointmentID: f.appointmentID, Quantity: d("1")})
	require.NoError(t, err)

	byMaterial, err := f.queries.MovementsByMaterial(ctx, a, nil, nil)
	require.NoError(t, err)
	require.Len(t, byMaterial, 2)
	assert.Equal(t, "ENTRADA", byMaterial[0].Type)
	assert.Equal(t, "Material Q-A", byMaterial[0].MaterialName)

	byType, err := f.queries.MovementsByType(ctx, entity.MovementUsoConsulta)
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	byAppt, err := f.queries.MovementsByAppointment(ctx, f.appointmentID)
	require.NoError(t, err)
	assert.Len(t, byAppt, 2)

	materials, err := f.queries.UsagesByAppointment(ctx, f.appointmentID)
	require.NoError(t, err)
	assert.Len(t, materials.Items, 2)
	assert.True(t, d("7").Equal(materials.Total))

	total, err := f.queries.AppointmentMaterialTotal(ctx, f.appointmentID)
	require.NoError(t, err)
	assert.True(t, d("7").Equal(total))

	n, err := f.queries.MovementsThisMonth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	bad := entity.MovementType("X")
	_, err = f.queries.ListMovements(ctx, repository.MovementFilter{Type: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReplenishment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	hot := f.material(t, "HOT", "10", "8", "2")
	cold := f.material(t, "COLD", "1", "4", "5")
	f.material(t, "OK", "50", "5", "1")

	_, err := f.usages.RegisterMaterialUsage(ctx, f.userID, dto.RegisterUsageRequest{MaterialID: hot, AppointmentID: f.appointmentID, Quantity: d("4")})
	require.NoError(t, err)

	uc := appinventory.NewReplenishmentUseCase(f.store.Materials(), f.store.Movements())
	list, err := uc.GenerateReplenishmentList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, hot, list[0].MaterialID, "mayor consumo primero")
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, d("12").Equal(list[0].IdealStock))
	assert.True(t, d("6").Equal(list[0].SuggestedQty))
	assert.True(t, d("12").Equal(list[0].EstimatedCost))

	assert.Equal(t, cold, list[1].MaterialID)
	assert.True(t, d("5").Equal(list[1].SuggestedQty))
}
