package scheduling_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/scheduling"
	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/testutil/memstore"
)

type fixture struct {
	store     *memstore.Store
	uc        *scheduling.AppointmentUseCase
	patientID int64
	dentistID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()

	p := &entity.Patient{Name: "Maria Silva", CPF: "12345678901", Active: true}
	require.NoError(t, store.Patients().Create(ctx, p))
	d := &entity.Dentist{Name: "Dr. João", Email: "joao@clinica.com", CRO: "SP-1234", Active: true}
	require.NoError(t, store.Dentists().Create(ctx, d))

	uc := scheduling.NewAppointmentUseCase(store, store.Appointments(), store.Patients(), store.Dentists(), time.UTC, nil, nil)
	return &fixture{store: store, uc: uc, patientID: p.ID, dentistID: d.ID}
}

func (f *fixture) book(t *testing.T, at time.Time) *dto.AppointmentResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), dto.CreateAppointmentRequest{
		PatientID: f.patientID, DentistID: f.dentistID, ScheduledAt: at,
	})
	require.NoError(t, err)
	return out
}

func day(h, m int) time.Time {
	return time.Date(2026, 5, 4, h, m, 0, 0, time.UTC)
}

func TestCreate_AgendaConEstadoPorDefecto(t *testing.T) {
	f := newFixture(t)
	out := f.book(t, day(9, 0))

	assert.NotZero(t, out.ID)
	assert.Equal(t, "AGENDADA", out.Status)
	assert.Equal(t, "Agendada", out.StatusLabel)
	assert.Equal(t, "Maria Silva", out.PatientName)
	assert.Equal(t, "SP-1234", out.DentistCRO)
	assert.Equal(t, day(10, 0), out.EndsAt)
}

func TestCreate_ConflictoDeHorario(t *testing.T) {
	f := newFixture(t)
	f.book(t, day(9, 0))

	_, err := f.uc.Create(context.Background(), dto.CreateAppointmentRequest{
		PatientID: f.patientID, DentistID: f.dentistID, ScheduledAt: day(9, 30),
	})
	assert.ErrorIs(t, err, domain.ErrSchedulingConflict)

	out, err := f.uc.Create(context.Background(), dto.CreateAppointmentRequest{
		PatientID: f.patientID, DentistID: f.dentistID, ScheduledAt: day(10, 0),
	})
	require.NoError(t, err, "franja contigua permitida")
	assert.Equal(t, day(10, 0), out.ScheduledAt)
}

func TestCreate_ConcurrenteMismaFranja(t *testing.T) {
	f := newFixture(t)

	const workers = 10
	var (
		wg                sync.WaitGroup
		booked, conflicts atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			_, err := f.uc.Create(context.Background(), dto.CreateAppointmentRequest{
				PatientID: f.patientID, DentistID: f.dentistID, ScheduledAt: day(14, offset*5),
			})
			switch {
			case err == nil:
				booked.Add(1)
			case errors.Is(err, domain.ErrSchedulingConflict):
				conflicts.Add(1)
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, booked.Load(), "todas las franjas se solapan entre sí")
	assert.EqualValues(t, workers-1, conflicts.Load())
	list, err := f.uc.ListByDentistDay(context.Background(), f.dentistID, day(0, 0))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreate_OtroDentistaNoChoca(t *testing.T) {
	f := newFixture(t)
	f.book(t, day(9, 0))

	other := &entity.Dentist{Name: "Dra. Ana", Email: "ana@clinica.com", CRO: "SP-9999", Active: true}
	require.NoError(t, f.store.Dentists().Create(context.Background(), other))

	_, err := f.uc.Create(context.Background(), dto.CreateAppointmentRequest{
		PatientID: f.patientID, DentistID: other.ID, ScheduledAt: day(9, 0),
	})
	assert.NoError(t, err)
}

func TestCreate_CanceladaLiberaLaFranja(t *testing.T) {
	f := newFixture(t)
	first := f.book(t, day(9, 0))
	_, err := f.uc.Cancel(context.Background(), first.ID)
	require.NoError(t, err)

	_, err = f.uc.Create(context.Background(), dto.CreateAppointmentRequest{
		PatientID: f.patientID, DentistID: f.dentistID, ScheduledAt: day(9, 0),
	})
	assert.NoError(t, err)
}

func TestCreate_ConflictoCruzandoMedianoche(t *testing.T) {
	f := newFixture(t)
	f.book(t, time.Date(2026, 5, 4, 23, 30, 0, 0, time.UTC))

	_, err := f.uc.Create(context.Background(), dto.CreateAppointmentRequest{
		PatientID: f.patientID, DentistID: f.dentistID, ScheduledAt: time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, domain.ErrSchedulingConflict)
}

func TestCreate_ValidaPacienteYDentista(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, dto.CreateAppointmentRequest{PatientID: 999, DentistID: f.dentistID, ScheduledAt: day(9, 0)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(ctx, dto.CreateAppointmentRequest{PatientID: f.patientID, DentistID: 999, ScheduledAt: day(9, 0)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	inactive := &entity.Dentist{Name: "Dr. Inativo", Email: "x@clinica.com", CRO: "SP-0", Active: false}
	require.NoError(t, f.store.Dentists().Create(ctx, inactive))
	_, err = f.uc.Create(ctx, dto.CreateAppointmentRequest{PatientID: f.patientID, DentistID: inactive.ID, ScheduledAt: day(9, 0)})
	assert.ErrorIs(t, err, domain.ErrInactiveEntity)

	_, err = f.uc.Create(ctx, dto.CreateAppointmentRequest{PatientID: f.patientID, DentistID: f.dentistID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, dto.CreateAppointmentRequest{
		PatientID: f.patientID, DentistID: f.dentistID, ScheduledAt: day(9, 0), Status: "CONCLUIDA",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangeStatus_MaquinaDeEstados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, day(9, 0))

	_, err := f.uc.ChangeStatus(ctx, a.ID, "CONCLUIDA")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "AGENDADA no pasa directo a CONCLUIDA")

	for _, s := range []string{"CONFIRMADA", "EM_ANDAMENTO", "CONCLUIDA"} {
		out, err := f.uc.ChangeStatus(ctx, a.ID, s)
		require.NoError(t, err, s)
		assert.Equal(t, s, out.Status)
	}

	_, err = f.uc.ChangeStatus(ctx, a.ID, "CANCELADA")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.ChangeStatus(ctx, a.ID, "DESCONOCIDO")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.ChangeStatus(ctx, 999, "CONFIRMADA")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChangeStatus_FaltouInalcanzable(t *testing.T) {
	f := newFixture(t)
	a := f.book(t, day(9, 0))
	_, err := f.uc.ChangeStatus(context.Background(), a.ID, "FALTOU")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.book(t, day(9, 0))
	out, err := f.uc.Cancel(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELADA", out.Status)

	_, err = f.uc.Cancel(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "ya cancelada")

	b := f.book(t, day(11, 0))
	_, err = f.uc.ChangeStatus(ctx, b.ID, "CONFIRMADA")
	require.NoError(t, err)
	_, err = f.uc.ChangeStatus(ctx, b.ID, "EM_ANDAMENTO")
	require.NoError(t, err)
	_, err = f.uc.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "en atención no se cancela")
}

func TestUpdate_ReubicaExcluyendoseASiMisma(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, day(9, 0))
	f.book(t, day(11, 0))

	out, err := f.uc.Update(ctx, a.ID, dto.UpdateAppointmentRequest{ScheduledAt: dto.Some(day(9, 30))})
	require.NoError(t, err, "moverse dentro de su propia franja no es conflicto")
	assert.Equal(t, day(9, 30), out.ScheduledAt)

	_, err = f.uc.Update(ctx, a.ID, dto.UpdateAppointmentRequest{ScheduledAt: dto.Some(day(10, 30))})
	assert.ErrorIs(t, err, domain.ErrSchedulingConflict)

	got, err := f.uc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, day(9, 30), got.ScheduledAt, "un update rechazado no deja cambios")
}

func TestUpdate_CamposOpcionales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	proc := "Limpeza"
	val := decimal.RequireFromString("150")
	a, err := f.uc.Create(ctx, dto.CreateAppointmentRequest{
		PatientID: f.patientID, DentistID: f.dentistID, ScheduledAt: day(9, 0), Procedure: &proc, Value: &val,
	})
	require.NoError(t, err)

	var in dto.UpdateAppointmentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"procedure": null, "notes": "Paciente ansioso"}`), &in))
	out, err := f.uc.Update(ctx, a.ID, in)
	require.NoError(t, err)

	assert.Nil(t, out.Procedure, "null limpia el campo")
	require.NotNil(t, out.Notes)
	assert.Equal(t, "Paciente ansioso", *out.Notes)
	require.NotNil(t, out.Value, "clave ausente no modifica")
	assert.True(t, val.Equal(*out.Value))

	_, err = f.uc.Update(ctx, a.ID, dto.UpdateAppointmentRequest{DentistID: dto.Null[int64]()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_EstadoViaTabla(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, day(9, 0))

	_, err := f.uc.Update(ctx, a.ID, dto.UpdateAppointmentRequest{Status: dto.Some("EM_ANDAMENTO")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	out, err := f.uc.Update(ctx, a.ID, dto.UpdateAppointmentRequest{Status: dto.Some("CONFIRMADA")})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMADA", out.Status)
}

func TestUpdate_TerminalNoSeEdita(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.book(t, day(9, 0))
	_, err := f.uc.Cancel(ctx, a.ID)
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, a.ID, dto.UpdateAppointmentRequest{Notes: dto.Some("x")})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.uc.Update(ctx, 999, dto.UpdateAppointmentRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_CambioDeDentista(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := &entity.Dentist{Name: "Dra. Ana", Email: "ana@clinica.com", CRO: "SP-9999", Active: true}
	require.NoError(t, f.store.Dentists().Create(ctx, other))

	busy, err := f.uc.Create(ctx, dto.CreateAppointmentRequest{PatientID: f.patientID, DentistID: other.ID, ScheduledAt: day(9, 0)})
	require.NoError(t, err)
	a := f.book(t, day(9, 15))

	_, err = f.uc.Update(ctx, a.ID, dto.UpdateAppointmentRequest{DentistID: dto.Some(other.ID)})
	assert.ErrorIs(t, err, domain.ErrSchedulingConflict)

	_, err = f.uc.Cancel(ctx, busy.ID)
	require.NoError(t, err)
	out, err := f.uc.Update(ctx, a.ID, dto.UpdateAppointmentRequest{DentistID: dto.Some(other.ID)})
	require.NoError(t, err)
	assert.Equal(t, "Dra. Ana", out.DentistName)
}

func TestQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, day(9, 0))
	f.book(t, day(14, 0))
	f.book(t, day(9, 0).AddDate(0, 0, 1))

	list, err := f.uc.ListByDentistDay(ctx, f.dentistID, day(12, 0))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, day(9, 0), list[0].ScheduledAt)

	byPatient, err := f.uc.ListByPatient(ctx, f.patientID)
	require.NoError(t, err)
	assert.Len(t, byPatient, 3)

	period, err := f.uc.ListByPeriod(ctx, day(0, 0), day(0, 0).AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, period, 3)

	_, err = f.uc.ListByPeriod(ctx, day(10, 0), day(9, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.GetByID(ctx, 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
