// Package memstore implementa los repositorios del dominio en memoria para pruebas de casos de uso.
// Su TxRunner toma una copia del estado al iniciar y la restaura si la función devuelve error,
// con la misma semántica de Commit/Rollback que la implementación PostgreSQL.
package memstore

import (
	"context"
	"sync"

	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

type data struct {
	seq          int64
	appointments map[int64]entity.Appointment
	materials    map[int64]entity.Material
	movements    []entity.StockMovement
	usages       map[int64]entity.MaterialUsage
	patients     map[int64]entity.Patient
	dentists     map[int64]entity.Dentist
	plans        map[int64]entity.HealthPlan
	users        map[int64]entity.User
}

func newData() *data {
	return &data{
		appointments: map[int64]entity.Appointment{},
		materials:    map[int64]entity.Material{},
		usages:       map[int64]entity.MaterialUsage{},
		patients:     map[int64]entity.Patient{},
		dentists:     map[int64]entity.Dentist{},
		plans:        map[int64]entity.HealthPlan{},
		users:        map[int64]entity.User{},
	}
}

func (d *data) clone() *data {
	c := &data{
		seq:          d.seq,
		appointments: make(map[int64]entity.Appointment, len(d.appointments)),
		materials:    make(map[int64]entity.Material, len(d.materials)),
		movements:    append([]entity.StockMovement(nil), d.movements...),
		usages:       make(map[int64]entity.MaterialUsage, len(d.usages)),
		patients:     make(map[int64]entity.Patient, len(d.patients)),
		dentists:     make(map[int64]entity.Dentist, len(d.dentists)),
		plans:        make(map[int64]entity.HealthPlan, len(d.plans)),
		users:        make(map[int64]entity.User, len(d.users)),
	}
	for k, v := range d.appointments {
		c.appointments[k] = v
	}
	for k, v := range d.materials {
		c.materials[k] = v
	}
	for k, v := range d.usages {
		c.usages[k] = v
	}
	for k, v := range d.patients {
		c.patients[k] = v
	}
	for k, v := range d.dentists {
		c.dentists[k] = v
	}
	for k, v := range d.plans {
		c.plans[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

func (d *data) nextID() int64 {
	d.seq++
	return d.seq
}

// Store estado en memoria compartido por todos los repositorios.
type Store struct {
	mu       sync.Mutex // protege data y failures
	txMu     sync.Mutex // serializa transacciones (equivale al bloqueo de fila)
	data     *data
	failures map[string]error
}

// New crea un store vacío.
func New() *Store {
	return &Store{data: newData(), failures: map[string]error{}}
}

// FailOn hace que la próxima llamada a op (p.ej. "usages.Create") devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// fail se llama con mu tomado.
func (s *Store) fail(op string) error {
	if err, ok := s.failures[op]; ok {
		delete(s.failures, op)
		return err
	}
	return nil
}

func (s *Store) runTx(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	materialRepo repository.MaterialRepository,
	usageRepo repository.MaterialUsageRepository,
) error) error {
	return s.runTx(func() error {
		return fn(s.Movements(), s.Materials(), s.Usages())
	})
}

// RunScheduling implementa scheduling.TxRunner.
func (s *Store) RunScheduling(ctx context.Context, fn func(
	appointmentRepo repository.AppointmentRepository,
	dentistRepo repository.DentistRepository,
	patientRepo repository.PatientRepository,
) error) error {
	return s.runTx(func() error {
		return fn(s.Appointments(), s.Dentists(), s.Patients())
	})
}

func (s *Store) Appointments() *AppointmentRepo { return &AppointmentRepo{s: s} }
func (s *Store) Materials() *MaterialRepo       { return &MaterialRepo{s: s} }
func (s *Store) Movements() *MovementRepo       { return &MovementRepo{s: s} }
func (s *Store) Usages() *UsageRepo             { return &UsageRepo{s: s} }
func (s *Store) Patients() *PatientRepo         { return &PatientRepo{s: s} }
func (s *Store) Dentists() *DentistRepo         { return &DentistRepo{s: s} }
func (s *Store) HealthPlans() *HealthPlanRepo   { return &HealthPlanRepo{s: s} }
func (s *Store) Users() *UserRepo               { return &UserRepo{s: s} }
