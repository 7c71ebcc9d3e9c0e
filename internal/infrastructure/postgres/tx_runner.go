package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/odonto-api/internal/application/inventory"
	"github.com/jhoicas/odonto-api/internal/application/scheduling"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and scheduling.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ scheduling.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos de inventario atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	materialRepo repository.MaterialRepository,
	usageRepo repository.MaterialUsageRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewStockMovementRepository(tx), NewMaterialRepository(tx), NewMaterialUsageRepository(tx))
	})
}

// RunScheduling inicia una transacción con repos de agenda (alta y edición de consultas).
func (r *TxRunner) RunScheduling(ctx context.Context, fn func(
	appointmentRepo repository.AppointmentRepository,
	dentistRepo repository.DentistRepository,
	patientRepo repository.PatientRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewAppointmentRepository(tx), NewDentistRepository(tx), NewPatientRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
