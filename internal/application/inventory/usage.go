package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/ports"
	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/inventory"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
	"github.com/jhoicas/odonto-api/pkg/logger"
)

// Notas de los movimientos generados por los usos en consulta.
const (
	noteUsage      = "Uso em consulta - Paciente: "
	noteReversal   = "Estorno de material da consulta"
	noteAdjustment = "Ajuste de quantidade utilizada na consulta"
)

// MaterialUsageUseCase materiales consumidos en consultas. Cada uso va acompañado de su
// movimiento en el libro dentro de la misma transacción.
type MaterialUsageUseCase struct {
	txRunner     TxRunner
	ledger       *RegisterMovementUseCase
	userRepo     repository.UserRepository
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	events       ports.EventRecorder
	log          *logger.Logger
}

// NewMaterialUsageUseCase construye el caso de uso.
func NewMaterialUsageUseCase(
	txRunner TxRunner,
	ledger *RegisterMovementUseCase,
	userRepo repository.UserRepository,
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	events ports.EventRecorder,
	log *logger.Logger,
) *MaterialUsageUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MaterialUsageUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		userRepo:     userRepo,
		appointments: appointments,
		patients:     patients,
		events:       ports.OrNop(events),
		log:          log.Named("material_usage"),
	}
}

// RegisterMaterialUsage registra el uso de un material en una consulta con su movimiento USO_CONSULTA.
// El precio unitario se fija al momento del uso.
func (uc *MaterialUsageUseCase) RegisterMaterialUsage(ctx context.Context, userID int64, in dto.RegisterUsageRequest) (*dto.UsageResponse, error) {
	if in.MaterialID <= 0 || in.AppointmentID <= 0 || !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: material_id, appointment_id y quantity > 0 son obligatorios", domain.ErrInvalidInput)
	}
	if !inventory.HasScale(in.Quantity, inventory.QuantityScale) {
		return nil, fmt.Errorf("%w: quantity admite hasta %d decimales", domain.ErrInvalidInput, inventory.QuantityScale)
	}
	if err := uc.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	appt, err := uc.appointments.GetByID(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, fmt.Errorf("%w: consulta %d", domain.ErrNotFound, in.AppointmentID)
	}
	if appt.Status == entity.StatusCancelada {
		return nil, fmt.Errorf("%w: la consulta %d está cancelada", domain.ErrInvalidState, appt.ID)
	}
	patientName := ""
	if p, err := uc.patients.GetByID(ctx, appt.PatientID); err == nil && p != nil {
		patientName = p.Name
	}

	var (
		usage    *entity.MaterialUsage
		material *entity.Material
	)
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		materialRepo repository.MaterialRepository,
		usageRepo repository.MaterialUsageRepository,
	) error {
		var err error
		material, err = materialRepo.GetForUpdate(ctx, in.MaterialID)
		if err != nil {
			return err
		}
		if material == nil {
			return fmt.Errorf("%w: material %d", domain.ErrNotFound, in.MaterialID)
		}
		if !material.Active {
			return fmt.Errorf("%w: material %s", domain.ErrInactiveEntity, material.Code)
		}
		apptID := appt.ID
		mov, err := uc.ledger.applyLocked(ctx, movRepo, materialRepo, material, MovementInput{
			MaterialID:    material.ID,
			Type:          entity.MovementUsoConsulta,
			Quantity:      in.Quantity,
			Notes:         noteUsage + patientName,
			AppointmentID: &apptID,
			UserID:        userID,
		})
		if err != nil {
			return err
		}
		usage = &entity.MaterialUsage{
			MaterialID:    material.ID,
			AppointmentID: appt.ID,
			Quantity:      in.Quantity,
			UnitPrice:     material.UnitPrice,
			UserID:        userID,
			UsedAt:        mov.CreatedAt,
		}
		usage.Recalculate()
		return usageRepo.Create(ctx, usage)
	})
	if err != nil {
		return nil, err
	}
	uc.events.StockMoved(string(entity.MovementUsoConsulta))
	uc.log.Info().Int64("usage_id", usage.ID).Int64("appointment_id", usage.AppointmentID).
		Int64("material_id", usage.MaterialID).Str("quantity", usage.Quantity.String()).Msg("uso de material registrado")
	out := toUsageResponse(usage, material)
	return &out, nil
}

// UpdateUsageQuantity corrige la cantidad usada. La diferencia genera un USO_CONSULTA (más consumo)
// o un AJUSTE_POSITIVO (devolución); el total se recalcula con el precio fijado.
func (uc *MaterialUsageUseCase) UpdateUsageQuantity(ctx context.Context, userID, usageID int64, newQuantity decimal.Decimal) (*dto.UsageResponse, error) {
	if !inventory.ValidQuantity(newQuantity) {
		return nil, fmt.Errorf("%w: quantity debe ser > 0 con hasta %d decimales", domain.ErrInvalidInput, inventory.QuantityScale)
	}
	if err := uc.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	var (
		usage    *entity.MaterialUsage
		material *entity.Material
		movType  entity.MovementType
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		materialRepo repository.MaterialRepository,
		usageRepo repository.MaterialUsageRepository,
	) error {
		var err error
		usage, err = usageRepo.GetByID(ctx, usageID)
		if err != nil {
			return err
		}
		if usage == nil {
			return fmt.Errorf("%w: uso %d", domain.ErrNotFound, usageID)
		}
		t, delta, changed := inventory.UsageAdjustment(usage.Quantity, newQuantity)
		if changed {
			apptID := usage.AppointmentID
			if _, material, err = uc.ledger.RegisterInTx(ctx, movRepo, materialRepo, MovementInput{
				MaterialID:    usage.MaterialID,
				Type:          t,
				Quantity:      delta,
				Notes:         noteAdjustment,
				AppointmentID: &apptID,
				UserID:        userID,
			}); err != nil {
				return err
			}
			movType = t
		} else if material, err = materialRepo.GetByID(ctx, usage.MaterialID); err != nil {
			return err
		}
		usage.Quantity = newQuantity
		usage.Recalculate()
		return usageRepo.Update(ctx, usage)
	})
	if err != nil {
		return nil, err
	}
	if movType != "" {
		uc.events.StockMoved(string(movType))
	}
	uc.log.Info().Int64("usage_id", usageID).Str("quantity", newQuantity.String()).Msg("uso de material ajustado")
	out := toUsageResponse(usage, material)
	return &out, nil
}

// RemoveUsage devuelve al stock la cantidad usada (AJUSTE_POSITIVO) y elimina el uso.
func (uc *MaterialUsageUseCase) RemoveUsage(ctx context.Context, userID, usageID int64) error {
	if err := uc.requireUser(ctx, userID); err != nil {
		return err
	}
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		materialRepo repository.MaterialRepository,
		usageRepo repository.MaterialUsageRepository,
	) error {
		usage, err := usageRepo.GetByID(ctx, usageID)
		if err != nil {
			return err
		}
		if usage == nil {
			return fmt.Errorf("%w: uso %d", domain.ErrNotFound, usageID)
		}
		apptID := usage.AppointmentID
		if _, _, err := uc.ledger.RegisterInTx(ctx, movRepo, materialRepo, MovementInput{
			MaterialID:    usage.MaterialID,
			Type:          entity.MovementAjustePositivo,
			Quantity:      usage.Quantity,
			Notes:         noteReversal,
			AppointmentID: &apptID,
			UserID:        userID,
		}); err != nil {
			return err
		}
		return usageRepo.Delete(ctx, usage.ID)
	})
	if err != nil {
		return err
	}
	uc.events.StockMoved(string(entity.MovementAjustePositivo))
	uc.log.Info().Int64("usage_id", usageID).Msg("uso de material eliminado")
	return nil
}

func (uc *MaterialUsageUseCase) requireUser(ctx context.Context, userID int64) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: usuario %d", domain.ErrNotFound, userID)
	}
	return nil
}

func toUsageResponse(u *entity.MaterialUsage, m *entity.Material) dto.UsageResponse {
	r := dto.UsageResponse{
		ID:            u.ID,
		MaterialID:    u.MaterialID,
		AppointmentID: u.AppointmentID,
		Quantity:      u.Quantity,
		UnitPrice:     u.UnitPrice,
		Total:         u.Total,
		UserID:        u.UserID,
		UsedAt:        u.UsedAt,
	}
	if m != nil {
		r.MaterialName = m.Name
		r.MaterialCode = m.Code
		r.Category = m.Category
		r.UnitMeasure = m.UnitMeasure
	}
	return r
}
