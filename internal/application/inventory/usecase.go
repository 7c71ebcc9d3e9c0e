package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/ports"
	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/inventory"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
	"github.com/jhoicas/odonto-api/pkg/logger"
)

// RegisterMovementUseCase registra movimientos del libro de forma transaccional:
// bloqueo de la fila del material (SELECT FOR UPDATE), nuevo saldo, movimiento y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	userRepo     repository.UserRepository
	appointments repository.AppointmentRepository
	events       ports.EventRecorder
	log          *logger.Logger
	now          func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	appointments repository.AppointmentRepository,
	events ports.EventRecorder,
	log *logger.Logger,
) *RegisterMovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		userRepo:     userRepo,
		appointments: appointments,
		events:       ports.OrNop(events),
		log:          log.Named("inventory"),
		now:          time.Now,
	}
}

// MovementInput datos de un movimiento ya validado.
type MovementInput struct {
	MaterialID    int64
	Type          entity.MovementType
	Quantity      decimal.Decimal
	Notes         string
	AppointmentID *int64
	UserID        int64
}

// RegisterMovement valida usuario y consulta y registra el movimiento en una transacción.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, userID int64, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	input := MovementInput{
		MaterialID:    in.MaterialID,
		Type:          entity.MovementType(in.Type),
		Quantity:      in.Quantity,
		Notes:         in.Notes,
		AppointmentID: in.AppointmentID,
		UserID:        userID,
	}
	if input.MaterialID <= 0 || !inventory.ValidMovementType(input.Type) || !input.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: material_id, type válido y quantity > 0 son obligatorios", domain.ErrInvalidInput)
	}
	if !inventory.HasScale(input.Quantity, inventory.QuantityScale) {
		return nil, fmt.Errorf("%w: quantity admite hasta %d decimales", domain.ErrInvalidInput, inventory.QuantityScale)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario %d", domain.ErrNotFound, userID)
	}
	if input.AppointmentID != nil {
		appt, err := uc.appointments.GetByID(ctx, *input.AppointmentID)
		if err != nil {
			return nil, err
		}
		if appt == nil {
			return nil, fmt.Errorf("%w: consulta %d", domain.ErrNotFound, *input.AppointmentID)
		}
	}

	var (
		mov      *entity.StockMovement
		material *entity.Material
	)
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		materialRepo repository.MaterialRepository,
		_ repository.MaterialUsageRepository,
	) error {
		var err error
		mov, material, err = uc.RegisterInTx(ctx, movRepo, materialRepo, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.events.StockMoved(string(mov.Type))
	uc.log.Info().Int64("material_id", mov.MaterialID).Str("type", string(mov.Type)).
		Str("quantity", mov.Quantity.String()).Str("balance", mov.BalanceAfter.String()).Msg("movimiento registrado")

	out := toMovementResponse(mov, material, user)
	return &out, nil
}

// RegisterInTx bloquea el material y aplica el movimiento usando los repositorios proporcionados
// (misma transacción del caller). Lo usan el alta de materiales y los usos en consulta.
func (uc *RegisterMovementUseCase) RegisterInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	materialRepo repository.MaterialRepository,
	input MovementInput,
) (*entity.StockMovement, *entity.Material, error) {
	material, err := materialRepo.GetForUpdate(ctx, input.MaterialID)
	if err != nil {
		return nil, nil, err
	}
	if material == nil {
		return nil, nil, fmt.Errorf("%w: material %d", domain.ErrNotFound, input.MaterialID)
	}
	mov, err := uc.applyLocked(ctx, movRepo, materialRepo, material, input)
	if err != nil {
		return nil, nil, err
	}
	return mov, material, nil
}

// applyLocked calcula el nuevo saldo de un material ya bloqueado, agrega el movimiento y
// actualiza el saldo en caché. material.CurrentStock queda con el saldo nuevo.
func (uc *RegisterMovementUseCase) applyLocked(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	materialRepo repository.MaterialRepository,
	material *entity.Material,
	input MovementInput,
) (*entity.StockMovement, error) {
	before := material.CurrentStock
	after, err := inventory.ApplyMovement(before, input.Type, input.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.events.InsufficientStock()
			return nil, fmt.Errorf("%w: material %s disponible %s, solicitado %s",
				domain.ErrInsufficientStock, material.Code, before.String(), input.Quantity.String())
		}
		return nil, err
	}
	now := uc.now()
	mov := &entity.StockMovement{
		MaterialID:    material.ID,
		Type:          input.Type,
		Quantity:      input.Quantity,
		BalanceBefore: before,
		BalanceAfter:  after,
		Notes:         input.Notes,
		AppointmentID: input.AppointmentID,
		UserID:        input.UserID,
		CreatedAt:     now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	if err := materialRepo.UpdateStock(ctx, material.ID, after, now); err != nil {
		return nil, err
	}
	material.CurrentStock = after
	material.UpdatedAt = now
	return mov, nil
}

func toMovementResponse(m *entity.StockMovement, material *entity.Material, user *entity.User) dto.MovementResponse {
	r := dto.MovementResponse{
		ID:            m.ID,
		MaterialID:    m.MaterialID,
		Type:          string(m.Type),
		TypeLabel:     inventory.MovementLabel(m.Type),
		Quantity:      m.Quantity,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Notes:         m.Notes,
		AppointmentID: m.AppointmentID,
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
	}
	if material != nil {
		r.MaterialName = material.Name
		r.MaterialCode = material.Code
	}
	if user != nil {
		r.UserName = user.Name
	}
	return r
}
