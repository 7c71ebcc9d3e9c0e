package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/inventory"
	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	stockrules "github.com/jhoicas/odonto-api/internal/domain/inventory"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

// NoteInitialStock nota del movimiento ENTRADA generado por el stock inicial.
const NoteInitialStock = "Estoque inicial"

// MaterialUseCase casos de uso CRUD para materiales. CurrentStock se maneja vía movimientos.
type MaterialUseCase struct {
	repo     repository.MaterialRepository
	txRunner inventory.TxRunner
	ledger   *inventory.RegisterMovementUseCase
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository, txRunner inventory.TxRunner, ledger *inventory.RegisterMovementUseCase) *MaterialUseCase {
	return &MaterialUseCase{repo: repo, txRunner: txRunner, ledger: ledger}
}

// Create crea un material con stock 0; si trae stock inicial se registra como ENTRADA
// en la misma transacción.
func (uc *MaterialUseCase) Create(ctx context.Context, userID int64, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" || in.UnitMeasure == "" {
		return nil, fmt.Errorf("%w: code, name y unit_measure son obligatorios", domain.ErrInvalidInput)
	}
	if in.InitialStock.IsNegative() || in.MinStock.IsNegative() || in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: cantidades y precio no pueden ser negativos", domain.ErrInvalidInput)
	}
	if err := checkScales(in.InitialStock, in.MinStock, in.UnitPrice); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: código %s", domain.ErrDuplicate, in.Code)
	}

	now := time.Now()
	material := &entity.Material{
		Code:         in.Code,
		Name:         in.Name,
		Category:     in.Category,
		UnitMeasure:  in.UnitMeasure,
		CurrentStock: decimal.Zero,
		MinStock:     in.MinStock,
		UnitPrice:    in.UnitPrice,
		Description:  in.Description,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		materialRepo repository.MaterialRepository,
		_ repository.MaterialUsageRepository,
	) error {
		if err := materialRepo.Create(ctx, material); err != nil {
			return err
		}
		if !in.InitialStock.IsPositive() {
			return nil
		}
		_, locked, err := uc.ledger.RegisterInTx(ctx, movRepo, materialRepo, inventory.MovementInput{
			MaterialID: material.ID,
			Type:       entity.MovementEntrada,
			Quantity:   in.InitialStock,
			Notes:      NoteInitialStock,
			UserID:     userID,
		})
		if err != nil {
			return err
		}
		material = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(material), nil
}

// GetByID obtiene un material por ID.
func (uc *MaterialUseCase) GetByID(ctx context.Context, id int64) (*dto.MaterialResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(m), nil
}

// Update actualiza datos descriptivos. No permite modificar el stock (se maneja vía movimientos).
// Lee la fila con GetForUpdate dentro de la transacción, igual que SetActive.
func (uc *MaterialUseCase) Update(ctx context.Context, id int64, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	var out *entity.Material
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		materialRepo repository.MaterialRepository,
		_ repository.MaterialUsageRepository,
	) error {
		m, err := lockMaterial(ctx, materialRepo, id)
		if err != nil {
			return err
		}
		if err := applyMaterialUpdate(m, in); err != nil {
			return err
		}
		if in.Code.HasValue() {
			other, err := materialRepo.GetByCode(ctx, m.Code)
			if err != nil {
				return err
			}
			if other != nil && other.ID != m.ID {
				return fmt.Errorf("%w: código %s", domain.ErrDuplicate, m.Code)
			}
		}
		m.UpdatedAt = time.Now()
		if err := materialRepo.Update(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(out), nil
}

func applyMaterialUpdate(m *entity.Material, in dto.UpdateMaterialRequest) error {
	if err := setText(&m.Code, in.Code, "code"); err != nil {
		return err
	}
	if err := setText(&m.Name, in.Name, "name"); err != nil {
		return err
	}
	if err := setText(&m.UnitMeasure, in.UnitMeasure, "unit_measure"); err != nil {
		return err
	}
	setOptionalText(&m.Category, in.Category)
	setOptionalText(&m.Description, in.Description)
	for _, f := range []struct {
		dst   *decimal.Decimal
		src   dto.Optional[decimal.Decimal]
		name  string
		scale int32
	}{
		{&m.MinStock, in.MinStock, "min_stock", stockrules.QuantityScale},
		{&m.UnitPrice, in.UnitPrice, "unit_price", stockrules.PriceScale},
	} {
		if !f.src.Set {
			continue
		}
		if f.src.Null || f.src.Value.IsNegative() {
			return fmt.Errorf("%w: %s debe ser >= 0", domain.ErrInvalidInput, f.name)
		}
		if !stockrules.HasScale(f.src.Value, f.scale) {
			return fmt.Errorf("%w: %s admite hasta %d decimales", domain.ErrInvalidInput, f.name, f.scale)
		}
		*f.dst = f.src.Value
	}
	return nil
}

// SetActive activa o desactiva un material. Un material inactivo no admite nuevos usos.
func (uc *MaterialUseCase) SetActive(ctx context.Context, id int64, active bool) (*dto.MaterialResponse, error) {
	var out *entity.Material
	err := uc.txRunner.Run(ctx, func(
		_ repository.StockMovementRepository,
		materialRepo repository.MaterialRepository,
		_ repository.MaterialUsageRepository,
	) error {
		m, err := lockMaterial(ctx, materialRepo, id)
		if err != nil {
			return err
		}
		m.Active = active
		m.UpdatedAt = time.Now()
		if err := materialRepo.Update(ctx, m); err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(out), nil
}

// ListLowStock materiales activos con stock <= mínimo.
func (uc *MaterialUseCase) ListLowStock(ctx context.Context) ([]dto.MaterialResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMaterialResponse(m))
	}
	return out, nil
}

// ListCategories categorías distintas de los materiales activos.
func (uc *MaterialUseCase) ListCategories(ctx context.Context) ([]string, error) {
	return uc.repo.ListCategories(ctx)
}

func (uc *MaterialUseCase) get(ctx context.Context, id int64) (*entity.Material, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: material %d", domain.ErrNotFound, id)
	}
	return m, nil
}

func lockMaterial(ctx context.Context, repo repository.MaterialRepository, id int64) (*entity.Material, error) {
	m, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: material %d", domain.ErrNotFound, id)
	}
	return m, nil
}

// checkScales cantidades con hasta 3 decimales y precio con hasta 2.
func checkScales(initialStock, minStock, unitPrice decimal.Decimal) error {
	if !stockrules.HasScale(initialStock, stockrules.QuantityScale) || !stockrules.HasScale(minStock, stockrules.QuantityScale) {
		return fmt.Errorf("%w: initial_stock y min_stock admiten hasta %d decimales", domain.ErrInvalidInput, stockrules.QuantityScale)
	}
	if !stockrules.HasScale(unitPrice, stockrules.PriceScale) {
		return fmt.Errorf("%w: unit_price admite hasta %d decimales", domain.ErrInvalidInput, stockrules.PriceScale)
	}
	return nil
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:           m.ID,
		Code:         m.Code,
		Name:         m.Name,
		Category:     m.Category,
		UnitMeasure:  m.UnitMeasure,
		CurrentStock: m.CurrentStock,
		MinStock:     m.MinStock,
		UnitPrice:    m.UnitPrice,
		Description:  m.Description,
		Active:       m.Active,
		LowStock:     m.LowStock(),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
