package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/domain"
	"github.com/jhoicas/odonto-api/internal/domain/entity"
	"github.com/jhoicas/odonto-api/internal/domain/repository"
)

// HealthPlanUseCase CRUD de convenios.
type HealthPlanUseCase struct {
	repo     repository.HealthPlanRepository
	patients repository.PatientRepository
}

// NewHealthPlanUseCase construye el caso de uso.
func NewHealthPlanUseCase(repo repository.HealthPlanRepository, patients repository.PatientRepository) *HealthPlanUseCase {
	return &HealthPlanUseCase{repo: repo, patients: patients}
}

// Create registra un convenio activo. El código ANS es único.
func (uc *HealthPlanUseCase) Create(ctx context.Context, in dto.HealthPlanRequest) (*dto.HealthPlanResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	now := time.Now()
	h := &entity.HealthPlan{
		Name:        in.Name,
		ANSCode:     strings.TrimSpace(in.ANSCode),
		Description: in.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, h); err != nil {
		return nil, err
	}
	return toHealthPlanResponse(h), nil
}

// GetByID obtiene un convenio.
func (uc *HealthPlanUseCase) GetByID(ctx context.Context, id int64) (*dto.HealthPlanResponse, error) {
	h, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toHealthPlanResponse(h), nil
}

// List lista convenios; onlyActive filtra los activos.
func (uc *HealthPlanUseCase) List(ctx context.Context, onlyActive bool) ([]dto.HealthPlanResponse, error) {
	list, err := uc.repo.List(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HealthPlanResponse, 0, len(list))
	for _, h := range list {
		out = append(out, *toHealthPlanResponse(h))
	}
	return out, nil
}

// Update reemplaza nombre, código ANS y descripción.
func (uc *HealthPlanUseCase) Update(ctx context.Context, id int64, in dto.HealthPlanRequest) (*dto.HealthPlanResponse, error) {
	h, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	h.Name = strings.TrimSpace(in.Name)
	h.ANSCode = strings.TrimSpace(in.ANSCode)
	h.Description = in.Description
	h.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return toHealthPlanResponse(h), nil
}

// ToggleActive invierte el estado activo del convenio.
func (uc *HealthPlanUseCase) ToggleActive(ctx context.Context, id int64) (*dto.HealthPlanResponse, error) {
	h, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Active = !h.Active
	h.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return toHealthPlanResponse(h), nil
}

// Delete elimina el convenio si ningún paciente lo referencia.
func (uc *HealthPlanUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	n, err := uc.patients.CountByHealthPlan(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el convenio tiene %d pacientes asociados", domain.ErrInvalidState, n)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *HealthPlanUseCase) get(ctx context.Context, id int64) (*entity.HealthPlan, error) {
	h, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("%w: convenio %d", domain.ErrNotFound, id)
	}
	return h, nil
}

func toHealthPlanResponse(h *entity.HealthPlan) *dto.HealthPlanResponse {
	return &dto.HealthPlanResponse{
		ID:          h.ID,
		Name:        h.Name,
		ANSCode:     h.ANSCode,
		Description: h.Description,
		Active:      h.Active,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
}
