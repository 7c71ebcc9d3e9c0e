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

// DentistUseCase reglas de negocio de dentistas. CRO y email son únicos (lo garantiza el repositorio).
type DentistUseCase struct {
	repo repository.DentistRepository
}

// NewDentistUseCase construye el caso de uso.
func NewDentistUseCase(repo repository.DentistRepository) *DentistUseCase {
	return &DentistUseCase{repo: repo}
}

// Create registra un dentista activo.
func (uc *DentistUseCase) Create(ctx context.Context, in dto.CreateDentistRequest) (*dto.DentistResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.CRO = strings.TrimSpace(in.CRO)
	if in.Name == "" || in.Email == "" || in.CRO == "" {
		return nil, fmt.Errorf("%w: name, email y cro son obligatorios", domain.ErrInvalidInput)
	}
	now := time.Now()
	d := &entity.Dentist{
		Name:      in.Name,
		Email:     in.Email,
		CRO:       in.CRO,
		Specialty: in.Specialty,
		Phone:     in.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return toDentistResponse(d), nil
}

// GetByID obtiene un dentista por ID.
func (uc *DentistUseCase) GetByID(ctx context.Context, id int64) (*dto.DentistResponse, error) {
	d, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDentistResponse(d), nil
}

// Update actualización parcial.
func (uc *DentistUseCase) Update(ctx context.Context, id int64, in dto.UpdateDentistRequest) (*dto.DentistResponse, error) {
	d, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := setText(&d.Name, in.Name, "name"); err != nil {
		return nil, err
	}
	if err := setText(&d.Email, in.Email, "email"); err != nil {
		return nil, err
	}
	d.Email = strings.ToLower(d.Email)
	if err := setText(&d.CRO, in.CRO, "cro"); err != nil {
		return nil, err
	}
	setOptionalText(&d.Specialty, in.Specialty)
	setOptionalText(&d.Phone, in.Phone)
	d.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return toDentistResponse(d), nil
}

// SetActive activa o desactiva un dentista. Uno inactivo no recibe nuevas consultas.
func (uc *DentistUseCase) SetActive(ctx context.Context, id int64, active bool) (*dto.DentistResponse, error) {
	d, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Active = active
	d.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return toDentistResponse(d), nil
}

func (uc *DentistUseCase) get(ctx context.Context, id int64) (*entity.Dentist, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: dentista %d", domain.ErrNotFound, id)
	}
	return d, nil
}

func toDentistResponse(d *entity.Dentist) *dto.DentistResponse {
	return &dto.DentistResponse{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		CRO:       d.CRO,
		Specialty: d.Specialty,
		Phone:     d.Phone,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
