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

// PatientUseCase reglas de negocio de pacientes.
type PatientUseCase struct {
	repo        repository.PatientRepository
	healthPlans repository.HealthPlanRepository
}

// NewPatientUseCase construye el caso de uso.
func NewPatientUseCase(repo repository.PatientRepository, healthPlans repository.HealthPlanRepository) *PatientUseCase {
	return &PatientUseCase{repo: repo, healthPlans: healthPlans}
}

// Create registra un paciente. El CPF es único; el convenio, si viene, debe existir y estar activo.
func (uc *PatientUseCase) Create(ctx context.Context, in dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.CPF = strings.TrimSpace(in.CPF)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	if err := validateCPF(in.CPF); err != nil {
		return nil, err
	}
	if err := uc.checkHealthPlan(ctx, in.HealthPlanID); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Patient{
		Name:         in.Name,
		CPF:          in.CPF,
		BirthDate:    in.BirthDate,
		Sex:          in.Sex,
		Email:        in.Email,
		Phone:        in.Phone,
		Mobile:       in.Mobile,
		Address:      fromAddressDTO(in.Address),
		Notes:        in.Notes,
		HealthPlanID: in.HealthPlanID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPatientResponse(p), nil
}

// GetByID obtiene un paciente por ID.
func (uc *PatientUseCase) GetByID(ctx context.Context, id int64) (*dto.PatientResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPatientResponse(p), nil
}

// Update actualización parcial: campos ausentes no cambian, null limpia los opcionales.
func (uc *PatientUseCase) Update(ctx context.Context, id int64, in dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := setText(&p.Name, in.Name, "name"); err != nil {
		return nil, err
	}
	if in.CPF.Set {
		if in.CPF.Null {
			return nil, fmt.Errorf("%w: cpf no puede quedar vacío", domain.ErrInvalidInput)
		}
		cpf := strings.TrimSpace(in.CPF.Value)
		if err := validateCPF(cpf); err != nil {
			return nil, err
		}
		p.CPF = cpf
	}
	if in.BirthDate.Set {
		p.BirthDate = in.BirthDate.Ptr()
	}
	setOptionalText(&p.Sex, in.Sex)
	setOptionalText(&p.Email, in.Email)
	setOptionalText(&p.Phone, in.Phone)
	setOptionalText(&p.Mobile, in.Mobile)
	setOptionalText(&p.Notes, in.Notes)
	if in.Address.Set {
		p.Address = fromAddressDTO(in.Address.Value)
	}
	if in.HealthPlanID.Set {
		hp := in.HealthPlanID.Ptr()
		if err := uc.checkHealthPlan(ctx, hp); err != nil {
			return nil, err
		}
		p.HealthPlanID = hp
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toPatientResponse(p), nil
}

// SetActive activa o desactiva un paciente. Un paciente inactivo no puede agendar consultas.
func (uc *PatientUseCase) SetActive(ctx context.Context, id int64, active bool) (*dto.PatientResponse, error) {
	p, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Active = active
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toPatientResponse(p), nil
}

func (uc *PatientUseCase) get(ctx context.Context, id int64) (*entity.Patient, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: paciente %d", domain.ErrNotFound, id)
	}
	return p, nil
}

func (uc *PatientUseCase) checkHealthPlan(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	hp, err := uc.healthPlans.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if hp == nil {
		return fmt.Errorf("%w: convenio %d", domain.ErrNotFound, *id)
	}
	if !hp.Active {
		return fmt.Errorf("%w: convenio %s", domain.ErrInactiveEntity, hp.Name)
	}
	return nil
}

func validateCPF(cpf string) error {
	if len(cpf) != 11 || !onlyDigits(cpf) {
		return fmt.Errorf("%w: cpf debe tener 11 dígitos", domain.ErrInvalidInput)
	}
	return nil
}

func fromAddressDTO(a dto.AddressDTO) entity.Address {
	return entity.Address{
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		ZipCode:      a.ZipCode,
	}
}

func toPatientResponse(p *entity.Patient) *dto.PatientResponse {
	return &dto.PatientResponse{
		ID:        p.ID,
		Name:      p.Name,
		CPF:       p.CPF,
		BirthDate: p.BirthDate,
		Sex:       p.Sex,
		Email:     p.Email,
		Phone:     p.Phone,
		Mobile:    p.Mobile,
		Address: dto.AddressDTO{
			Street:       p.Address.Street,
			Number:       p.Address.Number,
			Complement:   p.Address.Complement,
			Neighborhood: p.Address.Neighborhood,
			City:         p.Address.City,
			State:        p.Address.State,
			ZipCode:      p.Address.ZipCode,
		},
		Notes:        p.Notes,
		HealthPlanID: p.HealthPlanID,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
