package dto

import "time"

// AddressDTO dirección del paciente.
type AddressDTO struct {
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	ZipCode      string `json:"zip_code,omitempty"`
}

// CreatePatientRequest body para POST /api/patients.
type CreatePatientRequest struct {
	Name         string     `json:"name"`
	CPF          string     `json:"cpf"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Sex          string     `json:"sex,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Mobile       string     `json:"mobile,omitempty"`
	Address      AddressDTO `json:"address"`
	Notes        string     `json:"notes,omitempty"`
	HealthPlanID *int64     `json:"health_plan_id,omitempty"`
}

// UpdatePatientRequest body para PUT /api/patients/:id (parcial).
type UpdatePatientRequest struct {
	Name         Optional[string]     `json:"name"`
	CPF          Optional[string]     `json:"cpf"`
	BirthDate    Optional[time.Time]  `json:"birth_date"`
	Sex          Optional[string]     `json:"sex"`
	Email        Optional[string]     `json:"email"`
	Phone        Optional[string]     `json:"phone"`
	Mobile       Optional[string]     `json:"mobile"`
	Address      Optional[AddressDTO] `json:"address"`
	Notes        Optional[string]     `json:"notes"`
	HealthPlanID Optional[int64]      `json:"health_plan_id"`
}

// PatientResponse salida de un paciente.
type PatientResponse struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	CPF          string     `json:"cpf"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Sex          string     `json:"sex,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Mobile       string     `json:"mobile,omitempty"`
	Address      AddressDTO `json:"address"`
	Notes        string     `json:"notes,omitempty"`
	HealthPlanID *int64     `json:"health_plan_id,omitempty"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateDentistRequest body para POST /api/dentists.
type CreateDentistRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	CRO       string `json:"cro"`
	Specialty string `json:"specialty,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// UpdateDentistRequest body para PUT /api/dentists/:id (parcial).
type UpdateDentistRequest struct {
	Name      Optional[string] `json:"name"`
	Email     Optional[string] `json:"email"`
	CRO       Optional[string] `json:"cro"`
	Specialty Optional[string] `json:"specialty"`
	Phone     Optional[string] `json:"phone"`
}

// DentistResponse salida de un dentista.
type DentistResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CRO       string    `json:"cro"`
	Specialty string    `json:"specialty,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HealthPlanRequest body para crear/actualizar un convenio.
type HealthPlanRequest struct {
	Name        string `json:"name"`
	ANSCode     string `json:"ans_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// HealthPlanResponse salida de un convenio.
type HealthPlanResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ANSCode     string    `json:"ans_code,omitempty"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
