package entity

import "time"

// Address dirección embebida del paciente.
type Address struct {
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
	ZipCode      string
}

// Patient paciente de la clínica.
type Patient struct {
	ID           int64
	Name         string
	CPF          string
	BirthDate    *time.Time
	Sex          string
	Email        string
	Phone        string
	Mobile       string
	Address      Address
	Notes        string
	HealthPlanID *int64
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
