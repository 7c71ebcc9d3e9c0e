package entity

import "time"

// Dentist profesional con registro CRO.
type Dentist struct {
	ID        int64
	Name      string
	Email     string
	CRO       string
	Specialty string
	Phone     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
