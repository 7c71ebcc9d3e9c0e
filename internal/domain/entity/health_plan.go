package entity

import "time"

// HealthPlan convenio / plan de salud.
type HealthPlan struct {
	ID          int64
	Name        string
	ANSCode     string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
