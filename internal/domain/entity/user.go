package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin         = "ADMIN"
	RoleDentista      = "DENTISTA"
	RoleRecepcionista = "RECEPCIONISTA"
	RoleAsistente     = "ASSISTENTE"
)

// ValidRole indica si el rol existe.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDentista, RoleRecepcionista, RoleAsistente:
		return true
	}
	return false
}

// User representa un usuario del sistema.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
