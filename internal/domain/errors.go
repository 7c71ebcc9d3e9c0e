package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("...: %w") y la capa HTTP los traduce con errors.Is.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInactiveEntity     = errors.New("la entidad está inactiva")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrSchedulingConflict = errors.New("el dentista ya tiene una consulta en ese horario")
	ErrInvalidTransition  = errors.New("transición de estado no permitida")
	ErrInvalidState       = errors.New("operación no permitida en el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)
