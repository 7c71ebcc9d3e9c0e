package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/domain"
)

// userChecker lee el usuario del token. Lo implementa *auth.AuthUseCase.
type userChecker interface {
	Me(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

// RequireActiveUser verifica que el usuario del token siga existiendo y activo.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalUserID).
//
// Comportamiento:
//   - 401 Unauthorized → usuario inexistente.
//   - 403 Forbidden → usuario desactivado después de emitir el token.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireActiveUser(checker userChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "user_id no encontrado en el token",
			})
		}

		user, err := checker.Me(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Code:    "UNAUTHORIZED",
					Message: "el usuario del token no existe",
				})
			}
			c.Locals(localError, err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "USER_CHECK_FAILED",
				Message: "no se pudo verificar el usuario, intente más tarde",
			})
		}

		if !user.Active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "cuenta inactiva",
			})
		}

		return c.Next()
	}
}
