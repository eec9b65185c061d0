package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-auth-api/internal/application/dto"
)

// Locals keys para la sesión del attendant en Fiber.
const (
	LocalAttendantID = "attendant_id"
	LocalRole        = "role"
	LocalToken       = "session_token"
)

// sessionChecker es el contrato mínimo que necesita el middleware; lo
// implementa *auth.AuthUseCase. El uso de interfaz permite fakes en tests.
type sessionChecker interface {
	CheckSession(token string) (*dto.SessionResponse, error)
}

// SessionMiddleware valida el Bearer token contra el secure store de sesiones
// y carga attendant_id y role en c.Locals. Una sesión expirada responde igual
// que la ausencia de sesión.
func SessionMiddleware(checker sessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido: Bearer <token>"})
		}
		sess, err := checker.CheckSession(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NO_SESSION", Message: "sesión inexistente o expirada"})
		}
		c.Locals(LocalAttendantID, sess.AttendantID)
		c.Locals(LocalRole, sess.Role)
		c.Locals(LocalToken, token)
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados. Debe usarse DESPUÉS de
// SessionMiddleware (necesita LocalRole).
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "sesión sin rol"})
		}
		for _, r := range allowed {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
	}
}

// bearerToken extrae el token del header Authorization ("Bearer <token>").
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetAttendantID devuelve el ID del attendant autenticado (tras el middleware).
func GetAttendantID(c *fiber.Ctx) string {
	v := c.Locals(LocalAttendantID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetRole devuelve el rol de la sesión (tras el middleware).
func GetRole(c *fiber.Ctx) string {
	v := c.Locals(LocalRole)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
