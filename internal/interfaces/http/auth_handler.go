package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-auth-api/internal/application/auth"
	"github.com/jhoicas/pos-auth-api/internal/application/dto"
	"github.com/jhoicas/pos-auth-api/internal/domain"
)

// AuthHandler maneja login, registro y ciclo de vida de sesión.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Login de attendant
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResult
// @Failure      401   {object}  dto.LoginResult
// @Failure      423   {object}  dto.LoginResult
// @Failure      429   {object}  dto.LoginResult
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result := h.uc.Login(in)
	return c.Status(loginStatus(result)).JSON(result)
}

// loginStatus mapea el resultado del use case al status HTTP. El cuerpo es el
// mismo LoginResult en todos los casos: la UI decide por success/error.
func loginStatus(r *dto.LoginResult) int {
	switch {
	case r.Success:
		return fiber.StatusOK
	case r.Error == domain.ErrRateLimited.Error():
		return fiber.StatusTooManyRequests
	case r.LockedUntil != nil:
		return fiber.StatusLocked
	case r.Error == domain.ErrAuthSystem.Error():
		return fiber.StatusInternalServerError
	case r.Error == domain.ErrInvalidCredentials.Error():
		return fiber.StatusUnauthorized
	default:
		// errores de validación de campos
		return fiber.StatusBadRequest
	}
}

// Register godoc
// @Summary      Registrar attendant
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAttendantRequest  true  "name, email, phone, password, role"
// @Success      201   {object}  dto.AttendantResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.CreateAttendantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	att, err := h.uc.CreateAttendant(in)
	if err != nil {
		var verr *auth.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
				Code:    "VALIDATION",
				Message: "entrada inválida",
				Errors:  verr.Errors,
			})
		}
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: domain.ErrEmailAlreadyExists.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: domain.ErrAuthSystem.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(att)
}

// Session godoc
// @Summary      Sesión vigente
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	sess, err := h.uc.CheckSession(bearerToken(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "NO_SESSION", Message: "sesión inexistente o expirada"})
	}
	return c.JSON(sess)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(bearerToken(c)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo purgar la sesión"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
