package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-auth-api/internal/application/dto"
	"github.com/jhoicas/pos-auth-api/internal/application/usecase"
	"github.com/jhoicas/pos-auth-api/internal/domain"
)

// AttendantHandler operaciones administrativas sobre attendants.
type AttendantHandler struct {
	uc *usecase.AttendantUseCase
}

// NewAttendantHandler construye el handler de attendants.
func NewAttendantHandler(uc *usecase.AttendantUseCase) *AttendantHandler {
	return &AttendantHandler{uc: uc}
}

// List godoc
// @Summary      Listar attendants
// @Tags         attendants
// @Produce      json
// @Param        limit   query  int  false  "máximo por página"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.AttendantResponse
// @Router       /api/attendants [get]
func (h *AttendantHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	list, err := h.uc.List(page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo listar"})
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Perfil de un attendant
// @Tags         attendants
// @Produce      json
// @Param        id  path  string  true  "attendant id"
// @Success      200  {object}  dto.AttendantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/attendants/{id} [get]
func (h *AttendantHandler) GetByID(c *fiber.Ctx) error {
	att, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "attendant no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo consultar"})
	}
	return c.JSON(att)
}

// SetActive godoc
// @Summary      Activar o desactivar un attendant
// @Tags         attendants
// @Accept       json
// @Param        id    path  string                true  "attendant id"
// @Param        body  body  dto.SetActiveRequest  true  "active"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/attendants/{id}/active [patch]
func (h *AttendantHandler) SetActive(c *fiber.Ctx) error {
	var in dto.SetActiveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.SetActive(c.Params("id"), in.Active); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "attendant no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo actualizar"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
