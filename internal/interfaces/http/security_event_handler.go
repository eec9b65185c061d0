package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-auth-api/internal/application/dto"
	"github.com/jhoicas/pos-auth-api/internal/application/usecase"
)

// SecurityEventHandler lectura del audit trail.
type SecurityEventHandler struct {
	uc *usecase.AuditUseCase
}

// NewSecurityEventHandler construye el handler del audit trail.
func NewSecurityEventHandler(uc *usecase.AuditUseCase) *SecurityEventHandler {
	return &SecurityEventHandler{uc: uc}
}

// List godoc
// @Summary      Eventos de seguridad recientes
// @Tags         security
// @Produce      json
// @Param        limit   query  int  false  "máximo por página"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.SecurityEventResponse
// @Router       /api/security-events [get]
func (h *SecurityEventHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	events, err := h.uc.ListRecent(page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo listar"})
	}
	return c.JSON(events)
}
