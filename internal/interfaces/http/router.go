package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pos-auth-api/internal/application/auth"
	"github.com/jhoicas/pos-auth-api/internal/application/usecase"
	"github.com/jhoicas/pos-auth-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	AttendantUC *usecase.AttendantUseCase
	AuditUC     *usecase.AuditUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login/session/logout públicos (el token va en el header).
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/session", authHandler.Session)
	authGroup.Post("/logout", authHandler.Logout)

	// Registro: solo roles con privilegio de gestión. El rol por defecto del
	// nuevo attendant es staff; la elevación la decide quien registra.
	authGroup.Post("/register",
		SessionMiddleware(deps.AuthUC),
		RequireRole(entity.RoleOwner, entity.RoleAdmin, entity.RoleManager),
		authHandler.Register,
	)

	// Rutas protegidas (requieren sesión vigente)
	protected := api.Group("/", SessionMiddleware(deps.AuthUC))

	// Attendants (administración)
	attendants := protected.Group("/attendants", RequireRole(entity.RoleOwner, entity.RoleAdmin))
	attendantHandler := NewAttendantHandler(deps.AttendantUC)
	attendants.Get("/", attendantHandler.List)
	attendants.Get("/:id", attendantHandler.GetByID)
	attendants.Patch("/:id/active", attendantHandler.SetActive)

	// Audit trail (solo owner/admin)
	events := protected.Group("/security-events", RequireRole(entity.RoleOwner, entity.RoleAdmin))
	eventHandler := NewSecurityEventHandler(deps.AuditUC)
	events.Get("/", eventHandler.List)
}
