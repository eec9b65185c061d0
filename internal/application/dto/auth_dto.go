package dto

import "time"

// LoginRequest entrada para login de attendant (email + password en texto,
// el password solo viaja hasta la frontera del servicio de hashing).
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult resultado de un intento de login. Nunca se lanza un error más
// allá de la API pública: todo camino devuelve {success, error?}.
type LoginResult struct {
	Success     bool               `json:"success"`
	Error       string             `json:"error,omitempty"`
	LockedUntil *time.Time         `json:"locked_until,omitempty"` // para que la UI deshabilite el submit
	Token       string             `json:"token,omitempty"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty"`
	Attendant   *AttendantResponse `json:"attendant,omitempty"`
}

// CreateAttendantRequest entrada para registrar un attendant (password en
// texto, se hashea en el use case; role vacío = staff).
type CreateAttendantRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=7,max=20"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=owner admin manager staff cashier"`
}

// AttendantResponse perfil público de un attendant (sin hash ni contadores).
type AttendantResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// SessionResponse snapshot de la sesión vigente.
type SessionResponse struct {
	AttendantID string    `json:"attendant_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	LoginTime   time.Time `json:"login_time"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SetActiveRequest activa o desactiva un attendant (flujo admin).
type SetActiveRequest struct {
	Active bool `json:"active"`
}

// SecurityEventResponse fila del audit trail.
type SecurityEventResponse struct {
	ID           string         `json:"id"`
	EventType    string         `json:"event_type"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	Details      map[string]any `json:"details,omitempty"`
	Severity     string         `json:"severity"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ValidationErrorResponse errores de validación itemizados (ej. política de password).
type ValidationErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}
