package entity

import "time"

// Tipos de evento de seguridad emitidos por el núcleo de autenticación.
const (
	EventFailedLogin         = "failed_login_attempt"
	EventRateLimitExceeded   = "rate_limit_exceeded"
	EventLockedAccountAccess = "locked_account_access_attempt"
	EventSuccessfulLogin     = "successful_login"
	EventLogout              = "logout"
	EventAttendantCreated    = "attendant_created"
	EventAuthSystemError     = "auth_system_error"
)

// Severidades de evento.
const (
	SeverityInfo     = "info"
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SecurityEvent es un registro de auditoría. La emisión es best-effort:
// fallar al persistirlo nunca afecta la decisión de autenticación.
type SecurityEvent struct {
	ID           string
	EventType    string
	ResourceType string
	ResourceID   string
	Details      map[string]any
	Severity     string
	CreatedAt    time.Time
}
