package auth

import "github.com/jhoicas/pos-auth-api/internal/domain/entity"

// PasswordHasher es el servicio opaco de hashing/verificación. El núcleo
// nunca implementa ni inspecciona el hash: pasa el texto plano solo en la
// frontera de la llamada y consume un booleano.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// SessionStore es el secure store cifrado de sesiones, clave-valor con
// prefijo fijo. Get devuelve (nil, nil) si la clave no existe.
type SessionStore interface {
	Set(key string, s *entity.Session) error
	Get(key string) (*entity.Session, error)
	Remove(key string) error
}

// SecurityAuditor recibe eventos de seguridad estructurados. Es fire-and-forget:
// las implementaciones tragan sus propios errores y nunca bloquean el flujo
// de autenticación.
type SecurityAuditor interface {
	LogEvent(eventType, resourceType, resourceID string, details map[string]any, severity string)
}
