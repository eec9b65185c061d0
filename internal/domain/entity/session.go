package entity

import "time"

// Session es la prueba de autenticación que guarda el cliente: token bearer
// opaco con expiración fija. No existe revocación del lado del servidor más
// allá de purgar el registro del secure store.
type Session struct {
	Token       string    `json:"token"`
	AttendantID string    `json:"attendant_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	LoginTime   time.Time `json:"login_time"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired indica si la sesión ya venció en el instante now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
