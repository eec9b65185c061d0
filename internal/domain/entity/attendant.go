package entity

import "time"

// Roles válidos para Attendant.
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleCashier = "cashier"
)

// ValidRole indica si el rol pertenece al conjunto cerrado de roles del POS.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleAdmin, RoleManager, RoleStaff, RoleCashier:
		return true
	}
	return false
}

// Attendant representa un empleado que se autentica en el punto de venta.
// FailedAttempts y LockedUntil implementan el bloqueo progresivo de cuenta.
type Attendant struct {
	ID             string
	Name           string
	Email          string // único, comparación case-insensitive
	Phone          string
	PasswordHash   string // hash opaco del servicio de hashing, nunca en claro
	Role           string // owner, admin, manager, staff, cashier
	IsActive       bool
	FailedAttempts int        // se incrementa en 1 por verificación fallida, 0 al éxito
	LockedUntil    *time.Time // si está en el futuro, login rechazado sin condiciones
	LastLogin      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Locked indica si la cuenta está bloqueada en el instante now.
func (a *Attendant) Locked(now time.Time) bool {
	return a.LockedUntil != nil && a.LockedUntil.After(now)
}
