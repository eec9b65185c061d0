package repository

import (
	"time"

	"github.com/jhoicas/pos-auth-api/internal/domain/entity"
)

// AttendantRepository define el puerto de persistencia para Attendant (DIP).
// El scoping multi-tienda (RLS) lo aplica el colaborador de datos, no este núcleo.
type AttendantRepository interface {
	Create(a *entity.Attendant) error
	GetByID(id string) (*entity.Attendant, error)
	// GetActiveByEmail busca por email (case-insensitive) con is_active = true.
	// Devuelve (nil, nil) si no existe.
	GetActiveByEmail(email string) (*entity.Attendant, error)
	// EmailExists verifica unicidad case-insensitive sin revelar estado de la cuenta.
	EmailExists(email string) (bool, error)
	// RecordFailure escribe contador de fallos y bloqueo en un único UPDATE.
	RecordFailure(id string, failedAttempts int, lockedUntil *time.Time) error
	// RecordSuccess resetea el contador a 0, limpia locked_until y estampa last_login.
	RecordSuccess(id string, lastLogin time.Time) error
	SetActive(id string, active bool) error
	List(limit, offset int) ([]*entity.Attendant, error)
}
