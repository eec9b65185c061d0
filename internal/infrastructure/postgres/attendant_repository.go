package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/pos-auth-api/internal/domain"
	"github.com/jhoicas/pos-auth-api/internal/domain/entity"
	"github.com/jhoicas/pos-auth-api/internal/domain/repository"
)

var _ repository.AttendantRepository = (*AttendantRepo)(nil)

const attendantColumns = `id, name, email, phone, password_hash, role, is_active,
		failed_attempts, locked_until, last_login, created_at, updated_at`

// AttendantRepo implementación del puerto AttendantRepository sobre PostgreSQL.
// El scoping por tienda lo aplica la DB (row-level security), no este adaptador.
type AttendantRepo struct {
	pool *pgxpool.Pool
}

// NewAttendantRepository construye el adaptador de persistencia para attendants.
func NewAttendantRepository(pool *pgxpool.Pool) *AttendantRepo {
	return &AttendantRepo{pool: pool}
}

// Create persiste un attendant nuevo. El contador de fallos arranca en 0.
func (r *AttendantRepo) Create(a *entity.Attendant) error {
	query := `
		INSERT INTO attendants (id, name, email, phone, password_hash, role, is_active,
			failed_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)`
	_, err := r.pool.Exec(context.Background(), query,
		a.ID, a.Name, a.Email, a.Phone, a.PasswordHash, a.Role, a.IsActive,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert attendant: %w", err)
	}
	return nil
}

// GetByID obtiene un attendant por ID. (nil, nil) si no existe.
func (r *AttendantRepo) GetByID(id string) (*entity.Attendant, error) {
	query := `SELECT ` + attendantColumns + ` FROM attendants WHERE id = $1`
	return r.queryOne(query, id)
}

// GetActiveByEmail obtiene el attendant activo por email, case-insensitive.
// (nil, nil) si no existe — el use case lo convierte en "Invalid credentials".
func (r *AttendantRepo) GetActiveByEmail(email string) (*entity.Attendant, error) {
	query := `SELECT ` + attendantColumns + `
		FROM attendants WHERE LOWER(email) = LOWER($1) AND is_active = TRUE LIMIT 1`
	return r.queryOne(query, email)
}

// EmailExists verifica unicidad case-insensitive, activa o no.
func (r *AttendantRepo) EmailExists(email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM attendants WHERE LOWER(email) = LOWER($1))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check attendant email: %w", err)
	}
	return exists, nil
}

// RecordFailure escribe el contador y el bloqueo en un único UPDATE, de forma
// que el umbral y el locked_until se aplican atómicamente por fila.
func (r *AttendantRepo) RecordFailure(id string, failedAttempts int, lockedUntil *time.Time) error {
	query := `
		UPDATE attendants SET failed_attempts = $2, locked_until = $3, updated_at = NOW()
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query, id, failedAttempts, lockedUntil)
	if err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	return nil
}

// RecordSuccess resetea el contador a 0, limpia el bloqueo y estampa last_login.
func (r *AttendantRepo) RecordSuccess(id string, lastLogin time.Time) error {
	query := `
		UPDATE attendants
		SET failed_attempts = 0, locked_until = NULL, last_login = $2, updated_at = NOW()
		WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query, id, lastLogin)
	if err != nil {
		return fmt.Errorf("record login success: %w", err)
	}
	return nil
}

// SetActive activa o desactiva la cuenta (flip de campo, nunca DELETE).
func (r *AttendantRepo) SetActive(id string, active bool) error {
	query := `UPDATE attendants SET is_active = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(context.Background(), query, id, active)
	if err != nil {
		return fmt.Errorf("set attendant active: %w", err)
	}
	return nil
}

// List lista attendants con paginación, más recientes primero.
func (r *AttendantRepo) List(limit, offset int) ([]*entity.Attendant, error) {
	query := `SELECT ` + attendantColumns + `
		FROM attendants ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list attendants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Attendant
	for rows.Next() {
		a, err := scanAttendant(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AttendantRepo) queryOne(query string, args ...any) (*entity.Attendant, error) {
	row := r.pool.QueryRow(context.Background(), query, args...)
	a, err := scanAttendant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendant(row rowScanner) (*entity.Attendant, error) {
	var a entity.Attendant
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &a.Role, &a.IsActive,
		&a.FailedAttempts, &a.LockedUntil, &a.LastLogin, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan attendant: %w", err)
	}
	return &a, nil
}
