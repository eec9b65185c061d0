package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/pos-auth-api/internal/domain/entity"
	"github.com/jhoicas/pos-auth-api/internal/domain/repository"
)

var _ repository.SecurityEventRepository = (*SecurityEventRepo)(nil)

// SecurityEventRepo persistencia del audit trail en PostgreSQL.
// Details va como JSONB.
type SecurityEventRepo struct {
	pool *pgxpool.Pool
}

// NewSecurityEventRepository construye el adaptador del audit trail.
func NewSecurityEventRepository(pool *pgxpool.Pool) *SecurityEventRepo {
	return &SecurityEventRepo{pool: pool}
}

// Insert persiste un evento de seguridad.
func (r *SecurityEventRepo) Insert(ev *entity.SecurityEvent) error {
	query := `
		INSERT INTO security_events (id, event_type, resource_type, resource_id, details, severity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(context.Background(), query,
		ev.ID, ev.EventType, ev.ResourceType, ev.ResourceID, ev.Details, ev.Severity, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}
	return nil
}

// ListRecent lista eventos con paginación, más recientes primero.
func (r *SecurityEventRepo) ListRecent(limit, offset int) ([]*entity.SecurityEvent, error) {
	query := `
		SELECT id, event_type, resource_type, resource_id, details, severity, created_at
		FROM security_events ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list security events: %w", err)
	}
	defer rows.Close()
	var list []*entity.SecurityEvent
	for rows.Next() {
		var ev entity.SecurityEvent
		if err := rows.Scan(&ev.ID, &ev.EventType, &ev.ResourceType, &ev.ResourceID,
			&ev.Details, &ev.Severity, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan security event: %w", err)
		}
		list = append(list, &ev)
	}
	return list, rows.Err()
}
