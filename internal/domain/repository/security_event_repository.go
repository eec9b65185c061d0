package repository

import "github.com/jhoicas/pos-auth-api/internal/domain/entity"

// SecurityEventRepository define el puerto de persistencia del audit trail.
type SecurityEventRepository interface {
	Insert(ev *entity.SecurityEvent) error
	ListRecent(limit, offset int) ([]*entity.SecurityEvent, error)
}
