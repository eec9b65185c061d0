package usecase

import (
	"github.com/jhoicas/pos-auth-api/internal/application/dto"
	"github.com/jhoicas/pos-auth-api/internal/domain/repository"
)

// AuditUseCase lectura del audit trail de seguridad.
type AuditUseCase struct {
	repo repository.SecurityEventRepository
}

// NewAuditUseCase construye el caso de uso de auditoría.
func NewAuditUseCase(repo repository.SecurityEventRepository) *AuditUseCase {
	return &AuditUseCase{repo: repo}
}

// ListRecent devuelve los eventos más recientes, paginados.
func (uc *AuditUseCase) ListRecent(page dto.PageRequest) ([]*dto.SecurityEventResponse, error) {
	page.DefaultPage()
	events, err := uc.repo.ListRecent(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SecurityEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, &dto.SecurityEventResponse{
			ID:           ev.ID,
			EventType:    ev.EventType,
			ResourceType: ev.ResourceType,
			ResourceID:   ev.ResourceID,
			Details:      ev.Details,
			Severity:     ev.Severity,
			CreatedAt:    ev.CreatedAt,
		})
	}
	return out, nil
}
