package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/pos-auth-api/internal/application/auth"
	"github.com/jhoicas/pos-auth-api/internal/domain/entity"
	"github.com/jhoicas/pos-auth-api/internal/domain/repository"
	"github.com/jhoicas/pos-auth-api/pkg/logger"
)

var _ auth.SecurityAuditor = (*Auditor)(nil)

// Auditor sink best-effort de eventos de seguridad: escribe el evento en el
// log estructurado y lo persiste en el audit trail. Cualquier fallo se traga
// tras un warn — la emisión nunca afecta la decisión de autenticación.
type Auditor struct {
	repo repository.SecurityEventRepository
	log  *logger.Logger
	now  func() time.Time
}

// New construye el auditor. repo puede ser nil (solo log).
func New(repo repository.SecurityEventRepository, log *logger.Logger) *Auditor {
	return &Auditor{repo: repo, log: log.Component("audit"), now: time.Now}
}

// LogEvent emite el evento. Fire-and-forget: no devuelve error.
func (a *Auditor) LogEvent(eventType, resourceType, resourceID string, details map[string]any, severity string) {
	ev := &entity.SecurityEvent{
		ID:           uuid.NewString(),
		EventType:    eventType,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		Severity:     severity,
		CreatedAt:    a.now(),
	}

	zev := a.log.Info()
	switch severity {
	case entity.SeverityMedium:
		zev = a.log.Warn()
	case entity.SeverityHigh, entity.SeverityCritical:
		zev = a.log.Error()
	}
	zev.Str("event_type", ev.EventType).
		Str("resource_type", ev.ResourceType).
		Str("resource_id", ev.ResourceID).
		Str("severity", ev.Severity).
		Fields(map[string]any{"details": ev.Details}).
		Msg("security event")

	if a.repo == nil {
		return
	}
	if err := a.repo.Insert(ev); err != nil {
		a.log.Warn().Err(err).Str("event_type", ev.EventType).Msg("persist security event")
	}
}
