package usecase

import (
	"github.com/jhoicas/pos-auth-api/internal/application/dto"
	"github.com/jhoicas/pos-auth-api/internal/domain"
	"github.com/jhoicas/pos-auth-api/internal/domain/entity"
	"github.com/jhoicas/pos-auth-api/internal/domain/repository"
)

// AttendantUseCase operaciones administrativas sobre attendants (listar,
// activar/desactivar). La desactivación es un flip de campo: las cuentas
// nunca se borran desde este flujo.
type AttendantUseCase struct {
	repo repository.AttendantRepository
}

// NewAttendantUseCase construye el caso de uso con el puerto de persistencia.
func NewAttendantUseCase(repo repository.AttendantRepository) *AttendantUseCase {
	return &AttendantUseCase{repo: repo}
}

// List devuelve perfiles públicos paginados.
func (uc *AttendantUseCase) List(page dto.PageRequest) ([]*dto.AttendantResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AttendantResponse, 0, len(list))
	for _, a := range list {
		out = append(out, entityToAttendantResponse(a))
	}
	return out, nil
}

// GetByID obtiene el perfil público de un attendant.
func (uc *AttendantUseCase) GetByID(id string) (*dto.AttendantResponse, error) {
	a, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return entityToAttendantResponse(a), nil
}

// SetActive activa o desactiva la cuenta. Una cuenta inactiva no puede
// autenticarse aunque el password sea correcto.
func (uc *AttendantUseCase) SetActive(id string, active bool) error {
	a, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SetActive(id, active)
}

func entityToAttendantResponse(a *entity.Attendant) *dto.AttendantResponse {
	if a == nil {
		return nil
	}
	return &dto.AttendantResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Phone:     a.Phone,
		Role:      a.Role,
		IsActive:  a.IsActive,
		LastLogin: a.LastLogin,
		CreatedAt: a.CreatedAt,
	}
}
