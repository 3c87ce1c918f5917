package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/patch"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// ServiceUseCase perfil del taller de la sesión.
type ServiceUseCase struct {
	repo repository.ServiceRepository
}

// NewServiceUseCase construye el caso de uso con el puerto de persistencia.
func NewServiceUseCase(repo repository.ServiceRepository) *ServiceUseCase {
	return &ServiceUseCase{repo: repo}
}

// Get devuelve el taller de la sesión.
func (uc *ServiceUseCase) Get(ctx context.Context, sess auth.Session) (*dto.ServiceResponse, error) {
	s, err := auth.Owned(ctx, sess, sess.ServiceID, uc.repo.GetByID, serviceOf)
	if err != nil {
		return nil, err
	}
	return auth.ToServiceResponse(s), nil
}

// Update modifica el perfil. Solo el dueño puede hacerlo.
func (uc *ServiceUseCase) Update(ctx context.Context, sess auth.Session, in dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	if !sess.IsOwner() {
		return nil, domain.ErrForbidden
	}
	s, err := auth.Owned(ctx, sess, sess.ServiceID, uc.repo.GetByID, serviceOf)
	if err != nil {
		return nil, err
	}
	patch.String(&s.Name, in.Name)
	patch.OptionalString(&s.Description, in.Description)
	patch.OptionalString(&s.Address, in.Address)
	patch.OptionalString(&s.City, in.City)
	patch.OptionalString(&s.Phone, in.Phone)
	patch.OptionalString(&s.Email, in.Email)
	patch.OptionalString(&s.Website, in.Website)
	patch.OptionalString(&s.TaxID, in.TaxID)
	patch.Set(&s.DefaultTaxRate, in.DefaultTaxRate)
	patch.Set(&s.InvoiceTerms, in.InvoiceTerms)
	if in.Currency != nil {
		s.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if s.Name == "" || s.DefaultTaxRate.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	s.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return auth.ToServiceResponse(s), nil
}

func serviceOf(s *entity.Service) string { return s.ID }
