package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// UserUseCase gestión del equipo del taller (miembros).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List devuelve los usuarios del taller de la sesión.
func (uc *UserUseCase) List(ctx context.Context, sess auth.Session) (*dto.ListResponse[dto.UserResponse], error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByService(ctx, sess.ServiceID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.ListResponse[dto.UserResponse]{Items: items, Total: len(items)}, nil
}

// Create da de alta un usuario en el taller. Solo el dueño puede hacerlo.
func (uc *UserUseCase) Create(ctx context.Context, sess auth.Session, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	if !sess.IsOwner() {
		return nil, domain.ErrForbidden
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleMember
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		ServiceID:    sess.ServiceID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// Delete elimina un usuario del taller. El dueño no puede eliminarse a sí mismo.
func (uc *UserUseCase) Delete(ctx context.Context, sess auth.Session, id string) error {
	if !sess.IsOwner() {
		return domain.ErrForbidden
	}
	if id == sess.UserID {
		return domain.ErrConflict
	}
	user, err := auth.Owned(ctx, sess, id, uc.repo.GetByID, func(u *entity.User) string { return u.ServiceID })
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, user.ID)
}
