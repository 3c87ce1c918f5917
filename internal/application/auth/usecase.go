package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/patch"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro del dueño con su taller y login.
type AuthUseCase struct {
	tx          TxRunner
	userRepo    repository.UserRepository
	serviceRepo repository.ServiceRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(tx TxRunner, userRepo repository.UserRepository, serviceRepo repository.ServiceRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{tx: tx, userRepo: userRepo, serviceRepo: serviceRepo, jwtCfg: jwtCfg}
}

// Register crea el usuario dueño y su taller en una sola transacción y devuelve un token listo para usar.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.GetByEmail(ctx, email)
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

	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         entity.RoleOwner,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	service := &entity.Service{
		ID:             uuid.New().String(),
		OwnerID:        user.ID,
		Name:           strings.TrimSpace(in.ServiceName),
		Phone:          patch.Optional(in.Phone),
		Address:        patch.Optional(in.Address),
		Email:          &email,
		DefaultTaxRate: decimal.Zero,
		Currency:       "USD",
		InvoiceTerms:   30,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = uc.tx.RunRegistration(ctx, func(users repository.UserRepository, services repository.ServiceRepository) error {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		if err := services.Create(ctx, service); err != nil {
			return err
		}
		user.ServiceID = service.ID
		return users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return uc.issue(user, service)
}

// Login verifica email/password, genera JWT y retorna token + usuario + taller.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	var service *entity.Service
	if user.ServiceID != "" {
		if service, err = uc.serviceRepo.GetByID(ctx, user.ServiceID); err != nil {
			return nil, err
		}
	}
	return uc.issue(user, service)
}

// Me devuelve el usuario de la sesión.
func (uc *AuthUseCase) Me(ctx context.Context, sess Session) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return ToUserResponse(user), nil
}

func (uc *AuthUseCase) issue(user *entity.User, service *entity.Service) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.ServiceID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:   token,
		User:    *ToUserResponse(user),
		Service: ToServiceResponse(service),
	}, nil
}

// ToUserResponse mapea la entidad a DTO (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		ServiceID: u.ServiceID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToServiceResponse mapea el taller a DTO.
func ToServiceResponse(s *entity.Service) *dto.ServiceResponse {
	if s == nil {
		return nil
	}
	return &dto.ServiceResponse{
		ID:             s.ID,
		OwnerID:        s.OwnerID,
		Name:           s.Name,
		Description:    s.Description,
		Address:        s.Address,
		City:           s.City,
		Phone:          s.Phone,
		Email:          s.Email,
		Website:        s.Website,
		TaxID:          s.TaxID,
		DefaultTaxRate: s.DefaultTaxRate,
		Currency:       s.Currency,
		InvoiceTerms:   s.InvoiceTerms,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
