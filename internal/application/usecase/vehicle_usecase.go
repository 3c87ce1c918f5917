package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/listing"
	"github.com/jhoicas/Taller-api/internal/application/patch"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// VehicleUseCase casos de uso de vehículos. Todo vehículo pertenece a un cliente del mismo taller.
type VehicleUseCase struct {
	repo         repository.VehicleRepository
	customerRepo repository.CustomerRepository
}

// NewVehicleUseCase construye el caso de uso.
func NewVehicleUseCase(repo repository.VehicleRepository, customerRepo repository.CustomerRepository) *VehicleUseCase {
	return &VehicleUseCase{repo: repo, customerRepo: customerRepo}
}

// Create registra un vehículo para un cliente del taller.
func (uc *VehicleUseCase) Create(ctx context.Context, sess auth.Session, in dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	if _, err := uc.customer(ctx, sess, in.CustomerID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	v := &entity.Vehicle{
		ID:           uuid.New().String(),
		ServiceID:    sess.ServiceID,
		CustomerID:   in.CustomerID,
		Make:         strings.TrimSpace(in.Make),
		Model:        strings.TrimSpace(in.Model),
		Year:         in.Year,
		VIN:          patch.Optional(strings.ToUpper(in.VIN)),
		LicensePlate: patch.Optional(strings.ToUpper(in.LicensePlate)),
		Color:        patch.Optional(in.Color),
		Mileage:      in.Mileage,
		EngineType:   patch.Optional(in.EngineType),
		Notes:        patch.Optional(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if v.Make == "" || v.Model == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

// GetByID obtiene un vehículo del taller.
func (uc *VehicleUseCase) GetByID(ctx context.Context, sess auth.Session, id string) (*dto.VehicleResponse, error) {
	v, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

// List lista los vehículos del taller. customerID opcional restringe a un cliente.
// search busca en marca, modelo, placa, VIN y año.
func (uc *VehicleUseCase) List(ctx context.Context, sess auth.Session, customerID string, q dto.ListQuery) (*dto.ListResponse[dto.VehicleResponse], error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	var (
		list []*entity.Vehicle
		err  error
	)
	if customerID != "" {
		if _, err = uc.customer(ctx, sess, customerID); err != nil {
			return nil, err
		}
		list, err = uc.repo.ListByCustomer(ctx, customerID)
	} else {
		list, err = uc.repo.ListByService(ctx, sess.ServiceID)
	}
	if err != nil {
		return nil, err
	}
	list = listing.Filter(list, func(v *entity.Vehicle) bool {
		var year *string
		if v.Year != nil {
			year = listing.Str(strconv.Itoa(*v.Year))
		}
		return v.ServiceID == sess.ServiceID &&
			listing.MatchesSearch(q.Search, &v.Make, &v.Model, v.LicensePlate, v.VIN, year)
	})
	items := make([]dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toVehicleResponse(v))
	}
	return &dto.ListResponse[dto.VehicleResponse]{Items: items, Total: len(items)}, nil
}

// Update aplica una actualización parcial. Cambiar de dueño exige un cliente del mismo taller.
func (uc *VehicleUseCase) Update(ctx context.Context, sess auth.Session, id string, in dto.UpdateVehicleRequest) (*dto.VehicleResponse, error) {
	v, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if in.CustomerID != nil && *in.CustomerID != v.CustomerID {
		if _, err := uc.customer(ctx, sess, *in.CustomerID); err != nil {
			return nil, err
		}
		v.CustomerID = *in.CustomerID
	}
	patch.String(&v.Make, in.Make)
	patch.String(&v.Model, in.Model)
	patch.Pointer(&v.Year, in.Year)
	if in.VIN != nil {
		v.VIN = patch.Optional(strings.ToUpper(*in.VIN))
	}
	if in.LicensePlate != nil {
		v.LicensePlate = patch.Optional(strings.ToUpper(*in.LicensePlate))
	}
	patch.OptionalString(&v.Color, in.Color)
	patch.Pointer(&v.Mileage, in.Mileage)
	patch.OptionalString(&v.EngineType, in.EngineType)
	patch.OptionalString(&v.Notes, in.Notes)
	if v.Make == "" || v.Model == "" {
		return nil, domain.ErrInvalidInput
	}
	v.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

// Delete elimina un vehículo del taller.
func (uc *VehicleUseCase) Delete(ctx context.Context, sess auth.Session, id string) error {
	v, err := uc.load(ctx, sess, id)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, v.ID)
}

func (uc *VehicleUseCase) load(ctx context.Context, sess auth.Session, id string) (*entity.Vehicle, error) {
	return auth.Owned(ctx, sess, id, uc.repo.GetByID, func(v *entity.Vehicle) string { return v.ServiceID })
}

func (uc *VehicleUseCase) customer(ctx context.Context, sess auth.Session, id string) (*entity.Customer, error) {
	return auth.Owned(ctx, sess, id, uc.customerRepo.GetByID, func(c *entity.Customer) string { return c.ServiceID })
}

func toVehicleResponse(v *entity.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:           v.ID,
		ServiceID:    v.ServiceID,
		CustomerID:   v.CustomerID,
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		VIN:          v.VIN,
		LicensePlate: v.LicensePlate,
		Color:        v.Color,
		Mileage:      v.Mileage,
		EngineType:   v.EngineType,
		Notes:        v.Notes,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
