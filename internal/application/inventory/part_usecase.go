package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/listing"
	"github.com/jhoicas/Taller-api/internal/application/patch"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/internal/domain/stock"
)

// PartUseCase CRUD y ajustes de repuestos.
type PartUseCase struct {
	repo repository.PartRepository
}

// NewPartUseCase construye el caso de uso.
func NewPartUseCase(repo repository.PartRepository) *PartUseCase {
	return &PartUseCase{repo: repo}
}

// Create registra un repuesto.
func (uc *PartUseCase) Create(ctx context.Context, sess auth.Session, in dto.CreatePartRequest) (*dto.PartResponse, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Quantity < 0 || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.Status != "" && !stock.Status(in.Status).Valid() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	p := &entity.Part{
		ID:                 uuid.New().String(),
		ServiceID:          sess.ServiceID,
		Name:               name,
		PartNumber:         patch.Optional(in.PartNumber),
		Brand:              patch.Optional(in.Brand),
		Category:           patch.Optional(in.Category),
		Description:        patch.Optional(in.Description),
		Quantity:           in.Quantity,
		MinStockLevel:      in.MinStockLevel,
		MaxStockLevel:      in.MaxStockLevel,
		Price:              in.Price,
		Cost:               in.Cost,
		Supplier:           patch.Optional(in.Supplier),
		Location:           patch.Optional(in.Location),
		CompatibleVehicles: cleanList(in.CompatibleVehicles),
		Status:             stock.Status(in.Status),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	p.Restock()
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPartResponse(p), nil
}

// GetByID obtiene un repuesto del taller.
func (uc *PartUseCase) GetByID(ctx context.Context, sess auth.Session, id string) (*dto.PartResponse, error) {
	p, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return toPartResponse(p), nil
}

// List lista los repuestos. search busca en nombre, número de parte, marca, categoría y vehículos compatibles.
func (uc *PartUseCase) List(ctx context.Context, sess auth.Session, q dto.ListQuery) (*dto.ListResponse[dto.PartResponse], error) {
	list, err := uc.all(ctx, sess)
	if err != nil {
		return nil, err
	}
	list = listing.Filter(list, func(p *entity.Part) bool {
		fields := []*string{&p.Name, p.PartNumber, p.Brand, p.Category}
		for i := range p.CompatibleVehicles {
			fields = append(fields, &p.CompatibleVehicles[i])
		}
		return listing.MatchesSearch(q.Search, fields...) &&
			listing.MatchesFilter(q.Status, string(p.Status)) &&
			listing.MatchesOptional(q.Category, p.Category)
	})
	items := make([]dto.PartResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPartResponse(p))
	}
	return &dto.ListResponse[dto.PartResponse]{Items: items, Total: len(items)}, nil
}

// Update aplica una actualización parcial sobre el registro vigente y recalcula el estado.
func (uc *PartUseCase) Update(ctx context.Context, sess auth.Session, id string, in dto.UpdatePartRequest) (*dto.PartResponse, error) {
	if _, err := uc.load(ctx, sess, id); err != nil {
		return nil, err
	}
	p, err := uc.repo.Modify(ctx, id, func(p *entity.Part) error {
		patch.String(&p.Name, in.Name)
		patch.OptionalString(&p.PartNumber, in.PartNumber)
		patch.OptionalString(&p.Brand, in.Brand)
		patch.OptionalString(&p.Category, in.Category)
		patch.OptionalString(&p.Description, in.Description)
		patch.Set(&p.Quantity, in.Quantity)
		patch.Pointer(&p.MinStockLevel, in.MinStockLevel)
		patch.Pointer(&p.MaxStockLevel, in.MaxStockLevel)
		patch.Set(&p.Price, in.Price)
		patch.Pointer(&p.Cost, in.Cost)
		patch.OptionalString(&p.Supplier, in.Supplier)
		patch.OptionalString(&p.Location, in.Location)
		if in.CompatibleVehicles != nil {
			p.CompatibleVehicles = cleanList(*in.CompatibleVehicles)
		}
		if in.Status != nil {
			st := stock.Status(*in.Status)
			if !st.Valid() {
				return domain.ErrInvalidInput
			}
			p.Status = st
		}
		if p.Name == "" || p.Quantity < 0 || p.Price.IsNegative() {
			return domain.ErrInvalidInput
		}
		p.Restock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPartResponse(p), nil
}

// Delete elimina un repuesto.
func (uc *PartUseCase) Delete(ctx context.Context, sess auth.Session, id string) error {
	p, err := uc.load(ctx, sess, id)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, p.ID)
}

// Adjust suma delta a la cantidad (nunca queda negativa).
func (uc *PartUseCase) Adjust(ctx context.Context, sess auth.Session, id string, delta int) (*dto.PartResponse, error) {
	if _, err := uc.load(ctx, sess, id); err != nil {
		return nil, err
	}
	p, err := uc.repo.AdjustQuantity(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPartResponse(p), nil
}

// Stats conteo por estado, unidades y valor de los repuestos.
func (uc *PartUseCase) Stats(ctx context.Context, sess auth.Session) (*dto.StockStats, error) {
	list, err := uc.all(ctx, sess)
	if err != nil {
		return nil, err
	}
	out := &dto.StockStats{
		Total:      len(list),
		ByStatus:   listing.CountBy(list, func(p *entity.Part) string { return string(p.Status) }),
		StockValue: decimal.Zero,
	}
	for _, p := range list {
		out.Units += p.Quantity
		out.StockValue = out.StockValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	out.StockValue = out.StockValue.Round(2)
	return out, nil
}

func (uc *PartUseCase) load(ctx context.Context, sess auth.Session, id string) (*entity.Part, error) {
	return auth.Owned(ctx, sess, id, uc.repo.GetByID, func(p *entity.Part) string { return p.ServiceID })
}

func (uc *PartUseCase) all(ctx context.Context, sess auth.Session) ([]*entity.Part, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	return uc.repo.ListByService(ctx, sess.ServiceID)
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toPartResponse(p *entity.Part) *dto.PartResponse {
	compatible := p.CompatibleVehicles
	if compatible == nil {
		compatible = []string{}
	}
	return &dto.PartResponse{
		ID:                 p.ID,
		ServiceID:          p.ServiceID,
		Name:               p.Name,
		PartNumber:         p.PartNumber,
		Brand:              p.Brand,
		Category:           p.Category,
		Description:        p.Description,
		Quantity:           p.Quantity,
		MinStockLevel:      p.MinStockLevel,
		MaxStockLevel:      p.MaxStockLevel,
		Price:              p.Price,
		Cost:               p.Cost,
		Supplier:           p.Supplier,
		Location:           p.Location,
		CompatibleVehicles: compatible,
		Status:             string(p.Status),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
