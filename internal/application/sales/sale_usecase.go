package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/application/billing"
	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/listing"
	"github.com/jhoicas/Taller-api/internal/application/patch"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// SaleUseCase consulta y edición de ventas ya registradas.
type SaleUseCase struct {
	repo repository.SaleRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(repo repository.SaleRepository) *SaleUseCase {
	return &SaleUseCase{repo: repo}
}

// GetByID obtiene una venta del taller.
func (uc *SaleUseCase) GetByID(ctx context.Context, sess auth.Session, id string) (*dto.SaleResponse, error) {
	s, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(s), nil
}

// List lista las ventas. search busca en cliente y notas; status y payment_method filtran.
func (uc *SaleUseCase) List(ctx context.Context, sess auth.Session, q dto.ListQuery) (*dto.ListResponse[dto.SaleResponse], error) {
	list, err := uc.all(ctx, sess)
	if err != nil {
		return nil, err
	}
	list = listing.Filter(list, func(s *entity.Sale) bool {
		return listing.MatchesSearch(q.Search, s.CustomerName, s.Notes) &&
			listing.MatchesFilter(q.Status, s.Status) &&
			listing.MatchesFilter(q.PaymentMethod, s.PaymentMethod)
	})
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *ToSaleResponse(s))
	}
	return &dto.ListResponse[dto.SaleResponse]{Items: items, Total: len(items)}, nil
}

// Update cambia estado, medio de pago o notas. Las líneas y totales de una venta no se editan.
func (uc *SaleUseCase) Update(ctx context.Context, sess auth.Session, id string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	s, err := uc.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	patch.Set(&s.Status, in.Status)
	patch.Set(&s.PaymentMethod, in.PaymentMethod)
	patch.OptionalString(&s.Notes, in.Notes)
	s.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return ToSaleResponse(s), nil
}

// Delete elimina una venta anulada o reembolsada. Una venta completada debe anularse antes.
func (uc *SaleUseCase) Delete(ctx context.Context, sess auth.Session, id string) error {
	s, err := uc.load(ctx, sess, id)
	if err != nil {
		return err
	}
	if s.Status == entity.SaleStatusCompleted {
		return fmt.Errorf("%w: anule la venta antes de eliminarla", domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, s.ID)
}

// Stats resumen de ventas completadas.
func (uc *SaleUseCase) Stats(ctx context.Context, sess auth.Session) (*dto.SaleStats, error) {
	list, err := uc.all(ctx, sess)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleStats{
		Revenue:         decimal.Zero,
		TaxCollected:    decimal.Zero,
		AverageTicket:   decimal.Zero,
		ByPaymentMethod: map[string]decimal.Decimal{},
	}
	for _, s := range list {
		if s.Status != entity.SaleStatusCompleted {
			continue
		}
		out.Count++
		out.Revenue = out.Revenue.Add(s.Total)
		out.TaxCollected = out.TaxCollected.Add(s.TaxAmount)
		out.ByPaymentMethod[s.PaymentMethod] = out.ByPaymentMethod[s.PaymentMethod].Add(s.Total)
	}
	if out.Count > 0 {
		out.AverageTicket = out.Revenue.Div(decimal.NewFromInt(int64(out.Count))).Round(2)
	}
	return out, nil
}

func (uc *SaleUseCase) load(ctx context.Context, sess auth.Session, id string) (*entity.Sale, error) {
	return auth.Owned(ctx, sess, id, uc.repo.GetByID, func(s *entity.Sale) string { return s.ServiceID })
}

func (uc *SaleUseCase) all(ctx context.Context, sess auth.Session) ([]*entity.Sale, error) {
	if err := sess.RequireService(); err != nil {
		return nil, err
	}
	return uc.repo.ListByService(ctx, sess.ServiceID)
}

// ToSaleResponse mapea la venta a DTO.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:             s.ID,
		ServiceID:      s.ServiceID,
		CustomerID:     s.CustomerID,
		CustomerName:   s.CustomerName,
		Items:          billing.ToLineResponses(s.Items),
		Subtotal:       s.Subtotal,
		TaxAmount:      s.TaxAmount,
		DiscountRate:   s.DiscountRate,
		DiscountAmount: s.DiscountAmount,
		Total:          s.Total,
		PaymentMethod:  s.PaymentMethod,
		Status:         s.Status,
		InvoiceID:      s.InvoiceID,
		Notes:          s.Notes,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
