package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Records[entity.Customer]
	ListByService(ctx context.Context, serviceID string) ([]*entity.Customer, error)
	// RecordVisit incrementa job_count y fija last_visit.
	RecordVisit(ctx context.Context, id string, at time.Time) error
	AddSpent(ctx context.Context, id string, amount decimal.Decimal) error
}
