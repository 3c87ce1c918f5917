package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/application/analytics"
	"github.com/jhoicas/Taller-api/internal/application/auth"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/stock"
	"github.com/jhoicas/Taller-api/internal/infrastructure/memory"
)

func TestGetSummary_AgregaTodasLasFuentes(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	serviceID := uuid.NewString()
	now := time.Now().UTC()

	require.NoError(t, st.Customers.Create(ctx, &entity.Customer{ID: uuid.NewString(), ServiceID: serviceID, Name: "Jane", CreatedAt: now}))
	require.NoError(t, st.Customers.Create(ctx, &entity.Customer{ID: uuid.NewString(), ServiceID: uuid.NewString(), Name: "Otro taller", CreatedAt: now}))
	for _, status := range []string{entity.JobStatusPending, entity.JobStatusInProgress, entity.JobStatusCompleted, entity.JobStatusCancelled} {
		require.NoError(t, st.Jobs.Create(ctx, &entity.Job{ID: uuid.NewString(), ServiceID: serviceID, Status: status, CreatedAt: now}))
	}
	require.NoError(t, st.Inventory.Create(ctx, &entity.InventoryItem{ID: uuid.NewString(), ServiceID: serviceID, Status: stock.StatusLowStock, CreatedAt: now}))
	require.NoError(t, st.Parts.Create(ctx, &entity.Part{ID: uuid.NewString(), ServiceID: serviceID, Status: stock.StatusOutOfStock, CreatedAt: now}))
	require.NoError(t, st.Sales.Create(ctx, &entity.Sale{ID: uuid.NewString(), ServiceID: serviceID, Status: entity.SaleStatusCompleted, Total: decimal.NewFromInt(100), CreatedAt: now}))
	require.NoError(t, st.Sales.Create(ctx, &entity.Sale{ID: uuid.NewString(), ServiceID: serviceID, Status: entity.SaleStatusVoided, Total: decimal.NewFromInt(999), CreatedAt: now}))
	require.NoError(t, st.Invoices.Create(ctx, &entity.Invoice{ID: uuid.NewString(), ServiceID: serviceID, Status: entity.InvoiceStatusOverdue, Total: decimal.NewFromInt(40), CreatedAt: now}))
	require.NoError(t, st.Invoices.Create(ctx, &entity.Invoice{ID: uuid.NewString(), ServiceID: serviceID, Status: entity.InvoiceStatusPaid, Total: decimal.NewFromInt(60), CreatedAt: now}))

	uc := analytics.NewDashboardUseCase(analytics.Sources{
		Customers: st.Customers, Vehicles: st.Vehicles, Jobs: st.Jobs,
		Inventory: st.Inventory, Parts: st.Parts, Sales: st.Sales, Invoices: st.Invoices,
	})
	out, err := uc.GetSummary(ctx, auth.Session{UserID: "u", ServiceID: serviceID, Role: entity.RoleOwner})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Customers)
	assert.Equal(t, 2, out.OpenJobs)
	assert.Equal(t, 1, out.CompletedJobs)
	assert.Equal(t, 1, out.LowStockItems)
	assert.Equal(t, 1, out.OutOfStockItems)
	assert.True(t, decimal.NewFromInt(100).Equal(out.TodaySales))
	assert.True(t, decimal.NewFromInt(100).Equal(out.MonthlySales))
	assert.Equal(t, 1, out.OutstandingInvoices)
	assert.True(t, decimal.NewFromInt(40).Equal(out.OutstandingAmount))
	assert.NotEmpty(t, out.DateLabel)
}
