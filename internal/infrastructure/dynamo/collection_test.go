package dynamo

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/stock"
)

// fakeAPI tabla en memoria que entiende las dos condiciones que emite collection.
type fakeAPI struct {
	mu        sync.Mutex
	items     map[string]map[string]types.AttributeValue
	staleOnce bool
	puts      int
	order     []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{items: map[string]map[string]types.AttributeValue{}}
}

func idOf(item map[string]types.AttributeValue) string {
	return item[attrID].(*types.AttributeValueMemberS).Value
}

func versionOf(item map[string]types.AttributeValue) string {
	return item[attrVersion].(*types.AttributeValueMemberN).Value
}

func (f *fakeAPI) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.items[idOf(in.Key)]}, nil
}

func (f *fakeAPI) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	id := idOf(in.Item)
	current, exists := f.items[id]
	cond := ""
	if in.ConditionExpression != nil {
		cond = *in.ConditionExpression
	}
	switch {
	case strings.HasPrefix(cond, "attribute_not_exists"):
		if exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	case cond != "":
		if f.staleOnce {
			f.staleOnce = false
			return nil, &types.ConditionalCheckFailedException{}
		}
		var expected string
		for _, v := range in.ExpressionAttributeValues {
			expected = v.(*types.AttributeValueMemberN).Value
		}
		if !exists || versionOf(current) != expected {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	if !exists {
		f.order = append(f.order, id)
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, idOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

// Query devuelve los registros en orden de inserción, como un índice sin clave de rango.
func (f *fakeAPI) Query(context.Context, *dynamodb.QueryInput, ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := &dynamodb.QueryOutput{}
	for _, id := range f.order {
		if item, ok := f.items[id]; ok {
			out.Items = append(out.Items, item)
		}
	}
	return out, nil
}

func (f *fakeAPI) Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return &dynamodb.ScanOutput{}, nil
}

func intPtr(v int) *int { return &v }

func newItem() *entity.InventoryItem {
	now := time.Now().UTC()
	i := &entity.InventoryItem{
		ID: "item-1", ServiceID: "svc-1", Name: "Aceite 5W30",
		Quantity: 5, MinStockLevel: intPtr(5), UnitPrice: decimal.RequireFromString("12.50"),
		CreatedAt: now, UpdatedAt: now,
	}
	i.Restock()
	return i
}

func TestCollection_CreateDuplicadoYLectura(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryRepository(newFakeAPI(), "test_")

	require.NoError(t, repo.Create(ctx, newItem()))
	assert.ErrorIs(t, repo.Create(ctx, newItem()), domain.ErrDuplicate)

	got, err := repo.GetByID(ctx, "item-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "12.5", got.UnitPrice.String())
	assert.Equal(t, stock.StatusLowStock, got.Status)

	missing, err := repo.GetByID(ctx, "nada")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCollection_UpdateInexistente(t *testing.T) {
	repo := NewInventoryRepository(newFakeAPI(), "test_")
	assert.ErrorIs(t, repo.Update(context.Background(), newItem()), domain.ErrNotFound)
}

func TestAdjustQuantity_ReintentaAnteVersionDesactualizada(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	repo := NewInventoryRepository(api, "test_")
	require.NoError(t, repo.Create(ctx, newItem()))

	api.staleOnce = true
	got, err := repo.AdjustQuantity(ctx, "item-1", 10)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Quantity)
	assert.Equal(t, stock.StatusActive, got.Status)
	assert.Equal(t, 3, api.puts, "create + intento fallido + reintento")

	stored := api.items["item-1"]
	n, _ := strconv.Atoi(versionOf(stored))
	assert.Equal(t, 2, n)

	got, err = repo.AdjustQuantity(ctx, "item-1", -100)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
	assert.Equal(t, stock.StatusOutOfStock, got.Status)
}

func TestAdjustQuantity_Inexistente(t *testing.T) {
	repo := NewPartRepository(newFakeAPI(), "test_")
	got, err := repo.AdjustQuantity(context.Background(), "nada", 1)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestItem_OmiteAtributosVacios(t *testing.T) {
	repo := NewInvoiceRepository(newFakeAPI(), "test_")
	inv := &entity.Invoice{ID: "inv-1", ServiceID: "svc-1", Status: entity.InvoiceStatusDraft, CreatedAt: time.Now()}
	item, err := repo.item(inv, 1)
	require.NoError(t, err)
	assert.NotContains(t, item, "customer_id")
	assert.NotContains(t, item, attrDueAt)
	assert.Contains(t, item, attrService)
	assert.Contains(t, item, attrStatus)
}

func TestTableInput_IndicesYDefiniciones(t *testing.T) {
	in := tableInput("test_jobs", tableIndexes[tableJobs])
	assert.Equal(t, types.BillingModePayPerRequest, in.BillingMode)
	assert.Len(t, in.GlobalSecondaryIndexes, 3)

	var names []string
	for _, a := range in.AttributeDefinitions {
		names = append(names, *a.AttributeName)
	}
	assert.ElementsMatch(t, []string{attrID, attrService, attrCreatedAt, "customer_id", "vehicle_id"}, names)
}

func TestQueryIndex_OrdenaMasRecientesPrimero(t *testing.T) {
	ctx := context.Background()
	repo := NewInventoryRepository(newFakeAPI(), "test_")

	old := newItem()
	old.ID, old.Name = "old", "Viejo"
	old.CreatedAt = time.Now().UTC().Add(-time.Hour)
	recent := newItem()
	recent.ID, recent.Name = "new", "Nuevo"
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, recent))

	list, err := repo.ListByService(ctx, "svc-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}

func TestMarkOverdue_SoloDesdeEnviada(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	repo := NewInvoiceRepository(api, "test_")
	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &entity.Invoice{ID: "sent", ServiceID: "svc-1", Status: entity.InvoiceStatusSent, CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, &entity.Invoice{ID: "paid", ServiceID: "svc-1", Status: entity.InvoiceStatusPaid, CreatedAt: now}))

	changed, err := repo.MarkOverdue(ctx, "sent", now)
	require.NoError(t, err)
	assert.True(t, changed)
	got, err := repo.GetByID(ctx, "sent")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusOverdue, got.Status)

	puts := api.puts
	changed, err = repo.MarkOverdue(ctx, "paid", now)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, puts, api.puts, "una factura cobrada no se reescribe")
}

func TestModify_ErrorNoEscribe(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	repo := NewInventoryRepository(api, "test_")
	require.NoError(t, repo.Create(ctx, newItem()))

	_, err := repo.Modify(ctx, "item-1", func(i *entity.InventoryItem) error {
		i.Quantity = -1
		return domain.ErrInvalidInput
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, api.puts)

	got, err := repo.GetByID(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
}
