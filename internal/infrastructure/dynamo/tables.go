package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jhoicas/Taller-api/pkg/logger"
)

// index índice secundario global. sorted agrega created_at como clave de rango.
type index struct {
	name   string
	hash   string
	sorted bool
}

var (
	byService  = index{name: "by_service", hash: attrService, sorted: true}
	byCustomer = index{name: "by_customer", hash: "customer_id", sorted: true}
	byVehicle  = index{name: "by_vehicle", hash: "vehicle_id", sorted: true}
	byEmail    = index{name: "by_email", hash: "email_key"}
	byOwner    = index{name: "by_owner", hash: "owner_id"}
)

// Nombres de colección (sufijo de tabla).
const (
	tableUsers     = "users"
	tableServices  = "services"
	tableCustomers = "customers"
	tableVehicles  = "vehicles"
	tableJobs      = "jobs"
	tableInventory = "inventory_items"
	tableParts     = "parts"
	tableMenuItems = "menu_items"
	tableSales     = "sales"
	tableInvoices  = "invoices"
)

// tableIndexes índices de cada colección.
var tableIndexes = map[string][]index{
	tableUsers:     {byService, byEmail},
	tableServices:  {byOwner},
	tableCustomers: {byService},
	tableVehicles:  {byService, byCustomer},
	tableJobs:      {byService, byCustomer, byVehicle},
	tableInventory: {byService},
	tableParts:     {byService},
	tableMenuItems: {byService},
	tableSales:     {byService},
	tableInvoices:  {byService, byCustomer},
}

// TableAdmin operaciones de administración de tablas.
type TableAdmin interface {
	CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

func tableInput(name string, indexes []index) *dynamodb.CreateTableInput {
	defs := map[string]types.ScalarAttributeType{attrID: types.ScalarAttributeTypeS}
	var gsis []types.GlobalSecondaryIndex
	for _, idx := range indexes {
		defs[idx.hash] = types.ScalarAttributeTypeS
		schema := []types.KeySchemaElement{{AttributeName: aws.String(idx.hash), KeyType: types.KeyTypeHash}}
		if idx.sorted {
			defs[attrCreatedAt] = types.ScalarAttributeTypeN
			schema = append(schema, types.KeySchemaElement{AttributeName: aws.String(attrCreatedAt), KeyType: types.KeyTypeRange})
		}
		gsis = append(gsis, types.GlobalSecondaryIndex{
			IndexName:  aws.String(idx.name),
			KeySchema:  schema,
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}
	var attrs []types.AttributeDefinition
	for n, t := range defs {
		attrs = append(attrs, types.AttributeDefinition{AttributeName: aws.String(n), AttributeType: t})
	}
	return &dynamodb.CreateTableInput{
		TableName:              aws.String(name),
		KeySchema:              []types.KeySchemaElement{{AttributeName: aws.String(attrID), KeyType: types.KeyTypeHash}},
		AttributeDefinitions:   attrs,
		GlobalSecondaryIndexes: gsis,
		BillingMode:            types.BillingModePayPerRequest,
	}
}

// CreateTables crea las tablas que falten con el prefijo dado y espera a que estén activas.
func CreateTables(ctx context.Context, client TableAdmin, prefix string, log *logger.Logger) error {
	for name, indexes := range tableIndexes {
		table := prefix + name
		_, err := client.CreateTable(ctx, tableInput(table, indexes))
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				log.Debug().Str("table", table).Msg("tabla ya existe")
				continue
			}
			return fmt.Errorf("create table %s: %w", table, err)
		}
		waiter := dynamodb.NewTableExistsWaiter(client)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)}, time.Minute); err != nil {
			return fmt.Errorf("wait table %s: %w", table, err)
		}
		log.Info().Str("table", table).Msg("tabla creada")
	}
	return nil
}
