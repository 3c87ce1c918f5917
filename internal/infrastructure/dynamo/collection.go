// Package dynamo implementa los repositorios sobre DynamoDB (STORE_DRIVER=dynamodb).
//
// Cada colección vive en su propia tabla con clave hash "id". La entidad se guarda serializada en el
// atributo "doc"; service_id, created_at y las claves de los índices secundarios se proyectan como
// atributos de primer nivel para poder consultarlos.
package dynamo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v5"

	"github.com/jhoicas/Taller-api/internal/domain"
)

const (
	attrID        = "id"
	attrService   = "service_id"
	attrCreatedAt = "created_at"
	attrVersion   = "version"
	attrDoc       = "doc"
)

var (
	// errStale el registro cambió entre la lectura y la escritura condicional.
	errStale = errors.New("dynamo: versión desactualizada")
	// errUnchanged lo devuelve fn en mutate cuando no hay nada que escribir.
	errUnchanged = errors.New("dynamo: sin cambios")
)

// API subconjunto del cliente de DynamoDB que usan los repositorios.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// record forma persistida común a todas las colecciones.
type record struct {
	ID        string `dynamodbav:"id"`
	CreatedAt int64  `dynamodbav:"created_at"`
	Version   int64  `dynamodbav:"version"`
	Doc       string `dynamodbav:"doc"`
}

// schema describe cómo proyectar T sobre la tabla.
type schema[T any] struct {
	id      func(*T) string
	created func(*T) time.Time
	// attrs atributos extra de primer nivel (claves de índices, filtros de Scan). Los vacíos se omiten.
	attrs func(*T) map[string]any
}

// collection CRUD genérico con control optimista por versión.
type collection[T any] struct {
	api    API
	table  string
	schema schema[T]
}

func newCollection[T any](api API, table string, s schema[T]) *collection[T] {
	return &collection[T]{api: api, table: table, schema: s}
}

func (c *collection[T]) item(rec *T, version int64) (map[string]types.AttributeValue, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", c.table, err)
	}
	item, err := attributevalue.MarshalMap(record{
		ID:        c.schema.id(rec),
		CreatedAt: c.schema.created(rec).UnixNano(),
		Version:   version,
		Doc:       string(doc),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", c.table, err)
	}
	if c.schema.attrs != nil {
		for k, v := range c.schema.attrs(rec) {
			if s, ok := v.(string); ok && s == "" {
				continue
			}
			av, err := attributevalue.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("marshal %s.%s: %w", c.table, k, err)
			}
			item[k] = av
		}
	}
	return item, nil
}

func (c *collection[T]) decode(item map[string]types.AttributeValue) (*T, int64, error) {
	var r record
	if err := attributevalue.UnmarshalMap(item, &r); err != nil {
		return nil, 0, fmt.Errorf("unmarshal %s: %w", c.table, err)
	}
	var out T
	if err := json.Unmarshal([]byte(r.Doc), &out); err != nil {
		return nil, 0, fmt.Errorf("decode %s doc: %w", c.table, err)
	}
	return &out, r.Version, nil
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{attrID: &types.AttributeValueMemberS{Value: id}}
}

func isConditionFailed(err error) bool {
	var cond *types.ConditionalCheckFailedException
	return errors.As(err, &cond)
}

// Create inserta el registro. ErrDuplicate si el ID ya existe.
func (c *collection[T]) Create(ctx context.Context, rec *T) error {
	item, err := c.item(rec, 1)
	if err != nil {
		return err
	}
	_, err = c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("put %s: %w", c.table, err)
	}
	return nil
}

// GetByID lectura consistente. (nil, nil) si no existe.
func (c *collection[T]) GetByID(ctx context.Context, id string) (*T, error) {
	rec, _, err := c.get(ctx, id)
	return rec, err
}

func (c *collection[T]) get(ctx context.Context, id string) (*T, int64, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.table),
		Key:            key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("get %s: %w", c.table, err)
	}
	if out.Item == nil {
		return nil, 0, nil
	}
	return c.decode(out.Item)
}

// Update reemplaza el registro existente. ErrNotFound si no existe.
func (c *collection[T]) Update(ctx context.Context, rec *T) error {
	_, version, err := c.get(ctx, c.schema.id(rec))
	if err != nil {
		return err
	}
	if version == 0 {
		return domain.ErrNotFound
	}
	if err := c.replace(ctx, rec, version); err != nil {
		if errors.Is(err, errStale) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

// replace escribe rec si la versión almacenada sigue siendo version.
func (c *collection[T]) replace(ctx context.Context, rec *T, version int64) error {
	item, err := c.item(rec, version+1)
	if err != nil {
		return err
	}
	cond := expression.Name(attrVersion).Equal(expression.Value(version))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("build condition: %w", err)
	}
	_, err = c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(c.table),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return errStale
		}
		return fmt.Errorf("put %s: %w", c.table, err)
	}
	return nil
}

// Delete elimina el registro si existe.
func (c *collection[T]) Delete(ctx context.Context, id string) error {
	_, err := c.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.table),
		Key:       key(id),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", c.table, err)
	}
	return nil
}

// mutate lee, aplica fn y escribe con condición de versión; reintenta con backoff exponencial
// mientras otra escritura gane la carrera. Si fn devuelve errUnchanged no se escribe y se devuelve
// el registro leído; cualquier otro error de fn aborta. (nil, nil) si el registro no existe.
func (c *collection[T]) mutate(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	op := func() (*T, error) {
		rec, version, err := c.get(ctx, id)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if rec == nil {
			return nil, nil
		}
		if err := fn(rec); err != nil {
			if errors.Is(err, errUnchanged) {
				return rec, nil
			}
			return nil, backoff.Permanent(err)
		}
		if err := c.replace(ctx, rec, version); err != nil {
			if errors.Is(err, errStale) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return rec, nil
	}
	rec, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(8),
		backoff.WithMaxElapsedTime(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("mutate %s %s: %w", c.table, id, err)
	}
	return rec, nil
}

// queryIndex consulta el índice idx por igualdad sobre attr; más recientes primero. El orden se
// fija en memoria porque un índice creado sin created_at como clave de rango no lo garantiza.
func (c *collection[T]) queryIndex(ctx context.Context, idx index, value string) ([]*T, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key(idx.hash).Equal(expression.Value(value))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build key condition: %w", err)
	}
	p := dynamodb.NewQueryPaginator(c.api, &dynamodb.QueryInput{
		TableName:                 aws.String(c.table),
		IndexName:                 aws.String(idx.name),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	})
	var list []*T
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query %s.%s: %w", c.table, idx.name, err)
		}
		for _, it := range page.Items {
			rec, _, err := c.decode(it)
			if err != nil {
				return nil, err
			}
			list = append(list, rec)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return c.schema.created(list[i]).After(c.schema.created(list[j]))
	})
	return list, nil
}

// scan recorre la tabla completa aplicando filter del lado del servidor.
func (c *collection[T]) scan(ctx context.Context, filter expression.ConditionBuilder) ([]*T, error) {
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("build filter: %w", err)
	}
	p := dynamodb.NewScanPaginator(c.api, &dynamodb.ScanInput{
		TableName:                 aws.String(c.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	var list []*T
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", c.table, err)
		}
		for _, it := range page.Items {
			rec, _, err := c.decode(it)
			if err != nil {
				return nil, err
			}
			list = append(list, rec)
		}
	}
	return list, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
