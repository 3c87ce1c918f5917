package http

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/pkg/logger"
	"github.com/jhoicas/Taller-api/pkg/metrics"
)

// MetricsMiddleware registra latencia y estado por patrón de ruta.
func MetricsMiddleware(m *metrics.HTTPMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		m.Observe(c.Method(), c.Route().Path, c.Response().StatusCode(), time.Since(start))
		return nil
	}
}

// criticalIdempotencyTTL ventana en la que un checkout repetido devuelve la respuesta original.
const criticalIdempotencyTTL = 7 * 24 * time.Hour

// pendingIdempotencyTTL vida del marcador de una petición en curso; si el proceso muere
// a mitad, la clave se libera sola.
const pendingIdempotencyTTL = 5 * time.Minute

const (
	idempotencyPending = "pending"
	idempotencyDone    = "done"
)

// IdempotencyStore almacén de respuestas ya servidas (Redis en producción).
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Key(scope, id string) string
}

type idempotencyRecord struct {
	State       string `json:"state,omitempty"`
	Status      int    `json:"status,omitempty"`
	Body        string `json:"body,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency exige la cabecera Idempotency-Key. La clave se reclama con SetNX antes de
// ejecutar el handler: una petición concurrente con la misma clave recibe 409 mientras la
// primera sigue en curso y la respuesta guardada cuando ya terminó. Con store nil no hace nada.
func Idempotency(store IdempotencyStore, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store == nil {
			return c.Next()
		}
		idemKey := strings.TrimSpace(c.Get("Idempotency-Key"))
		if idemKey == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cabecera Idempotency-Key requerida"})
		}
		requestHash := hashBody(c.Body())
		scope := strings.Join([]string{GetUserID(c), GetServiceID(c), c.Method(), c.Path()}, "|")
		key := store.Key(scope, idemKey)

		marker, _ := json.Marshal(idempotencyRecord{State: idempotencyPending, RequestHash: requestHash})
		claimed, err := store.SetNX(c.UserContext(), key, string(marker), pendingIdempotencyTTL)
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("reclamar clave de idempotencia")
			return idempotencyUnavailable(c)
		}
		if !claimed {
			return replayIdempotent(c, store, log, key, requestHash)
		}

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = store.Del(c.UserContext(), key)
				return herr
			}
		}
		status := c.Response().StatusCode()
		// Un 5xx libera la clave para que el cliente pueda reintentar.
		if status >= fiber.StatusInternalServerError {
			if err := store.Del(c.UserContext(), key); err != nil {
				log.Error().Err(err).Str("key", key).Msg("liberar clave de idempotencia")
			}
			return nil
		}
		payload, err := json.Marshal(idempotencyRecord{
			State:       idempotencyDone,
			Status:      status,
			Body:        base64.StdEncoding.EncodeToString(c.Response().Body()),
			ContentType: string(c.Response().Header.ContentType()),
			RequestHash: requestHash,
		})
		if err != nil {
			log.Error().Err(err).Msg("serializar registro de idempotencia")
			return nil
		}
		if err := store.Set(c.UserContext(), key, string(payload), criticalIdempotencyTTL); err != nil {
			log.Error().Err(err).Str("key", key).Msg("guardar registro de idempotencia")
		}
		return nil
	}
}

// replayIdempotent responde a una clave ya reclamada por otra petición.
func replayIdempotent(c *fiber.Ctx, store IdempotencyStore, log *logger.Logger, key, requestHash string) error {
	stored, err := store.Get(c.UserContext(), key)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("consultar idempotencia")
		return idempotencyUnavailable(c)
	}
	if stored == "" {
		// La otra petición falló y liberó la clave entre SetNX y Get.
		return idempotencyInProgress(c)
	}
	var rec idempotencyRecord
	if err := json.Unmarshal([]byte(stored), &rec); err != nil {
		log.Error().Err(err).Str("key", key).Msg("registro de idempotencia corrupto")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
	if rec.RequestHash != requestHash {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_MISMATCH", Message: "Idempotency-Key reutilizada con otro cuerpo"})
	}
	if rec.State == idempotencyPending {
		return idempotencyInProgress(c)
	}
	body, _ := base64.StdEncoding.DecodeString(rec.Body)
	if rec.ContentType != "" {
		c.Set(fiber.HeaderContentType, rec.ContentType)
	}
	c.Set("Idempotent-Replayed", "true")
	return c.Status(rec.Status).Send(body)
}

func idempotencyInProgress(c *fiber.Ctx) error {
	c.Set(fiber.HeaderRetryAfter, "1")
	return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "hay una petición en curso con esta Idempotency-Key"})
}

func idempotencyUnavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "DEPENDENCY", Message: "almacén de idempotencia no disponible"})
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}
