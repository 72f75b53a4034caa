package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vkdrn/bank-rest-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/vkdrn/bank-rest-api/src/internal/domain"
	"github.com/vkdrn/bank-rest-api/src/internal/logger"
	"github.com/vkdrn/bank-rest-api/src/internal/telemetry"
)

const (
	versionKey        = "transfers:version"
	invalidateTimeout = 2 * time.Second
)

// TransferCache is a read-through cache in front of the ledger listing. Each commit bumps a
// version counter, and listings are stored under the version they were read at, so a commit
// makes every earlier listing unreachable. Redis failures fall back to the store.
type TransferCache struct {
	client *redis.Client
	next   repo_interfaces.TransferRepository
	ttl    time.Duration
	log    *logger.Logger
	tracer trace.Tracer
}

func NewTransferCache(client *redis.Client, next repo_interfaces.TransferRepository, ttl time.Duration, log *logger.Logger) *TransferCache {
	return &TransferCache{
		client: client,
		next:   next,
		ttl:    ttl,
		log:    log.Named("transfer_cache"),
		tracer: otel.Tracer("github.com/vkdrn/bank-rest-api/cache"),
	}
}

type cachedTransfer struct {
	ID              int64           `json:"id"`
	SourceID        int64           `json:"source"`
	TargetID        int64           `json:"target"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionTime time.Time       `json:"transactionTime"`
}

func (c *TransferCache) FindAll(ctx context.Context) ([]domain.Transfer, error) {
	ctx, span := c.tracer.Start(ctx, "redis.TransferCache.FindAll",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", "redis")),
	)
	defer span.End()

	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.degraded(ctx, "read version", err)
		return c.next.FindAll(ctx)
	}

	key := listKey(version)
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		transfers, decodeErr := decode(raw)
		if decodeErr == nil {
			telemetry.TransferCacheLookups.WithLabelValues("hit").Inc()
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return transfers, nil
		}
		c.degraded(ctx, "decode listing", decodeErr)
	case errors.Is(err, redis.Nil):
		telemetry.TransferCacheLookups.WithLabelValues("miss").Inc()
	default:
		c.degraded(ctx, "read listing", err)
		return c.next.FindAll(ctx)
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	transfers, err := c.next.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	encoded, err := encode(transfers)
	if err != nil {
		c.degraded(ctx, "encode listing", err)
		return transfers, nil
	}
	if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
		c.degraded(ctx, "write listing", err)
	}
	return transfers, nil
}

// TransferCommitted invalidates every cached listing. The bump outlives the request context,
// since the transfer is already committed when a caller goes away.
func (c *TransferCache) TransferCommitted(ctx context.Context, _ domain.Transfer) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
	defer cancel()

	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("bump transfer cache version: %w", err)
	}
	return nil
}

func (c *TransferCache) degraded(ctx context.Context, op string, err error) {
	telemetry.TransferCacheLookups.WithLabelValues("error").Inc()
	c.log.Warn(ctx, "transfer cache degraded, using store", logger.Fields{
		"operation": op,
		"error":     err.Error(),
	})
}

func listKey(version int64) string {
	return fmt.Sprintf("transfers:list:v%d", version)
}

func encode(transfers []domain.Transfer) ([]byte, error) {
	out := make([]cachedTransfer, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, cachedTransfer{
			ID:              t.ID,
			SourceID:        t.SourceID,
			TargetID:        t.TargetID,
			Amount:          t.Amount,
			TransactionTime: t.TransactionTime,
		})
	}
	return json.Marshal(out)
}

func decode(raw []byte) ([]domain.Transfer, error) {
	var in []cachedTransfer
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}
	out := make([]domain.Transfer, 0, len(in))
	for _, t := range in {
		out = append(out, domain.Transfer{
			ID:              t.ID,
			SourceID:        t.SourceID,
			TargetID:        t.TargetID,
			Amount:          t.Amount,
			TransactionTime: t.TransactionTime.UTC(),
		})
	}
	return out, nil
}
