package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
	"github.com/vkdrn/bank-rest-api/src/internal/logger"
)

type publisherStub struct {
	publishFn func(ctx context.Context, event TransferCompleted) error
	published []TransferCompleted
	closed    bool
}

func (p *publisherStub) Publish(ctx context.Context, event TransferCompleted) error {
	p.published = append(p.published, event)
	if p.publishFn != nil {
		return p.publishFn(ctx, event)
	}
	return nil
}

func (p *publisherStub) Close() error {
	p.closed = true
	return nil
}

var committed = domain.Transfer{
	ID:              9,
	SourceID:        1,
	TargetID:        2,
	Amount:          decimal.RequireFromString("10.10"),
	TransactionTime: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
}

func TestNotifierPublishesTransferCompleted(t *testing.T) {
	stub := &publisherStub{}
	n := NewNotifier("kafka", stub, logger.NewNop())

	require.NoError(t, n.TransferCommitted(context.Background(), committed))
	require.Len(t, stub.published, 1)

	event := stub.published[0]
	assert.Equal(t, TypeTransferCompleted, event.Type)
	assert.Equal(t, int64(9), event.TransferID)
	assert.Equal(t, int64(1), event.Source)
	assert.Equal(t, int64(2), event.Target)
	assert.True(t, committed.Amount.Equal(event.Amount))
	_, err := uuid.Parse(event.EventID)
	assert.NoError(t, err)

	require.NoError(t, n.Close())
	assert.True(t, stub.closed)
}

func TestNotifierSurvivesCancelledRequestContext(t *testing.T) {
	stub := &publisherStub{publishFn: func(ctx context.Context, _ TransferCompleted) error {
		return ctx.Err()
	}}
	n := NewNotifier("nats", stub, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, n.TransferCommitted(ctx, committed))
}

func TestNotifierReturnsPublishError(t *testing.T) {
	boom := errors.New("broker down")
	n := NewNotifier("kafka", &publisherStub{publishFn: func(context.Context, TransferCompleted) error { return boom }}, logger.NewNop())

	assert.ErrorIs(t, n.TransferCommitted(context.Background(), committed), boom)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	boom := errors.New("broker down")
	stub := &publisherStub{publishFn: func(context.Context, TransferCompleted) error { return boom }}
	p := NewBreakerPublisher("test", stub, BreakerSettings{
		ConsecutiveFailures: 3,
		OpenTimeout:         time.Minute,
		HalfOpenRequests:    1,
	}, logger.NewNop())

	event := NewTransferCompleted(committed, time.Now())
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, p.Publish(context.Background(), event), boom)
	}
	assert.Equal(t, gobreaker.StateOpen, p.State())

	err := p.Publish(context.Background(), event)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, stub.published, 3, "open breaker must not reach the broker")
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	stub := &publisherStub{}
	p := NewBreakerPublisher("test", stub, DefaultBreakerSettings(), logger.NewNop())

	require.NoError(t, p.Publish(context.Background(), NewTransferCompleted(committed, time.Now())))
	assert.Equal(t, gobreaker.StateClosed, p.State())
	require.NoError(t, p.Close())
	assert.True(t, stub.closed)
}

func TestKafkaMessageEncoding(t *testing.T) {
	event := NewTransferCompleted(committed, time.Date(2024, 3, 1, 12, 0, 1, 0, time.UTC))

	msg, err := kafkaMessage(event)
	require.NoError(t, err)
	assert.Equal(t, "1", string(msg.Key))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "10.1", decoded["amount"])
	assert.Equal(t, float64(9), decoded["transferId"])
	assert.Equal(t, "2024-03-01T12:00:00Z", decoded["transactionTime"])

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, TypeTransferCompleted, string(msg.Headers[0].Value))
}

func TestNATSPublisherConnectFailure(t *testing.T) {
	_, err := NewNATSPublisher("nats://127.0.0.1:1", "bank.transfers.completed", logger.NewNop())
	assert.Error(t, err)
}

func TestKafkaPublisherFlushesWithoutWaitingForBatch(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "bank.transfers.completed")
	t.Cleanup(func() { _ = p.Close() })

	assert.Equal(t, kafkaBatchTimeout, p.writer.BatchTimeout)
	assert.Equal(t, "bank.transfers.completed", p.writer.Topic)
}
