package events

import (
	"context"
	"time"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
	"github.com/vkdrn/bank-rest-api/src/internal/logger"
	"github.com/vkdrn/bank-rest-api/src/internal/telemetry"
)

const publishTimeout = 3 * time.Second

// Notifier turns committed transfers into TransferCompleted events.
type Notifier struct {
	broker    string
	publisher Publisher
	now       func() time.Time
	log       *logger.Logger
}

func NewNotifier(broker string, publisher Publisher, log *logger.Logger) *Notifier {
	return &Notifier{
		broker:    broker,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
		log:       log.Named("transfer_notifier"),
	}
}

func (n *Notifier) TransferCommitted(ctx context.Context, transfer domain.Transfer) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := NewTransferCompleted(transfer, n.now())
	if err := n.publisher.Publish(ctx, event); err != nil {
		telemetry.EventsPublishedTotal.WithLabelValues(n.broker, "failed").Inc()
		return err
	}

	telemetry.EventsPublishedTotal.WithLabelValues(n.broker, "published").Inc()
	n.log.Debug(ctx, "transfer event published", logger.Fields{
		"eventId":    event.EventID,
		"transferId": transfer.ID,
	})
	return nil
}

func (n *Notifier) Close() error {
	return n.publisher.Close()
}
