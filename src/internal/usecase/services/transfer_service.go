package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shopspring/decimal"

	"github.com/vkdrn/bank-rest-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/vkdrn/bank-rest-api/src/internal/domain"
	"github.com/vkdrn/bank-rest-api/src/internal/logger"
	"github.com/vkdrn/bank-rest-api/src/internal/telemetry"
)

const (
	stateReceived         = "received"
	stateValidating       = "validating"
	stateAccountsLocked   = "accounts_locked"
	stateBalancesComputed = "balances_computed"
	stateCommitted        = "committed"
	stateAborted          = "aborted"
)

// TransferObserver is told about every committed transfer. Its error is logged and otherwise ignored.
type TransferObserver interface {
	TransferCommitted(ctx context.Context, transfer domain.Transfer) error
}

type TransferService struct {
	transactor repo_interfaces.Transactor
	transfers  repo_interfaces.TransferRepository
	observers  []TransferObserver
	now        func() time.Time
	log        *logger.Logger
	tracer     trace.Tracer
}

type TransferOption func(*TransferService)

// WithClock overrides the source of ledger transaction times.
func WithClock(now func() time.Time) TransferOption {
	return func(s *TransferService) { s.now = now }
}

func WithObservers(observers ...TransferObserver) TransferOption {
	return func(s *TransferService) { s.observers = append(s.observers, observers...) }
}

func NewTransferService(
	transactor repo_interfaces.Transactor,
	transfers repo_interfaces.TransferRepository,
	log *logger.Logger,
	opts ...TransferOption,
) *TransferService {
	s := &TransferService{
		transactor: transactor,
		transfers:  transfers,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log.Named("transfer_service"),
		tracer:     otel.Tracer("github.com/vkdrn/bank-rest-api/services"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PerformTransfer moves amount from the source account to the target account and appends the
// ledger entry, all in one transaction. Either every effect commits or none does.
func (s *TransferService) PerformTransfer(ctx context.Context, req domain.TransferRequest) (result domain.Transfer, err error) {
	ctx, span := s.tracer.Start(ctx, "TransferService.PerformTransfer")
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.finish(ctx, span, started, result, fmt.Errorf("transfer panicked: %v", r))
			panic(r)
		}
		s.finish(ctx, span, started, result, err)
	}()

	s.state(ctx, span, stateReceived)
	s.log.Info(ctx, "transfer service perform transfer request", logger.Fields{
		"source": ptrValue(req.Source),
		"target": ptrValue(req.Target),
		"amount": req.Amount.Decimal.String(),
	})

	s.state(ctx, span, stateValidating)
	if err = ValidateRequest(req); err != nil {
		return domain.Transfer{}, err
	}

	sourceID, targetID, amount := *req.Source, *req.Target, req.Amount.Decimal
	span.SetAttributes(
		attribute.Int64("transfer.source", sourceID),
		attribute.Int64("transfer.target", targetID),
		attribute.String("transfer.amount", amount.String()),
	)

	tx, err := s.transactor.Begin(ctx)
	if err != nil {
		return domain.Transfer{}, fmt.Errorf("begin transfer: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error(ctx, "transfer service rollback failed", rbErr, nil)
		}
	}()

	locked := make(map[int64]domain.Account, 2)
	for _, id := range lockOrder(sourceID, targetID) {
		account, lockErr := tx.Accounts().LockAndFetch(ctx, id)
		switch {
		case lockErr == nil:
			locked[id] = account
		case errors.Is(lockErr, domain.ErrAccountNotFound):
		default:
			return domain.Transfer{}, fmt.Errorf("lock account %d: %w", id, lockErr)
		}
	}
	s.state(ctx, span, stateAccountsLocked)

	source, ok := locked[sourceID]
	if !ok {
		return domain.Transfer{}, domain.NewAccountNotFound()
	}
	if err = ValidateFunds(decimal.NewNullDecimal(source.Balance), amount); err != nil {
		return domain.Transfer{}, err
	}
	target, ok := locked[targetID]
	if !ok {
		return domain.Transfer{}, domain.NewAccountNotFound()
	}

	source.Balance = source.Balance.Sub(amount)
	target.Balance = target.Balance.Add(amount)
	if !domain.WithinPrecision(target.Balance) {
		return domain.Transfer{}, domain.NewMalformedTransfer(domain.MsgAmountPrecision)
	}
	s.state(ctx, span, stateBalancesComputed)

	entry, err := tx.Transfers().Append(ctx, domain.Transfer{
		SourceID:        sourceID,
		TargetID:        targetID,
		Amount:          amount,
		TransactionTime: s.now(),
	})
	if err != nil {
		return domain.Transfer{}, fmt.Errorf("append ledger entry: %w", err)
	}
	if err = tx.Accounts().Persist(ctx, source); err != nil {
		return domain.Transfer{}, fmt.Errorf("persist source account: %w", err)
	}
	if err = tx.Accounts().Persist(ctx, target); err != nil {
		return domain.Transfer{}, fmt.Errorf("persist target account: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return domain.Transfer{}, fmt.Errorf("commit transfer: %w", err)
	}
	committed = true

	s.notify(ctx, entry)
	return entry, nil
}

func (s *TransferService) ListTransfers(ctx context.Context) ([]domain.Transfer, error) {
	ctx, span := s.tracer.Start(ctx, "TransferService.ListTransfers")
	defer span.End()

	transfers, err := s.transfers.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.log.Error(ctx, "transfer service list transfers failed", err, nil)
		return nil, fmt.Errorf("list transfers: %w", err)
	}

	span.SetAttributes(attribute.Int("transfer.count", len(transfers)))
	return transfers, nil
}

func (s *TransferService) notify(ctx context.Context, transfer domain.Transfer) {
	for _, observer := range s.observers {
		if err := observer.TransferCommitted(ctx, transfer); err != nil {
			s.log.Warn(ctx, "transfer observer failed", logger.Fields{
				"transferId": transfer.ID,
				"observer":   fmt.Sprintf("%T", observer),
				"error":      err.Error(),
			})
		}
	}
}

func (s *TransferService) state(ctx context.Context, span trace.Span, state string) {
	span.AddEvent(state)
	s.log.Debug(ctx, "transfer state", logger.Fields{"state": state})
}

func (s *TransferService) finish(ctx context.Context, span trace.Span, started time.Time, result domain.Transfer, err error) {
	defer span.End()
	telemetry.TransferDuration.Observe(time.Since(started).Seconds())

	if err == nil {
		s.state(ctx, span, stateCommitted)
		telemetry.TransfersTotal.WithLabelValues(stateCommitted).Inc()
		s.log.Info(ctx, "transfer service perform transfer success", logger.Fields{
			"transferId": result.ID,
			"source":     result.SourceID,
			"target":     result.TargetID,
			"amount":     result.Amount.String(),
		})
		return
	}

	s.state(ctx, span, stateAborted)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	outcome := "error"
	if kind, ok := domain.KindOf(err); ok {
		outcome = strings.ToLower(string(kind))
		s.log.Info(ctx, "transfer service perform transfer rejected", logger.Fields{
			"kind":    string(kind),
			"message": domain.MessageOf(err),
		})
	} else {
		s.log.Error(ctx, "transfer service perform transfer failed", err, nil)
	}
	telemetry.TransfersTotal.WithLabelValues(outcome).Inc()
}

// lockOrder returns both ids ascending so that every transfer acquires row locks in the same order.
func lockOrder(a, b int64) [2]int64 {
	if a < b {
		return [2]int64{a, b}
	}
	return [2]int64{b, a}
}

func ptrValue(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
