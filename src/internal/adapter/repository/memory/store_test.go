package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkdrn/bank-rest-api/src/internal/domain"
)

func seed(t *testing.T, s *Store, balance string) domain.Account {
	t.Helper()
	acc, err := s.Create(context.Background(), domain.Account{
		Email:   "user@bank.test",
		Balance: decimal.RequireFromString(balance),
	})
	require.NoError(t, err)
	return acc
}

func TestCreateAssignsIdentity(t *testing.T) {
	s := NewStore(time.Second)

	first := seed(t, s, "10.10")
	second := seed(t, s, "20.20")

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.True(t, first.Active)
	assert.Equal(t, int64(1), first.Version)
}

func TestDeactivateHidesAccount(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)
	acc := seed(t, s, "1")

	require.NoError(t, s.Deactivate(ctx, acc.ID))

	_, err := s.FindActiveByID(ctx, acc.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.ErrorIs(t, s.Deactivate(ctx, acc.ID), domain.ErrAccountNotFound)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateIncrementsVersion(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)
	acc := seed(t, s, "1")

	acc.Email = "new@bank.test"
	acc.Balance = decimal.RequireFromString("5.55")
	updated, err := s.Update(ctx, acc)
	require.NoError(t, err)

	assert.Equal(t, "new@bank.test", updated.Email)
	assert.True(t, decimal.RequireFromString("5.55").Equal(updated.Balance))
	assert.Equal(t, int64(2), updated.Version)

	_, err = s.Update(ctx, domain.Account{ID: 99})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCommitAppliesPendingWritesAndLedger(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)
	acc := seed(t, s, "10")

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	locked, err := tx.Accounts().LockAndFetch(ctx, acc.ID)
	require.NoError(t, err)
	locked.Balance = decimal.NewFromInt(7)
	require.NoError(t, tx.Accounts().Persist(ctx, locked))

	appended, err := tx.Transfers().Append(ctx, domain.Transfer{SourceID: acc.ID, TargetID: 2, Amount: decimal.NewFromInt(3)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), appended.ID)

	committed, err := s.FindActiveByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(committed.Balance), "uncommitted write must not be visible")
	ledger, err := s.Transfers().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, ledger)

	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Rollback())

	committed, err = s.FindActiveByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(7).Equal(committed.Balance))
	assert.Equal(t, int64(2), committed.Version)

	ledger, err = s.Transfers().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, appended, ledger[0])
}

func TestRollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)
	acc := seed(t, s, "10")

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	locked, err := tx.Accounts().LockAndFetch(ctx, acc.ID)
	require.NoError(t, err)
	locked.Balance = decimal.Zero
	require.NoError(t, tx.Accounts().Persist(ctx, locked))
	_, err = tx.Transfers().Append(ctx, domain.Transfer{SourceID: acc.ID, TargetID: 2, Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	require.NoError(t, tx.Rollback())
	assert.ErrorIs(t, tx.Commit(), ErrTxClosed)

	committed, err := s.FindActiveByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(committed.Balance))

	ledger, err := s.FindAllTransfers(ctx)
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestLockTimesOutWhileHeld(t *testing.T) {
	ctx := context.Background()
	s := NewStore(20 * time.Millisecond)
	acc := seed(t, s, "10")

	holder, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = holder.Accounts().LockAndFetch(ctx, acc.ID)
	require.NoError(t, err)

	waiter, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = waiter.Accounts().LockAndFetch(ctx, acc.ID)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.True(t, domain.IsRetryable(err))

	require.NoError(t, holder.Rollback())

	_, err = waiter.Accounts().LockAndFetch(ctx, acc.ID)
	require.NoError(t, err)
	require.NoError(t, waiter.Rollback())
}

func TestLockWaitHonoursContext(t *testing.T) {
	s := NewStore(0)
	acc := seed(t, s, "10")

	holder, err := s.Begin(context.Background())
	require.NoError(t, err)
	_, err = holder.Accounts().LockAndFetch(context.Background(), acc.ID)
	require.NoError(t, err)
	defer func() { _ = holder.Rollback() }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	waiter, err := s.Begin(context.Background())
	require.NoError(t, err)
	_, err = waiter.Accounts().LockAndFetch(ctx, acc.ID)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPersistRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)
	acc := seed(t, s, "10")

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	locked, err := tx.Accounts().LockAndFetch(ctx, acc.ID)
	require.NoError(t, err)
	require.NoError(t, tx.Accounts().Persist(ctx, locked))

	err = tx.Accounts().Persist(ctx, locked)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
}

func TestLockAndFetchMissingOrInactive(t *testing.T) {
	ctx := context.Background()
	s := NewStore(time.Second)
	acc := seed(t, s, "10")
	require.NoError(t, s.Deactivate(ctx, acc.ID))

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Accounts().LockAndFetch(ctx, acc.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = tx.Accounts().LockAndFetch(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
