package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/vkdrn/bank-rest-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/vkdrn/bank-rest-api/src/internal/domain"
)

var ErrTxClosed = errors.New("memory: transaction already closed")

type row struct {
	lock    chan struct{}
	account domain.Account
}

// Store keeps accounts and the transfer ledger in process memory. Each account row carries
// its own lock, held by at most one transaction at a time.
type Store struct {
	mu             sync.Mutex
	accounts       map[int64]*row
	transfers      []domain.Transfer
	nextAccountID  int64
	nextTransferID int64
	lockTimeout    time.Duration
	now            func() time.Time
}

func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		accounts:    make(map[int64]*row),
		lockTimeout: lockTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) Begin(ctx context.Context) (repo_interfaces.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &tx{
		store:   s,
		held:    make(map[int64]*row),
		pending: make(map[int64]domain.Account),
	}, nil
}

func (s *Store) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAccountID++
	now := s.now()
	account.ID = s.nextAccountID
	account.Active = true
	account.Version = 1
	account.CreatedAt = now
	account.UpdatedAt = now

	s.accounts[account.ID] = &row{lock: make(chan struct{}, 1), account: account}
	return account, nil
}

func (s *Store) FindActiveByID(_ context.Context, id int64) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.accounts[id]
	if !ok || !r.account.Active {
		return domain.Account{}, domain.NewAccountNotFound()
	}
	return r.account, nil
}

func (s *Store) FindAll(_ context.Context) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Account, 0, len(s.accounts))
	for _, r := range s.accounts {
		if r.account.Active {
			out = append(out, r.account)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update replaces email and balance of an active account under its row lock.
func (s *Store) Update(ctx context.Context, account domain.Account) (domain.Account, error) {
	r, err := s.lockRow(ctx, account.ID)
	if err != nil {
		return domain.Account{}, err
	}
	defer func() { <-r.lock }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !r.account.Active {
		return domain.Account{}, domain.NewAccountNotFound()
	}
	r.account.Email = account.Email
	r.account.Balance = account.Balance
	r.account.Version++
	r.account.UpdatedAt = s.now()
	return r.account, nil
}

func (s *Store) Deactivate(ctx context.Context, id int64) error {
	r, err := s.lockRow(ctx, id)
	if err != nil {
		return err
	}
	defer func() { <-r.lock }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !r.account.Active {
		return domain.NewAccountNotFound()
	}
	r.account.Active = false
	r.account.Version++
	r.account.UpdatedAt = s.now()
	return nil
}

func (s *Store) FindAllTransfers(_ context.Context) ([]domain.Transfer, error) {
	s.mu.Lock()
	out := make([]domain.Transfer, len(s.transfers))
	copy(out, s.transfers)
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Transfers exposes the ledger as a repo_interfaces.TransferRepository.
func (s *Store) Transfers() repo_interfaces.TransferRepository {
	return ledger{store: s}
}

type ledger struct {
	store *Store
}

func (l ledger) FindAll(ctx context.Context) ([]domain.Transfer, error) {
	return l.store.FindAllTransfers(ctx)
}

func (s *Store) lookup(id int64) (*row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.accounts[id]
	return r, ok
}

func (s *Store) lockRow(ctx context.Context, id int64) (*row, error) {
	r, ok := s.lookup(id)
	if !ok {
		return nil, domain.NewAccountNotFound()
	}

	var expired <-chan time.Time
	if s.lockTimeout > 0 {
		timer := time.NewTimer(s.lockTimeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case r.lock <- struct{}{}:
		return r, nil
	case <-ctx.Done():
		return nil, domain.NewConcurrentModification(domain.MsgLockTimeout, ctx.Err())
	case <-expired:
		return nil, domain.NewConcurrentModification(domain.MsgLockTimeout, nil)
	}
}

type tx struct {
	store    *Store
	held     map[int64]*row
	pending  map[int64]domain.Account
	appended []domain.Transfer
	closed   bool
}

func (t *tx) Accounts() repo_interfaces.AccountTxRepository {
	return accountTx{t}
}

func (t *tx) Transfers() repo_interfaces.TransferTxRepository {
	return transferTx{t}
}

func (t *tx) Commit() error {
	if t.closed {
		return ErrTxClosed
	}

	s := t.store
	s.mu.Lock()
	now := s.now()
	for id, acc := range t.pending {
		r := t.held[id]
		acc.UpdatedAt = now
		r.account = acc
	}
	s.transfers = append(s.transfers, t.appended...)
	s.mu.Unlock()

	t.release()
	return nil
}

func (t *tx) Rollback() error {
	if t.closed {
		return nil
	}
	t.release()
	return nil
}

func (t *tx) release() {
	for id, r := range t.held {
		<-r.lock
		delete(t.held, id)
	}
	t.closed = true
}

// view is the account as this transaction sees it: its own pending write, else the committed row.
func (t *tx) view(id int64) domain.Account {
	if acc, ok := t.pending[id]; ok {
		return acc
	}
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	return t.held[id].account
}

type accountTx struct {
	t *tx
}

func (a accountTx) LockAndFetch(ctx context.Context, id int64) (domain.Account, error) {
	t := a.t
	if t.closed {
		return domain.Account{}, ErrTxClosed
	}

	if _, ok := t.held[id]; !ok {
		r, err := t.store.lockRow(ctx, id)
		if err != nil {
			return domain.Account{}, err
		}
		t.held[id] = r
	}

	acc := t.view(id)
	if !acc.Active {
		return domain.Account{}, domain.NewAccountNotFound()
	}
	return acc, nil
}

func (a accountTx) Persist(_ context.Context, account domain.Account) error {
	t := a.t
	if t.closed {
		return ErrTxClosed
	}
	if _, ok := t.held[account.ID]; !ok {
		return domain.NewConcurrentModification("", errors.New("memory: persist without row lock"))
	}

	current := t.view(account.ID)
	if !current.Active || current.Version != account.Version {
		return domain.NewConcurrentModification("", nil)
	}

	current.Balance = account.Balance
	current.Version++
	t.pending[account.ID] = current
	return nil
}

type transferTx struct {
	t *tx
}

func (x transferTx) Append(_ context.Context, transfer domain.Transfer) (domain.Transfer, error) {
	t := x.t
	if t.closed {
		return domain.Transfer{}, ErrTxClosed
	}

	s := t.store
	s.mu.Lock()
	s.nextTransferID++
	transfer.ID = s.nextTransferID
	s.mu.Unlock()

	t.appended = append(t.appended, transfer)
	return transfer, nil
}
