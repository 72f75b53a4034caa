package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vkdrn/bank-rest-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/vkdrn/bank-rest-api/src/internal/domain"
	"github.com/vkdrn/bank-rest-api/src/internal/logger"
)

const (
	msgEmailRequired    = "Email is required"
	msgNegativeBalance  = "Balance must not be negative"
	msgBalancePrecision = "Balance exceeds supported precision"
)

type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
	log         *logger.Logger
}

func NewAccountService(accountRepo repo_interfaces.AccountRepository, log *logger.Logger) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		log:         log.Named("account_service"),
	}
}

func (s *AccountService) GetAll(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.FindAll(ctx)
	if err != nil {
		s.log.Error(ctx, "account service list accounts failed", err, nil)
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *AccountService) GetByID(ctx context.Context, idParam string) (domain.Account, error) {
	id, err := parseID(idParam)
	if err != nil {
		return domain.Account{}, err
	}

	account, err := s.accountRepo.FindActiveByID(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("get account %d: %w", id, err)
	}
	return account, nil
}

// Create opens a new active account. Any id on the input is ignored.
func (s *AccountService) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	s.log.Info(ctx, "account service create account request", logger.Fields{
		"email":   account.Email,
		"balance": account.Balance.String(),
	})

	account.ID = 0
	account.Email = strings.TrimSpace(account.Email)
	if err := validateAccount(account); err != nil {
		return domain.Account{}, err
	}

	created, err := s.accountRepo.Create(ctx, account)
	if err != nil {
		s.log.Error(ctx, "account service create account failed", err, nil)
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	s.log.Info(ctx, "account service create account success", logger.Fields{"accountId": created.ID})
	return created, nil
}

// Update replaces email and balance of the account named by idParam. idParam wins over account.ID.
func (s *AccountService) Update(ctx context.Context, idParam string, account domain.Account) (domain.Account, error) {
	id, err := parseID(idParam)
	if err != nil {
		return domain.Account{}, err
	}
	if account.ID != 0 && account.ID != id {
		s.log.Warn(ctx, "account service update id mismatch, using path id", logger.Fields{
			"pathId": id,
			"bodyId": account.ID,
		})
	}

	account.ID = id
	account.Email = strings.TrimSpace(account.Email)
	if err := validateAccount(account); err != nil {
		return domain.Account{}, err
	}

	updated, err := s.accountRepo.Update(ctx, account)
	if err != nil {
		return domain.Account{}, fmt.Errorf("update account %d: %w", id, err)
	}

	s.log.Info(ctx, "account service update account success", logger.Fields{
		"accountId": updated.ID,
		"version":   updated.Version,
	})
	return updated, nil
}

// Delete deactivates the account. Its ledger history stays.
func (s *AccountService) Delete(ctx context.Context, idParam string) error {
	id, err := parseID(idParam)
	if err != nil {
		return err
	}

	if err := s.accountRepo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}

	s.log.Info(ctx, "account service delete account success", logger.Fields{"accountId": id})
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, domain.NewMalformedInput(domain.MsgInvalidID, err)
	}
	return id, nil
}

func validateAccount(account domain.Account) error {
	if account.Email == "" {
		return domain.NewMalformedInput(msgEmailRequired, nil)
	}
	if account.Balance.IsNegative() {
		return domain.NewMalformedInput(msgNegativeBalance, nil)
	}
	if !domain.WithinPrecision(account.Balance) {
		return domain.NewMalformedInput(msgBalancePrecision, nil)
	}
	return nil
}
