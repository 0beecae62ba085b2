package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/config"
	"github.com/gudubets/gudubet-sub002/internal/logger"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"github.com/gudubets/gudubet-sub002/internal/service"
	"github.com/gudubets/gudubet-sub002/internal/settlement"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	conflictRetries = 3
	conflictBackoff = 15 * time.Millisecond

	maxTransactionsLimit     = 100
	defaultTransactionsLimit = 20
)

// errAlreadyApplied - операция с этой ссылкой уже есть в журнале
var errAlreadyApplied = errors.New("operation already applied")

type serv struct {
	txManager trm.Manager
	users     repository.UserRepository
	ledger    repository.LedgerRepository
	events    service.EventTracker
	cfg       config.WalletConfig
}

func NewWalletService(
	txManager trm.Manager,
	users repository.UserRepository,
	ledger repository.LedgerRepository,
	events service.EventTracker,
	cfg config.WalletConfig,
) service.WalletService {
	return &serv{
		txManager: txManager,
		users:     users,
		ledger:    ledger,
		events:    events,
		cfg:       cfg,
	}
}

func (s *serv) Balance(ctx context.Context, userID string) (*model.Wallet, error) {
	return s.users.GetWallet(ctx, userID)
}

// Deposit - зачисление на реальный баланс. Повтор ключа не зачисляет второй раз
func (s *serv) Deposit(ctx context.Context, userID string, amount decimal.Decimal, idemKey string) (*model.Wallet, error) {
	ref := referenceOrNew(idemKey)
	w, err := s.mutate(ctx, userID, model.LedgerKindDeposit, ref, func(st model.BalanceState) (settlement.Result, error) {
		return settlement.Deposit(st, amount, ref)
	})
	if errors.Is(err, errAlreadyApplied) {
		return s.Balance(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	s.track("deposit", userID, amount)
	return w, nil
}

// Withdraw - вывод только с реального баланса
func (s *serv) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, idemKey string) (*model.Wallet, error) {
	ref := referenceOrNew(idemKey)
	w, err := s.mutate(ctx, userID, model.LedgerKindWithdrawal, ref, func(st model.BalanceState) (settlement.Result, error) {
		return settlement.Withdraw(st, amount, ref)
	})
	if errors.Is(err, errAlreadyApplied) {
		return s.Balance(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	s.track("withdrawal", userID, amount)
	return w, nil
}

// ClaimWelcomeBonus - разовое начисление бонуса
func (s *serv) ClaimWelcomeBonus(ctx context.Context, userID string) (*model.Wallet, error) {
	amount := s.cfg.WelcomeBonus()
	ref := "welcome:" + userID
	w, err := s.mutate(ctx, userID, model.LedgerKindBonusGrant, ref, func(st model.BalanceState) (settlement.Result, error) {
		return settlement.GrantBonus(st, amount, ref)
	})
	if errors.Is(err, errAlreadyApplied) {
		return nil, apperr.ErrBonusAlreadyGranted
	}
	if err != nil {
		return nil, err
	}

	s.track("bonus_granted", userID, amount)
	return w, nil
}

// Transactions - последние проводки журнала
func (s *serv) Transactions(ctx context.Context, userID string, limit int) ([]model.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultTransactionsLimit
	}
	if limit > maxTransactionsLimit {
		limit = maxTransactionsLimit
	}
	return s.ledger.ListByUser(ctx, userID, limit)
}

// mutate - изменение кошелька и запись в журнал в одной транзакции.
// Конфликт версии повторяется, ссылка в журнале делает операцию идемпотентной
func (s *serv) mutate(
	ctx context.Context,
	userID string,
	kind model.LedgerKind,
	reference string,
	apply func(model.BalanceState) (settlement.Result, error),
) (*model.Wallet, error) {
	var out *model.Wallet

	backoff := retry.WithMaxRetries(conflictRetries, retry.NewConstant(conflictBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.txManager.Do(ctx, func(ctx context.Context) error {
			exists, err := s.ledger.ExistsReference(ctx, userID, kind, reference)
			if err != nil {
				return err
			}
			if exists {
				return errAlreadyApplied
			}

			wallet, err := s.users.GetWallet(ctx, userID)
			if err != nil {
				return err
			}

			res, err := apply(wallet.BalanceState)
			if err != nil {
				return err
			}

			version, err := s.users.CompareAndSetWallet(ctx, userID, wallet.Version, res.After)
			if err != nil {
				return err
			}

			if err = s.ledger.Append(ctx, userID, res.Entries); err != nil {
				if errors.Is(err, apperr.ErrDuplicateSpin) {
					return errAlreadyApplied
				}
				return err
			}

			out = &model.Wallet{UserID: userID, BalanceState: res.After, Version: version}
			return nil
		})
		if errors.Is(err, apperr.ErrBalanceConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, apperr.ErrBalanceConflict) {
			logger.ErrorCtx(ctx, "wallet conflict retries exhausted",
				zap.String("userId", userID), zap.String("kind", string(kind)))
		}
		return nil, err
	}

	logger.InfoCtx(ctx, "wallet updated",
		zap.String("userId", userID),
		zap.String("kind", string(kind)),
		zap.String("reference", reference),
	)
	return out, nil
}

func (s *serv) track(name, userID string, amount decimal.Decimal) {
	if s.events == nil {
		return
	}
	s.events.Track(model.Event{
		Name:    name,
		UserID:  userID,
		Payload: map[string]any{"amount": amount.String()},
	})
}

func referenceOrNew(idemKey string) string {
	if idemKey == "" {
		return uuid.NewString()
	}
	return idemKey
}
