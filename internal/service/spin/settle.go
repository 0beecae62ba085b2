package spin

import (
	"context"
	"errors"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/logger"
	"github.com/gudubets/gudubet-sub002/internal/metrics"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/settlement"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	conflictBackoff      = 15 * time.Millisecond
	reconcileTimeout     = 3 * time.Second
	reasonOutcomeUnknown = "outcome_unknown"
	reasonPersistence    = "persistence_failed"
)

// settle повторяет транзакцию только при конфликте версии кошелька
func (s *serv) settle(ctx context.Context, req model.SpinRequest, spinID string, outcome model.SpinOutcome) (*model.SpinResponse, error) {
	var resp *model.SpinResponse

	backoff := retry.WithMaxRetries(s.cfg.SettleRetries(), retry.NewConstant(conflictBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := s.settleOnce(ctx, req, spinID, outcome)
		if errors.Is(err, apperr.ErrBalanceConflict) {
			logger.DebugCtx(ctx, "wallet version conflict, retrying", zap.String("spinId", spinID))
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// settleOnce - сессия, кошелёк, запись спина, журнал и агрегаты в одной транзакции
func (s *serv) settleOnce(ctx context.Context, req model.SpinRequest, spinID string, outcome model.SpinOutcome) (*model.SpinResponse, error) {
	var resp *model.SpinResponse

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Сессия
		session, err := s.resolveSession(ctx, req)
		if err != nil {
			return err
		}

		// 2. Кошелёк с версией
		wallet, err := s.users.GetWallet(ctx, req.UserID)
		if err != nil {
			return err
		}

		// 3. Чистый расчёт нового баланса
		res, err := settlement.Settle(wallet.BalanceState, req.BetAmount, outcome, spinID)
		if err != nil {
			return err
		}

		// 4. Условная запись баланса
		if _, err = s.users.CompareAndSetWallet(ctx, req.UserID, wallet.Version, res.After); err != nil {
			return err
		}

		// 5. Запись о спине
		record := &model.SpinRecord{
			ID:             spinID,
			UserID:         req.UserID,
			GameSlug:       req.GameSlug,
			SessionID:      session.ID,
			IdempotencyKey: req.IdempotencyKey,
			BetAmount:      req.BetAmount,
			WinAmount:      outcome.WinAmount,
			Reels:          outcome.Reels,
			WinningLines:   outcome.WinningLines,
			Multiplier:     outcome.Multiplier,
			BalanceBefore:  res.Before,
			BalanceAfter:   res.After,
		}
		if err = s.spins.Create(ctx, record); err != nil {
			return err
		}

		// 6. Журнал кошелька
		if err = s.ledger.Append(ctx, req.UserID, res.Entries); err != nil {
			return err
		}

		// 7. Агрегаты сессии
		if _, err = s.sessions.Increment(ctx, session.ID, res.Delta); err != nil {
			return err
		}

		resp = &model.SpinResponse{
			SpinID:     spinID,
			SessionID:  session.ID,
			Result:     outcome,
			NewBalance: res.After,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// resolveSession - переданная сессия должна принадлежать пользователю и игре,
// без sessionId создаётся новая
func (s *serv) resolveSession(ctx context.Context, req model.SpinRequest) (*model.GameSession, error) {
	if req.SessionID == "" {
		session := &model.GameSession{UserID: req.UserID, GameSlug: req.GameSlug}
		if err := s.sessions.Create(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	if _, err := uuid.Parse(req.SessionID); err != nil {
		return nil, apperr.ErrSessionNotFound
	}
	session, err := s.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != req.UserID || session.GameSlug != req.GameSlug {
		return nil, apperr.ErrSessionNotFound
	}
	return session, nil
}

// fail классифицирует ошибку записи уже разыгранного спина.
// Исход сохраняется для сверки, кроме исчерпанных конфликтов версии
func (s *serv) fail(ctx context.Context, req model.SpinRequest, spinID string, outcome model.SpinOutcome, err error) error {
	if errors.Is(err, apperr.ErrBalanceConflict) {
		logger.ErrorCtx(ctx, "wallet conflict retries exhausted", zap.String("spinId", spinID), zap.Error(err))
		return apperr.ErrPersistence
	}

	reason, public := reasonPersistence, apperr.ErrPersistence
	if outcomeUnknown(err) {
		reason, public = reasonOutcomeUnknown, apperr.ErrOutcomeUnknown
	}

	logger.ErrorCtx(ctx, "spin settlement failed",
		zap.String("spinId", spinID),
		zap.String("userId", req.UserID),
		zap.String("idempotencyKey", req.IdempotencyKey),
		zap.String("reason", reason),
		zap.Error(err),
	)

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reconcileTimeout)
	defer cancel()

	rec := &model.Reconciliation{
		UserID:         req.UserID,
		IdempotencyKey: req.IdempotencyKey,
		GameSlug:       req.GameSlug,
		SpinID:         spinID,
		BetAmount:      req.BetAmount,
		Outcome:        outcome,
		Reason:         reason,
	}
	if rerr := s.recs.Create(rctx, rec); rerr != nil {
		logger.ErrorCtx(ctx, "failed to flag spin for reconciliation", zap.String("spinId", spinID), zap.Error(rerr))
	} else {
		metrics.RecordReconciliation(reason)
	}

	return public
}

// outcomeUnknown - транзакция могла закоммититься, а могла и нет
func outcomeUnknown(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, trm.ErrCommit) ||
		pgconn.Timeout(err)
}
