package spin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/logger"
	"github.com/gudubets/gudubet-sub002/internal/metrics"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	resultSuccess  = "success"
	resultReplay   = "replay"
	resultRejected = "rejected"
	resultFail     = "fail"

	eventSpinSettled = "spin_settled"
)

// Spin - один платный спин: проверка, розыгрыш, атомарный расчёт.
// Повтор с тем же ключом идемпотентности возвращает сохранённый ответ
func (s *serv) Spin(ctx context.Context, req model.SpinRequest) (*model.SpinResponse, error) {
	started := time.Now()
	result := resultFail
	defer func() { metrics.RecordSpin(result, req.GameSlug, started) }()

	// Без ключа повтор невозможно распознать
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	}

	// Быстрый путь через Redis
	if s.idem != nil {
		if cached, err := s.cachedResponse(ctx, req); err != nil || cached != nil {
			return s.replayed(&result, cached, err)
		}

		token, locked, err := s.idem.Lock(ctx, req.UserID, req.IdempotencyKey, s.cfg.IdemLockTTL())
		switch {
		case err != nil:
			// Redis недоступен: надёжность держится на уникальном ключе в БД
			logger.WarnCtx(ctx, "idempotency lock unavailable", zap.Error(err))
		case !locked:
			if cached, err := s.cachedResponse(ctx, req); err != nil || cached != nil {
				return s.replayed(&result, cached, err)
			}
			result = resultRejected
			return nil, apperr.ErrDuplicateInFlight
		default:
			defer s.unlock(ctx, req, token)
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// 1. Игра и ставка, без побочных эффектов
	game, err := s.games.GetBySlug(ctx, req.GameSlug)
	if err != nil {
		if errors.Is(err, apperr.ErrGameNotFound) {
			result = resultRejected
		}
		return nil, err
	}
	if !game.Active {
		result = resultRejected
		return nil, apperr.ErrGameNotFound
	}
	if !req.BetAmount.IsPositive() || !game.BetAllowed(req.BetAmount) {
		result = resultRejected
		return nil, fmt.Errorf("%w: bet must be within [%s, %s] with at most %d decimal places", apperr.ErrInvalidBet, game.MinBet, game.MaxBet, model.MoneyPlaces)
	}

	// 2. Спин с этим ключом уже записан
	if rec, err := s.spins.GetByIdempotencyKey(ctx, req.UserID, req.IdempotencyKey); err == nil {
		resp, err := replayRecord(req, rec)
		return s.replayed(&result, resp, err)
	} else if !errors.Is(err, apperr.ErrSpinNotFound) {
		return nil, err
	}

	// 3. Предварительная проверка баланса
	wallet, err := s.users.GetWallet(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			result = resultRejected
		}
		return nil, err
	}
	if wallet.Total().LessThan(req.BetAmount) {
		result = resultRejected
		return nil, apperr.ErrInsufficientBalance
	}

	// 4. Исход считается ровно один раз и не пересчитывается при повторах записи
	outcome := s.engine.Spin(*game, req.BetAmount)
	spinID := uuid.NewString()

	// 5. Атомарная запись
	resp, err := s.settle(ctx, req, spinID, outcome)
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicateSpin) {
			// Параллельный запрос с тем же ключом успел записать свой спин
			if rec, gerr := s.spins.GetByIdempotencyKey(ctx, req.UserID, req.IdempotencyKey); gerr == nil {
				replay, rerr := replayRecord(req, rec)
				return s.replayed(&result, replay, rerr)
			}
		}
		if apperr.IsDomain(err) {
			result = resultRejected
			return nil, err
		}
		return nil, s.fail(ctx, req, spinID, outcome, err)
	}

	result = resultSuccess
	s.afterCommit(ctx, req, game, resp)
	return resp, nil
}

// afterCommit - статистика, метрики, аналитика и кэш ответа.
// Ошибки здесь не влияют на результат спина
func (s *serv) afterCommit(ctx context.Context, req model.SpinRequest, game *model.GameConfig, resp *model.SpinResponse) {
	win := resp.Result.WinAmount

	snap := s.stats.Record(game.Slug, game.RTP, req.BetAmount, win)
	metrics.AddWager(game.Slug, req.BetAmount, win)

	if s.events != nil {
		s.events.Track(model.Event{
			Name:   eventSpinSettled,
			UserID: req.UserID,
			Payload: map[string]any{
				"spinId":    resp.SpinID,
				"sessionId": resp.SessionID,
				"game":      game.Slug,
				"bet":       req.BetAmount.String(),
				"win":       win.String(),
			},
		})
	}

	if s.idem != nil {
		cached := cachedSpin{GameSlug: req.GameSlug, BetAmount: req.BetAmount, Response: *resp}
		if data, err := json.Marshal(cached); err == nil {
			if err := s.idem.SaveResult(context.WithoutCancel(ctx), req.UserID, req.IdempotencyKey, data, s.cfg.IdemResultTTL()); err != nil {
				logger.WarnCtx(ctx, "failed to cache spin response", zap.Error(err))
			}
		}
	}

	logger.InfoCtx(ctx, "spin settled",
		zap.String("spinId", resp.SpinID),
		zap.String("userId", req.UserID),
		zap.String("game", game.Slug),
		zap.String("bet", req.BetAmount.String()),
		zap.String("win", win.String()),
		zap.Float64("observedRtp", snap.CurrentRTP),
	)
}

// cachedSpin - ответ в кэше вместе с параметрами запроса, под которые он выдан
type cachedSpin struct {
	GameSlug  string             `json:"gameSlug"`
	BetAmount decimal.Decimal    `json:"betAmount"`
	Response  model.SpinResponse `json:"response"`
}

// cachedResponse - nil, nil при промахе кэша
func (s *serv) cachedResponse(ctx context.Context, req model.SpinRequest) (*model.SpinResponse, error) {
	data, ok := s.idem.GetResult(ctx, req.UserID, req.IdempotencyKey)
	if !ok {
		return nil, nil
	}
	var cached cachedSpin
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, nil
	}
	if !sameSpin(req, cached.GameSlug, cached.BetAmount) {
		return nil, apperr.ErrIdempotencyKeyReused
	}
	resp := cached.Response
	resp.Replayed = true
	return &resp, nil
}

// sameSpin - ключ повторён с той же игрой и ставкой
func sameSpin(req model.SpinRequest, gameSlug string, bet decimal.Decimal) bool {
	return req.GameSlug == gameSlug && req.BetAmount.Equal(bet)
}

// replayRecord - сохранённый спин, если ключ не переиспользован для другой ставки
func replayRecord(req model.SpinRequest, rec *model.SpinRecord) (*model.SpinResponse, error) {
	if !sameSpin(req, rec.GameSlug, rec.BetAmount) {
		return nil, apperr.ErrIdempotencyKeyReused
	}
	return replayResponse(rec), nil
}

func (s *serv) replayed(result *string, resp *model.SpinResponse, err error) (*model.SpinResponse, error) {
	if err != nil {
		*result = resultRejected
		return nil, err
	}
	*result = resultReplay
	return resp, nil
}

func (s *serv) unlock(ctx context.Context, req model.SpinRequest, token string) {
	err := s.idem.Unlock(context.WithoutCancel(ctx), req.UserID, req.IdempotencyKey, token)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrLockNotOwned):
		metrics.RecordLockReleaseFailure("lock_mismatch")
		logger.WarnCtx(ctx, "idempotency lock expired before release", zap.String("key", req.IdempotencyKey))
	default:
		metrics.RecordLockReleaseFailure("redis_error")
		logger.WarnCtx(ctx, "failed to release idempotency lock", zap.Error(err))
	}
}

func replayResponse(rec *model.SpinRecord) *model.SpinResponse {
	return &model.SpinResponse{
		SpinID:     rec.ID,
		SessionID:  rec.SessionID,
		Result:     rec.Outcome(),
		NewBalance: rec.BalanceAfter,
		Replayed:   true,
	}
}
