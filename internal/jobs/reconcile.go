package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/logger"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"go.uber.org/zap"
)

const reconcileBatch = 100

// Reconciler разбирает спины с неизвестным исходом.
// Если запись спина есть, транзакция закоммичена и ответ просто потерялся.
// Если записи нет дольше grace, транзакция откатилась и деньги не двигались
type Reconciler struct {
	recs  repository.ReconciliationRepository
	spins repository.SpinRepository
	grace time.Duration
	now   func() time.Time
}

func NewReconciler(recs repository.ReconciliationRepository, spins repository.SpinRepository, grace time.Duration) *Reconciler {
	return &Reconciler{recs: recs, spins: spins, grace: grace, now: time.Now}
}

// ReconcileStats - итоги одного прохода
type ReconcileStats struct {
	Committed int
	Voided    int
	Pending   int
}

func (r *Reconciler) Run(ctx context.Context) (ReconcileStats, error) {
	var stats ReconcileStats

	rows, err := r.recs.ListPending(ctx, reconcileBatch)
	if err != nil {
		return stats, err
	}

	for _, row := range rows {
		status, err := r.decide(ctx, row)
		if err != nil {
			logger.Error("reconciliation check failed",
				zap.Int64("reconciliation_id", row.ID),
				zap.String("user_id", row.UserID),
				zap.Error(err))
			stats.Pending++
			continue
		}
		if status == model.ReconciliationPending {
			stats.Pending++
			continue
		}

		if err := r.recs.Resolve(ctx, row.ID, status); err != nil {
			logger.Error("failed to resolve reconciliation", zap.Int64("reconciliation_id", row.ID), zap.Error(err))
			stats.Pending++
			continue
		}

		logger.Info("spin reconciled",
			zap.Int64("reconciliation_id", row.ID),
			zap.String("user_id", row.UserID),
			zap.String("idempotency_key", row.IdempotencyKey),
			zap.String("game", row.GameSlug),
			zap.String("reason", row.Reason),
			zap.String("status", string(status)))

		if status == model.ReconciliationCommitted {
			stats.Committed++
		} else {
			stats.Voided++
		}
	}

	return stats, nil
}

func (r *Reconciler) decide(ctx context.Context, row model.Reconciliation) (model.ReconciliationStatus, error) {
	_, err := r.spins.GetByIdempotencyKey(ctx, row.UserID, row.IdempotencyKey)
	switch {
	case err == nil:
		return model.ReconciliationCommitted, nil
	case errors.Is(err, apperr.ErrSpinNotFound):
		// Ждём, пока зависшая транзакция точно завершится
		if r.now().Sub(row.CreatedAt) < r.grace {
			return model.ReconciliationPending, nil
		}
		return model.ReconciliationVoided, nil
	default:
		return model.ReconciliationPending, err
	}
}
