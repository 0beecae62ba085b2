// Package jobs - фоновые задачи по расписанию cron.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/config"
	"github.com/gudubets/gudubet-sub002/internal/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 30 * time.Second

type Scheduler struct {
	cron       *cron.Cron
	cfg        config.JobsConfig
	reconciler *Reconciler
	pruner     *Pruner
}

func NewScheduler(cfg config.JobsConfig, reconciler *Reconciler, pruner *Pruner) *Scheduler {
	l := cronLogger{}
	c := cron.New(
		cron.WithLogger(l),
		cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
	)

	return &Scheduler{
		cron:       c,
		cfg:        cfg,
		reconciler: reconciler,
		pruner:     pruner,
	}
}

// Start регистрирует задачи и запускает планировщик.
// ctx отменяет задачи, которые выполняются в момент остановки
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.ReconcileSchedule(), func() {
		ctx, cancel := context.WithTimeout(ctx, jobTimeout)
		defer cancel()

		stats, err := s.reconciler.Run(ctx)
		if err != nil {
			logger.Error("[CRON] reconciliation failed", zap.Error(err))
			return
		}
		if stats.Committed+stats.Voided > 0 {
			logger.Info("[CRON] reconciliation done",
				zap.Int("committed", stats.Committed),
				zap.Int("voided", stats.Voided),
				zap.Int("pending", stats.Pending))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", s.cfg.ReconcileSchedule(), err)
	}

	_, err = s.cron.AddFunc(s.cfg.PruneSchedule(), func() {
		ctx, cancel := context.WithTimeout(ctx, jobTimeout)
		defer cancel()

		if _, err := s.pruner.Run(ctx); err != nil {
			logger.Error("[CRON] events prune failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", s.cfg.PruneSchedule(), err)
	}

	s.cron.Start()
	logger.Info("job scheduler started",
		zap.String("reconcile", s.cfg.ReconcileSchedule()),
		zap.String("prune", s.cfg.PruneSchedule()))
	return nil
}

// Stop ждёт завершения запущенных задач
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("job scheduler stopped")
}

// cronLogger направляет логи cron в zap
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, zap.Any("details", keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, zap.Error(err), zap.Any("details", keysAndValues))
}
