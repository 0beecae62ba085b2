package jobs

import (
	"context"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/logger"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"go.uber.org/zap"
)

// Pruner удаляет аналитические события старше retention
type Pruner struct {
	events    repository.EventRepository
	retention time.Duration
	now       func() time.Time
}

func NewPruner(events repository.EventRepository, retention time.Duration) *Pruner {
	return &Pruner{events: events, retention: retention, now: time.Now}
}

func (p *Pruner) Run(ctx context.Context) (int64, error) {
	before := p.now().Add(-p.retention)
	n, err := p.events.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, err
	}
	logger.Info("analytics events pruned", zap.Int64("deleted", n), zap.Time("before", before))
	return n, nil
}
