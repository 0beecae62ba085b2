package spin

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/gudubets/gudubet-sub002/internal/config"
	"github.com/gudubets/gudubet-sub002/internal/engine"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"github.com/gudubets/gudubet-sub002/internal/service"
)

// Deps - зависимости сервиса спинов.
// Idempotency и Events могут быть nil: Redis и аналитика выключены
type Deps struct {
	TxManager       trm.Manager
	Users           repository.UserRepository
	Games           repository.GameRepository
	Sessions        repository.GameSessionRepository
	Spins           repository.SpinRepository
	Ledger          repository.LedgerRepository
	Reconciliations repository.ReconciliationRepository
	Idempotency     repository.IdempotencyRepository
	Stats           repository.RTPStatsRepository
	Events          service.EventTracker
	Engine          *engine.Engine
	Config          config.SpinConfig
}

type serv struct {
	txManager trm.Manager
	users     repository.UserRepository
	games     repository.GameRepository
	sessions  repository.GameSessionRepository
	spins     repository.SpinRepository
	ledger    repository.LedgerRepository
	recs      repository.ReconciliationRepository
	idem      repository.IdempotencyRepository
	stats     repository.RTPStatsRepository
	events    service.EventTracker
	engine    *engine.Engine
	cfg       config.SpinConfig
}

// NewSpinService Создать сервис спинов
func NewSpinService(deps Deps) service.SpinService {
	return &serv{
		txManager: deps.TxManager,
		users:     deps.Users,
		games:     deps.Games,
		sessions:  deps.Sessions,
		spins:     deps.Spins,
		ledger:    deps.Ledger,
		recs:      deps.Reconciliations,
		idem:      deps.Idempotency,
		stats:     deps.Stats,
		events:    deps.Events,
		engine:    deps.Engine,
		cfg:       deps.Config,
	}
}

// withTimeout ограничивает работу с хранилищем, если у запроса нет дедлайна
func (s *serv) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || s.cfg.Timeout() <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.Timeout())
}
