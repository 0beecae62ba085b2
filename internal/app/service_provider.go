package app

import (
	"context"
	"net/http"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	authAPI "github.com/gudubets/gudubet-sub002/internal/api/auth"
	gameAPI "github.com/gudubets/gudubet-sub002/internal/api/game"
	healthAPI "github.com/gudubets/gudubet-sub002/internal/api/health"
	slotAPI "github.com/gudubets/gudubet-sub002/internal/api/slot"
	walletAPI "github.com/gudubets/gudubet-sub002/internal/api/wallet"
	"github.com/gudubets/gudubet-sub002/internal/config"
	"github.com/gudubets/gudubet-sub002/internal/config/env"
	"github.com/gudubets/gudubet-sub002/internal/db"
	"github.com/gudubets/gudubet-sub002/internal/engine"
	"github.com/gudubets/gudubet-sub002/internal/jobs"
	"github.com/gudubets/gudubet-sub002/internal/middleware"
	"github.com/gudubets/gudubet-sub002/internal/monitor"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"github.com/gudubets/gudubet-sub002/internal/repository/auth_repo"
	"github.com/gudubets/gudubet-sub002/internal/repository/event_repo"
	"github.com/gudubets/gudubet-sub002/internal/repository/game_repo"
	"github.com/gudubets/gudubet-sub002/internal/repository/idem_repo"
	"github.com/gudubets/gudubet-sub002/internal/repository/ledger_repo"
	"github.com/gudubets/gudubet-sub002/internal/repository/reconciliation_repo"
	"github.com/gudubets/gudubet-sub002/internal/repository/rtp_stats_repo"
	"github.com/gudubets/gudubet-sub002/internal/repository/session_repo"
	"github.com/gudubets/gudubet-sub002/internal/repository/spin_repo"
	"github.com/gudubets/gudubet-sub002/internal/repository/user_repo"
	"github.com/gudubets/gudubet-sub002/internal/service"
	"github.com/gudubets/gudubet-sub002/internal/service/auth"
	"github.com/gudubets/gudubet-sub002/internal/service/game"
	"github.com/gudubets/gudubet-sub002/internal/service/spin"
	"github.com/gudubets/gudubet-sub002/internal/service/wallet"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type ServiceProvider struct {
	//TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Redis, nil если выключен
	redisConfig config.RedisConfig
	redisClient *redis.Client
	idemRepo    repository.IdempotencyRepository

	// Auth bits
	jwtConfig config.JWTConfig
	authRepo  repository.AuthRepository
	authServ  service.AuthService
	authHand  *authAPI.Handler

	// User bits
	userRepo   repository.UserRepository
	ledgerRepo repository.LedgerRepository
	walletCfg  config.WalletConfig
	walletServ service.WalletService
	walletHand *walletAPI.Handler

	// Game bits
	gameRepo  repository.GameRepository
	statsRepo repository.RTPStatsRepository
	gameServ  service.GameService
	gameHand  *gameAPI.Handler

	// Spin bits
	spinCfg     config.SpinConfig
	sessionRepo repository.GameSessionRepository
	spinRepo    repository.SpinRepository
	recRepo     repository.ReconciliationRepository
	spinServ    service.SpinService
	spinHand    *slotAPI.Handler

	// Analytics and background jobs
	monitorCfg    config.MonitorConfig
	eventRepo     repository.EventRepository
	monitorClient *monitor.Client
	jobsCfg       config.JobsConfig
	scheduler     *jobs.Scheduler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := db.NewPool(ctx, sp.PgConfig())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}

		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) RedisConfig() config.RedisConfig {
	if sp.redisConfig == nil {
		cfg, err := env.NewRedisConfig()
		if err != nil {
			panic("failed to get redis config: " + err.Error())
		}
		sp.redisConfig = cfg
	}
	return sp.redisConfig
}

// RedisClient - nil, если REDIS_ADDR не задан
func (sp *ServiceProvider) RedisClient(ctx context.Context) *redis.Client {
	if sp.redisClient == nil && sp.RedisConfig().Enabled() {
		cfg := sp.RedisConfig()
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Addr(),
			Password: cfg.Password(),
			DB:       cfg.DB(),
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			panic("failed to ping redis: " + err.Error())
		}
		sp.redisClient = rdb
	}
	return sp.redisClient
}

func (sp *ServiceProvider) IdempotencyRepository(ctx context.Context) repository.IdempotencyRepository {
	if sp.idemRepo == nil {
		rdb := sp.RedisClient(ctx)
		if rdb == nil {
			return nil
		}
		sp.idemRepo = idem_repo.NewIdempotencyRepository(rdb)
	}
	return sp.idemRepo
}

func (sp *ServiceProvider) JWTConfig() config.JWTConfig {
	if sp.jwtConfig == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtConfig = cfg
	}
	return sp.jwtConfig
}

func (sp *ServiceProvider) AuthRepo(ctx context.Context) repository.AuthRepository {
	if sp.authRepo == nil {
		sp.authRepo = auth_repo.NewAuthRepository(sp.DBClient(ctx))
	}
	return sp.authRepo
}

func (sp *ServiceProvider) AuthService(ctx context.Context) service.AuthService {
	if sp.authServ == nil {
		sp.authServ = auth.NewAuthService(sp.TXManager(ctx), sp.UserRepo(ctx), sp.AuthRepo(ctx), sp.JWTConfig())
	}
	return sp.authServ
}

func (sp *ServiceProvider) AuthHandler(ctx context.Context) *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{Serv: sp.AuthService(ctx)})
	}
	return sp.authHand
}

func (sp *ServiceProvider) UserRepo(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		sp.userRepo = user_repo.NewUserRepository(sp.DBClient(ctx))
	}
	return sp.userRepo
}

func (sp *ServiceProvider) LedgerRepository(ctx context.Context) repository.LedgerRepository {
	if sp.ledgerRepo == nil {
		sp.ledgerRepo = ledger_repo.NewLedgerRepository(sp.DBClient(ctx))
	}
	return sp.ledgerRepo
}

func (sp *ServiceProvider) WalletCfg() config.WalletConfig {
	if sp.walletCfg == nil {
		cfg, err := env.NewWalletConfig()
		if err != nil {
			panic("failed to get wallet config: " + err.Error())
		}
		sp.walletCfg = cfg
	}
	return sp.walletCfg
}

func (sp *ServiceProvider) WalletService(ctx context.Context) service.WalletService {
	if sp.walletServ == nil {
		sp.walletServ = wallet.NewWalletService(
			sp.TXManager(ctx),
			sp.UserRepo(ctx),
			sp.LedgerRepository(ctx),
			sp.MonitorClient(ctx),
			sp.WalletCfg(),
		)
	}
	return sp.walletServ
}

func (sp *ServiceProvider) WalletHandler(ctx context.Context) *walletAPI.Handler {
	if sp.walletHand == nil {
		sp.walletHand = walletAPI.NewHandler(walletAPI.HandlerDeps{Serv: sp.WalletService(ctx)})
	}
	return sp.walletHand
}

func (sp *ServiceProvider) GameRepository(ctx context.Context) repository.GameRepository {
	if sp.gameRepo == nil {
		sp.gameRepo = game_repo.NewGameRepository(sp.DBClient(ctx))
	}
	return sp.gameRepo
}

func (sp *ServiceProvider) RTPStatsRepository() repository.RTPStatsRepository {
	if sp.statsRepo == nil {
		sp.statsRepo = rtp_stats_repo.NewRTPStatsRepository()
	}
	return sp.statsRepo
}

func (sp *ServiceProvider) GameService(ctx context.Context) service.GameService {
	if sp.gameServ == nil {
		sp.gameServ = game.NewGameService(sp.GameRepository(ctx), sp.RTPStatsRepository())
	}
	return sp.gameServ
}

func (sp *ServiceProvider) GameHandler(ctx context.Context) *gameAPI.Handler {
	if sp.gameHand == nil {
		sp.gameHand = gameAPI.NewHandler(gameAPI.HandlerDeps{Serv: sp.GameService(ctx)})
	}
	return sp.gameHand
}

func (sp *ServiceProvider) SpinCfg() config.SpinConfig {
	if sp.spinCfg == nil {
		cfg, err := env.NewSpinConfig()
		if err != nil {
			panic("failed to get spin config: " + err.Error())
		}
		sp.spinCfg = cfg
	}
	return sp.spinCfg
}

func (sp *ServiceProvider) GameSessionRepository(ctx context.Context) repository.GameSessionRepository {
	if sp.sessionRepo == nil {
		sp.sessionRepo = session_repo.NewGameSessionRepository(sp.DBClient(ctx))
	}
	return sp.sessionRepo
}

func (sp *ServiceProvider) SpinRepository(ctx context.Context) repository.SpinRepository {
	if sp.spinRepo == nil {
		sp.spinRepo = spin_repo.NewSpinRepository(sp.DBClient(ctx))
	}
	return sp.spinRepo
}

func (sp *ServiceProvider) ReconciliationRepository(ctx context.Context) repository.ReconciliationRepository {
	if sp.recRepo == nil {
		sp.recRepo = reconciliation_repo.NewReconciliationRepository(sp.DBClient(ctx))
	}
	return sp.recRepo
}

func (sp *ServiceProvider) SpinService(ctx context.Context) service.SpinService {
	if sp.spinServ == nil {
		sp.spinServ = spin.NewSpinService(spin.Deps{
			TxManager:       sp.TXManager(ctx),
			Users:           sp.UserRepo(ctx),
			Games:           sp.GameRepository(ctx),
			Sessions:        sp.GameSessionRepository(ctx),
			Spins:           sp.SpinRepository(ctx),
			Ledger:          sp.LedgerRepository(ctx),
			Reconciliations: sp.ReconciliationRepository(ctx),
			Idempotency:     sp.IdempotencyRepository(ctx),
			Stats:           sp.RTPStatsRepository(),
			Events:          sp.MonitorClient(ctx),
			Engine:          engine.New(engine.NewCryptoSource()),
			Config:          sp.SpinCfg(),
		})
	}
	return sp.spinServ
}

func (sp *ServiceProvider) SpinHandler(ctx context.Context) *slotAPI.Handler {
	if sp.spinHand == nil {
		sp.spinHand = slotAPI.NewHandler(slotAPI.HandlerDeps{Serv: sp.SpinService(ctx)})
	}
	return sp.spinHand
}

func (sp *ServiceProvider) MonitorCfg() config.MonitorConfig {
	if sp.monitorCfg == nil {
		cfg, err := env.NewMonitorConfig()
		if err != nil {
			panic("failed to get monitor config: " + err.Error())
		}
		sp.monitorCfg = cfg
	}
	return sp.monitorCfg
}

func (sp *ServiceProvider) EventRepository(ctx context.Context) repository.EventRepository {
	if sp.eventRepo == nil {
		sp.eventRepo = event_repo.NewEventRepository(sp.DBClient(ctx))
	}
	return sp.eventRepo
}

func (sp *ServiceProvider) MonitorClient(ctx context.Context) *monitor.Client {
	if sp.monitorClient == nil {
		cfg := sp.MonitorCfg()
		sp.monitorClient = monitor.NewClient(sp.EventRepository(ctx), monitor.Options{
			QueueSize:     cfg.QueueSize(),
			BatchSize:     cfg.BatchSize(),
			FlushInterval: cfg.FlushInterval(),
		})
	}
	return sp.monitorClient
}

func (sp *ServiceProvider) JobsCfg() config.JobsConfig {
	if sp.jobsCfg == nil {
		cfg, err := env.NewJobsConfig()
		if err != nil {
			panic("failed to get jobs config: " + err.Error())
		}
		sp.jobsCfg = cfg
	}
	return sp.jobsCfg
}

func (sp *ServiceProvider) Scheduler(ctx context.Context) *jobs.Scheduler {
	if sp.scheduler == nil {
		sp.scheduler = jobs.NewScheduler(
			sp.JobsCfg(),
			jobs.NewReconciler(sp.ReconciliationRepository(ctx), sp.SpinRepository(ctx), sp.JobsCfg().ReconcileGrace()),
			jobs.NewPruner(sp.EventRepository(ctx), sp.MonitorCfg().Retention()),
		)
	}
	return sp.scheduler
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) healthChecks(ctx context.Context) map[string]healthAPI.Pinger {
	checks := map[string]healthAPI.Pinger{"postgres": sp.DBClient(ctx)}
	if rdb := sp.RedisClient(ctx); rdb != nil {
		checks["redis"] = healthAPI.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	return checks
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(chimw.RequestID)
		r.Use(chimw.RealIP)
		r.Use(middleware.RequestLogger)
		r.Use(chimw.Recoverer)
		r.Use(chimw.Timeout(sp.HTTPCfg().RequestTimeout()))

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   sp.HTTPCfg().AllowedOrigins(),
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link", "X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		r.Get("/healthz", healthAPI.NewHandler(healthAPI.HandlerDeps{Checks: sp.healthChecks(ctx)}).Health)
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())

		// Auth endpoints
		authHandler := sp.AuthHandler(ctx)
		r.Route("/auth", func(rr chi.Router) {
			rr.Post("/register", authHandler.Register)
			rr.Post("/login", authHandler.Login)
			rr.Post("/refresh", authHandler.Refresh)
			rr.Post("/logout", authHandler.Logout)
		})

		// Game catalog
		gameHandler := sp.GameHandler(ctx)
		r.Get("/games", gameHandler.List)
		r.Get("/games/{slug}/rtp", gameHandler.RTP)

		requireAuth := middleware.Auth(sp.JWTConfig().AccessTokenSecretKey())

		// Slot endpoints
		spinHandler := sp.SpinHandler(ctx)
		r.Route("/slots", func(rr chi.Router) {
			rr.Use(requireAuth)
			rr.Post("/spin", spinHandler.Spin)
			rr.Get("/history", spinHandler.History)
			rr.Get("/sessions/{id}", spinHandler.Session)
		})

		// Wallet endpoints
		walletHandler := sp.WalletHandler(ctx)
		r.Route("/wallet", func(rr chi.Router) {
			rr.Use(requireAuth)
			rr.Get("/", walletHandler.Balance)
			rr.Post("/deposit", walletHandler.Deposit)
			rr.Post("/withdraw", walletHandler.Withdraw)
			rr.Post("/bonus/welcome", walletHandler.WelcomeBonus)
			rr.Get("/transactions", walletHandler.Transactions)
		})

		sp.router = r
	}

	return sp.router
}
