package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/config"
	"github.com/gudubets/gudubet-sub002/internal/config/env"
	"github.com/gudubets/gudubet-sub002/internal/db"
	"github.com/gudubets/gudubet-sub002/internal/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	ServiceProvider *ServiceProvider
}

func NewApp() *App {
	return &App{}
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider()
}

func (s *App) Run() error {
	loadErr := config.Load(".env")
	logger.Init()
	defer logger.Sync()
	if loadErr != nil {
		logger.Warn("error loading .env file", zap.Error(loadErr))
	}
	s.initServiceProvider()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sp := s.ServiceProvider
	if err := db.Migrate(ctx, sp.DBClient(ctx)); err != nil {
		return err
	}
	defer sp.DBClient(ctx).Close()

	if err := s.seedGames(ctx); err != nil {
		return err
	}

	// Аналитика останавливается только через Stop
	monitorClient := sp.MonitorClient(ctx)
	monitorClient.Start(context.WithoutCancel(ctx))

	scheduler := sp.Scheduler(ctx)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              sp.HTTPCfg().Address(),
		Handler:           sp.Router(ctx),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-serveErr:
		logger.Error("http server failed", zap.Error(runErr))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
	scheduler.Stop()
	if err := monitorClient.Stop(shutdownCtx); err != nil {
		logger.Error("analytics flush on shutdown failed", zap.Error(err))
	}
	if rdb := sp.RedisClient(shutdownCtx); rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("server stopped")
	return runErr
}

// seedGames заливает каталог игр из YAML в базу
func (s *App) seedGames(ctx context.Context) error {
	games, err := env.NewGameCatalogFromYAML(s.ServiceProvider.SpinCfg().GamesFile())
	if err != nil {
		return err
	}
	return s.ServiceProvider.GameService(ctx).Seed(ctx, games)
}
