package game

import (
	"context"
	"fmt"

	"github.com/gudubets/gudubet-sub002/internal/logger"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository"
	"github.com/gudubets/gudubet-sub002/internal/service"
	"go.uber.org/zap"
)

type serv struct {
	games repository.GameRepository
	stats repository.RTPStatsRepository
}

func NewGameService(games repository.GameRepository, stats repository.RTPStatsRepository) service.GameService {
	return &serv{games: games, stats: stats}
}

func (s *serv) List(ctx context.Context) ([]model.GameConfig, error) {
	return s.games.List(ctx)
}

// RTP - наблюдаемый RTP игры. До первого спина счётчики нулевые
func (s *serv) RTP(ctx context.Context, slug string) (model.RTPSnapshot, error) {
	game, err := s.games.GetBySlug(ctx, slug)
	if err != nil {
		return model.RTPSnapshot{}, err
	}

	snap, _ := s.stats.Snapshot(slug)
	snap.GameSlug = slug
	snap.TargetRTP = game.RTP.InexactFloat64()
	return snap, nil
}

// Seed - загружает каталог игр в БД
func (s *serv) Seed(ctx context.Context, games []model.GameConfig) error {
	for _, g := range games {
		if err := g.Validate(); err != nil {
			return err
		}
		if err := s.games.Upsert(ctx, g); err != nil {
			return fmt.Errorf("upsert game %s: %w", g.Slug, err)
		}
	}
	logger.Info("game catalog seeded", zap.Int("games", len(games)))
	return nil
}
