package game

import (
	"context"
	"errors"
	"testing"

	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/repository/memrepo"
	"github.com/gudubets/gudubet-sub002/internal/repository/rtp_stats_repo"
	"github.com/shopspring/decimal"
)

func classic(slug string, active bool) model.GameConfig {
	return model.GameConfig{
		Slug:     slug,
		Name:     slug,
		Reels:    5,
		Rows:     3,
		Symbols:  []string{"cherry", "lemon"},
		Paytable: model.Paytable{"cherry": {"3": decimal.NewFromInt(2)}},
		MinBet:   decimal.NewFromInt(1),
		MaxBet:   decimal.NewFromInt(100),
		RTP:      decimal.NewFromInt(96),
		Active:   active,
	}
}

func TestSeedAndList(t *testing.T) {
	store := memrepo.New()
	s := NewGameService(store.Games(), rtp_stats_repo.NewRTPStatsRepository())
	ctx := context.Background()

	if err := s.Seed(ctx, []model.GameConfig{classic("b", true), classic("a", true), classic("old", false)}); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	games, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(games) != 2 || games[0].Slug != "a" || games[1].Slug != "b" {
		t.Fatalf("games = %+v", games)
	}
}

func TestSeedRejectsInvalidGame(t *testing.T) {
	store := memrepo.New()
	s := NewGameService(store.Games(), rtp_stats_repo.NewRTPStatsRepository())

	bad := classic("bad", true)
	bad.RTP = decimal.NewFromInt(120)
	if err := s.Seed(context.Background(), []model.GameConfig{bad}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRTP(t *testing.T) {
	store := memrepo.New()
	stats := rtp_stats_repo.NewRTPStatsRepository()
	s := NewGameService(store.Games(), stats)
	ctx := context.Background()
	store.AddGame(classic("a", true))

	snap, err := s.RTP(ctx, "a")
	if err != nil {
		t.Fatalf("RTP: %v", err)
	}
	if snap.TotalSpins != 0 || snap.TargetRTP != 96 {
		t.Fatalf("fresh snapshot = %+v", snap)
	}

	stats.Record("a", decimal.NewFromInt(96), decimal.NewFromInt(10), decimal.NewFromInt(5))
	snap, _ = s.RTP(ctx, "a")
	if snap.TotalSpins != 1 || snap.CurrentRTP != 50 {
		t.Fatalf("snapshot = %+v", snap)
	}

	if _, err := s.RTP(ctx, "missing"); !errors.Is(err, apperr.ErrGameNotFound) {
		t.Fatalf("err = %v", err)
	}
}
