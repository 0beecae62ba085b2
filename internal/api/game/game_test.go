package game

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/shopspring/decimal"
)

type stubGames struct{}

func (stubGames) List(context.Context) ([]model.GameConfig, error) {
	return []model.GameConfig{{
		Slug:   "sevens",
		Name:   "Sevens",
		Reels:  3,
		Rows:   1,
		MinBet: decimal.NewFromInt(1),
		MaxBet: decimal.NewFromInt(100),
		RTP:    decimal.RequireFromString("96.5"),
		Active: true,
	}}, nil
}

func (stubGames) RTP(_ context.Context, slug string) (model.RTPSnapshot, error) {
	if slug != "sevens" {
		return model.RTPSnapshot{}, apperr.ErrGameNotFound
	}
	return model.RTPSnapshot{GameSlug: slug, TargetRTP: 96.5, TotalSpins: 10, CurrentRTP: 90}, nil
}

func (stubGames) Seed(context.Context, []model.GameConfig) error { return nil }

func TestGameRoutes(t *testing.T) {
	h := NewHandler(HandlerDeps{Serv: stubGames{}})
	r := chi.NewRouter()
	r.Get("/games", h.List)
	r.Get("/games/{slug}/rtp", h.RTP)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/games", http.StatusOK, `"rtp":96.5`},
		{"/games/sevens/rtp", http.StatusOK, `"targetRtp":96.5`},
		{"/games/unknown/rtp", http.StatusNotFound, `"error"`},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if w.Code != tt.status || !strings.Contains(w.Body.String(), tt.body) {
			t.Fatalf("%s: %d %s", tt.path, w.Code, w.Body)
		}
	}
}
