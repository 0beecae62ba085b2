package converter

import (
	"github.com/gudubets/gudubet-sub002/internal/api/dto/game"
	"github.com/gudubets/gudubet-sub002/internal/model"
)

func ToGamesResponse(games []model.GameConfig) game.GamesResponse {
	out := make([]game.Game, len(games))
	for i, g := range games {
		out[i] = game.Game{
			Slug:    g.Slug,
			Name:    g.Name,
			Reels:   g.Reels,
			Rows:    g.Rows,
			Symbols: g.Symbols,
			MinBet:  g.MinBet.InexactFloat64(),
			MaxBet:  g.MaxBet.InexactFloat64(),
			RTP:     g.RTP.InexactFloat64(),
		}
	}
	return game.GamesResponse{Games: out}
}

func ToRTPResponse(s model.RTPSnapshot) game.RTPResponse {
	return game.RTPResponse{
		GameSlug:    s.GameSlug,
		TargetRTP:   s.TargetRTP,
		TotalSpins:  s.TotalSpins,
		TotalBet:    s.TotalBet,
		TotalPayout: s.TotalPayout,
		CurrentRTP:  s.CurrentRTP,
		WindowRTP:   s.WindowRTP,
		WindowSize:  s.WindowSize,
		Deviating:   s.Deviating,
	}
}
