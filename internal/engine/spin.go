// Package engine - генерация барабанов и расчёт выплат слота.
package engine

import (
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/shopspring/decimal"
)

type Engine struct {
	rng RandomSource
}

// New создаёт движок с заданным источником случайности
func New(rng RandomSource) *Engine {
	return &Engine{rng: rng}
}

// Spin крутит барабаны и считает выигрыш.
// Ставка уже проверена вызывающим.
// Порядок розыгрыша фиксирован: сначала все ячейки поля, затем одно число для RTP
func (e *Engine) Spin(cfg model.GameConfig, bet decimal.Decimal) model.SpinOutcome {
	reels := GenerateReels(cfg, e.rng)

	raw, winningLines := EvaluateLines(reels, cfg.Paytable, bet)

	// Отдельный шаг после суммирования линий
	win := DampenRTP(raw, cfg.RTP, e.rng.Float64())

	return model.SpinOutcome{
		Reels:        reels,
		WinAmount:    win,
		WinningLines: winningLines,
		Multiplier:   1,
		IsWin:        win.IsPositive(),
	}
}

// GenerateReels заполняет поле [reel][row] равновероятными символами
func GenerateReels(cfg model.GameConfig, rng RandomSource) [][]string {
	reels := make([][]string, cfg.Reels)
	for c := 0; c < cfg.Reels; c++ {
		reels[c] = make([]string, cfg.Rows)
		for r := 0; r < cfg.Rows; r++ {
			reels[c][r] = cfg.Symbols[rng.Intn(len(cfg.Symbols))]
		}
	}
	return reels
}
