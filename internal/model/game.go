package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	SymbolWild    = "wild"
	SymbolScatter = "scatter"

	// WildMultiplierKey - ключ плоского множителя линии в paytable["wild"]
	WildMultiplierKey = "multiplier"
)

// Paytable - символ -> длина серии (строкой) -> множитель ставки
type Paytable map[string]map[string]decimal.Decimal

// GameConfig - конфигурация слота
type GameConfig struct {
	Slug     string
	Name     string
	Reels    int
	Rows     int
	Symbols  []string
	Paytable Paytable
	MinBet   decimal.Decimal
	MaxBet   decimal.Decimal
	RTP      decimal.Decimal // 0-100
	Active   bool
}

var hundred = decimal.NewFromInt(100)

// Validate проверяет, что по конфигурации можно крутить барабаны
func (g GameConfig) Validate() error {
	if g.Slug == "" {
		return errors.New("game slug is empty")
	}
	if g.Reels < 1 || g.Rows < 1 {
		return fmt.Errorf("game %s: reels and rows must be positive", g.Slug)
	}
	if len(g.Symbols) == 0 {
		return fmt.Errorf("game %s: symbol set is empty", g.Slug)
	}
	if g.RTP.IsNegative() || g.RTP.GreaterThan(hundred) {
		return fmt.Errorf("game %s: rtp must be within [0, 100]", g.Slug)
	}
	if !g.MinBet.IsPositive() || g.MaxBet.LessThan(g.MinBet) || !IsCents(g.MinBet) || !IsCents(g.MaxBet) {
		return fmt.Errorf("game %s: invalid bet limits [%s, %s]", g.Slug, g.MinBet, g.MaxBet)
	}
	for symbol, counts := range g.Paytable {
		for count, mult := range counts {
			if mult.IsNegative() {
				return fmt.Errorf("game %s: negative multiplier for %s/%s", g.Slug, symbol, count)
			}
		}
	}
	return nil
}

// BetAllowed - ставка в копейках и попадает в [MinBet, MaxBet]
func (g GameConfig) BetAllowed(bet decimal.Decimal) bool {
	return IsCents(bet) && bet.GreaterThanOrEqual(g.MinBet) && bet.LessThanOrEqual(g.MaxBet)
}

// RTPSnapshot - наблюдаемый RTP игры
type RTPSnapshot struct {
	GameSlug    string
	TargetRTP   float64
	TotalSpins  int64
	TotalBet    float64
	TotalPayout float64
	CurrentRTP  float64
	WindowRTP   float64
	WindowSize  int
	Deviating   bool
}
