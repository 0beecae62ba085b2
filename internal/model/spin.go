package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SpinOutcome - результат вращения барабанов.
// Reels индексируется [reel][row]
type SpinOutcome struct {
	Reels        [][]string
	WinAmount    decimal.Decimal
	WinningLines []int
	Multiplier   int
	IsWin        bool
}

type SpinRequest struct {
	UserID         string
	GameSlug       string
	BetAmount      decimal.Decimal
	SessionID      string
	IdempotencyKey string
}

type SpinResponse struct {
	SpinID     string
	SessionID  string
	Result     SpinOutcome
	NewBalance BalanceState
	Replayed   bool
}

// SpinRecord - неизменяемая запись о спине для аудита и истории
type SpinRecord struct {
	ID             string
	UserID         string
	GameSlug       string
	SessionID      string
	IdempotencyKey string
	BetAmount      decimal.Decimal
	WinAmount      decimal.Decimal
	Reels          [][]string
	WinningLines   []int
	Multiplier     int
	BalanceBefore  BalanceState
	BalanceAfter   BalanceState
	CreatedAt      time.Time
}

// Outcome восстанавливает результат спина из записи
func (r SpinRecord) Outcome() SpinOutcome {
	lines := r.WinningLines
	if lines == nil {
		lines = []int{}
	}
	return SpinOutcome{
		Reels:        r.Reels,
		WinAmount:    r.WinAmount,
		WinningLines: lines,
		Multiplier:   r.Multiplier,
		IsWin:        r.WinAmount.IsPositive(),
	}
}
