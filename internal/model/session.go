package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session - сессия авторизации (refresh токен)
type Session struct {
	ID           string
	UserID       string
	RefreshToken string
	ExpiresAt    time.Time
}

type AuthData struct {
	AccessToken  string
	RefreshToken string
	SessionID    string
}

// GameSession - агрегаты игровой сессии пользователя в одной игре.
// Счётчики только растут
type GameSession struct {
	ID         string
	UserID     string
	GameSlug   string
	TotalSpins int64
	TotalBet   decimal.Decimal
	TotalWin   decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SessionDelta - вклад одного спина в агрегаты сессии
type SessionDelta struct {
	Spins int64
	Bet   decimal.Decimal
	Win   decimal.Decimal
}

// Apply возвращает агрегаты после применения дельты
func (d SessionDelta) Apply(s GameSession) GameSession {
	s.TotalSpins += d.Spins
	s.TotalBet = s.TotalBet.Add(d.Bet)
	s.TotalWin = s.TotalWin.Add(d.Win)
	return s
}
