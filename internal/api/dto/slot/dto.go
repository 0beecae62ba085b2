package slot

import (
	"time"

	"github.com/shopspring/decimal"
)

type SpinRequest struct {
	GameSlug  string          `json:"gameSlug"`
	BetAmount decimal.Decimal `json:"betAmount"`
	SessionID string          `json:"sessionId,omitempty"`
}

type SpinResponse struct {
	SpinID     string     `json:"spinId"`
	SessionID  string     `json:"sessionId"`
	Result     SpinResult `json:"result"`
	NewBalance Balance    `json:"newBalance"`
	Replayed   bool       `json:"replayed"` // Ответ на повтор с тем же Idempotency-Key
}

type SpinResult struct {
	Reels        [][]string `json:"reels"` // [барабан][ряд]
	WinAmount    float64    `json:"winAmount"`
	WinningLines []int      `json:"winningLines"`
	Multiplier   int        `json:"multiplier"`
	IsWin        bool       `json:"isWin"`
}

type Balance struct {
	Balance      float64 `json:"balance"`
	BonusBalance float64 `json:"bonusBalance"`
	Total        float64 `json:"total"`
}

type SpinRecord struct {
	SpinID        string     `json:"spinId"`
	GameSlug      string     `json:"gameSlug"`
	SessionID     string     `json:"sessionId"`
	BetAmount     float64    `json:"betAmount"`
	Result        SpinResult `json:"result"`
	BalanceBefore Balance    `json:"balanceBefore"`
	BalanceAfter  Balance    `json:"balanceAfter"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type HistoryResponse struct {
	Spins []SpinRecord `json:"spins"`
}

type SessionResponse struct {
	SessionID  string    `json:"sessionId"`
	GameSlug   string    `json:"gameSlug"`
	TotalSpins int64     `json:"totalSpins"`
	TotalBet   float64   `json:"totalBet"`
	TotalWin   float64   `json:"totalWin"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
