package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type WalletResponse struct {
	Balance      float64 `json:"balance"`
	BonusBalance float64 `json:"bonusBalance"`
	Total        float64 `json:"total"`
}

type Transaction struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	Direction   string    `json:"direction"`
	Amount      float64   `json:"amount"`
	CashAmount  float64   `json:"cashAmount"`
	BonusAmount float64   `json:"bonusAmount"`
	Reference   string    `json:"reference"`
	CreatedAt   time.Time `json:"createdAt"`
}

type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}
