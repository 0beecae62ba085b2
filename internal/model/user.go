package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

type User struct {
	ID        string
	Name      string
	Login     string
	Password  string
	CreatedAt time.Time
}

type UserClaims struct {
	jwt.RegisteredClaims
}

// MoneyPlaces - точность денежных колонок numeric(20,2)
const MoneyPlaces = 2

// IsCents - сумма представима в копейках без округления
func IsCents(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(MoneyPlaces))
}

// BalanceState - денежное состояние кошелька.
// Balance - реальные деньги, BonusBalance - промо-средства
type BalanceState struct {
	Balance      decimal.Decimal
	BonusBalance decimal.Decimal
}

// Total - сумма, доступная для ставки
func (b BalanceState) Total() decimal.Decimal {
	return b.Balance.Add(b.BonusBalance)
}

// Wallet - кошелёк пользователя с версией для оптимистичной блокировки
type Wallet struct {
	UserID string
	BalanceState
	Version int64
}
