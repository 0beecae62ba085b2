package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerKind string

const (
	LedgerKindBet        LedgerKind = "bet"
	LedgerKindWin        LedgerKind = "win"
	LedgerKindDeposit    LedgerKind = "deposit"
	LedgerKindWithdrawal LedgerKind = "withdrawal"
	LedgerKindBonusGrant LedgerKind = "bonus_grant"
)

type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// LedgerEntry - строка журнала кошелька.
// CashAmount + BonusAmount == Amount
type LedgerEntry struct {
	ID          int64
	UserID      string
	Kind        LedgerKind
	Direction   Direction
	Amount      decimal.Decimal
	CashAmount  decimal.Decimal
	BonusAmount decimal.Decimal
	Reference   string
	CreatedAt   time.Time
}

type ReconciliationStatus string

const (
	ReconciliationPending   ReconciliationStatus = "pending"
	ReconciliationCommitted ReconciliationStatus = "committed"
	ReconciliationVoided    ReconciliationStatus = "voided"
)

// Reconciliation - спин, исход которого не удалось надёжно записать
type Reconciliation struct {
	ID             int64
	UserID         string
	IdempotencyKey string
	GameSlug       string
	SpinID         string
	BetAmount      decimal.Decimal
	Outcome        SpinOutcome
	Reason         string
	Status         ReconciliationStatus
	CreatedAt      time.Time
	ResolvedAt     *time.Time
}

// Event - аналитическое событие
type Event struct {
	Name       string
	UserID     string
	Payload    map[string]any
	OccurredAt time.Time
}
