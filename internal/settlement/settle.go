// Package settlement - чистая арифметика кошелька: списание ставки,
// зачисление выигрыша и строки журнала. Ничего не пишет в БД.
package settlement

import (
	"fmt"

	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/shopspring/decimal"
)

// Result - новое состояние кошелька и всё, что нужно записать
type Result struct {
	Before     model.BalanceState
	After      model.BalanceState
	CashDebit  decimal.Decimal
	BonusDebit decimal.Decimal
	Entries    []model.LedgerEntry
	Delta      model.SessionDelta
}

// Settle применяет спин к балансу.
// Ставка списывается сначала с реального баланса, недостача - с бонусного.
// Выигрыш всегда идёт на реальный баланс.
// При нехватке средств возвращает apperr.ErrInsufficientBalance без изменений
func Settle(state model.BalanceState, bet decimal.Decimal, outcome model.SpinOutcome, reference string) (Result, error) {
	if err := checkState(state); err != nil {
		return Result{}, err
	}
	if !bet.IsPositive() || !model.IsCents(bet) {
		return Result{}, fmt.Errorf("%w: bet must be a positive amount in cents", apperr.ErrInvalidBet)
	}
	win := outcome.WinAmount
	if win.IsNegative() || !model.IsCents(win) {
		return Result{}, fmt.Errorf("%w: win must be a non-negative amount in cents", apperr.ErrInvalidAmount)
	}
	if state.Total().LessThan(bet) {
		return Result{}, apperr.ErrInsufficientBalance
	}

	cashDebit := decimal.Min(state.Balance, bet)
	bonusDebit := bet.Sub(cashDebit)

	after := model.BalanceState{
		Balance:      state.Balance.Sub(cashDebit).Add(win),
		BonusBalance: state.BonusBalance.Sub(bonusDebit),
	}

	entries := []model.LedgerEntry{{
		Kind:        model.LedgerKindBet,
		Direction:   model.DirectionDebit,
		Amount:      bet,
		CashAmount:  cashDebit,
		BonusAmount: bonusDebit,
		Reference:   reference,
	}}
	if win.IsPositive() {
		entries = append(entries, model.LedgerEntry{
			Kind:        model.LedgerKindWin,
			Direction:   model.DirectionCredit,
			Amount:      win,
			CashAmount:  win,
			BonusAmount: decimal.Zero,
			Reference:   reference,
		})
	}

	return Result{
		Before:     state,
		After:      after,
		CashDebit:  cashDebit,
		BonusDebit: bonusDebit,
		Entries:    entries,
		Delta: model.SessionDelta{
			Spins: 1,
			Bet:   bet,
			Win:   win,
		},
	}, nil
}

func checkState(state model.BalanceState) error {
	if state.Balance.IsNegative() || state.BonusBalance.IsNegative() {
		return fmt.Errorf("%w: negative balance state", apperr.ErrInvalidAmount)
	}
	return nil
}
