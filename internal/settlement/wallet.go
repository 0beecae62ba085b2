package settlement

import (
	"fmt"

	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/shopspring/decimal"
)

// Deposit зачисляет сумму на реальный баланс
func Deposit(state model.BalanceState, amount decimal.Decimal, reference string) (Result, error) {
	if err := checkAmount(state, amount); err != nil {
		return Result{}, err
	}

	after := state
	after.Balance = state.Balance.Add(amount)

	return Result{
		Before: state,
		After:  after,
		Entries: []model.LedgerEntry{{
			Kind:        model.LedgerKindDeposit,
			Direction:   model.DirectionCredit,
			Amount:      amount,
			CashAmount:  amount,
			BonusAmount: decimal.Zero,
			Reference:   reference,
		}},
	}, nil
}

// Withdraw списывает только с реального баланса, бонусы не выводятся
func Withdraw(state model.BalanceState, amount decimal.Decimal, reference string) (Result, error) {
	if err := checkAmount(state, amount); err != nil {
		return Result{}, err
	}
	if state.Balance.LessThan(amount) {
		return Result{}, apperr.ErrInsufficientBalance
	}

	after := state
	after.Balance = state.Balance.Sub(amount)

	return Result{
		Before:    state,
		After:     after,
		CashDebit: amount,
		Entries: []model.LedgerEntry{{
			Kind:        model.LedgerKindWithdrawal,
			Direction:   model.DirectionDebit,
			Amount:      amount,
			CashAmount:  amount,
			BonusAmount: decimal.Zero,
			Reference:   reference,
		}},
	}, nil
}

// GrantBonus зачисляет промо-средства на бонусный баланс
func GrantBonus(state model.BalanceState, amount decimal.Decimal, reference string) (Result, error) {
	if err := checkAmount(state, amount); err != nil {
		return Result{}, err
	}

	after := state
	after.BonusBalance = state.BonusBalance.Add(amount)

	return Result{
		Before: state,
		After:  after,
		Entries: []model.LedgerEntry{{
			Kind:        model.LedgerKindBonusGrant,
			Direction:   model.DirectionCredit,
			Amount:      amount,
			CashAmount:  decimal.Zero,
			BonusAmount: amount,
			Reference:   reference,
		}},
	}, nil
}

func checkAmount(state model.BalanceState, amount decimal.Decimal) error {
	if err := checkState(state); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperr.ErrInvalidAmount)
	}
	if !model.IsCents(amount) {
		return fmt.Errorf("%w: amount must have at most %d decimal places", apperr.ErrInvalidAmount, model.MoneyPlaces)
	}
	return nil
}
