package memrepo

import (
	"context"
	"testing"

	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Деньги хранятся с точностью numeric(20,2), как в Postgres
func TestMoneyStoredInCents(t *testing.T) {
	store := New()
	store.AddUser("u1", "player", dec("10"), decimal.Zero)
	ctx := context.Background()

	w := store.WalletOf("u1")
	if _, err := store.Users().CompareAndSetWallet(ctx, "u1", w.Version, model.BalanceState{
		Balance:      dec("9.895"),
		BonusBalance: dec("0.004"),
	}); err != nil {
		t.Fatalf("CompareAndSetWallet: %v", err)
	}
	w = store.WalletOf("u1")
	if !w.Balance.Equal(dec("9.90")) || !w.BonusBalance.IsZero() {
		t.Fatalf("wallet = %s/%s, want 9.90/0", w.Balance, w.BonusBalance)
	}

	err := store.Ledger().Append(ctx, "u1", []model.LedgerEntry{{
		Kind:        model.LedgerKindBet,
		Direction:   model.DirectionDebit,
		Amount:      dec("0.105"),
		CashAmount:  dec("0.105"),
		BonusAmount: decimal.Zero,
		Reference:   "spin-1",
	}})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if got := store.LedgerEntries()[0].Amount; !got.Equal(dec("0.11")) {
		t.Fatalf("ledger amount = %s, want 0.11", got)
	}

	rec := &model.SpinRecord{
		ID:             "spin-1",
		UserID:         "u1",
		IdempotencyKey: "k1",
		BetAmount:      dec("1.005"),
		WinAmount:      dec("0.075"),
	}
	if err := store.Spins().Create(ctx, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	stored, err := store.Spins().GetByIdempotencyKey(ctx, "u1", "k1")
	if err != nil {
		t.Fatalf("GetByIdempotencyKey: %v", err)
	}
	if !stored.BetAmount.Equal(dec("1.01")) || !stored.WinAmount.Equal(dec("0.08")) {
		t.Fatalf("record = %s/%s, want 1.01/0.08", stored.BetAmount, stored.WinAmount)
	}
}
