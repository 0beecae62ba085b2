package settlement

import (
	"errors"
	"testing"

	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func state(balance, bonus string) model.BalanceState {
	return model.BalanceState{Balance: dec(balance), BonusBalance: dec(bonus)}
}

func outcome(win string) model.SpinOutcome {
	w := dec(win)
	return model.SpinOutcome{WinAmount: w, IsWin: w.IsPositive(), Multiplier: 1}
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name        string
		state       model.BalanceState
		bet         string
		win         string
		wantBalance string
		wantBonus   string
		wantCash    string
		wantBonusDb string
		wantEntries int
	}{
		{"cash covers bet, loss", state("100", "50"), "10", "0", "90", "50", "10", "0", 1},
		{"cash covers bet, win", state("100", "50"), "10", "25", "115", "50", "10", "0", 2},
		{"shortfall from bonus", state("4", "50"), "10", "0", "0", "44", "4", "6", 1},
		{"bonus funded win goes to cash", state("0", "50"), "10", "30", "30", "40", "0", "10", 2},
		{"exact total", state("3", "7"), "10", "0", "0", "0", "3", "7", 1},
		{"fractional amounts", state("1.50", "0.75"), "2.25", "4.50", "4.50", "0", "1.50", "0.75", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Settle(tt.state, dec(tt.bet), outcome(tt.win), "spin-1")
			if err != nil {
				t.Fatalf("Settle() error = %v", err)
			}
			if !res.After.Balance.Equal(dec(tt.wantBalance)) {
				t.Errorf("balance = %s, want %s", res.After.Balance, tt.wantBalance)
			}
			if !res.After.BonusBalance.Equal(dec(tt.wantBonus)) {
				t.Errorf("bonus = %s, want %s", res.After.BonusBalance, tt.wantBonus)
			}
			if !res.CashDebit.Equal(dec(tt.wantCash)) || !res.BonusDebit.Equal(dec(tt.wantBonusDb)) {
				t.Errorf("debits = %s/%s, want %s/%s", res.CashDebit, res.BonusDebit, tt.wantCash, tt.wantBonusDb)
			}
			if len(res.Entries) != tt.wantEntries {
				t.Fatalf("entries = %d, want %d", len(res.Entries), tt.wantEntries)
			}
			bet := res.Entries[0]
			if bet.Kind != model.LedgerKindBet || bet.Direction != model.DirectionDebit || !bet.Amount.Equal(dec(tt.bet)) {
				t.Errorf("unexpected bet entry %+v", bet)
			}
			if !bet.CashAmount.Add(bet.BonusAmount).Equal(bet.Amount) {
				t.Errorf("bet entry split %s+%s != %s", bet.CashAmount, bet.BonusAmount, bet.Amount)
			}
			if tt.wantEntries == 2 {
				win := res.Entries[1]
				if win.Kind != model.LedgerKindWin || win.Direction != model.DirectionCredit || !win.Amount.Equal(dec(tt.win)) {
					t.Errorf("unexpected win entry %+v", win)
				}
				if !win.BonusAmount.IsZero() {
					t.Errorf("win credited to bonus: %s", win.BonusAmount)
				}
			}
			for _, e := range res.Entries {
				if e.Reference != "spin-1" {
					t.Errorf("entry reference = %q, want spin-1", e.Reference)
				}
			}
			if res.Delta.Spins != 1 || !res.Delta.Bet.Equal(dec(tt.bet)) || !res.Delta.Win.Equal(dec(tt.win)) {
				t.Errorf("delta = %+v", res.Delta)
			}
		})
	}
}

func TestSettleRejects(t *testing.T) {
	tests := []struct {
		name  string
		state model.BalanceState
		bet   string
		win   string
		want  error
	}{
		{"insufficient total", state("3", "6"), "10", "0", apperr.ErrInsufficientBalance},
		{"zero bet", state("10", "0"), "0", "0", apperr.ErrInvalidBet},
		{"negative bet", state("10", "0"), "-1", "0", apperr.ErrInvalidBet},
		{"negative win", state("10", "0"), "1", "-5", apperr.ErrInvalidAmount},
		{"sub-cent bet", state("10", "0"), "0.105", "0", apperr.ErrInvalidBet},
		{"sub-cent win", state("10", "0"), "1", "0.075", apperr.ErrInvalidAmount},
		{"negative state", state("-1", "20"), "1", "0", apperr.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Settle(tt.state, dec(tt.bet), outcome(tt.win), "spin-x")
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if len(res.Entries) != 0 || !res.After.Balance.IsZero() {
				t.Errorf("rejected settle returned data: %+v", res)
			}
		})
	}
}

func amountGen(name string) *rapid.Generator[decimal.Decimal] {
	return rapid.Custom(func(t *rapid.T) decimal.Decimal {
		return decimal.New(rapid.Int64Range(0, 10_000_000).Draw(t, name), -2)
	})
}

func TestPropertySettleCashFunded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		balanceCents := rapid.Int64Range(1, 10_000_000).Draw(t, "balanceCents")
		balance := decimal.New(balanceCents, -2)
		bonus := amountGen("bonus").Draw(t, "bonus")
		bet := decimal.New(rapid.Int64Range(1, balanceCents).Draw(t, "betCents"), -2)
		win := amountGen("win").Draw(t, "win")

		res, err := Settle(model.BalanceState{Balance: balance, BonusBalance: bonus}, bet, model.SpinOutcome{WinAmount: win}, "ref")
		if err != nil {
			t.Fatalf("Settle() error = %v", err)
		}
		if !res.After.BonusBalance.Equal(bonus) {
			t.Fatalf("bonus changed %s -> %s", bonus, res.After.BonusBalance)
		}
		if want := balance.Sub(bet).Add(win); !res.After.Balance.Equal(want) {
			t.Fatalf("balance = %s, want %s", res.After.Balance, want)
		}
	})
}

func TestPropertySettleBonusShortfall(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		balance := amountGen("balance").Draw(t, "balance")
		bonusCents := rapid.Int64Range(1, 10_000_000).Draw(t, "bonusCents")
		bonus := decimal.New(bonusCents, -2)
		extra := rapid.Int64Range(1, bonusCents).Draw(t, "extraCents")
		bet := balance.Add(decimal.New(extra, -2))
		win := amountGen("win").Draw(t, "win")

		res, err := Settle(model.BalanceState{Balance: balance, BonusBalance: bonus}, bet, model.SpinOutcome{WinAmount: win}, "ref")
		if err != nil {
			t.Fatalf("Settle() error = %v", err)
		}
		if !res.After.Balance.Equal(win) {
			t.Fatalf("balance = %s, want win %s", res.After.Balance, win)
		}
		if want := bonus.Sub(bet.Sub(balance)); !res.After.BonusBalance.Equal(want) {
			t.Fatalf("bonus = %s, want %s", res.After.BonusBalance, want)
		}
		if res.After.Balance.IsNegative() || res.After.BonusBalance.IsNegative() {
			t.Fatalf("negative state %+v", res.After)
		}
	})
}

func TestPropertySettleRejectsOverdraw(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := model.BalanceState{
			Balance:      amountGen("balance").Draw(t, "balance"),
			BonusBalance: amountGen("bonus").Draw(t, "bonus"),
		}
		bet := s.Total().Add(decimal.New(rapid.Int64Range(1, 1_000_000).Draw(t, "overCents"), -2))

		_, err := Settle(s, bet, model.SpinOutcome{}, "ref")
		if !errors.Is(err, apperr.ErrInsufficientBalance) {
			t.Fatalf("error = %v, want insufficient balance", err)
		}
	})
}

func TestSessionDeltaApply(t *testing.T) {
	sess := model.GameSession{ID: "s", TotalSpins: 4, TotalBet: dec("40"), TotalWin: dec("12")}
	res, err := Settle(state("100", "0"), dec("10"), outcome("5"), "spin-5")
	if err != nil {
		t.Fatal(err)
	}

	got := res.Delta.Apply(sess)

	if got.TotalSpins != 5 || !got.TotalBet.Equal(dec("50")) || !got.TotalWin.Equal(dec("17")) {
		t.Errorf("Apply() = %+v", got)
	}
	if sess.TotalSpins != 4 {
		t.Error("Apply mutated the input session")
	}
}
