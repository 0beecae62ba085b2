package converter

import (
	"github.com/gudubets/gudubet-sub002/internal/api/dto/wallet"
	"github.com/gudubets/gudubet-sub002/internal/model"
)

func ToWalletResponse(w *model.Wallet) wallet.WalletResponse {
	return wallet.WalletResponse{
		Balance:      w.Balance.InexactFloat64(),
		BonusBalance: w.BonusBalance.InexactFloat64(),
		Total:        w.Total().InexactFloat64(),
	}
}

func ToTransactionsResponse(entries []model.LedgerEntry) wallet.TransactionsResponse {
	txs := make([]wallet.Transaction, len(entries))
	for i, e := range entries {
		txs[i] = wallet.Transaction{
			ID:          e.ID,
			Kind:        string(e.Kind),
			Direction:   string(e.Direction),
			Amount:      e.Amount.InexactFloat64(),
			CashAmount:  e.CashAmount.InexactFloat64(),
			BonusAmount: e.BonusAmount.InexactFloat64(),
			Reference:   e.Reference,
			CreatedAt:   e.CreatedAt,
		}
	}
	return wallet.TransactionsResponse{Transactions: txs}
}
