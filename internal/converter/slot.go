package converter

import (
	"github.com/gudubets/gudubet-sub002/internal/api/dto/slot"
	"github.com/gudubets/gudubet-sub002/internal/model"
)

func ToSpinRequest(userID, idemKey string, req slot.SpinRequest) model.SpinRequest {
	return model.SpinRequest{
		UserID:         userID,
		GameSlug:       req.GameSlug,
		BetAmount:      req.BetAmount,
		SessionID:      req.SessionID,
		IdempotencyKey: idemKey,
	}
}

func ToSpinResponse(resp *model.SpinResponse) slot.SpinResponse {
	return slot.SpinResponse{
		SpinID:     resp.SpinID,
		SessionID:  resp.SessionID,
		Result:     toSpinResult(resp.Result),
		NewBalance: toBalance(resp.NewBalance),
		Replayed:   resp.Replayed,
	}
}

func toSpinResult(o model.SpinOutcome) slot.SpinResult {
	lines := o.WinningLines
	if lines == nil {
		lines = []int{}
	}
	return slot.SpinResult{
		Reels:        o.Reels,
		WinAmount:    o.WinAmount.InexactFloat64(),
		WinningLines: lines,
		Multiplier:   o.Multiplier,
		IsWin:        o.IsWin,
	}
}

func toBalance(b model.BalanceState) slot.Balance {
	return slot.Balance{
		Balance:      b.Balance.InexactFloat64(),
		BonusBalance: b.BonusBalance.InexactFloat64(),
		Total:        b.Total().InexactFloat64(),
	}
}

func ToHistoryResponse(records []model.SpinRecord) slot.HistoryResponse {
	spins := make([]slot.SpinRecord, len(records))
	for i, r := range records {
		spins[i] = slot.SpinRecord{
			SpinID:        r.ID,
			GameSlug:      r.GameSlug,
			SessionID:     r.SessionID,
			BetAmount:     r.BetAmount.InexactFloat64(),
			Result:        toSpinResult(r.Outcome()),
			BalanceBefore: toBalance(r.BalanceBefore),
			BalanceAfter:  toBalance(r.BalanceAfter),
			CreatedAt:     r.CreatedAt,
		}
	}
	return slot.HistoryResponse{Spins: spins}
}

func ToSessionResponse(s *model.GameSession) slot.SessionResponse {
	return slot.SessionResponse{
		SessionID:  s.ID,
		GameSlug:   s.GameSlug,
		TotalSpins: s.TotalSpins,
		TotalBet:   s.TotalBet.InexactFloat64(),
		TotalWin:   s.TotalWin.InexactFloat64(),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
