package wallet

import (
	"context"
	"net/http"

	dto "github.com/gudubets/gudubet-sub002/internal/api/dto/wallet"
	"github.com/gudubets/gudubet-sub002/internal/api/httperr"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/converter"
	"github.com/gudubets/gudubet-sub002/internal/middleware"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/service"
	"github.com/gudubets/gudubet-sub002/pkg/req"
	"github.com/gudubets/gudubet-sub002/pkg/resp"
	"github.com/shopspring/decimal"
)

type HandlerDeps struct {
	Serv service.WalletService
}

type Handler struct {
	serv service.WalletService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httperr.Write(r.Context(), w, apperr.ErrUnauthorized)
		return
	}

	wallet, err := h.serv.Balance(r.Context(), userID)
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToWalletResponse(wallet))
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.serv.Deposit)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.serv.Withdraw)
}

type moveFunc func(ctx context.Context, userID string, amount decimal.Decimal, idemKey string) (*model.Wallet, error)

// move - общий разбор запроса для пополнения и вывода
func (h *Handler) move(w http.ResponseWriter, r *http.Request, fn moveFunc) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httperr.Write(r.Context(), w, apperr.ErrUnauthorized)
		return
	}

	payload, err := req.Decode[dto.AmountRequest](r.Body)
	if err != nil {
		httperr.BadRequest(w, err)
		return
	}

	idemKey, err := req.IdempotencyKey(r)
	if err != nil {
		httperr.BadRequest(w, err)
		return
	}

	wallet, err := fn(r.Context(), userID, payload.Amount, idemKey)
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToWalletResponse(wallet))
}

func (h *Handler) WelcomeBonus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httperr.Write(r.Context(), w, apperr.ErrUnauthorized)
		return
	}

	wallet, err := h.serv.ClaimWelcomeBonus(r.Context(), userID)
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToWalletResponse(wallet))
}

func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httperr.Write(r.Context(), w, apperr.ErrUnauthorized)
		return
	}

	limit, err := req.Limit(r)
	if err != nil {
		httperr.BadRequest(w, err)
		return
	}

	entries, err := h.serv.Transactions(r.Context(), userID, limit)
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToTransactionsResponse(entries))
}
