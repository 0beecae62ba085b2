package slot

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	dto "github.com/gudubets/gudubet-sub002/internal/api/dto/slot"
	"github.com/gudubets/gudubet-sub002/internal/api/httperr"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/converter"
	"github.com/gudubets/gudubet-sub002/internal/middleware"
	"github.com/gudubets/gudubet-sub002/internal/service"
	"github.com/gudubets/gudubet-sub002/pkg/req"
	"github.com/gudubets/gudubet-sub002/pkg/resp"
)

type HandlerDeps struct {
	Serv service.SpinService
}

type Handler struct {
	serv service.SpinService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httperr.Write(r.Context(), w, apperr.ErrUnauthorized)
		return
	}

	payload, err := req.Decode[dto.SpinRequest](r.Body)
	if err != nil {
		httperr.BadRequest(w, err)
		return
	}

	idemKey, err := req.IdempotencyKey(r)
	if err != nil {
		httperr.BadRequest(w, err)
		return
	}

	result, err := h.serv.Spin(r.Context(), converter.ToSpinRequest(userID, idemKey, payload))
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSpinResponse(result))
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
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

	records, err := h.serv.History(r.Context(), userID, limit)
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToHistoryResponse(records))
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		httperr.Write(r.Context(), w, apperr.ErrUnauthorized)
		return
	}

	session, err := h.serv.Session(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSessionResponse(session))
}
