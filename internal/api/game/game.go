package game

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gudubets/gudubet-sub002/internal/api/httperr"
	"github.com/gudubets/gudubet-sub002/internal/converter"
	"github.com/gudubets/gudubet-sub002/internal/service"
	"github.com/gudubets/gudubet-sub002/pkg/resp"
)

type HandlerDeps struct {
	Serv service.GameService
}

type Handler struct {
	serv service.GameService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.serv.List(r.Context())
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToGamesResponse(games))
}

// RTP - наблюдаемый RTP игры с момента старта процесса
func (h *Handler) RTP(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.serv.RTP(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToRTPResponse(snapshot))
}
