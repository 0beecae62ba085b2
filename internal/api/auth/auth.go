package auth

import (
	"net/http"

	dto "github.com/gudubets/gudubet-sub002/internal/api/dto/auth"
	"github.com/gudubets/gudubet-sub002/internal/api/httperr"
	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/converter"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"github.com/gudubets/gudubet-sub002/internal/service"
	"github.com/gudubets/gudubet-sub002/pkg/req"
	"github.com/gudubets/gudubet-sub002/pkg/resp"
)

type HandlerDeps struct {
	Serv service.AuthService
}

type Handler struct {
	serv service.AuthService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

// Register создаёт пользователя, открывает сессию
// и возвращает токены в теле и через cookies
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	requestBody, err := req.Decode[dto.RegisterRequest](r.Body)
	if err != nil {
		httperr.BadRequest(w, err)
		return
	}

	data, err := h.serv.Register(
		r.Context(),
		converter.RegisterRequestToUserModel(&requestBody),
	)
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	setSessionIDCookie(w, data.SessionID)
	setRefreshTokenCookie(w, data.RefreshToken)

	resp.WriteJSONResponse(w, http.StatusCreated, converter.ToAuthResponse(data))
}

// Login создаёт новую сессию
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	requestBody, err := req.Decode[dto.LoginRequest](r.Body)
	if err != nil {
		httperr.BadRequest(w, err)
		return
	}

	data, err := h.serv.Login(r.Context(), requestBody.Login, requestBody.Password)
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	setSessionIDCookie(w, data.SessionID)
	setRefreshTokenCookie(w, data.RefreshToken)

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToAuthResponse(data))
}

// Refresh выдаёт новый access токен по sessionId и refresh токену
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	payload, err := sessionFromRequest(r)
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	accessToken, err := h.serv.Refresh(r.Context(), &model.AuthData{
		SessionID:    payload.SessionID,
		RefreshToken: payload.RefreshToken,
	})
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.RefreshResponse{AccessToken: accessToken})
}

// Logout закрывает сессию
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	payload, err := sessionFromRequest(r)
	if err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	if err = h.serv.Logout(r.Context(), payload.SessionID); err != nil {
		httperr.Write(r.Context(), w, err)
		return
	}

	deleteSessionIDCookie(w)
	deleteRefreshTokenCookie(w)

	w.WriteHeader(http.StatusNoContent)
}

// sessionFromRequest берёт sessionId и refreshToken из тела,
// недостающие поля дочитывает из cookies
func sessionFromRequest(r *http.Request) (dto.SessionRequest, error) {
	var payload dto.SessionRequest
	if r.ContentLength != 0 {
		p, err := req.Decode[dto.SessionRequest](r.Body)
		if err != nil {
			return payload, apperr.ErrInvalidRequest
		}
		payload = p
	}
	if payload.SessionID == "" {
		if c, err := r.Cookie("session_id"); err == nil {
			payload.SessionID = c.Value
		}
	}
	if payload.RefreshToken == "" {
		if c, err := r.Cookie("refresh_token"); err == nil {
			payload.RefreshToken = c.Value
		}
	}
	if payload.SessionID == "" {
		return payload, apperr.ErrUnauthorized
	}
	return payload, nil
}

// setRefreshTokenCookie устанавливает cookie с refresh_token
func setRefreshTokenCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/auth",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60 * 60 * 24 * 30, // 30 дней
	})
}

// deleteRefreshTokenCookie удаляет cookie с refresh_token
func deleteRefreshTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// setSessionIDCookie устанавливает cookie с session_id
func setSessionIDCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   30 * 24 * 60 * 60, // 30 дней
	})
}

// deleteSessionIDCookie удаляет cookie с session_id
func deleteSessionIDCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
