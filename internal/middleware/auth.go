package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/logger"
	"github.com/gudubets/gudubet-sub002/pkg/resp"
	"github.com/gudubets/gudubet-sub002/pkg/token"
	"go.uber.org/zap"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// Auth проверяет JWT из заголовка Authorization: Bearer <token>
// и кладёт ID пользователя в контекст запроса
func Auth(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				resp.WriteError(w, http.StatusUnauthorized, apperr.ErrUnauthorized.Error())
				return
			}

			claims, err := token.VerifyToken(strings.TrimSpace(raw), secretKey)
			if err != nil {
				logger.WarnCtx(r.Context(), "authentication failed", zap.Error(err))
				resp.WriteError(w, http.StatusUnauthorized, apperr.ErrUnauthorized.Error())
				return
			}

			ctx := WithUserID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext - ID пользователя, выставленный Auth
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
