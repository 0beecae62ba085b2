// Package httperr переводит ошибки сервисов в JSON ответы.
package httperr

import (
	"context"
	"net/http"

	"github.com/gudubets/gudubet-sub002/internal/apperr"
	"github.com/gudubets/gudubet-sub002/internal/logger"
	"github.com/gudubets/gudubet-sub002/pkg/resp"
	"go.uber.org/zap"
)

// Write отвечает статусом по apperr.HTTPStatus. Текст инфраструктурных
// ошибок клиенту не отдаётся, только пишется в лог
func Write(ctx context.Context, w http.ResponseWriter, err error) {
	status, msg := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorCtx(ctx, "request failed", zap.Int("status", status), zap.Error(err))
	}
	resp.WriteError(w, status, msg)
}

// BadRequest - ошибка разбора тела или параметров
func BadRequest(w http.ResponseWriter, err error) {
	resp.WriteError(w, http.StatusBadRequest, apperr.ErrInvalidRequest.Error()+": "+err.Error())
}
