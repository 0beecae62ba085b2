package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/logger"
	"github.com/gudubets/gudubet-sub002/pkg/resp"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// Pinger - Postgres пул и Redis клиент
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc адаптирует функцию к Pinger
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HandlerDeps struct {
	// Checks - имя зависимости -> проверка. nil значения пропускаются
	Checks map[string]Pinger
}

type Handler struct {
	checks map[string]Pinger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{checks: deps.Checks}
}

type response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	out := response{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for name, p := range h.checks {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			logger.WarnCtx(r.Context(), "health check failed", zap.String("dependency", name), zap.Error(err))
			out.Checks[name] = "down"
			out.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		out.Checks[name] = "up"
	}

	resp.WriteJSONResponse(w, status, out)
}
