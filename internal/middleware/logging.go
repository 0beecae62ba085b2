package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gudubets/gudubet-sub002/internal/logger"
	"github.com/gudubets/gudubet-sub002/internal/metrics"
	"go.uber.org/zap"
)

// RequestLogger пишет в лог каждый запрос и считает HTTP метрики.
// Должен стоять после chi middleware.RequestID
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ctx := logger.WithTraceID(r.Context(), chimw.GetReqID(r.Context()))

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		// Шаблон маршрута вместо пути, чтобы не раздувать метки
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.RecordHTTP(route, r.Method, status, started)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(started)),
		}
		if status >= http.StatusInternalServerError {
			logger.WarnCtx(ctx, "request completed", fields...)
			return
		}
		logger.DebugCtx(ctx, "request completed", fields...)
	})
}
