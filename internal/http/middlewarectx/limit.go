// Package middlewarectx содержит HTTP middleware приложения:
// ограничение частоты запросов и метрики prometheus.
package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/VidhitSikri/BUDDY-FI/internal/http/response"
)

var limiter = rate.NewLimiter(10, 30)

// RateLimitMiddleware отклоняет запросы сверх общего лимита.
func RateLimitMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Error("too many requests")
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
