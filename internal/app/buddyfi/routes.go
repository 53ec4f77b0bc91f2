// Package buddyfi предоставляет маршруты для основного приложения.
package buddyfi

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/VidhitSikri/BUDDY-FI/docs"
	"github.com/VidhitSikri/BUDDY-FI/internal/http/handlers/auth/login"
	"github.com/VidhitSikri/BUDDY-FI/internal/http/handlers/auth/register"
	"github.com/VidhitSikri/BUDDY-FI/internal/http/handlers/buddies/find"
	"github.com/VidhitSikri/BUDDY-FI/internal/http/handlers/hobbies/submit"
	"github.com/VidhitSikri/BUDDY-FI/internal/http/handlers/location/update"
	"github.com/VidhitSikri/BUDDY-FI/internal/http/handlers/users/list"
	"github.com/VidhitSikri/BUDDY-FI/internal/http/handlers/users/session"
	"github.com/VidhitSikri/BUDDY-FI/internal/http/middlewarectx"
	buddyservice "github.com/VidhitSikri/BUDDY-FI/internal/services/buddy"
	userservice "github.com/VidhitSikri/BUDDY-FI/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, userService *userservice.UserService, buddyService *buddyservice.BuddyService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Post("/register", register.New(logger, userService).ServeHTTP)
		r.Post("/login", login.New(logger, userService).ServeHTTP)
		r.Post("/submit-answers", submit.New(logger, userService).ServeHTTP)
		r.Post("/update-location", update.New(logger, userService).ServeHTTP)
		r.Post("/find-buddies", find.New(logger, buddyService).ServeHTTP)
	})

	r.Get("/show-users", list.New(logger, userService).ServeHTTP)
	r.Get("/user/{userId}", session.New(logger, userService).ServeHTTP)

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
