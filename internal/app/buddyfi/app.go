// Package buddyfi собирает приложение: хранилище, кеш, брокер событий,
// HTTP-сервер и его маршруты.
package buddyfi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/VidhitSikri/BUDDY-FI/internal/cache"
	"github.com/VidhitSikri/BUDDY-FI/internal/config"
	"github.com/VidhitSikri/BUDDY-FI/internal/lib/sl"
	"github.com/VidhitSikri/BUDDY-FI/internal/migrations"
	"github.com/VidhitSikri/BUDDY-FI/internal/rabbitmq"
	buddyservice "github.com/VidhitSikri/BUDDY-FI/internal/services/buddy"
	userservice "github.com/VidhitSikri/BUDDY-FI/internal/services/user"
	"github.com/VidhitSikri/BUDDY-FI/internal/storage/memstore"
	"github.com/VidhitSikri/BUDDY-FI/internal/storage/repository"
)

// App держит собранный HTTP-сервер и его зависимости.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
}

// New собирает приложение из конфига: подключения, миграции, сервисы, маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	sessions := memstore.New()

	var amqpConn *amqp.Connection
	var events userservice.EventPublisher
	if cfg.RabbitMQURL != "" {
		amqpConn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetNotificationQueues())
		if err != nil {
			return nil, err
		}
		events = rabbitmq.NewEventPublisher(ch)
	} else {
		logger.Warn("rabbitmq url is empty, registration events are disabled")
	}

	userService := userservice.NewUserService(db, sessions, cacheRedis, events, logger)
	buddyService := buddyservice.NewBuddyService(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, userService, buddyService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		if a.amqpConn != nil {
			if closeErr := a.amqpConn.Close(); closeErr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
			}
		}
		return err
	}
}
