package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/VidhitSikri/BUDDY-FI/internal/config"
	"github.com/VidhitSikri/BUDDY-FI/internal/lib/sl"
	"github.com/VidhitSikri/BUDDY-FI/internal/lib/smtp"
	"github.com/VidhitSikri/BUDDY-FI/internal/rabbitmq"
	senderservice "github.com/VidhitSikri/BUDDY-FI/internal/services/notification-sender"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("starting notification-sender", slog.String("env", cfg.Env))

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("connected to RabbitMQ", slog.String("url", cfg.RabbitMQURL))
	defer func() {
		_ = conn.Close()
	}()

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		logger.Error("failed to setup RabbitMQ channel", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = ch.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	transport := smtp.NewTransport(cfg, logger)
	sender := senderservice.NewSenderService(transport, logger)

	if err := rabbitmq.ConsumerMessage(ctx, ch, rabbitmq.WelcomeQueue, sender.SendWelcomeEmail); err != nil {
		logger.Error("failed to start consumer", sl.Err(err))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("notification-sender shutting down gracefully")
}
