package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/cristianortiz/auctionportal/internal/notification"
	"github.com/cristianortiz/auctionportal/internal/shared/config"
	"github.com/cristianortiz/auctionportal/internal/shared/logger"
	"go.uber.org/zap"
)

// The notifier worker drains winner jobs queued by the API server and mails them through Mailgun.
func main() {
	log := logger.GetLogger()
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}
	n := cfg.Notifier
	if err := n.RequireMailgun(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}
	if n.RabbitMQURL == "" {
		log.Fatal("RABBITMQ_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := notification.NewWorker(notification.NewMailgun(n.MailgunDomain, n.MailgunAPIKey, n.MailgunSender))
	log.Info("Notifier worker started", zap.String("queue", n.RabbitMQQueue))
	if err := worker.Consume(ctx, n.RabbitMQURL, n.RabbitMQQueue); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("Notifier worker failed", zap.Error(err))
	}
	log.Info("Notifier worker stopped")
}
