// Command notifier drains the notifications queue into the in-app inbox.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AdamBeresnev/pitchbook/internal/config"
	"github.com/AdamBeresnev/pitchbook/internal/db"
	"github.com/AdamBeresnev/pitchbook/internal/notify"
	"github.com/AdamBeresnev/pitchbook/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("component", "notifier")
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	if cfg.RabbitMQURL == "" {
		log.Fatal("RABBITMQ_URL must be set")
	}

	database := db.InitDB(cfg.DatabasePath)
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inbox := notify.NewInbox(store.NewNotificationStore(database))
	consumer := notify.NewConsumer(cfg.RabbitMQURL, inbox, logger)

	logger.Info("consuming notifications", "queue", notify.QueueName)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
