package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AdamBeresnev/pitchbook/internal/config"
	"github.com/AdamBeresnev/pitchbook/internal/db"
	"github.com/AdamBeresnev/pitchbook/internal/lock"
	"github.com/AdamBeresnev/pitchbook/internal/notify"
	"github.com/AdamBeresnev/pitchbook/internal/service"
	"github.com/AdamBeresnev/pitchbook/internal/store"
	"github.com/jmoiron/sqlx"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	if err := cfg.RequireJWTSecret(); err != nil {
		log.Fatal(err)
	}

	database := db.InitDB(cfg.DatabasePath)
	defer database.Close()

	if err := db.RunMigrations(database.DB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var locker lock.Locker = lock.Nop{}
	if cfg.RedisAddr != "" {
		client, err := lock.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			log.Fatal("Failed to connect to redis: ", err)
		}
		defer client.Close()
		locker = lock.NewRedisLocker(client)
		slog.Info("slot locks backed by redis", "addr", cfg.RedisAddr)
	}

	stores := store.New(database)
	var notifier notify.Dispatcher = notify.NewInbox(stores.Notifications)
	if cfg.RabbitMQURL != "" {
		publisher := notify.NewPublisher(cfg.RabbitMQURL)
		defer publisher.Close()
		notifier = publisher
		slog.Info("notifications published to rabbitmq", "queue", notify.QueueName)
	}

	app := newApplication(database, stores, cfg, notifier, locker)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func newApplication(database *sqlx.DB, stores *store.Stores, cfg *config.Config, notifier notify.Dispatcher, locker lock.Locker) *application {
	now := func() time.Time { return time.Now().In(cfg.Location) }

	stats := service.NewStatsService(database, stores, cfg.StatsRetries)
	stats.Now = now
	reservations := service.NewReservationService(database, stores, stats, notifier, locker, cfg.Window)
	reservations.Now = now
	invitations := service.NewInvitationService(database, stores, notifier)
	invitations.Now = now
	availability := service.NewAvailabilityService(stores, cfg.Window)
	availability.Now = now

	return &application{
		jwtSecret:     cfg.JWTSecret,
		reservations:  reservations,
		invitations:   invitations,
		stats:         stats,
		availability:  availability,
		notifications: service.NewNotificationService(stores.Notifications),
	}
}
