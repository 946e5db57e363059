package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/config"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/database"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/external"
	"github.com/JohnnyBoy2234/swiftrent-sub001/pkg/handlers"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.GetCached()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := newStore(cfg, log)
	if err != nil {
		log.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	router := handlers.NewRouter(cfg, store, newCollaborators(cfg, log), log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// newStore selects Postgres when a DSN is configured, otherwise the
// in-memory store for local development.
func newStore(cfg *config.Config, log *slog.Logger) (database.Store, error) {
	if cfg.PostgresDSN == "" {
		log.Warn("no POSTGRES_DSN set, using in-memory store")
		return database.NewMemoryStore(), nil
	}
	store, err := database.NewPostgresStore(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.RunMigrations(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// newCollaborators builds HTTP clients for every configured external
// service and logging stubs for the rest.
func newCollaborators(cfg *config.Config, log *slog.Logger) handlers.Collaborators {
	stub := external.NewLogCollaborators(log)
	collab := handlers.Collaborators{
		Documents: stub,
		Payments:  stub,
		Credit:    stub,
		Notifier:  stub,
		Storage:   external.PassthroughStorage{},
	}
	if cfg.DocumentServiceURL != "" {
		collab.Documents = external.NewHTTPDocumentGenerator(cfg.DocumentServiceURL)
	}
	if cfg.PaymentServiceURL != "" {
		collab.Payments = external.NewHTTPPaymentGateway(cfg.PaymentServiceURL)
	}
	if cfg.CreditCheckURL != "" {
		collab.Credit = external.NewHTTPCreditChecker(cfg.CreditCheckURL)
	}
	if cfg.NotificationURL != "" {
		collab.Notifier = external.NewHTTPNotifier(cfg.NotificationURL)
	}
	if cfg.S3Bucket != "" {
		collab.Storage = external.NewS3DocumentStorage(cfg)
	}
	return collab
}
