// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/unclebandit/acme-customers-backend/internal/auth"
	"github.com/unclebandit/acme-customers-backend/internal/config"
	"github.com/unclebandit/acme-customers-backend/internal/controller"
	"github.com/unclebandit/acme-customers-backend/internal/db"
	"github.com/unclebandit/acme-customers-backend/internal/events"
	"github.com/unclebandit/acme-customers-backend/internal/handler"
	"github.com/unclebandit/acme-customers-backend/internal/logger"
	"github.com/unclebandit/acme-customers-backend/internal/paramstore"
	"github.com/unclebandit/acme-customers-backend/internal/repository"
	"github.com/unclebandit/acme-customers-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	lg := logger.Init(cfg.LogLevel, cfg.IsDevelopment())
	lg = lg.With().Str("environment", cfg.Environment).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Secrets
	var store paramstore.Store
	if !cfg.IsDevelopment() {
		ssmStore, err := paramstore.NewSSMStore(ctx, cfg.AWSRegion)
		if err != nil {
			lg.Fatal().Err(err).Msg("failed to create parameter store client")
		}
		store = ssmStore
	}

	secrets, err := config.Resolve(ctx, cfg, store)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to resolve secrets")
	}

	// Init DB
	conn, err := db.Open(ctx, secrets.ConnectionString, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("database unavailable")
	}
	defer conn.Close()

	authenticator, err := auth.NewAuthenticator(secrets.APIKey, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to configure authentication")
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			lg.Fatal().Err(err).Msg("failed to connect to event broker")
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		lg.Info().Str("queue", events.QueueName).Msg("publishing customer events")
	}

	customerRepo := &repository.CustomerRepository{DB: conn}

	customerService := &service.CustomerService{
		CustomerRepo: customerRepo,
		Publisher:    publisher,
		Log:          lg,
	}

	customerController := &controller.CustomerController{
		CustomerService: customerService,
		Log:             lg,
		BasePath:        controller.APIBasePath,
	}

	healthHandler := handler.NewHealthHandler(conn, lg)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           controller.NewRouter(customerController, healthHandler, authenticator.Middleware, lg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		lg.Info().Str("addr", cfg.HTTPAddr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	lg.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("graceful shutdown failed")
	}
}
