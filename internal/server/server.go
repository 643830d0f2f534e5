// Package server runs the HTTP API until the process is signalled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/bazaar/app/events"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/internal/kernel"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/mail"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/payment"
	"github.com/shashiranjanraj/bazaar/pkg/ws"
)

const shutdownTimeout = 15 * time.Second

// Start connects the store, cache and log sink, serves the API on
// APP_PORT and shuts down gracefully on SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := logger.EnableMongoSink(ctx); err != nil {
		logger.Warn("mongo log sink disabled", "error", err)
	}
	defer logger.Close()

	store, err := kernel.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("store close", "error", err)
		}
	}()

	if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache disabled", "error", err)
	}
	defer cache.Close() //nolint:errcheck

	hub := ws.NewHub()
	go hub.Run(ctx)

	bus := event.NewBus()
	events.Register(bus, hub)
	if mc := mail.ConfigFromEnv(); mc.Enabled() {
		events.RegisterMail(bus, store.Users, mail.NewSMTPMailer(mc))
	} else {
		logger.Info("MAIL_HOST is empty; order mail disabled")
	}
	defer bus.Wait()

	if config.StripeSecretKey() == "" {
		logger.Warn("STRIPE_SECRET_KEY is empty; payments will fail")
	}
	gateway := payment.NewStripe(config.StripeSecretKey(), config.PaymentCurrency())

	limiter := middleware.NewLimiter(config.RateLimit(), time.Minute)

	srv := &http.Server{
		Addr: ":" + config.AppPort(),
		Handler: kernel.Handler(kernel.Deps{
			Store:   store,
			Gateway: gateway,
			Bus:     bus,
			Hub:     hub,
			Limiter: limiter,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bazaar listening", "addr", srv.Addr, "env", config.AppEnv(), "driver", config.DatabaseDriver())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
