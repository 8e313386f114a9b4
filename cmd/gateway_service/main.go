package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/adapters/whatsapp"
	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/app"
	"github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/repository/memory"
	httptransport "github.com/kmartlabs/whatsapp-gateway/internal/gateway_service/transport/http"
	"github.com/kmartlabs/whatsapp-gateway/internal/platform/config"
	"github.com/kmartlabs/whatsapp-gateway/internal/platform/logger"
)

const serviceName = "gateway_service"

func main() {
	// Credentials usually live in a .env during development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger.Info("Gateway service starting...", "port", cfg.ServerPort, "api_version", cfg.WhatsAppAPIVersion)

	// Missing credentials are reported, not fatal: the service still serves
	// /health so the gap is observable.
	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		appLogger.Warn("WhatsApp credentials missing; sends and webhook verification will fail", "missing", missing)
	} else {
		appLogger.Info("All WhatsApp credentials loaded")
	}

	repo := memory.NewMessageRepository()
	waClient := whatsapp.NewClient(appLogger, cfg.WhatsAppAPIBaseURL, cfg.WhatsAppAPIVersion,
		cfg.WhatsAppPhoneNumberID, cfg.WhatsAppAccessToken, nil)
	processor := app.NewWebhookProcessor(repo, appLogger)
	dispatcher := app.NewMessageDispatcher(waClient, repo, cfg.WhatsAppPhoneNumberID, appLogger)
	validate := validator.New()

	webhookHandler := httptransport.NewWebhookHandler(processor, cfg.WhatsAppVerifyToken, appLogger)
	messageHandler := httptransport.NewMessageHandler(dispatcher, repo, validate, appLogger)
	healthHandler := httptransport.NewHealthHandler(httptransport.ConfigCheck{
		PhoneNumberID: cfg.WhatsAppPhoneNumberID != "",
		AccessToken:   cfg.WhatsAppAccessToken != "",
		VerifyToken:   cfg.WhatsAppVerifyToken != "",
	})
	uiHandler := httptransport.NewUIHandler()

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(httptransport.PrometheusMetricsMiddleware)

	webhookHandler.RegisterRoutes(r)
	messageHandler.RegisterRoutes(r)
	healthHandler.RegisterRoutes(r)
	uiHandler.RegisterRoutes(r)
	r.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		appLogger.Info(fmt.Sprintf("Gateway server listening on port %d", cfg.ServerPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server failed to serve", "error", err)
		}
	}()

	quitChan := make(chan os.Signal, 1)
	signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)
	<-quitChan
	appLogger.Info("Shutdown signal received, shutting down HTTP server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("HTTP server shutdown failed", "error", err)
	} else {
		appLogger.Info("HTTP server shut down gracefully.")
	}
	appLogger.Info("Gateway service shut down.")
}
