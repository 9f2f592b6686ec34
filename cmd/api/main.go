package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daisyverse/backend/internal/cache"
	"github.com/daisyverse/backend/internal/config"
	"github.com/daisyverse/backend/internal/database"
	"github.com/daisyverse/backend/internal/gateway"
	"github.com/daisyverse/backend/internal/inventory"
	"github.com/daisyverse/backend/internal/metrics"
	"github.com/daisyverse/backend/internal/notify"
	"github.com/daisyverse/backend/internal/payment"
	"github.com/daisyverse/backend/internal/repo"
	"github.com/daisyverse/backend/internal/service"
	httptransport "github.com/daisyverse/backend/internal/transport/http"
	"github.com/daisyverse/backend/internal/worker"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	orderRepo := repo.NewOrderRepo(db)
	productRepo := repo.NewProductRepo(db)
	guard := inventory.NewGuard(productRepo)
	paymentGateway := gateway.NewRestClient(cfg.Razorpay.BaseURL, cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	verifier := payment.NewVerifier(orderRepo, cfg.Razorpay.KeySecret)

	var sender notify.Sender
	if cfg.SMTP.Username != "" {
		mailer, err := notify.NewSMTPMailer(cfg.SMTP)
		if err != nil {
			slog.Error("smtp setup failed", "error", err)
			os.Exit(1)
		}
		sender = mailer
	} else {
		slog.Warn("EMAIL_USER not set, order notifications disabled")
		sender = notify.Discard{}
	}

	dispatcher := worker.NewDispatcher(sender, 128, 3, 2*time.Second)
	go dispatcher.Run(ctx)

	var statusCache cache.Cache
	if cfg.RedisAddr != "" {
		statusCache = cache.NewRedisCache(cfg.RedisAddr, "orders")
	}

	orderService := service.NewOrderService(
		orderRepo, guard, paymentGateway, verifier,
		dispatcher, statusCache,
		cfg.Razorpay.KeyID, cfg.OwnerEmail,
	)

	serverMetrics := metrics.NewServerMetrics("api")
	router := httptransport.NewRouter(orderService, httptransport.RouterConfig{
		CORSOrigins: cfg.CORSOrigins,
		Metrics:     serverMetrics,
		DB:          db,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	slog.Info("shutdown complete")
}
