package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinicahortense/concierge/internal/api/router"
	"github.com/clinicahortense/concierge/internal/catalog"
	appconfig "github.com/clinicahortense/concierge/internal/config"
	"github.com/clinicahortense/concierge/internal/dispatch"
	"github.com/clinicahortense/concierge/internal/engine"
	"github.com/clinicahortense/concierge/internal/events"
	"github.com/clinicahortense/concierge/internal/observability/metrics"
	"github.com/clinicahortense/concierge/internal/session"
	"github.com/clinicahortense/concierge/internal/whatsapp"
	"github.com/clinicahortense/concierge/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic concierge API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"session_backend", cfg.SessionBackend,
	)

	cat, err := catalog.Default()
	if err != nil {
		logger.Error("invalid menu catalog", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	conciergeMetrics := metrics.NewConciergeMetrics(registry)

	store, deduper := buildStores(cfg, logger)

	client, err := whatsapp.New(whatsapp.Config{
		BaseURL:       cfg.GraphBaseURL,
		Token:         cfg.WhatsAppToken,
		PhoneNumberID: cfg.PhoneNumberID,
		Timeout:       cfg.SendTimeout,
		Logger:        logger.Logger,
	})
	if err != nil {
		logger.Error("failed to build WhatsApp client", "error", err)
		os.Exit(1)
	}

	conversationEngine := engine.New(cat,
		engine.WithSuppressWindow(cfg.SuppressWindow),
		engine.WithMisunderstoodThreshold(cfg.MisunderstoodThreshold),
	)
	dispatcher := dispatch.New(client, cfg.SendTimeout, logger, conciergeMetrics)

	webhookHandler := whatsapp.NewHandler(whatsapp.HandlerConfig{
		VerifyToken: cfg.VerifyToken,
		AppSecret:   cfg.WhatsAppAppSecret,
		Store:       store,
		Engine:      conversationEngine,
		Dispatcher:  dispatcher,
		Deduper:     deduper,
		Metrics:     conciergeMetrics,
		Messenger:   client,
		Logger:      logger,
	})

	r := router.New(&router.Config{
		Logger:         logger,
		Webhook:        webhookHandler,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildStores selects the session store and dedup backend from config.
// Failures fall back to the in-memory implementations: a bot that forgets
// suppression state is degraded, a bot that cannot answer is broken.
func buildStores(cfg *appconfig.Config, logger *logging.Logger) (session.Store, events.Deduper) {
	switch cfg.SessionBackend {
	case appconfig.SessionBackendRedis:
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		return session.NewRedisStore(client, cfg.SuppressWindow), events.NewRedisDeduper(client, cfg.DedupTTL)
	case appconfig.SessionBackendPostgres:
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres, falling back to memory sessions", "error", err)
			break
		}
		return session.NewPostgresStore(pool), events.NewMemoryDeduper(cfg.DedupTTL)
	}
	return session.NewMemoryStore(), events.NewMemoryDeduper(cfg.DedupTTL)
}
