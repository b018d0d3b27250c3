package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/autocare-booking/cmd/mainconfig"
	"github.com/wolfman30/autocare-booking/internal/api/router"
	"github.com/wolfman30/autocare-booking/internal/catalog"
	appconfig "github.com/wolfman30/autocare-booking/internal/config"
	httpmiddleware "github.com/wolfman30/autocare-booking/internal/http/middleware"
	"github.com/wolfman30/autocare-booking/internal/live"
	"github.com/wolfman30/autocare-booking/internal/notify"
	"github.com/wolfman30/autocare-booking/internal/observability/metrics"
	"github.com/wolfman30/autocare-booking/internal/session"
	"github.com/wolfman30/autocare-booking/pkg/logging"
)

// sweepInterval is how often idle sessions are evicted.
const sweepInterval = time.Minute

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting autocare-booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"session_store", cfg.SessionStore,
		"email_provider", cfg.EmailProvider,
	)

	if cfg.SessionSecret == "" {
		if cfg.IsProduction() {
			logger.Error("SESSION_SECRET is required in production")
			os.Exit(1)
		}
		cfg.SessionSecret = "dev-session-secret"
		logger.Warn("SESSION_SECRET not set, using development secret")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ref, err := loadCatalog(ctx, cfg)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	widgetMetrics := metrics.NewWidgetMetrics(prometheus.DefaultRegisterer)

	store, redisClient, err := buildSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize session store", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	sender, err := buildEmailSender(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize email sender", "error", err)
		os.Exit(1)
	}
	notifier := notify.NewBookingNotifier(sender, notify.BookingNotifierConfig{
		WorkshopEmail: cfg.WorkshopEmail,
		Location:      cfg.Location(),
	}, logger)

	var manager *session.Manager
	hub := live.NewHub(func(ctx context.Context, id string) (any, error) {
		s, err := manager.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return s.Snapshot(), nil
	}, logger)

	manager = session.NewManager(session.ManagerConfig{
		Catalog: ref,
		Options: session.Options{
			Dwell:       cfg.BookingDwell,
			ClearDelay:  cfg.CategoryClearDelay,
			ScrollDelay: cfg.ScrollDelay,
			Location:    cfg.Location(),
		},
		IdleTTL:   cfg.SessionIdleTTL,
		Store:     store,
		Publisher: hub,
		Notifier:  notifier,
		Metrics:   widgetMetrics,
		Logger:    logger,
	})
	go manager.Run(ctx, sweepInterval)

	tokens := session.NewTokens(cfg.SessionSecret, cfg.SessionIdleTTL)

	r := router.New(&router.Config{
		Logger:             logger,
		Metrics:            widgetMetrics,
		MetricsHandler:     promhttp.Handler(),
		CatalogHandler:     catalog.NewHandler(ref),
		SessionHandler:     session.NewHandler(manager, tokens, widgetMetrics, logger),
		LiveHub:            hub,
		Tokens:             tokens,
		RateLimiter:        httpmiddleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	cancel()
	manager.Shutdown()

	logger.Info("server stopped")
}

// loadCatalog reads reference data from CATALOG_PATH, which may be a local
// file, an s3://bucket/key URI or empty for the built-in data.
func loadCatalog(ctx context.Context, cfg *appconfig.Config) (*catalog.Catalog, error) {
	if !catalog.IsS3URI(cfg.CatalogPath) {
		return catalog.Load(cfg.CatalogPath)
	}
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Local emulators only serve path-style requests.
		o.UsePathStyle = cfg.AWSEndpointOverride != ""
	})
	return catalog.LoadS3(ctx, client, cfg.CatalogPath)
}

// buildSessionStore returns the Redis store when SESSION_STORE=redis and the
// in-memory store otherwise. The client is returned so main can close it.
func buildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (session.Store, *redis.Client, error) {
	switch cfg.SessionStore {
	case "", "memory":
		return session.NewMemoryStore(cfg.SessionIdleTTL, time.Now), nil, nil
	case "redis":
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		logger.Info("session store connected", "store", "redis", "addr", cfg.RedisAddr)
		return session.NewRedisStore(client, cfg.SessionIdleTTL), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}
}

// buildEmailSender picks the confirmation email transport. Providers that are
// selected but not configured fall back to the stub so bookings still succeed.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, error) {
	switch cfg.EmailProvider {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" || cfg.EmailFrom == "" {
			logger.Warn("sendgrid selected but not configured, using stub sender")
			return notify.NewStubEmailSender(logger), nil
		}
		return notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger), nil
	case "ses":
		if cfg.EmailFrom == "" {
			logger.Warn("ses selected without EMAIL_FROM, using stub sender")
			return notify.NewStubEmailSender(logger), nil
		}
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger), nil
	case "", "stub":
		return notify.NewStubEmailSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.EmailProvider)
	}
}
