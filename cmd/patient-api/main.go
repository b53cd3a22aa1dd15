package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/oncolife/oncolife/internal/config"
	"github.com/oncolife/oncolife/internal/domain/chat"
	"github.com/oncolife/oncolife/internal/domain/chemo"
	"github.com/oncolife/oncolife/internal/domain/diary"
	"github.com/oncolife/oncolife/internal/domain/education"
	"github.com/oncolife/oncolife/internal/domain/onboarding"
	"github.com/oncolife/oncolife/internal/domain/patient"
	"github.com/oncolife/oncolife/internal/domain/question"
	"github.com/oncolife/oncolife/internal/platform/auth"
	"github.com/oncolife/oncolife/internal/platform/blobstore"
	"github.com/oncolife/oncolife/internal/platform/db"
	"github.com/oncolife/oncolife/internal/platform/docs"
	"github.com/oncolife/oncolife/internal/platform/fault"
	"github.com/oncolife/oncolife/internal/platform/middleware"
	"github.com/oncolife/oncolife/internal/platform/notify"
	"github.com/oncolife/oncolife/migrations"
)

const version = "0.1.0"

// devSubject is the stub identity injected by DevAuthMiddleware. The subject
// registers itself through POST /api/v1/registration like any other patient.
const devSubject = "dev|patient"

func main() {
	rootCmd := &cobra.Command{
		Use:   "patient-api",
		Short: "OncoLife patient portal API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the patient API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run patient database migrations",
	}

	migrator := func() (*db.Migrator, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		return db.NewMigrator(cfg.PatientDatabaseURL, migrations.FS, "patient"), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator()
			if err != nil {
				return err
			}
			return m.Up(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator()
			if err != nil {
				return err
			}
			return m.Status(cmd.Context())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := migrator()
			if err != nil {
				return err
			}
			return m.Down(cmd.Context())
		},
	})

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "patient-api").Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	patientPool, err := db.NewPool(ctx, cfg.PatientDatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to patient database")
	}
	defer patientPool.Close()

	// Education documents and the symptom catalog live in the doctor
	// database; the patient portal reads them through its own pool.
	doctorPool, err := db.NewPool(ctx, cfg.DoctorDatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to doctor database")
	}
	defer doctorPool.Close()
	logger.Info().Msg("connected to databases")

	store, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise object storage")
	}

	chatops := notify.NewChatOps(cfg.ChatOpsWebhookURL, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = fault.HTTPErrorHandler(logger)

	metrics := notify.NewMetrics()
	pusher := notify.NewPusher(metrics, cfg.MetricsWebhookURL, "patient-api", cfg.MetricsPushInterval, logger)
	pusher.Start()
	defer pusher.Stop()

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(metrics.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Registration carries a verified token but no patient row yet, so it is
	// exempt from principal resolution while still requiring bearer auth.
	publicJWT := auth.PublicRoutes(
		"/health",
		"/api/v1/auth/config",
		"/api/v1/docs",
		"/api/v1/docs/openapi.json",
	)
	publicPrincipal := auth.PublicRoutes(
		"/health",
		"/api/v1/auth/config",
		"/api/v1/docs",
		"/api/v1/docs/openapi.json",
		"/api/v1/registration",
	)

	jwtCfg := auth.JWTConfig{
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthAudience,
		JWKSURL:  cfg.AuthJWKSURL,
		CacheTTL: cfg.AuthJWKSCacheTTL,
		Skipper:  publicJWT,
	}
	if cfg.ResolvedAuthMode() == "dev" {
		e.Use(auth.DevAuthMiddleware(devSubject, "patient"))
	} else {
		e.Use(auth.JWTMiddleware(jwtCfg))
	}

	// Repositories and services
	patientSvc := patient.NewService(
		patient.NewRepoPG(patientPool),
		patient.NewAssociationRepoPG(patientPool),
		patientPool,
		chatops,
		logger,
	)
	questionSvc := question.NewService(question.NewRepoPG(patientPool))
	diarySvc := diary.NewService(diary.NewRepoPG(patientPool))
	chemoSvc := chemo.NewService(chemo.NewRepoPG(patientPool))
	chatSvc := chat.NewService(
		chat.NewConversationRepoPG(patientPool),
		chat.NewMessageRepoPG(patientPool),
		chat.NewSessionRepoPG(patientPool),
	)
	onboardingSvc := onboarding.NewService(onboarding.NewRepoPG(patientPool))
	deliverySvc := education.NewDeliveryService(
		education.NewDocumentRepoPG(doctorPool),
		education.NewDeliveryRepoPG(patientPool),
		chatSvc,
		store,
		chatops,
		logger,
	)

	// Every request past registration runs as a patient_info row.
	e.Use(auth.ResolvePrincipal(patientSvc.ResolveSubject, publicPrincipal))
	e.Use(middleware.Audit(logger))

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Routes
	patient.NewRegistrationHandler(patientSvc).RegisterRoutes(apiV1)
	question.NewHandler(questionSvc).RegisterRoutes(apiV1)
	diary.NewHandler(diarySvc).RegisterRoutes(apiV1)
	chemo.NewHandler(chemoSvc).RegisterRoutes(apiV1)
	chat.NewHandler(chatSvc).RegisterRoutes(apiV1)
	onboarding.NewHandler(onboardingSvc).RegisterRoutes(apiV1)
	education.NewDeliveryHandler(deliverySvc).RegisterRoutes(apiV1)

	auth.NewHandler(jwtCfg, func(ctx context.Context, subject string) (interface{}, error) {
		id, err := patientSvc.ResolveSubject(ctx, subject)
		if err != nil {
			return nil, err
		}
		return patientSvc.Profile(ctx, id)
	}).RegisterRoutes(apiV1, apiV1)

	docs.NewHandler(buildDocs()).RegisterRoutes(apiV1)

	e.GET("/health", db.HealthHandler(version, map[string]*pgxpool.Pool{
		"patient": patientPool,
		"doctor":  doctorPool,
	}))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.PatientPort
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	if cfg.S3Bucket == "" {
		return blobstore.NewMemory(cfg.S3PresignTTL), nil
	}
	return blobstore.NewS3(ctx, blobstore.S3Config{
		Endpoint:   cfg.S3Endpoint,
		Region:     cfg.S3Region,
		Bucket:     cfg.S3Bucket,
		AccessKey:  cfg.S3AccessKey,
		SecretKey:  cfg.S3SecretKey,
		PresignTTL: cfg.S3PresignTTL,
	})
}
