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
	"github.com/oncolife/oncolife/internal/domain/chemo"
	"github.com/oncolife/oncolife/internal/domain/clinic"
	"github.com/oncolife/oncolife/internal/domain/dashboard"
	"github.com/oncolife/oncolife/internal/domain/diary"
	"github.com/oncolife/oncolife/internal/domain/education"
	"github.com/oncolife/oncolife/internal/domain/patient"
	"github.com/oncolife/oncolife/internal/domain/question"
	"github.com/oncolife/oncolife/internal/domain/staff"
	"github.com/oncolife/oncolife/internal/platform/auth"
	"github.com/oncolife/oncolife/internal/platform/blobstore"
	"github.com/oncolife/oncolife/internal/platform/db"
	"github.com/oncolife/oncolife/internal/platform/docs"
	"github.com/oncolife/oncolife/internal/platform/fault"
	"github.com/oncolife/oncolife/internal/platform/fax"
	"github.com/oncolife/oncolife/internal/platform/middleware"
	"github.com/oncolife/oncolife/internal/platform/notify"
	"github.com/oncolife/oncolife/migrations"
)

const version = "0.1.0"

// devSubject is the stub identity injected by DevAuthMiddleware. A matching
// staff row must exist (see the staff create command) for principal
// resolution to succeed.
const devSubject = "dev|doctor"

func main() {
	rootCmd := &cobra.Command{
		Use:   "doctor-api",
		Short: "OncoLife clinician portal API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(clinicCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the doctor API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run doctor database migrations",
	}

	migrator := func() (*db.Migrator, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		return db.NewMigrator(cfg.DoctorDatabaseURL, migrations.FS, "doctor"), nil
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

// clinicCmd bootstraps the first clinic row so staff can be enrolled before
// the admin UI exists.
func clinicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clinic",
		Short: "Manage clinics",
	}

	var name, address, phone, faxNumber string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a clinic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, cfg.DoctorDatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			req := clinic.CreateRequest{Name: name}
			if address != "" {
				req.Address = &address
			}
			if phone != "" {
				req.Phone = &phone
			}
			if faxNumber != "" {
				req.FaxNumber = &faxNumber
			}

			created, err := clinic.NewService(clinic.NewRepoPG(pool)).Create(ctx, req)
			if err != nil {
				return err
			}
			fmt.Printf("created clinic %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&name, "name", "", "clinic name (required)")
	createCmd.Flags().StringVar(&address, "address", "", "street address")
	createCmd.Flags().StringVar(&phone, "phone", "", "phone number")
	createCmd.Flags().StringVar(&faxNumber, "fax", "", "fax number")
	createCmd.MarkFlagRequired("name")

	cmd.AddCommand(createCmd)
	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "doctor-api").Logger()
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
	doctorPool, err := db.NewPool(ctx, cfg.DoctorDatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to doctor database")
	}
	defer doctorPool.Close()

	// The clinician portal reads patient-portal data (roster, questions,
	// diary, chemo, dashboard) through its own pool on the patient database.
	patientPool, err := db.NewPool(ctx, cfg.PatientDatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to patient database")
	}
	defer patientPool.Close()
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
	pusher := notify.NewPusher(metrics, cfg.MetricsWebhookURL, "doctor-api", cfg.MetricsPushInterval, logger)
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

	public := auth.PublicRoutes(
		"/health",
		"/api/v1/auth/config",
		"/api/v1/docs",
		"/api/v1/docs/openapi.json",
		"/webhooks/fax",
	)

	jwtCfg := auth.JWTConfig{
		Issuer:   cfg.AuthIssuer,
		Audience: cfg.AuthAudience,
		JWKSURL:  cfg.AuthJWKSURL,
		CacheTTL: cfg.AuthJWKSCacheTTL,
		Skipper:  public,
	}
	if cfg.ResolvedAuthMode() == "dev" {
		e.Use(auth.DevAuthMiddleware(devSubject, staff.RolePhysician, staff.RoleAdmin))
	} else {
		e.Use(auth.JWTMiddleware(jwtCfg))
	}

	// Repositories and services
	clinicSvc := clinic.NewService(clinic.NewRepoPG(doctorPool))
	staffSvc := staff.NewService(staff.NewRepoPG(doctorPool))
	contentSvc := education.NewContentService(
		education.NewDocumentRepoPG(doctorPool),
		education.NewSymptomRepoPG(doctorPool),
		store,
	)
	faxSvc := fax.NewService(
		fax.NewRepoPG(doctorPool),
		fax.NewClient(cfg.FaxAPIURL, cfg.FaxAPIKey),
		cfg.FaxWebhookSecret,
		chatops,
		logger,
	)

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
	dashboardSvc := dashboard.NewService(dashboard.NewRepoPG(patientPool))

	// Every request past the public surface runs as a staff row.
	e.Use(auth.ResolvePrincipal(staffSvc.ResolveSubject, public))
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
	clinic.NewHandler(clinicSvc).RegisterRoutes(apiV1)
	staff.NewHandler(staffSvc).RegisterRoutes(apiV1)
	education.NewContentHandler(contentSvc).RegisterRoutes(apiV1)
	patient.NewDoctorHandler(patientSvc, questionSvc, diarySvc, chemoSvc).RegisterRoutes(apiV1)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(apiV1)
	fax.NewHandler(faxSvc).RegisterRoutes(apiV1, e)

	auth.NewHandler(jwtCfg, func(ctx context.Context, subject string) (interface{}, error) {
		return staffSvc.ProfileBySubject(ctx, subject)
	}).RegisterRoutes(apiV1, apiV1)

	docs.NewHandler(buildDocs()).RegisterRoutes(apiV1)

	e.GET("/health", db.HealthHandler(version, map[string]*pgxpool.Pool{
		"doctor":  doctorPool,
		"patient": patientPool,
	}))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.DoctorPort
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

// newBlobStore selects S3 when a bucket is configured and falls back to the
// in-memory store for local development.
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
