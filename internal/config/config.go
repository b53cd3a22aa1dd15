package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DoctorPort  string `mapstructure:"DOCTOR_PORT"`
	PatientPort string `mapstructure:"PATIENT_PORT"`
	Env         string `mapstructure:"ENV"`
	AuthMode    string `mapstructure:"AUTH_MODE"`

	DoctorDatabaseURL  string `mapstructure:"DOCTOR_DATABASE_URL"`
	PatientDatabaseURL string `mapstructure:"PATIENT_DATABASE_URL"`
	DBMaxConns         int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32  `mapstructure:"DB_MIN_CONNS"`

	AuthIssuer       string        `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL      string        `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience     string        `mapstructure:"AUTH_AUDIENCE"`
	AuthJWKSCacheTTL time.Duration `mapstructure:"AUTH_JWKS_CACHE_TTL"`

	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`

	ChatOpsWebhookURL   string        `mapstructure:"CHATOPS_WEBHOOK_URL"`
	MetricsWebhookURL   string        `mapstructure:"METRICS_WEBHOOK_URL"`
	MetricsPushInterval time.Duration `mapstructure:"METRICS_PUSH_INTERVAL"`

	FaxAPIURL        string `mapstructure:"FAX_API_URL"`
	FaxAPIKey        string `mapstructure:"FAX_API_KEY"`
	FaxWebhookSecret string `mapstructure:"FAX_WEBHOOK_SECRET"`

	S3Endpoint   string        `mapstructure:"S3_ENDPOINT"`
	S3Region     string        `mapstructure:"S3_REGION"`
	S3Bucket     string        `mapstructure:"S3_BUCKET"`
	S3AccessKey  string        `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey  string        `mapstructure:"S3_SECRET_KEY"`
	S3PresignTTL time.Duration `mapstructure:"S3_PRESIGN_TTL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("DOCTOR_PORT", "8000")
	v.SetDefault("PATIENT_PORT", "8001")
	v.SetDefault("ENV", "development")
	v.SetDefault("AUTH_MODE", "") // auto-detect: "" -> inferred from ENV
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("AUTH_JWKS_CACHE_TTL", "15m")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("METRICS_PUSH_INTERVAL", "60s")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_PRESIGN_TTL", "15m")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("DOCTOR_PORT")
	v.BindEnv("PATIENT_PORT")
	v.BindEnv("ENV")
	v.BindEnv("AUTH_MODE")
	v.BindEnv("DOCTOR_DATABASE_URL")
	v.BindEnv("PATIENT_DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("AUTH_JWKS_CACHE_TTL")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("CHATOPS_WEBHOOK_URL")
	v.BindEnv("METRICS_WEBHOOK_URL")
	v.BindEnv("METRICS_PUSH_INTERVAL")
	v.BindEnv("FAX_API_URL")
	v.BindEnv("FAX_API_KEY")
	v.BindEnv("FAX_WEBHOOK_SECRET")
	v.BindEnv("S3_ENDPOINT")
	v.BindEnv("S3_REGION")
	v.BindEnv("S3_BUCKET")
	v.BindEnv("S3_ACCESS_KEY")
	v.BindEnv("S3_SECRET_KEY")
	v.BindEnv("S3_PRESIGN_TTL")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DoctorDatabaseURL == "" {
		return nil, fmt.Errorf("DOCTOR_DATABASE_URL is required")
	}
	if cfg.PatientDatabaseURL == "" {
		return nil, fmt.Errorf("PATIENT_DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active — requests get a stub principal.")
		log.Println("WARNING: Do NOT use this configuration in production.")
		log.Println("WARNING: Set ENV=production and configure AUTH_ISSUER for production.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ResolvedAuthMode returns the effective auth mode. If AUTH_MODE is explicitly
// set, it is returned. Otherwise, the mode is inferred:
//   - ENV=development → "dev" (stub principal, no token verification)
//   - Otherwise       → "jwt" (bearer tokens verified against the provider JWKS)
func (c *Config) ResolvedAuthMode() string {
	if c.AuthMode != "" {
		return c.AuthMode
	}
	if c.IsDev() {
		return "dev"
	}
	return "jwt"
}

// Validate checks that the configuration is safe to run. In jwt mode the
// identity provider parameters must be present; dev mode is refused in
// production.
func (c *Config) Validate() error {
	mode := c.ResolvedAuthMode()
	switch mode {
	case "jwt":
		if c.AuthIssuer == "" {
			return fmt.Errorf("AUTH_ISSUER must be set when AUTH_MODE is \"jwt\" (current ENV=%q). "+
				"Refusing to start without authentication configuration", c.Env)
		}
		if c.AuthJWKSURL == "" {
			return fmt.Errorf("AUTH_JWKS_URL must be set when AUTH_MODE is \"jwt\"")
		}
	case "dev":
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE \"dev\" is not allowed when ENV is \"production\"")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be \"dev\" or \"jwt\", got %q", mode)
	}

	if c.AuthJWKSCacheTTL <= 0 {
		return fmt.Errorf("AUTH_JWKS_CACHE_TTL must be positive, got %s", c.AuthJWKSCacheTTL)
	}

	if c.FaxAPIURL != "" && c.FaxAPIKey == "" {
		return fmt.Errorf("FAX_API_KEY is required when FAX_API_URL is set")
	}

	if c.S3Bucket != "" {
		if c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_BUCKET is set")
		}
	}

	return nil
}
