package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string        `mapstructure:"PORT"`
	Env         string        `mapstructure:"ENV"`
	MongoURI    string        `mapstructure:"MONGO_URI"`
	MongoDB     string        `mapstructure:"MONGO_DB"`
	TokenSecret string        `mapstructure:"ACCESS_TOKEN"`
	TokenTTL    time.Duration `mapstructure:"TOKEN_TTL"`

	StripeSecretKey string `mapstructure:"STRIPE_SECRET_KEY"`

	EmailSendKey    string `mapstructure:"EMAIL_SEND_KEY"`
	EmailSendDomain string `mapstructure:"EMAIL_SEND_DOMAIN"`
	EmailFrom       string `mapstructure:"EMAIL_FROM"`
	NotifyWorkers   int    `mapstructure:"NOTIFY_WORKERS"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`

	// PromoteUpsert makes PUT /users/admin/:id create a bare admin user when
	// no user has the given id. Off by default: the call is then a no-op.
	PromoteUpsert bool `mapstructure:"PROMOTE_UPSERT"`

	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
}

var keys = []string{
	"PORT", "ENV", "MONGO_URI", "MONGO_DB", "ACCESS_TOKEN", "TOKEN_TTL",
	"STRIPE_SECRET_KEY",
	"EMAIL_SEND_KEY", "EMAIL_SEND_DOMAIN", "EMAIL_FROM", "NOTIFY_WORKERS",
	"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_USE_SSL", "MINIO_BUCKET",
	"PROMOTE_UPSERT",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ORIGINS",
}

// Load reads the process environment, after merging a .env file if one exists.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may be set by the process manager
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")
	v.SetDefault("MONGO_DB", "doctorsPortal")
	v.SetDefault("TOKEN_TTL", "168h")
	v.SetDefault("EMAIL_FROM", "no-reply@doctors-portal.local")
	v.SetDefault("NOTIFY_WORKERS", 4)
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_BUCKET", "doctor-images")
	v.SetDefault("PROMOTE_UPSERT", false)
	v.SetDefault("RATE_LIMIT_RPS", 1)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("CORS_ORIGINS", "*")

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	for i := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(cfg.CORSOrigins[i])
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// MailEnabled reports whether booking emails go out through Mailgun.
func (c *Config) MailEnabled() bool {
	return c.EmailSendKey != "" && c.EmailSendDomain != ""
}

// Validate checks the settings every command needs. Provider keys are
// optional: without them the matching feature degrades instead of failing.
func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.MongoDB == "" {
		return fmt.Errorf("MONGO_DB must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.NotifyWorkers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be at least 1, got %d", c.NotifyWorkers)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// ValidateServer adds the checks only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.TokenSecret == "" {
		return fmt.Errorf("ACCESS_TOKEN is required")
	}
	return nil
}
