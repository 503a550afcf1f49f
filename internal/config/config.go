package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

type Config struct {
	Port int `env:"PORT" envDefault:"8080"`

	// DatabaseURL is optional: when empty the server runs in sandbox mode
	// against the local fallback slot only.
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	LocalStatePath string `env:"LOCAL_STATE_PATH" envDefault:"data/site-state.json"`
	StaticDir      string `env:"STATIC_DIR" envDefault:"static/site"`

	AdminEmail         string `env:"ADMIN_EMAIL" envDefault:"admin@centralake.com"`
	AdminPasswordHash  string `env:"ADMIN_PASSWORD_HASH"`
	ClientEmail        string `env:"CLIENT_EMAIL" envDefault:"client@example.com"`
	ClientPasswordHash string `env:"CLIENT_PASSWORD_HASH"`
	SessionSecret      string `env:"SESSION_SECRET"`

	UploadStrategy     string `env:"UPLOAD_STRATEGY" envDefault:"inline"`
	S3Bucket           string `env:"S3_BUCKET"`
	S3Region           string `env:"S3_REGION" envDefault:"us-east-1"`
	S3PublicBaseURL    string `env:"S3_PUBLIC_BASE_URL"`
	AwsAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AwsSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	CopywriterURL    string `env:"COPYWRITER_URL"`
	CopywriterAPIKey string `env:"COPYWRITER_API_KEY"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Sandbox reports whether the server runs without a remote backend.
func (c *Config) Sandbox() bool {
	return c.DatabaseURL == ""
}

func (c *Config) Validate(isProduction bool) error {
	for name, hash := range map[string]string{
		"ADMIN_PASSWORD_HASH":  c.AdminPasswordHash,
		"CLIENT_PASSWORD_HASH": c.ClientPasswordHash,
	} {
		if hash == "" {
			continue
		}
		if !strings.HasPrefix(hash, "$2a$") &&
			!strings.HasPrefix(hash, "$2b$") &&
			!strings.HasPrefix(hash, "$2y$") {
			return fmt.Errorf("%s must be a bcrypt hash (generate with: go run scripts/hash-password.go <password>)", name)
		}
	}

	switch c.UploadStrategy {
	case "inline":
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when UPLOAD_STRATEGY=s3")
		}
	default:
		return fmt.Errorf("UPLOAD_STRATEGY must be \"inline\" or \"s3\"")
	}

	if isProduction {
		if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
			return err
		}
		if c.AdminPasswordHash == "" {
			return fmt.Errorf("ADMIN_PASSWORD_HASH is required in production")
		}
		if c.Sandbox() {
			log.Warn().Msg("DATABASE_URL is empty in production: running in sandbox mode, edits persist to local disk only")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
