package config

import (
	"fmt"
	"os"
	"time"

	jwttoken "society360/internal/jwt_token"
)

// Env selects runtime behavior that must never be decided ambiently inside
// business logic. The audit recorder in particular checks for EnvTest.
type Env string

const (
	EnvDevelopment Env = "development"
	EnvProduction  Env = "production"
	EnvTest        Env = "test"
)

// devSigningKey is a development-only fallback. Validate rejects it outside
// EnvDevelopment.
const devSigningKey = "dev-secret-key-change-in-production"

// Config is the explicit configuration object handed to the issuer, verifier,
// and recorder at construction time. Nothing here is re-read from the process
// environment after startup.
type Config struct {
	Addr          string
	Env           Env
	DatabaseURL   string
	JWTSigningKey string
	TokenTTL      time.Duration
	AuditBuffer   int
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:          envOr("SOCIETY360_ADDR", ":8080"),
		Env:           Env(envOr("SOCIETY360_ENV", string(EnvDevelopment))),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
		TokenTTL:      jwttoken.DefaultTokenTTL,
		AuditBuffer:   256,
	}

	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil {
			cfg.TokenTTL = ttl
		}
	}

	// The fallback secret is a config-time decision, not a silent runtime
	// default: it only applies in development and Validate fails loudly
	// everywhere else.
	if cfg.JWTSigningKey == "" && cfg.Env == EnvDevelopment {
		cfg.JWTSigningKey = devSigningKey
	}

	return cfg
}

// Validate rejects configurations that must not reach a running process.
func (c Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("unknown environment %q", c.Env)
	}
	if c.JWTSigningKey == "" {
		return fmt.Errorf("JWT_SIGNING_KEY is required in %s", c.Env)
	}
	if c.Env != EnvDevelopment && c.JWTSigningKey == devSigningKey {
		return fmt.Errorf("development signing key must not be used in %s", c.Env)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
