package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nmoiseev/org-admin-backend/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("JWT secret must be at least 32 bytes")
	ErrSecretsNotDistinct = errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	ErrBypassInProduction = errors.New("AUTH_DISABLED must not be set in production")
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	HTTPPort           string
	DatabaseURL        string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	RequestTimeout     time.Duration
	AppEnv             string
	AuthDisabled       bool
}

func Load() (Config, error) {
	accessSecret, err := mustEnv("JWT_ACCESS_SECRET")
	if err != nil {
		return Config{}, err
	}
	if err := validateJWTSecret(accessSecret); err != nil {
		return Config{}, fmt.Errorf("JWT_ACCESS_SECRET: %w", err)
	}

	refreshSecret, err := mustEnv("JWT_REFRESH_SECRET")
	if err != nil {
		return Config{}, err
	}
	if err := validateJWTSecret(refreshSecret); err != nil {
		return Config{}, fmt.Errorf("JWT_REFRESH_SECRET: %w", err)
	}

	// A leaked access secret must not allow forging refresh tokens and
	// vice versa, so the two secrets may never coincide.
	if accessSecret == refreshSecret {
		return Config{}, ErrSecretsNotDistinct
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	appEnv := getEnv("APP_ENV", EnvDevelopment)
	authDisabled := getBoolEnv("AUTH_DISABLED", false)
	if authDisabled && appEnv == EnvProduction {
		return Config{}, ErrBypassInProduction
	}

	return Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatabaseURL:        databaseURL,
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenTTL:     getDurationEnv("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL:    getDurationEnv("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", 5*time.Second),
		AppEnv:             appEnv,
		AuthDisabled:       authDisabled,
	}, nil
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv != EnvProduction
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getBoolEnv(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
