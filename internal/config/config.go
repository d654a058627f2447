package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port           string
	BackendURL     string
	BackendTimeout time.Duration
	DatabaseURL    string
	AutoMigrate    bool
	JWTSecret      string
	JWTIssuer      string
	CORSOrigins    []string
	LogLevel       string
	LogFormat      string
}

// Load reads configuration from the environment and performs minimal validation.
// BACKEND_API_URL may be empty; routes that need it answer 500 instead of failing startup.
func Load() (Config, error) {
	cfg := Config{
		Port:        fallback(os.Getenv("PORT"), "8080"),
		BackendURL:  strings.TrimRight(strings.TrimSpace(os.Getenv("BACKEND_API_URL")), "/"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AutoMigrate: parseBool(os.Getenv("DB_AUTO_MIGRATE")),
		JWTSecret:   strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:   strings.TrimSpace(os.Getenv("JWT_ISSUER")),
		CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		LogLevel:    fallback(os.Getenv("LOG_LEVEL"), "info"),
		LogFormat:   fallback(os.Getenv("LOG_FORMAT"), "json"),
	}

	seconds := fallback(os.Getenv("BACKEND_TIMEOUT_SECONDS"), "0")
	if n, err := strconv.Atoi(seconds); err == nil && n > 0 {
		cfg.BackendTimeout = time.Duration(n) * time.Second
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
