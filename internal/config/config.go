package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the API process reads from the environment.
type Config struct {
	Addr        string
	PostgresDSN string

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigin string
	LogLevel   string

	RateLimitPerSecond int
	RateLimitBurst     int
	MaxBodyBytes       int64
}

// Load reads an optional .env file and then the process environment.
// Missing optional values fall back to development defaults; the JWT secret
// has no default and must be set.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:               getEnv("LEADS_ADDR", ":8080"),
		PostgresDSN:        os.Getenv("LEADS_PG_DSN"),
		JWTSecret:          strings.TrimSpace(os.Getenv("LEADS_JWT_SECRET")),
		TokenTTL:           time.Hour,
		CORSOrigin:         getEnv("LEADS_CORS_ORIGIN", "http://localhost:5173"),
		LogLevel:           getEnv("LEADS_LOG_LEVEL", "info"),
		RateLimitPerSecond: 25,
		RateLimitBurst:     50,
		MaxBodyBytes:       1 << 20,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("LEADS_JWT_SECRET is required")
	}

	if raw := os.Getenv("LEADS_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("invalid LEADS_TOKEN_TTL %q", raw)
		}
		cfg.TokenTTL = ttl
	}
	var err error
	if cfg.RateLimitPerSecond, err = getInt("LEADS_RATE_LIMIT_RPS", cfg.RateLimitPerSecond); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = getInt("LEADS_RATE_LIMIT_BURST", cfg.RateLimitBurst); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, nil
}
