package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	HTTPPort    string
	DatabaseURL string
	AppMode     string

	// AppBaseURL is the externally visible origin used to build the OAuth
	// redirect URL and the dashboard redirect targets.
	AppBaseURL string

	FacebookAppID     string
	FacebookAppSecret string
	GraphAPIVersion   string

	// WhatsAppClientID is optional; the adapter stays a placeholder
	// without it.
	WhatsAppClientID string

	JWTSecret string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	SyncQueueSize int

	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnLifetime time.Duration
	DBMaxConnIdleTime time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", ":8080"),
		AppMode:           strings.ToLower(getEnv("APP_MODE", "dev")),
		AppBaseURL:        strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:8080"), "/"),
		GraphAPIVersion:   getEnv("GRAPH_API_VERSION", "v18.0"),
		WhatsAppClientID:  os.Getenv("WHATSAPP_CLIENT_ID"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		CacheTTL:          parseDurationEnv("CACHE_TTL", 5*time.Minute),
		SyncQueueSize:     parseIntEnv("SYNC_QUEUE_SIZE", 64),
		DBMaxConns:        parseInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        parseInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnLifetime: parseDurationEnv("DB_MAX_CONN_LIFETIME", 30*time.Minute),
		DBMaxConnIdleTime: parseDurationEnv("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg.FacebookAppID = os.Getenv("FACEBOOK_APP_ID")
	if cfg.FacebookAppID == "" {
		return nil, fmt.Errorf("FACEBOOK_APP_ID is required")
	}

	cfg.FacebookAppSecret = os.Getenv("FACEBOOK_APP_SECRET")
	if cfg.FacebookAppSecret == "" {
		return nil, fmt.Errorf("FACEBOOK_APP_SECRET is required")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseInt32Env(key string, fallback int32) int32 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return int32(parsed)
}

func parseIntEnv(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationEnv(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
