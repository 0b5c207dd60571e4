package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultMaxUploadBytes caps a single uploaded document at 5 MiB.
const DefaultMaxUploadBytes = 5 << 20

type Config struct {
	AppEnv    string
	Port      string
	LogLevel  string
	LogFormat string

	DatabaseURL string
	RedisURL    string

	JWTSecret string
	TokenTTL  time.Duration

	MaxUploadBytes int64

	AuthRateLimit  int
	AuthRateWindow time.Duration

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "text"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "applications"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters, got %d", len(cfg.JWTSecret))
	}

	// Cloudinary credentials: all three must be set together
	if cfg.CloudinaryCloudName != "" || cfg.CloudinaryAPIKey != "" || cfg.CloudinaryAPISecret != "" {
		if cfg.CloudinaryCloudName == "" {
			return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME is required when Cloudinary credentials are set")
		}
		if cfg.CloudinaryAPIKey == "" {
			return nil, fmt.Errorf("CLOUDINARY_API_KEY is required when Cloudinary credentials are set")
		}
		if cfg.CloudinaryAPISecret == "" {
			return nil, fmt.Errorf("CLOUDINARY_API_SECRET is required when Cloudinary credentials are set")
		}
	} else {
		return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}

	ttl, err := parseDuration("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.TokenTTL = ttl

	maxUpload, err := parseInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}
	if maxUpload <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", maxUpload)
	}
	cfg.MaxUploadBytes = maxUpload

	rateLimit, err := parseInt64("AUTH_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	if rateLimit <= 0 {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT must be positive, got %d", rateLimit)
	}
	cfg.AuthRateLimit = int(rateLimit)

	rateWindow, err := parseDuration("AUTH_RATE_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.AuthRateWindow = rateWindow

	return cfg, nil
}

// IsProduction reports whether the app runs in production deployment mode.
// Error responses hide internal detail when it does.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 24h: %w", key, err)
	}
	return d, nil
}

func parseInt64(key string, defaultValue int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
