package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"go-blog-platform/internal/database"
)

// AuthConfig configures the auth service binary.
type AuthConfig struct {
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration
	Database           database.Config
	JWTSecret          string
	AccessTTL          time.Duration
	RefreshTTL         time.Duration
	BcryptCost         int
	CORSOrigins        []string
	RateLimitRPM       int
	AuthRateLimitRPM   int
}

// PostsConfig configures the posts service binary.
type PostsConfig struct {
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration
	Database           database.Config
	AuthServiceURL     string
	AuthTimeout        time.Duration
	CORSOrigins        []string
	RateLimitRPM       int
}

func LoadAuth() (*AuthConfig, error) {
	_ = godotenv.Load()

	cfg := &AuthConfig{
		ServerPort:         getEnv("SERVER_PORT", "3000"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		Database:           loadDatabase(),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AccessTTL:          ParseExpiry(getEnv("JWT_ACCESS_EXPIRES", "1h")),
		RefreshTTL:         ParseExpiry(getEnv("JWT_REFRESH_EXPIRES", "7d")),
		BcryptCost:         getInt("BCRYPT_COST", 10),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:       getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:   getInt("AUTH_RATE_LIMIT_RPM", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AuthConfig) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if strings.TrimSpace(c.Database.URL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}

	return nil
}

func LoadPosts() (*PostsConfig, error) {
	_ = godotenv.Load()

	cfg := &PostsConfig{
		ServerPort:         getEnv("SERVER_PORT", "3001"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		Database:           loadDatabase(),
		AuthServiceURL:     strings.TrimRight(getEnv("AUTH_SERVICE_URL", ""), "/"),
		AuthTimeout:        getDuration("AUTH_TIMEOUT", 5*time.Second),
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:       getInt("RATE_LIMIT_RPM", 100),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *PostsConfig) Validate() error {
	if strings.TrimSpace(c.AuthServiceURL) == "" {
		return fmt.Errorf("AUTH_SERVICE_URL is required")
	}

	if strings.TrimSpace(c.Database.URL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	return nil
}

func loadDatabase() database.Config {
	return database.Config{
		URL:             getEnv("DATABASE_URL", ""),
		MaxConns:        int32(getInt("DB_MAX_CONNS", 10)),
		MinConns:        int32(getInt("DB_MIN_CONNS", 2)),
		MaxConnLifetime: getDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
		MaxConnIdleTime: getDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
	}
}

// ParseExpiry converts an expiry string such as "7d", "1h" or "30m" into a
// duration. A value with no recognized suffix is read as integer seconds;
// trailing garbage after the leading integer is ignored.
func ParseExpiry(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	value := leadingInt(raw)

	switch {
	case strings.HasSuffix(raw, "d"):
		return time.Duration(value) * 24 * time.Hour
	case strings.HasSuffix(raw, "h"):
		return time.Duration(value) * time.Hour
	case strings.HasSuffix(raw, "m"):
		return time.Duration(value) * time.Minute
	default:
		return time.Duration(value) * time.Second
	}
}

func leadingInt(raw string) int64 {
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}

	value, err := strconv.ParseInt(raw[:end], 10, 64)
	if err != nil {
		return 0
	}

	return value
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
