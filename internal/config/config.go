package config

import (
	"fmt"
	"os"
	"time"
)

// Platform-wide constants shared by the HTTP handlers and the gateway.
const (
	// SessionCookie is the canonical cookie the web client stores its
	// token in; the WebSocket handshake falls back to it when no
	// explicit token is passed.
	SessionCookie = "connect_token"

	// TokenTTL is the lifetime of an issued session token.
	TokenTTL = 72 * time.Hour

	// TokenIssuer is the iss claim on issued tokens.
	TokenIssuer = "connect-platform"
)

// Config містить налаштування процесу, зчитані зі змінних оточення.
type Config struct {
	Addr      string
	RedisAddr string
	JWTSecret string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
}

// Load reads the configuration from the environment. Only the JWT
// secret is mandatory; everything else has a local-dev default.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:       getenv("ADDR", ":8080"),
		RedisAddr:  getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBUser:     getenv("DB_USER", "user"),
		DBPassword: getenv("DB_PASSWORD", "password"),
		DBName:     getenv("DB_NAME", "connectdb"),
		DBPort:     getenv("DB_PORT", "5432"),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
