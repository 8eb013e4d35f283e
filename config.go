package main

import (
	"fmt"
	"os"
	"time"
)

// Config holds all environment variables for the service.
type Config struct {
	Port      string
	Env       string
	MongoURI  string
	MongoDB   string
	RedisURL  string
	JWTSecret string
	TokenTTL  time.Duration
	CartTTL   time.Duration
}

// LoadConfig loads environment variables into Config and validates them.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("APP_ENV", "development"),
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:   getEnv("MONGO_DB", "booksphere"),
		RedisURL:  getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  24 * time.Hour,
		CartTTL:   7 * 24 * time.Hour,
	}

	if ttl := os.Getenv("CART_TTL"); ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid CART_TTL: %w", err)
		}
		cfg.CartTTL = parsed
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
