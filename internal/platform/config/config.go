package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Redis captures connection settings for the template cache.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Config captures everything main needs to wire the service.
type Config struct {
	Addr          string
	PostgresURL   string
	Redis         Redis
	KafkaBrokers  []string
	JWTSigningKey string
}

// FromEnv builds a Config from environment variables so main stays lean.
// Postgres, Redis, and Kafka are each optional; main falls back to in-memory
// implementations when their settings are empty.
func FromEnv() Config {
	addr := os.Getenv("CERTFORM_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("CERTFORM_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - override in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("CERTFORM_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return Config{
		Addr:        addr,
		PostgresURL: os.Getenv("CERTFORM_POSTGRES_URL"),
		Redis: Redis{
			URL:          os.Getenv("CERTFORM_REDIS_URL"),
			PoolSize:     envInt("CERTFORM_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("CERTFORM_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaBrokers:  brokers,
		JWTSigningKey: jwtSigningKey,
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
