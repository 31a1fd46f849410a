package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration for cmd/server.
type Server struct {
	Addr string
	// RequestTimeout bounds handler work. Server write timeouts derive from it.
	RequestTimeout time.Duration
	Environment    string
	Logging        LoggingConfig
	Auth           AuthConfig
	Redis          RedisConfig
	Database       DatabaseConfig
	Kafka          KafkaConfig
	RateLimit      RateLimitConfig
	AuditBuffer    int
}

type LoggingConfig struct {
	Level  string
	Format string
}

// AuthConfig controls token issuance and password reset codes.
type AuthConfig struct {
	JWTSigningKey string
	Issuer        string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
}

// RedisConfig is optional; an empty URL keeps revocation and reset codes in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig is optional; an empty URL keeps accounts in memory.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// KafkaConfig is optional; without brokers reset codes are only logged.
type KafkaConfig struct {
	Brokers    []string
	ResetTopic string
}

// RateLimitConfig bounds unauthenticated auth requests per client IP. A
// zero AuthLimit turns the limit off.
type RateLimitConfig struct {
	AuthLimit  int
	AuthWindow time.Duration
}

const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:           getEnv("BLOOMIT_ADDR", ":8080"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 15*time.Second),
		Environment:    getEnv("BLOOMIT_ENV", "development"),
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Auth: AuthConfig{
			// Use a default for development - should be overridden in production
			JWTSigningKey: getEnv("JWT_SIGNING_KEY", devSigningKey),
			Issuer:        getEnv("JWT_ISSUER", "bloomit"),
			TokenTTL:      getDuration("TOKEN_TTL", 24*time.Hour),
			ResetTokenTTL: getDuration("RESET_TOKEN_TTL", time.Hour),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(os.Getenv("KAFKA_BROKERS")),
			ResetTopic: getEnv("KAFKA_RESET_TOPIC", "bloomit.password-reset"),
		},
		RateLimit: RateLimitConfig{
			AuthLimit:  getInt("AUTH_RATE_LIMIT", 20),
			AuthWindow: getDuration("AUTH_RATE_WINDOW", time.Minute),
		},
		AuditBuffer: getInt("AUDIT_BUFFER", 1024),
	}
}

// IsProduction reports whether dev-only defaults must be rejected.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// UsesDevSigningKey is true when JWT_SIGNING_KEY was left unset.
func (s Server) UsesDevSigningKey() bool {
	return s.Auth.JWTSigningKey == devSigningKey
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
