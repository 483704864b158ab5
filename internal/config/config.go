package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the environment-derived settings for the service.
type Config struct {
	Port     string
	RedisURL string

	AMQPURL      string
	AMQPExchange string

	// Room bookkeeping knobs. Cap and TTL differ between deployments and are
	// deliberately configuration, not constants.
	RoomCap          int
	RoomTTL          time.Duration
	ClearOnLastLeave bool

	// Secret for minting room-scoped realtime credentials. Token issuance
	// fails when empty.
	RealtimeSecret string
	TokenTTL       time.Duration

	// Shared-password login gate.
	SharedPassword string
	CookieName     string

	Environment  string
	Debug        bool
	OTLPEndpoint string
}

// Load reads the configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		Port:     getEnv("PORT", "8083"),
		RedisURL: getEnv("REDIS_URL", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "chat_events"),

		RoomCap:          getEnvInt("CHAT_ROOM_CAP", 50),
		RoomTTL:          getEnvDuration("CHAT_ROOM_TTL", 240*time.Hour),
		ClearOnLastLeave: getEnvBool("CHAT_CLEAR_ON_LAST_LEAVE", true),

		RealtimeSecret: getEnv("CHAT_REALTIME_SECRET", ""),
		TokenTTL:       getEnvDuration("CHAT_TOKEN_TTL", time.Hour),

		SharedPassword: getEnv("SHARED_PASSWORD", ""),
		CookieName:     getEnv("COOKIE_NAME", "cat_auth"),

		Environment:  getEnv("ENVIRONMENT", "dev"),
		Debug:        getEnvBool("CHAT_DEBUG", false),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
