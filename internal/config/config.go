package config

import (
	"os"
	"strconv"

	"livestream_backend/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string

	// Chat limits
	MaxChatLen     int
	ChatRateLimit  int
	ChatRateWindow int

	// Live feed page size
	LiveFeedLimit int
}

// Load reads configuration from the environment, .env included.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	// optional, rate limiting falls back to in-memory without it
	redisAddr := os.Getenv("REDIS_ADDR")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	maxChatLen := 500
	if v := os.Getenv("MAX_CHAT_LEN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxChatLen = n
		}
	}

	chatRateLimit := 30
	if v := os.Getenv("CHAT_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			chatRateLimit = n
		}
	}

	chatRateWindow := 60
	if v := os.Getenv("CHAT_RATE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			chatRateWindow = n
		}
	}

	liveFeedLimit := 50
	if v := os.Getenv("LIVE_FEED_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			liveFeedLimit = n
		}
	}

	return &Config{
		AppPort:        port,
		DatabaseURL:    dbURL,
		RedisAddr:      redisAddr,
		JWTSecret:      jwtSecret,
		MaxChatLen:     maxChatLen,
		ChatRateLimit:  chatRateLimit,
		ChatRateWindow: chatRateWindow,
		LiveFeedLimit:  liveFeedLimit,
	}
}
