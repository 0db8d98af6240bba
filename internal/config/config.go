package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT (session glue for the identity provider)
	JwtSecret string
	JwtTTL    time.Duration

	// Server
	ApiPort string

	// Caching
	StatsCacheTTL time.Duration

	// App Defaults
	AppName string

	// Rate Limiting Defaults
	RateLimitBucketSize int
	RateLimitRefillRate int // tokens per second
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode, // Set from flag
	}

	var err error

	// Helper function to get env var or default
	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	// Helper function to get required env var
	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	// Helper function to get int env var or default
	getIntEnv := func(key string, defaultValue int) (int, error) {
		raw, exists := os.LookupEnv(key)
		if !exists {
			return defaultValue, nil
		}
		value, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, fmt.Errorf("invalid integer for %s: %q", key, raw)
		}
		return value, nil
	}

	// Helper function to get duration env var or default
	getDurationEnv := func(key string, defaultValue time.Duration) (time.Duration, error) {
		raw, exists := os.LookupEnv(key)
		if !exists {
			return defaultValue, nil
		}
		value, convErr := time.ParseDuration(raw)
		if convErr != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q", key, raw)
		}
		return value, nil
	}

	cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "dripdrop")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = getIntEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg.JwtSecret, err = getRequiredEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	cfg.JwtTTL, err = getDurationEnv("JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg.ApiPort = getEnv("API_PORT", "8080")

	cfg.StatsCacheTTL, err = getDurationEnv("STATS_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.AppName = getEnv("APP_NAME", "DripDrop")

	cfg.RateLimitBucketSize, err = getIntEnv("RATE_LIMIT_BUCKET_SIZE", 60)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitRefillRate, err = getIntEnv("RATE_LIMIT_REFILL_RATE", 20)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
