package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Goal storage strategies
const (
	BackendMock     = "mock"
	BackendDatabase = "database"
)

// KV drivers backing the mock store
const (
	KVMemory    = "memory"
	KVFile      = "file"
	KVRedis     = "redis"
	KVFirestore = "firestore"
	KVS3        = "s3"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTExpiry   time.Duration
	LogLevel    string
	SentryDSN   string

	// Goal storage
	DataBackend string
	MockLatency time.Duration
	MockSeed    bool
	StorageKey  string

	// Durable key-value storage for the mock store
	KVDriver            string
	KVPath              string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	FirestoreProject    string
	FirestoreCollection string
	S3Region            string
	S3Bucket            string
	S3AccessKey         string
	S3SecretKey         string
	S3Endpoint          string

	AuthRateLimit  int
	AuthRateWindow time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	return &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "habitus.db"),
		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiry:   getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),

		DataBackend: getEnv("DATA_BACKEND", BackendDatabase),
		MockLatency: getEnvDuration("MOCK_LATENCY", 500*time.Millisecond),
		MockSeed:    getEnvBool("MOCK_SEED", true),
		StorageKey:  getEnv("STORAGE_KEY", "mockGoals"),

		KVDriver:            getEnv("KV_DRIVER", KVFile),
		KVPath:              getEnv("KV_PATH", "./data"),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		FirestoreProject:    getEnv("FIRESTORE_PROJECT", ""),
		FirestoreCollection: getEnv("FIRESTORE_COLLECTION", "kv"),
		S3Region:            getEnv("S3_REGION", "us-east-1"),
		S3Bucket:            getEnv("S3_BUCKET", ""),
		S3AccessKey:         getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:         getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:          getEnv("S3_ENDPOINT", ""),

		AuthRateLimit:  getEnvInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindow: getEnvDuration("AUTH_RATE_WINDOW", time.Minute),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate checks option combinations that can only fail at startup.
func (c *Config) Validate() error {
	switch c.DataBackend {
	case BackendMock, BackendDatabase:
	default:
		return fmt.Errorf("unknown DATA_BACKEND %q", c.DataBackend)
	}

	switch c.KVDriver {
	case KVMemory, KVFile:
	case KVRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("KV_DRIVER=redis requires REDIS_ADDR")
		}
	case KVFirestore:
		if c.FirestoreProject == "" {
			return fmt.Errorf("KV_DRIVER=firestore requires FIRESTORE_PROJECT")
		}
	case KVS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("KV_DRIVER=s3 requires S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown KV_DRIVER %q", c.KVDriver)
	}

	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.MockLatency < 0 {
		return fmt.Errorf("MOCK_LATENCY must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", value)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", value)
		return fallback
	}
	return d
}
