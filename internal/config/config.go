package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

// Config holds the remote store settings.
type Config struct {
	Port           int
	StoreURI       string
	StoreDriver    string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration
	LogLevel       string
	LogFormat      string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = FromEnv()
}

// FromEnv reads the store configuration from the process environment.
func FromEnv() Config {
	cfg := Config{
		Port:           getIntEnv("PORT", 8080),
		StoreURI:       getEnvOrDefault("STORE_URI", "mongodb://localhost:27017"),
		DBName:         getEnvOrDefault("DB_NAME", "pinet"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", "pinet-dev-secret-not-for-production"),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 60, time.Minute),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:      getEnvOrDefault("LOG_FORMAT", "text"),
	}
	cfg.StoreDriver = DetectDriver(cfg.StoreURI)
	return cfg
}

// DetectDriver maps a store URI onto "mongo", "postgres" or "sqlite".
func DetectDriver(uri string) string {
	switch {
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return "mongo"
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(uri, "sqlite://"), strings.HasPrefix(uri, "sqlite3://"):
		return "sqlite"
	case strings.HasSuffix(uri, ".db"), strings.HasSuffix(uri, ".sqlite"), uri == ":memory:":
		return "sqlite"
	}
	return "mongo"
}

// SQLiteDSN strips the scheme from a sqlite store URI.
func SQLiteDSN(uri string) string {
	uri = strings.TrimPrefix(uri, "sqlite3://")
	uri = strings.TrimPrefix(uri, "sqlite://")
	return strings.TrimPrefix(uri, "file:")
}
