package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends, chosen from which settings are present.
const (
	StorageMemory   = "memory"
	StorageBadger   = "badger"
	StoragePostgres = "postgres"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	DatabasePath  string
	WebhookURL    string
	WebhookSecret string
	CORSOrigins   string
	WebAPIURL     string

	// EnvFileLoaded reports whether a .env file was found. The logger does
	// not exist yet when config loads, so main reports it.
	EnvFileLoaded bool
}

// LoadConfig reads an optional .env file and returns the process configuration.
func LoadConfig() *Config {
	// .env is optional; production relies on the real environment.
	loaded := godotenv.Load() == nil

	return &Config{
		Port:          getEnv("PORT", "4000"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   strings.TrimSpace(getEnv("DATABASE_URL", "")),
		DatabasePath:  strings.TrimSpace(getEnv("DATABASE_PATH", "")),
		WebhookURL:    strings.TrimSpace(getEnv("WEBHOOK_URL", "")),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		WebAPIURL:     strings.TrimSpace(getEnv("WEB_API_URL", "")),
		EnvFileLoaded: loaded,
	}
}

// StorageBackend picks the ledger store. A database URL wins over a local path;
// with neither the ledger lives only in memory.
func (c *Config) StorageBackend() string {
	switch {
	case c.DatabaseURL != "":
		return StoragePostgres
	case c.DatabasePath != "":
		return StorageBadger
	default:
		return StorageMemory
	}
}

// IsProduction reports whether the production logger profile applies.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Helper to get env with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
