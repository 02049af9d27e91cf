package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "DATABASE_URL", "DATABASE_PATH", "WEBHOOK_URL", "CORS_ORIGINS", "WEB_API_URL"} {
		// Setenv registers the restore; Unsetenv makes the key absent.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := LoadConfig()

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "*", cfg.CORSOrigins)
	assert.Empty(t, cfg.WebAPIURL)
	assert.Equal(t, StorageMemory, cfg.StorageBackend())
	assert.False(t, cfg.IsProduction())
}

func TestStorageBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "nothing set", cfg: Config{}, want: StorageMemory},
		{name: "path only", cfg: Config{DatabasePath: "/var/lib/ledger"}, want: StorageBadger},
		{name: "url only", cfg: Config{DatabaseURL: "postgres://localhost/ledger"}, want: StoragePostgres},
		{name: "url wins", cfg: Config{DatabaseURL: "postgres://localhost/ledger", DatabasePath: "/tmp/x"}, want: StoragePostgres},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.cfg.StorageBackend())
		})
	}
}

func TestLoadConfigTrimsStorageSettings(t *testing.T) {
	t.Setenv("DATABASE_URL", "   ")
	t.Setenv("DATABASE_PATH", " ./data ")
	t.Setenv("ENV", "Production")

	cfg := LoadConfig()

	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "./data", cfg.DatabasePath)
	assert.Equal(t, StorageBadger, cfg.StorageBackend())
	assert.True(t, cfg.IsProduction())
}
