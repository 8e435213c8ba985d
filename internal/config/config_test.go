package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
driver = "sqlite"
path = "clinic.db"

[clinic]
demo_slots = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "clinic.db", cfg.Database.DSN())
	assert.True(t, cfg.Clinic.DemoSlots)
	assert.Equal(t, 5*time.Second, cfg.Clinic.LockTimeout())
	assert.Equal(t, LockLocal, cfg.Lock.Backend)

	loc, err := cfg.Clinic.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoad_Postgres(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db"
port = 5433
user = "clinic"
password = "secret"
dbname = "clinic"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5433 user=clinic password=secret dbname=clinic sslmode=disable", cfg.Database.DSN())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown driver", body: "[database]\ndriver = \"mysql\"\n"},
		{name: "sqlite without path", body: "[database]\ndriver = \"sqlite\"\n"},
		{name: "bad timezone", body: "[database]\ndriver = \"memory\"\n[clinic]\ntimezone = \"Mars/Base\"\n"},
		{name: "short redis lease", body: "[database]\ndriver = \"memory\"\n[lock]\nbackend = \"redis\"\nlease_ttl_seconds = 2\n"},
		{name: "zero rate", body: "[database]\ndriver = \"memory\"\n[rate_limit]\nenabled = true\nrequests_per_second = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
