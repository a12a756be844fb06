package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromYAML(t *testing.T, yaml string) *Config {
	t.Helper()
	viper.Reset()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	return cfg
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := loadFromYAML(t, `
server:
  port: 8080
database:
  host: localhost
`)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.TimeoutSeconds)
	assert.Equal(t, float64(100), cfg.Server.RateLimit)
	assert.Equal(t, 200, cfg.Server.RateBurst)
	assert.Equal(t, 24, cfg.JWT.ExpiryHours)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
}

func TestLoadConfigExplicitValues(t *testing.T) {
	cfg := loadFromYAML(t, `
server:
  port: 9090
  timeoutSeconds: 10
  rateLimit: 25
  rateBurst: 50
jwt:
  secret: s3cret
  expiry_hours: 1
database:
  host: db.internal
  sslmode: require
`)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.TimeoutSeconds)
	assert.Equal(t, float64(25), cfg.Server.RateLimit)
	assert.Equal(t, 50, cfg.Server.RateBurst)
	assert.Equal(t, 1, cfg.JWT.ExpiryHours)
	assert.Equal(t, "require", cfg.Database.SSLMode)
}
