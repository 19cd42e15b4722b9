package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Mode)
	assert.Equal(t, "Stardust", cfg.Game.DefaultPetName)
	assert.Equal(t, 20, cfg.Game.DefaultTimePreference)
	assert.Equal(t, 36*time.Hour, cfg.Game.ContentCacheTTL)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Error(t, cfg.Validate(), "jwt secret is required")
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8081
database:
  mode: sqlite_memory
security:
  jwt_secret: from-file
game:
  prewarm_interval: 10m
`), 0o600))
	t.Setenv("STARDUST_SECURITY_JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "sqlite_memory", cfg.Database.Mode)
	assert.Equal(t, "from-env", cfg.Security.JWTSecret)
	assert.Equal(t, 10*time.Minute, cfg.Game.PrewarmInterval)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STARDUST_SERVER_PORT=9090\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("STARDUST_SERVER_PORT") })

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_BadYAML(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_Database(t *testing.T) {
	cfg := &Config{Security: SecurityConfig{JWTSecret: "s"}, Database: DatabaseConfig{Mode: "mysql"}}
	assert.Error(t, cfg.Validate())
	cfg.Database.MySQLDSN = "user:pass@tcp(localhost)/db"
	assert.NoError(t, cfg.Validate())
	cfg.Database.Mode = "oracle"
	assert.Error(t, cfg.Validate())
}
