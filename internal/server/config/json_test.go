package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":        "www.example:9000",
		"database_dsn":              "sqlite://umbra.db",
		"secret_key":                "my_secret_key",
		"session_validity_duration": "24h",
		"data_dir":                  "/var/lib/umbra",
		"levels_file":               "/etc/umbra/levels.yaml",
		"web_dir":                   "/srv/web",
		"log_level":                 "warn",
		"s3_root_user":              "user",
		"s3_root_password":          "password",
		"s3_bucket":                 "bucket",
		"s3_region":                 "region",
		"s3_base_endpoint":          "base_endpoint",
		"s3_prefix":                 "umbra/",
		"shutdown_timeout":          "3s",
	})
	pathEnv := writeTempJSON(t, dir, "env.json", map[string]any{
		"endpoint_addr_http": "env.example:9000",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		parseJson(cfg, []string{"-config", pathFlag})

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "sqlite://umbra.db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 24*time.Hour, cfg.SessionValidityDuration)
		assert.Equal(t, "/var/lib/umbra", cfg.DataDir)
		assert.Equal(t, "/etc/umbra/levels.yaml", cfg.LevelsFile)
		assert.Equal(t, "/srv/web", cfg.WebDir)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, "umbra/", cfg.S3Prefix)
		assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("short flag", func(t *testing.T) {
		cfg := &Config{}
		parseJson(cfg, []string{"-c", pathFlag})
		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
	})

	t.Run("env names the file when no flag is given", func(t *testing.T) {
		t.Setenv("UMBRA_CONFIG", pathEnv)

		cfg := &Config{}
		parseJson(cfg, nil)
		assert.Equal(t, "env.example:9000", cfg.EndpointAddrHTTP)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-c", pathEnv})

		assert.Equal(t, "env.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "data", cfg.DataDir)
		assert.Equal(t, 7*24*time.Hour, cfg.SessionValidityDuration)
	})

	t.Run("no file", func(t *testing.T) {
		cfg := &Config{EndpointAddrHTTP: "keep"}
		parseJson(cfg, nil)
		assert.Equal(t, "keep", cfg.EndpointAddrHTTP)
	})

	t.Run("invalid json panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		require.Panics(t, func() { parseJson(&Config{}, []string{"-c", bad}) })
	})
}
