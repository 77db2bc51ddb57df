package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Defaults(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.HTTPPort)
	assert.Equal(t, 60*time.Second, cfg.Server.Timeout)
	assert.True(t, cfg.Server.Swagger)
	assert.True(t, cfg.Handlers.Prometheus.Enabled)
	assert.Equal(t, "9090", cfg.Handlers.Prometheus.Port)

	assert.Contains(t, cfg.Upstream.URL, "samples.openweathermap.org")
	assert.Equal(t, "appid", cfg.Upstream.APIKeyParam)
	assert.NotEmpty(t, cfg.Upstream.APIKey)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, ExtractionPattern, cfg.Upstream.Extraction)
	assert.Equal(t, time.Duration(0), cfg.Upstream.CacheTTL)
}

func TestInitConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CITYCOUNT_UPSTREAM_URL", "http://localhost:9999/cities")
	t.Setenv("CITYCOUNT_UPSTREAM_EXTRACTION", "structural")
	t.Setenv("CITYCOUNT_UPSTREAM_CACHETTL", "30s")

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/cities", cfg.Upstream.URL)
	assert.Equal(t, ExtractionStructural, cfg.Upstream.Extraction)
	assert.Equal(t, 30*time.Second, cfg.Upstream.CacheTTL)
}

func TestInitConfig_RejectsInvalidOverride(t *testing.T) {
	t.Setenv("CITYCOUNT_UPSTREAM_EXTRACTION", "xml")

	_, err := InitConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestInitConfig_AppEnvSelectsMode(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Mode)
}

func TestInitConfig_LoadsDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CITYCOUNT_UPSTREAM_URL=http://from-dotenv:8081/cities\n"), 0o600))
	t.Setenv("CITYCOUNT_DOTENV", path)
	t.Cleanup(func() { _ = os.Unsetenv("CITYCOUNT_UPSTREAM_URL") })

	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Dotenv)
	assert.Equal(t, "http://from-dotenv:8081/cities", cfg.Upstream.URL)
}

func TestInitConfig_EnvironmentBeatsDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CITYCOUNT_UPSTREAM_URL=http://from-dotenv:8081/cities\n"), 0o600))
	t.Setenv("CITYCOUNT_DOTENV", path)
	t.Setenv("CITYCOUNT_UPSTREAM_URL", "http://from-env:8082/cities")

	cfg, err := InitConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8082/cities", cfg.Upstream.URL)
}

func TestInitConfig_MissingDotenvIsNotFatal(t *testing.T) {
	t.Setenv("CITYCOUNT_DOTENV", filepath.Join(t.TempDir(), "absent.env"))

	_, err := InitConfig()
	assert.NoError(t, err)
}

func validConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := InitConfig()
	require.NoError(t, err)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad mode", mutate: func(c *Config) { c.Mode = "staging" }, wantErr: true},
		{name: "missing port", mutate: func(c *Config) { c.Server.HTTPPort = "" }, wantErr: true},
		{name: "non numeric port", mutate: func(c *Config) { c.Server.HTTPPort = "http" }, wantErr: true},
		{name: "bad url", mutate: func(c *Config) { c.Upstream.URL = "not a url" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Upstream.Timeout = 0 }, wantErr: true},
		{name: "negative cache ttl", mutate: func(c *Config) { c.Upstream.CacheTTL = -time.Second }, wantErr: true},
		{name: "key without param", mutate: func(c *Config) { c.Upstream.APIKeyParam = "" }, wantErr: true},
		{name: "no key no param", mutate: func(c *Config) {
			c.Upstream.APIKey = ""
			c.Upstream.APIKeyParam = ""
		}},
		{name: "structural without path", mutate: func(c *Config) {
			c.Upstream.Extraction = ExtractionStructural
			c.Upstream.NamePath = ""
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
