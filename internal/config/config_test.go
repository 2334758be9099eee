package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv 屏蔽宿主机上可能存在的覆盖变量
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DATABASE_URL", "API_TITLE", "API_VERSION", "CORS_ORIGINS", "PORT"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "Multistream HLTV API", cfg.API.Title)
	assert.Equal(t, "2.0.0", cfg.API.Version)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.Equal(t, "https://www.hltv.org", cfg.Scraper.BaseURL)
	assert.Equal(t, 3, cfg.Scraper.RetryCount)
	assert.Equal(t, 2*time.Second, cfg.Scraper.RetryDelay)
	assert.Equal(t, 30*time.Second, cfg.Scraper.TimeoutDuration())
	assert.Equal(t, 10*time.Minute, cfg.Sync.MatchesInterval)
	assert.Equal(t, "0 0 * * *", cfg.Sync.EventsCron)
	assert.Equal(t, "0 4 * * *", cfg.Sync.HighlightsCron)
	assert.Equal(t, 7*24*time.Hour, cfg.Sync.HighlightsWindow())
	assert.Equal(t, "sql", cfg.Database.Migrate)
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)
	dir := writeConfig(t, `
server:
  port: 9100
database:
  dsn: postgres://u:p@db:5432/hltv
  conn_max_lifetime: 5m
scraper:
  retry_delay: 500ms
  unknown_key: ignored
sync:
  matches_interval: 2m
`)
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db:5432/hltv", cfg.Database.DSN)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 500*time.Millisecond, cfg.Scraper.RetryDelay)
	assert.Equal(t, 2*time.Minute, cfg.Sync.MatchesInterval)
	// 未出现在文件中的字段保持默认值
	assert.Equal(t, 3, cfg.Scraper.RetryCount)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := writeConfig(t, "database:\n  dsn: postgres://file/db\n")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("API_TITLE", "Overlay API")
	t.Setenv("API_VERSION", "3.1.0")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("PORT", "8080")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/db", cfg.Database.DSN)
	assert.Equal(t, "Overlay API", cfg.API.Title)
	assert.Equal(t, "3.1.0", cfg.API.Version)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.Origins)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	dir := writeConfig(t, "server: [unclosed\n")
	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, cfg.Validate(), "dsn 为空应报错")

	cfg.Database.DSN = "postgres://x"
	assert.NoError(t, cfg.Validate())

	cfg.Database.Migrate = "flyway"
	assert.Error(t, cfg.Validate())
}
