package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"CONFIG_PATH", "HTTPS_PROXY", "RATESCOPE_PROXY", "RATESCOPE_LOG_LEVEL", "DASHBOARD_ADDR", "SCRAPE_TIMEOUT"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.Scrape.Timeout)
	assert.Equal(t, 3, cfg.Scrape.Concurrency)
	assert.True(t, cfg.Headless())
	assert.Equal(t, ":8501", cfg.Dashboard.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, time.Minute, cfg.Stocks.AutoUpdateInterval)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "https://rate.bot.com.tw/xrt?Lang=zh-TW", cfg.Sources.BankRatesURL)
}

func TestLoad_FileAndLocalOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `
log:
  level: debug
scrape:
  timeout: 10s
  concurrency: 5
  headless: false
dashboard:
  addr: ":9000"
stocks:
  watchlist: ["2330", "2317"]
`)
	writeFile(t, filepath.Join(dir, "config.local.yaml"), `
scrape:
  concurrency: 2
dashboard:
  refresh_interval: 5m
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10*time.Second, cfg.Scrape.Timeout)
	assert.Equal(t, 2, cfg.Scrape.Concurrency)
	assert.False(t, cfg.Headless())
	assert.Equal(t, ":9000", cfg.Dashboard.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, []string{"2330", "2317"}, cfg.Stocks.Watchlist)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTPS_PROXY", "http://generic:8080")
	t.Setenv("RATESCOPE_PROXY", "http://specific:3128")
	t.Setenv("RATESCOPE_LOG_LEVEL", "warn")
	t.Setenv("DASHBOARD_ADDR", "127.0.0.1:8080")
	t.Setenv("SCRAPE_TIMEOUT", "45s")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://specific:3128", cfg.Scrape.Proxy)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:8080", cfg.Dashboard.Addr)
	assert.Equal(t, 45*time.Second, cfg.Scrape.Timeout)
}

func TestLoad_ConfigPathEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "alt.yaml")
	writeFile(t, path, "poll_interval: 250ms\n")
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "log: [unclosed\n")
	_, err := Load(path)
	assert.Error(t, err)

	t.Setenv("SCRAPE_TIMEOUT", "soon")
	_, err = Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	bad := *cfg
	bad.Sources.StockQuoteURL = "https://example.com/stock"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Scrape.RequestsPerSecond = -1
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Dashboard.RefreshInterval = time.Millisecond
	assert.Error(t, bad.Validate())
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "configs/config.local.yaml", LocalPath("configs/config.yaml"))
	assert.Equal(t, "app.local", LocalPath("app"))
}
