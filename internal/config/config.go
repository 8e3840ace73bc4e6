package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when neither --config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Scrape struct {
		Timeout           time.Duration `yaml:"timeout"`
		Concurrency       int           `yaml:"concurrency"`
		RequestsPerSecond float64       `yaml:"requests_per_second"`
		UserAgent         string        `yaml:"user_agent"`
		Proxy             string        `yaml:"proxy"`
		// Headless controls the quote renderer; the browse demos are always visible.
		Headless *bool `yaml:"headless"`
	} `yaml:"scrape"`
	Sources struct {
		BankRatesURL      string `yaml:"bank_rates_url"`
		StockQuoteURL     string `yaml:"stock_quote_url"`
		StockDirectoryURL string `yaml:"stock_directory_url"`
	} `yaml:"sources"`
	Dashboard struct {
		Addr            string        `yaml:"addr"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
	} `yaml:"dashboard"`
	Stocks struct {
		AutoUpdateInterval time.Duration `yaml:"auto_update_interval"`
		Watchlist          []string      `yaml:"watchlist"`
	} `yaml:"stocks"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Load reads config from a YAML file and its optional "<name>.local.yaml"
// sibling, then applies .env and environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}
	cfg := &Config{}

	if err := readYAML(path, cfg); err != nil {
		return nil, err
	}
	var local Config
	localPath := LocalPath(path)
	if err := readYAML(localPath, &local); err != nil {
		return nil, err
	}
	if err := mergo.Merge(cfg, local, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merge %s: %w", localPath, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LocalPath returns the override file for path: "configs/config.yaml" becomes
// "configs/config.local.yaml".
func LocalPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

func readYAML(path string, out *Config) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read config: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Scrape.Proxy = v
	}
	if v := os.Getenv("RATESCOPE_PROXY"); v != "" {
		c.Scrape.Proxy = v
	}
	if v := os.Getenv("RATESCOPE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DASHBOARD_ADDR"); v != "" {
		c.Dashboard.Addr = v
	}
	if v := os.Getenv("SCRAPE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SCRAPE_TIMEOUT: %w", err)
		}
		c.Scrape.Timeout = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Scrape.Timeout == 0 {
		c.Scrape.Timeout = 30 * time.Second
	}
	if c.Scrape.Concurrency == 0 {
		c.Scrape.Concurrency = 3
	}
	if c.Scrape.Headless == nil {
		headless := true
		c.Scrape.Headless = &headless
	}
	if c.Sources.BankRatesURL == "" {
		c.Sources.BankRatesURL = "https://rate.bot.com.tw/xrt?Lang=zh-TW"
	}
	if c.Sources.StockQuoteURL == "" {
		c.Sources.StockQuoteURL = "https://www.wantgoo.com/stock/%s/technical-chart"
	}
	if c.Sources.StockDirectoryURL == "" {
		c.Sources.StockDirectoryURL = "https://isin.twse.com.tw/isin/C_public.jsp?strMode=2"
	}
	if c.Dashboard.Addr == "" {
		c.Dashboard.Addr = ":8501"
	}
	if c.Dashboard.RefreshInterval == 0 {
		c.Dashboard.RefreshInterval = 10 * time.Minute
	}
	if c.Stocks.AutoUpdateInterval == 0 {
		c.Stocks.AutoUpdateInterval = 60 * time.Second
	}
	if c.PollInterval == 0 {
		c.PollInterval = 100 * time.Millisecond
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if c.Scrape.Timeout <= 0 {
		return fmt.Errorf("scrape.timeout must be positive")
	}
	if c.Scrape.Concurrency < 1 {
		return fmt.Errorf("scrape.concurrency must be at least 1")
	}
	if c.Scrape.RequestsPerSecond < 0 {
		return fmt.Errorf("scrape.requests_per_second must not be negative")
	}
	if !strings.Contains(c.Sources.StockQuoteURL, "%s") {
		return fmt.Errorf("sources.stock_quote_url must contain %%s for the stock code")
	}
	if c.Dashboard.RefreshInterval < time.Second {
		return fmt.Errorf("dashboard.refresh_interval must be at least 1s")
	}
	if c.Stocks.AutoUpdateInterval < time.Second {
		return fmt.Errorf("stocks.auto_update_interval must be at least 1s")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	return nil
}

// Headless reports whether quote pages render without a window.
func (c *Config) Headless() bool {
	return c.Scrape.Headless == nil || *c.Scrape.Headless
}
