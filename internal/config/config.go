// Package config loads a1site settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/poku-e/a1scrap/internal/sheets"
	"github.com/poku-e/a1scrap/internal/site"
)

// DefaultPath is the config file used when --config is not given.
const DefaultPath = "a1site.yaml"

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Site       SiteConfig       `yaml:"site"`
	Relay      RelayConfig      `yaml:"relay"`
	Calculator CalculatorConfig `yaml:"calculator"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	IdleTimeout     string `yaml:"idle_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// StorageConfig selects the sheet store backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // memory, xlsx, sqlite
	Path   string `yaml:"path"`
}

type NavLink struct {
	Href string `yaml:"href"`
	Text string `yaml:"text"`
}

type SiteConfig struct {
	// Root is a directory of static pages served under /. Empty disables it.
	Root          string    `yaml:"root"`
	FallbackMode  string    `yaml:"fallback_mode"`
	FallbackDir   string    `yaml:"fallback_dir"`
	NavBreakpoint int       `yaml:"nav_breakpoint"`
	NavLinks      []NavLink `yaml:"nav_links"`
}

type RelayConfig struct {
	// Timezone names the zone used for row timestamps, e.g. "Asia/Kolkata".
	Timezone string `yaml:"timezone"`
}

type CalculatorConfig struct {
	TaxRate float64 `yaml:"tax_rate"` // percent
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"` // json or console
	GELFAddr string `yaml:"gelf_addr"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     "15s",
			WriteTimeout:    "15s",
			IdleTimeout:     "60s",
			ShutdownTimeout: "10s",
		},
		Storage: StorageConfig{
			Driver: sheets.DriverXLSX,
			Path:   filepath.Join("data", "a1-forms.xlsx"),
		},
		Site: SiteConfig{
			FallbackMode:  string(site.ModeRelay),
			FallbackDir:   filepath.Join("data", "leads"),
			NavBreakpoint: 900,
		},
		Relay:   RelayConfig{Timezone: "UTC"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if addr := os.Getenv("A1_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if v := os.Getenv("A1_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("A1_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("A1_SITE_ROOT"); v != "" {
		c.Site.Root = v
	}
	if v := os.Getenv("A1_FALLBACK_MODE"); v != "" {
		c.Site.FallbackMode = v
	}
	if v := os.Getenv("A1_FALLBACK_DIR"); v != "" {
		c.Site.FallbackDir = v
	}
	if v := os.Getenv("A1_TAX_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("A1_TAX_RATE: %w", err)
		}
		c.Calculator.TaxRate = rate
	}
	if v := os.Getenv("A1_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("A1_GELF_ADDR"); v != "" {
		c.Logging.GELFAddr = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is empty")
	}
	for name, v := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.idle_timeout":     c.Server.IdleTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	switch c.Storage.Driver {
	case sheets.DriverMemory:
	case sheets.DriverXLSX:
		if !strings.EqualFold(filepath.Ext(c.Storage.Path), ".xlsx") {
			return fmt.Errorf("storage.path %q must end in .xlsx", c.Storage.Path)
		}
	case sheets.DriverSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path is empty")
		}
	default:
		return fmt.Errorf("unknown storage driver %q (valid: memory, xlsx, sqlite)", c.Storage.Driver)
	}

	mode, ok := site.ParseMode(c.Site.FallbackMode)
	if !ok {
		return fmt.Errorf("unknown site.fallback_mode %q (valid: relay, local, alongside)", c.Site.FallbackMode)
	}
	if mode != site.ModeRelay && c.Site.FallbackDir == "" {
		return errors.New("site.fallback_dir is required when fallback mode is " + string(mode))
	}
	if c.Site.NavBreakpoint < 0 {
		return errors.New("site.nav_breakpoint must not be negative")
	}
	for i, l := range c.Site.NavLinks {
		if l.Href == "" || l.Text == "" {
			return fmt.Errorf("site.nav_links[%d] needs href and text", i)
		}
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	r := c.Calculator.TaxRate
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return fmt.Errorf("calculator.tax_rate must be a non-negative number, got %v", r)
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if f := c.Logging.Format; f != "json" && f != "console" {
		return fmt.Errorf("logging.format %q (valid: json, console)", f)
	}
	return nil
}

// Mode is the parsed fallback mode. Call after Validate.
func (c *Config) Mode() site.Mode {
	m, _ := site.ParseMode(c.Site.FallbackMode)
	return m
}

// Location loads the relay timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Relay.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Relay.Timezone)
	if err != nil {
		return nil, fmt.Errorf("relay.timezone: %w", err)
	}
	return loc, nil
}

func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return durationOr(s.ReadTimeout, 15*time.Second)
}

func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return durationOr(s.WriteTimeout, 15*time.Second)
}

func (s ServerConfig) IdleTimeoutDuration() time.Duration {
	return durationOr(s.IdleTimeout, 60*time.Second)
}

func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return durationOr(s.ShutdownTimeout, 10*time.Second)
}

func durationOr(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
