package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poku-e/a1scrap/internal/site"
)

var envKeys = []string{
	"PORT", "A1_ADDR", "A1_STORAGE_DRIVER", "A1_STORAGE_PATH", "A1_SITE_ROOT",
	"A1_FALLBACK_MODE", "A1_FALLBACK_DIR", "A1_TAX_RATE", "A1_LOG_LEVEL", "A1_GELF_ADDR",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, site.ModeRelay, cfg.Mode())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeoutDuration())
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "a1site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: "127.0.0.1:9000"
  write_timeout: 30s
storage:
  driver: sqlite
  path: /var/lib/a1/forms.db
site:
  fallback_mode: alongside
  nav_links:
    - {href: "/", text: "Home"}
relay:
  timezone: Asia/Kolkata
calculator:
  tax_rate: 18
logging:
  level: debug
  format: console
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeoutDuration())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeoutDuration(), "unset keys keep defaults")
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, site.ModeAlongside, cfg.Mode())
	assert.Equal(t, 18.0, cfg.Calculator.TaxRate)
	assert.Equal(t, []NavLink{{Href: "/", Text: "Home"}}, cfg.Site.NavLinks)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoadBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [oops"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("PORT sets addr", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "3000")
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.Equal(t, ":3000", cfg.Server.Addr)
	})

	t.Run("A1_ADDR wins over PORT", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "3000")
		t.Setenv("A1_ADDR", "0.0.0.0:4000")
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:4000", cfg.Server.Addr)
	})

	t.Run("storage, site and logging", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("A1_STORAGE_DRIVER", "memory")
		t.Setenv("A1_SITE_ROOT", "./public")
		t.Setenv("A1_FALLBACK_MODE", "local")
		t.Setenv("A1_FALLBACK_DIR", "/tmp/leads")
		t.Setenv("A1_TAX_RATE", "5.5")
		t.Setenv("A1_LOG_LEVEL", "warn")
		t.Setenv("A1_GELF_ADDR", "graylog:12201")

		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "memory", cfg.Storage.Driver)
		assert.Equal(t, "./public", cfg.Site.Root)
		assert.Equal(t, site.ModeLocal, cfg.Mode())
		assert.Equal(t, "/tmp/leads", cfg.Site.FallbackDir)
		assert.Equal(t, 5.5, cfg.Calculator.TaxRate)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, "graylog:12201", cfg.Logging.GELFAddr)
	})

	t.Run("bad tax rate", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("A1_TAX_RATE", "lots")
		_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"unknown driver":      func(c *Config) { c.Storage.Driver = "postgres" },
		"xlsx without ext":    func(c *Config) { c.Storage.Path = "forms.db" },
		"sqlite without path": func(c *Config) { c.Storage.Driver = "sqlite"; c.Storage.Path = "" },
		"unknown mode":        func(c *Config) { c.Site.FallbackMode = "cloud" },
		"local without dir":   func(c *Config) { c.Site.FallbackMode = "local"; c.Site.FallbackDir = "" },
		"negative tax":        func(c *Config) { c.Calculator.TaxRate = -1 },
		"bad duration":        func(c *Config) { c.Server.IdleTimeout = "soon" },
		"zero duration":       func(c *Config) { c.Server.ReadTimeout = "0s" },
		"bad timezone":        func(c *Config) { c.Relay.Timezone = "Mars/Olympus" },
		"bad level":           func(c *Config) { c.Logging.Level = "loud" },
		"bad format":          func(c *Config) { c.Logging.Format = "xml" },
		"empty addr":          func(c *Config) { c.Server.Addr = "" },
		"half nav link":       func(c *Config) { c.Site.NavLinks = []NavLink{{Href: "/"}} },
		"negative breakpoint": func(c *Config) { c.Site.NavBreakpoint = -5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
