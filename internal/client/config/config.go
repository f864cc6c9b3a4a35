package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds runtime settings for the SugarLog CLI.
//
// Fields:
//   - APIBaseURL: base address every endpoint path is appended to.
//   - RequestTimeout: per-call timeout of the underlying HTTP client.
//   - OnlineCheckInterval: how often the client probes GET /healthz.
//   - DataDir: directory holding the local SQLite database.
//   - LogLevel: debug, info, warn or error.
//   - Ephemeral: keep the session in memory only; nothing is written to disk.
type Config struct {
	APIBaseURL          string        `env:"SUGARLOG_API_URL"`
	RequestTimeout      time.Duration `env:"SUGARLOG_REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"SUGARLOG_ONLINE_CHECK_INTERVAL"`
	DataDir             string        `env:"SUGARLOG_DATA_DIR"`
	LogLevel            string        `env:"SUGARLOG_LOG_LEVEL"`
	Ephemeral           bool          `env:"SUGARLOG_EPHEMERAL"`
}

const DefaultAPIBaseURL = "http://localhost:4000/api"

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DataDir = ".sugarlog"
	c.LogLevel = "info"
	c.Ephemeral = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base url %q: %w", c.APIBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api base url %q: scheme must be http or https", c.APIBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api base url %q: missing host", c.APIBaseURL)
	}
	if c.RequestTimeout < 0 {
		return errors.New("request timeout must not be negative")
	}
	if c.OnlineCheckInterval <= 0 {
		return errors.New("online check interval must be positive")
	}
	if !c.Ephemeral && c.DataDir == "" {
		return errors.New("data dir is required unless running ephemeral")
	}
	return nil
}
