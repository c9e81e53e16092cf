// Package config assembles runtime settings from defaults, an optional
// YAML file, a .env file and IMMOWERT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/immowert/internal/result"
	"github.com/abhisek/immowert/internal/tenant"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "IMMOWERT_"

// Config holds the settings shared by the TUI, the API server and the
// maintenance commands.
type Config struct {
	// Endpoint is the valuation webhook.
	Endpoint string `yaml:"endpoint"`

	// AckTokens are bodies that acknowledge a submission without a report.
	AckTokens []string `yaml:"ack_tokens"`

	// HTTPTimeout bounds a single webhook call. Zero leaves it to the
	// transport.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// ConfigBaseURL serves /configs/<tenant>.json.
	ConfigBaseURL string `yaml:"config_base_url"`

	// Host and BaseDomain resolve the tenant when Tenant is empty.
	Host       string `yaml:"host"`
	BaseDomain string `yaml:"base_domain"`
	Tenant     string `yaml:"tenant"`

	DBPath    string `yaml:"db_path"`
	SessionID string `yaml:"session_id"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	ListenAddr string `yaml:"listen_addr"`
	ConfigsDir string `yaml:"configs_dir"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		AckTokens:  append([]string(nil), result.DefaultAckTokens...),
		BaseDomain: tenant.DefaultBaseDomain,
		SessionID:  "default",
		LogLevel:   "info",
		ListenAddr: ":8080",
		ConfigsDir: "configs",
	}
}

// Load builds the effective config. path names the YAML file; when empty
// the XDG location is tried and a missing file is not an error. dotenv
// names the .env file, "" meaning ".env" in the working directory.
func Load(path, dotenv string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if dotenv == "" {
		dotenv = ".env"
	}
	env, err := godotenv.Read(dotenv)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading %s: %w", dotenv, err)
	}
	if err := cfg.applyEnv(func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return env[key]
	}); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/immowert/config.yaml, falling back
// to ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "immowert", "config.yaml")
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// applyEnv overlays IMMOWERT_* values returned by lookup.
func (c *Config) applyEnv(lookup func(string) string) error {
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(lookup(EnvPrefix + name)); v != "" {
			*dst = v
		}
	}
	str("ENDPOINT", &c.Endpoint)
	str("CONFIG_BASE_URL", &c.ConfigBaseURL)
	str("HOST", &c.Host)
	str("BASE_DOMAIN", &c.BaseDomain)
	str("TENANT", &c.Tenant)
	str("DB", &c.DBPath)
	str("SESSION", &c.SessionID)
	str("LOG_FILE", &c.LogFile)
	str("LOG_LEVEL", &c.LogLevel)
	str("ADDR", &c.ListenAddr)
	str("CONFIGS_DIR", &c.ConfigsDir)

	if v := lookup(EnvPrefix + "ACK_TOKENS"); v != "" {
		var tokens []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tokens = append(tokens, t)
			}
		}
		c.AckTokens = tokens
	}
	if v := strings.TrimSpace(lookup(EnvPrefix + "HTTP_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sHTTP_TIMEOUT %q: %w", EnvPrefix, v, err)
		}
		c.HTTPTimeout = d
	}
	return nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if c.Endpoint != "" {
		if err := checkEndpoint(c.Endpoint); err != nil {
			return err
		}
	}
	if c.ConfigBaseURL != "" {
		if u, err := url.Parse(c.ConfigBaseURL); err != nil || u.Host == "" {
			return fmt.Errorf("config base URL %q: must be an absolute URL", c.ConfigBaseURL)
		}
	}
	if len(c.AckTokens) == 0 {
		return errors.New("ack tokens: at least one is required")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout %s: must not be negative", c.HTTPTimeout)
	}
	if c.SessionID == "" {
		return errors.New("session id: must not be empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level %q: want debug, info, warn or error", c.LogLevel)
	}
	return nil
}

// ErrNoEndpoint means a command needs the webhook but none is set.
var ErrNoEndpoint = errors.New("no valuation endpoint configured (set " + EnvPrefix + "ENDPOINT or endpoint in the config file)")

// RequireEndpoint returns the webhook URL or ErrNoEndpoint.
func (c Config) RequireEndpoint() (string, error) {
	if c.Endpoint == "" {
		return "", ErrNoEndpoint
	}
	return c.Endpoint, nil
}

func checkEndpoint(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint %q: must be an absolute http(s) URL", raw)
	}
	return nil
}

// TenantID returns the explicit tenant or the one derived from Host.
func (c Config) TenantID() string {
	if c.Tenant != "" {
		return c.Tenant
	}
	return tenant.Subdomain(c.Host, c.BaseDomain)
}
