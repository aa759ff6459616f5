// Package config loads the CLI configuration from a YAML file and DISCOGS_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sydlexius/discogs/internal/logging"
	"github.com/sydlexius/discogs/internal/webhook"
)

// Config holds all CLI configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Auth     AuthConfig     `yaml:"auth"`
	Store    StoreConfig    `yaml:"store"`
	Download DownloadConfig `yaml:"download"`
	Watch    WatchConfig    `yaml:"watch"`
	Logging  logging.Config `yaml:"logging"`
}

// APIConfig holds connection settings.
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
	// RateLimit is the sustained request rate per second.
	RateLimit float64       `yaml:"rate_limit"`
	RateBurst int           `yaml:"rate_burst"`
	Timeout   time.Duration `yaml:"timeout"`
}

// AuthConfig holds application credentials. Token is a personal access
// token; when set it takes precedence over stored OAuth credentials.
type AuthConfig struct {
	ConsumerKey    string `yaml:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret"`
	Token          string `yaml:"token"`
	// CallbackPort is the local port for the OAuth callback; 0 picks a free
	// port.
	CallbackPort int `yaml:"callback_port"`
}

// StoreConfig locates the encrypted credential database and its snapshots.
type StoreConfig struct {
	Path       string `yaml:"path"`
	Passphrase string `yaml:"passphrase"`
	BackupDir  string `yaml:"backup_dir"`
	// BackupKeep is how many snapshots "store prune" retains.
	BackupKeep int `yaml:"backup_keep"`
}

// DownloadConfig holds inventory export settings.
type DownloadConfig struct {
	Dir string `yaml:"dir"`
}

// WatchConfig holds the upload drop folder settings.
type WatchConfig struct {
	Dir      string           `yaml:"dir"`
	Debounce time.Duration    `yaml:"debounce"`
	Webhooks []webhook.Target `yaml:"webhooks"`
}

// Dir returns the per-user configuration directory for the CLI.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "discogs")
}

// DefaultPath is the config file read when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "https://api.discogs.com",
			UserAgent: "discogs-cli/1.0 +https://github.com/sydlexius/discogs",
			RateLimit: 1,
			RateBurst: 5,
			Timeout:   30 * time.Second,
		},
		Store: StoreConfig{
			Path:       filepath.Join(Dir(), "credentials.db"),
			BackupDir:  filepath.Join(Dir(), "backups"),
			BackupKeep: 7,
		},
		Download: DownloadConfig{
			Dir: ".",
		},
		Watch: WatchConfig{
			Debounce: 2 * time.Second,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is chosen by the user
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() error {
	strs := map[string]*string{
		"DISCOGS_BASE_URL":         &c.API.BaseURL,
		"DISCOGS_USER_AGENT":       &c.API.UserAgent,
		"DISCOGS_CONSUMER_KEY":     &c.Auth.ConsumerKey,
		"DISCOGS_CONSUMER_SECRET":  &c.Auth.ConsumerSecret,
		"DISCOGS_TOKEN":            &c.Auth.Token,
		"DISCOGS_STORE_PATH":       &c.Store.Path,
		"DISCOGS_STORE_PASSPHRASE": &c.Store.Passphrase,
		"DISCOGS_BACKUP_DIR":       &c.Store.BackupDir,
		"DISCOGS_DOWNLOAD_DIR":     &c.Download.Dir,
		"DISCOGS_WATCH_DIR":        &c.Watch.Dir,
		"DISCOGS_LOG_LEVEL":        &c.Logging.Level,
		"DISCOGS_LOG_FORMAT":       &c.Logging.Format,
		"DISCOGS_LOG_FILE":         &c.Logging.File,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("DISCOGS_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("DISCOGS_RATE_LIMIT: %w", err)
		}
		c.API.RateLimit = f
	}
	ints := map[string]*int{
		"DISCOGS_RATE_BURST":    &c.API.RateBurst,
		"DISCOGS_CALLBACK_PORT": &c.Auth.CallbackPort,
		"DISCOGS_BACKUP_KEEP":   &c.Store.BackupKeep,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = n
		}
	}
	durations := map[string]*time.Duration{
		"DISCOGS_TIMEOUT":        &c.API.Timeout,
		"DISCOGS_WATCH_DEBOUNCE": &c.Watch.Debounce,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api base_url: %q", c.API.BaseURL)
	}
	if c.API.UserAgent == "" {
		return errors.New("api user_agent is required")
	}
	if c.API.RateLimit <= 0 {
		return fmt.Errorf("invalid api rate_limit: %v", c.API.RateLimit)
	}
	if c.API.RateBurst < 1 {
		return fmt.Errorf("invalid api rate_burst: %d", c.API.RateBurst)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid api timeout: %s", c.API.Timeout)
	}
	if c.Auth.CallbackPort < 0 || c.Auth.CallbackPort > 65535 {
		return fmt.Errorf("invalid auth callback_port: %d", c.Auth.CallbackPort)
	}
	if c.Store.Path == "" {
		return errors.New("store path is required")
	}
	if c.Store.BackupKeep < 1 {
		return fmt.Errorf("invalid store backup_keep: %d", c.Store.BackupKeep)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("invalid watch debounce: %s", c.Watch.Debounce)
	}
	for _, w := range c.Watch.Webhooks {
		if err := w.Validate(); err != nil {
			return err
		}
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}
	if !logging.ValidFormat(c.Logging.Format) {
		return fmt.Errorf("invalid logging format: %q", c.Logging.Format)
	}
	return nil
}
