package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://api.discogs.com" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.RateLimit != 1 || cfg.API.RateBurst != 5 {
		t.Errorf("rate = %v/%d", cfg.API.RateLimit, cfg.API.RateBurst)
	}
	if !strings.HasSuffix(cfg.Store.Path, "credentials.db") {
		t.Errorf("store path = %q", cfg.Store.Path)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("debounce = %s", cfg.Watch.Debounce)
	}
	if cfg.Store.BackupKeep != 7 || filepath.Base(cfg.Store.BackupDir) != "backups" {
		t.Errorf("backups = %q keep %d", cfg.Store.BackupDir, cfg.Store.BackupKeep)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("format = %q", cfg.Logging.Format)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
api:
  user_agent: crate-digger/2.0
  rate_limit: 0.5
  timeout: 10s
auth:
  consumer_key: ck
  consumer_secret: cs
  callback_port: 8765
store:
  path: /tmp/creds.db
watch:
  dir: /srv/inventory
  debounce: 500ms
  webhooks:
    - name: ops
      url: https://hooks.example/discogs
      type: slack
      events: [upload.failed]
logging:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.UserAgent != "crate-digger/2.0" || cfg.API.RateLimit != 0.5 || cfg.API.Timeout != 10*time.Second {
		t.Errorf("api = %+v", cfg.API)
	}
	if cfg.API.BaseURL != "https://api.discogs.com" {
		t.Errorf("unset base url should keep default, got %q", cfg.API.BaseURL)
	}
	if cfg.Auth.ConsumerKey != "ck" || cfg.Auth.CallbackPort != 8765 {
		t.Errorf("auth = %+v", cfg.Auth)
	}
	if cfg.Watch.Dir != "/srv/inventory" || cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("watch = %+v", cfg.Watch)
	}
	if len(cfg.Watch.Webhooks) != 1 || cfg.Watch.Webhooks[0].Type != "slack" || cfg.Watch.Webhooks[0].Events[0] != "upload.failed" {
		t.Errorf("webhooks = %+v", cfg.Watch.Webhooks)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "auth:\n  token: from-file\napi:\n  rate_burst: 2\n")
	t.Setenv("DISCOGS_TOKEN", "from-env")
	t.Setenv("DISCOGS_RATE_BURST", "9")
	t.Setenv("DISCOGS_WATCH_DEBOUNCE", "3s")
	t.Setenv("DISCOGS_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.Token != "from-env" {
		t.Errorf("token = %q", cfg.Auth.Token)
	}
	if cfg.API.RateBurst != 9 {
		t.Errorf("burst = %d", cfg.API.RateBurst)
	}
	if cfg.Watch.Debounce != 3*time.Second {
		t.Errorf("debounce = %s", cfg.Watch.Debounce)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "relative base url", yaml: "api:\n  base_url: api.discogs.com\n"},
		{name: "zero rate", yaml: "api:\n  rate_limit: 0\n"},
		{name: "bad port", yaml: "auth:\n  callback_port: 70000\n"},
		{name: "bad level", yaml: "logging:\n  level: chatty\n"},
		{name: "bad format", yaml: "logging:\n  format: xml\n"},
		{name: "blank store", yaml: "store:\n  path: \"\"\n"},
		{name: "bad webhook url", yaml: "watch:\n  webhooks:\n    - name: x\n      url: not-a-url\n"},
		{name: "zero backup keep", yaml: "store:\n  backup_keep: 0\n"},
		{name: "malformed yaml", yaml: "api: [\n"},
		{name: "bad env burst", env: map[string]string{"DISCOGS_RATE_BURST": "many"}},
		{name: "bad env timeout", env: map[string]string{"DISCOGS_TIMEOUT": "forever"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeConfig(t, tt.yaml)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
