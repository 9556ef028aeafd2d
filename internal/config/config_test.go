package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("token = %q, want legacy BOT_TOKEN value", cfg.Telegram.Token)
	}
	if cfg.HTTP.Port != DefaultHTTPPort {
		t.Errorf("port = %d, want %d", cfg.HTTP.Port, DefaultHTTPPort)
	}
	if len(cfg.Gate.Channels) != len(DefaultChannels) {
		t.Fatalf("channels = %d, want %d", len(cfg.Gate.Channels), len(DefaultChannels))
	}
	for i, ch := range cfg.Gate.Channels {
		if ch != DefaultChannels[i] {
			t.Errorf("channel[%d] = %+v, want %+v", i, ch, DefaultChannels[i])
		}
	}
	if cfg.Verifier.QueryTimeout != DefaultQueryTimeout {
		t.Errorf("query timeout = %s, want %s", cfg.Verifier.QueryTimeout, DefaultQueryTimeout)
	}
	if cfg.App.Environment != EnvDevelopment {
		t.Errorf("environment = %q, want %q", cfg.App.Environment, EnvDevelopment)
	}
	if !cfg.Scheduler.Tasks["debounce_eviction"].Enabled {
		t.Errorf("debounce_eviction task should be enabled by default")
	}
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("GATEBOT_TELEGRAM_TOKEN", "")

	_, err := Load("")
	if err == nil {
		t.Fatal("Load() expected error without a token")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("error %v does not wrap ErrConfiguration", err)
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: file-token
http:
  port: 8081
gate:
  website_url: "  https://example.com/test  "
  channels:
    - name: One
      url: https://t.me/one
      id: "@one"
    - name: Two
      url: https://t.me/two
      id: "-1001234"
debounce:
  check_threshold: 1500ms
`)
	t.Setenv("PORT", "9090")
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("GATEBOT_TELEGRAM_TOKEN", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Telegram.Token != "file-token" {
		t.Errorf("token = %q, want file-token", cfg.Telegram.Token)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want env override 9090", cfg.HTTP.Port)
	}
	if cfg.Gate.WebsiteURL != "https://example.com/test" {
		t.Errorf("website url = %q, want trimmed value", cfg.Gate.WebsiteURL)
	}
	if len(cfg.Gate.Channels) != 2 || cfg.Gate.Channels[1].ID != "-1001234" {
		t.Errorf("channels = %+v, want the two configured channels in order", cfg.Gate.Channels)
	}
	if cfg.Debounce.CheckThreshold != 1500*time.Millisecond {
		t.Errorf("check threshold = %s, want 1.5s", cfg.Debounce.CheckThreshold)
	}
}

func TestLoadEnvironmentFolding(t *testing.T) {
	tests := []struct {
		nodeEnv string
		want    string
	}{
		{"production", EnvProduction},
		{"PRODUCTION", EnvProduction},
		{"test", EnvDevelopment},
		{"", EnvDevelopment},
	}

	for _, tt := range tests {
		t.Run(tt.nodeEnv, func(t *testing.T) {
			t.Setenv("BOT_TOKEN", "token")
			t.Setenv("NODE_ENV", tt.nodeEnv)

			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.App.Environment != tt.want {
				t.Errorf("environment = %q, want %q", cfg.App.Environment, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			App:      AppConfig{Environment: EnvDevelopment},
			Telegram: TelegramConfig{Token: "token"},
			HTTP:     HTTPConfig{Port: 3000, ShutdownTimeout: time.Second},
			Gate: GateConfig{
				WebsiteURL: "https://example.com",
				Channels:   append([]Channel(nil), DefaultChannels...),
			},
			Verifier: VerifierConfig{QueryTimeout: time.Second},
			Debounce: DebounceConfig{
				Backend:        DebounceBackendMemory,
				StartThreshold: time.Second,
				CheckThreshold: time.Second,
				Retention:      time.Minute,
			},
			Database: DatabaseConfig{Path: ":memory:", Retention: time.Hour},
			Logger:   LoggerConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"no channels", func(c *Config) { c.Gate.Channels = nil }, true},
		{"channel without id", func(c *Config) { c.Gate.Channels[0].ID = "" }, true},
		{"duplicate channel id", func(c *Config) { c.Gate.Channels[1].ID = c.Gate.Channels[0].ID }, true},
		{"bad website url", func(c *Config) { c.Gate.WebsiteURL = "not a url" }, true},
		{"valkey without url", func(c *Config) { c.Debounce.Backend = DebounceBackendValkey }, true},
		{"valkey with url", func(c *Config) {
			c.Debounce.Backend = DebounceBackendValkey
			c.Debounce.ValkeyURL = "redis://localhost:6379/0"
		}, false},
		{"retention shorter than threshold", func(c *Config) { c.Debounce.Retention = 500 * time.Millisecond }, true},
		{"bad log level", func(c *Config) { c.Logger.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseWebhook(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		wantOK   bool
		wantURL  string
		wantPath string
	}{
		{"empty", "", false, "", ""},
		{"malformed", "://nope", false, "", ""},
		{"relative", "/hook", false, "", ""},
		{"placeholder host", "https://YourDomain.com/hook", false, "", ""},
		{"with path", "https://bot.example.com/tg/hook", true, "https://bot.example.com/tg/hook", "/tg/hook"},
		{"root path", "https://bot.example.com/", true, "https://bot.example.com" + DefaultWebhookPath, DefaultWebhookPath},
		{"no path", "https://bot.example.com", true, "https://bot.example.com" + DefaultWebhookPath, DefaultWebhookPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseWebhook(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ParseWebhook(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if got.URL != tt.wantURL || got.Path != tt.wantPath {
				t.Errorf("ParseWebhook(%q) = %+v, want url %q path %q", tt.raw, got, tt.wantURL, tt.wantPath)
			}
		})
	}
}

func TestWebhookModeRequiresProduction(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		App:      AppConfig{Environment: EnvDevelopment},
		Telegram: TelegramConfig{WebhookURL: "https://bot.example.com/hook"},
	}
	if _, ok := cfg.WebhookMode(); ok {
		t.Error("WebhookMode() enabled outside production")
	}

	cfg.App.Environment = EnvProduction
	hook, ok := cfg.WebhookMode()
	if !ok || hook.Path != "/hook" {
		t.Errorf("WebhookMode() = %+v, %v; want /hook, true", hook, ok)
	}
}

func TestLoadValkeyBackendDisablesEviction(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("GATEBOT_DEBOUNCE_BACKEND", "valkey")
	t.Setenv("GATEBOT_DEBOUNCE_VALKEY_URL", "redis://localhost:6379/0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scheduler.Tasks[DebounceEvictionTask].Enabled {
		t.Error("debounce_eviction stays enabled with the valkey backend")
	}
	if !cfg.Scheduler.Tasks["verification_prune"].Enabled {
		t.Error("other tasks should keep their defaults")
	}
}
