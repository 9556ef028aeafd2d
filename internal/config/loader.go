package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (GATEBOT_HTTP_PORT, ...).
const EnvPrefix = "GATEBOT"

// ErrConfiguration wraps every error returned by Load.
var ErrConfiguration = errors.New("configuration error")

// Load builds the configuration from, in order of precedence:
//  1. environment variables (GATEBOT_* and the legacy names in legacyEnv)
//  2. the YAML file at path, if it exists
//  3. built-in defaults
//
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := loadDotenvIfPresent(".env"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	v, err := newViper(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}
	normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	slog.Debug("configuration loaded",
		"path", path,
		"environment", cfg.App.Environment,
		"channels", len(cfg.Gate.Channels),
		"debounce_backend", cfg.Debounce.Backend)

	return cfg, nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetDefault("gate.channels", channelDefaults())
	v.SetDefault("scheduler.tasks", taskDefaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if path == "" {
		return v, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			slog.Debug("configuration file not found, using defaults", "path", path)
			return v, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return v, nil
}

func loadDotenvIfPresent(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat dotenv file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load dotenv file %s: %w", path, err)
	}
	return nil
}

// normalize trims user supplied strings and folds any non-production
// environment name (NODE_ENV=test, staging, ...) into development. The
// valkey backend expires keys itself, so memory eviction is switched off.
func normalize(cfg *Config) {
	cfg.Telegram.Token = strings.TrimSpace(cfg.Telegram.Token)
	cfg.Telegram.WebhookURL = strings.TrimSpace(cfg.Telegram.WebhookURL)
	cfg.Gate.WebsiteURL = strings.TrimSpace(cfg.Gate.WebsiteURL)
	cfg.Logger.Level = strings.ToLower(strings.TrimSpace(cfg.Logger.Level))
	cfg.Debounce.Backend = strings.ToLower(strings.TrimSpace(cfg.Debounce.Backend))

	env := strings.ToLower(strings.TrimSpace(cfg.App.Environment))
	if env != EnvProduction {
		env = EnvDevelopment
	}
	cfg.App.Environment = env

	if cfg.Debounce.Backend == DebounceBackendValkey {
		if task, ok := cfg.Scheduler.Tasks[DebounceEvictionTask]; ok {
			task.Enabled = false
			cfg.Scheduler.Tasks[DebounceEvictionTask] = task
		}
	}

	for i := range cfg.Gate.Channels {
		cfg.Gate.Channels[i].Name = strings.TrimSpace(cfg.Gate.Channels[i].Name)
		cfg.Gate.Channels[i].URL = strings.TrimSpace(cfg.Gate.Channels[i].URL)
		cfg.Gate.Channels[i].ID = strings.TrimSpace(cfg.Gate.Channels[i].ID)
	}
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Debounce.Retention < c.Debounce.StartThreshold || c.Debounce.Retention < c.Debounce.CheckThreshold {
		return fmt.Errorf("debounce.retention (%s) must not be shorter than the debounce thresholds", c.Debounce.Retention)
	}

	seen := make(map[string]struct{}, len(c.Gate.Channels))
	for _, ch := range c.Gate.Channels {
		if _, dup := seen[ch.ID]; dup {
			return fmt.Errorf("gate.channels: duplicate channel id %q", ch.ID)
		}
		seen[ch.ID] = struct{}{}
	}

	return nil
}
