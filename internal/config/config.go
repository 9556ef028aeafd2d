// Package config loads, validates and exposes the gatebot configuration.
// Values come from defaults, an optional YAML file, a .env file and the
// process environment, in increasing order of precedence.
package config

import (
	"time"
)

// Environment names accepted in app.environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Debounce store backends.
const (
	DebounceBackendMemory = "memory"
	DebounceBackendValkey = "valkey"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Gate      GateConfig      `mapstructure:"gate"`
	Verifier  VerifierConfig  `mapstructure:"verifier"`
	Debounce  DebounceConfig  `mapstructure:"debounce"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logger    LoggerConfig    `mapstructure:"log"`
}

// AppConfig holds process level settings.
type AppConfig struct {
	Environment string `mapstructure:"environment" validate:"required,oneof=development production"`
}

// IsProduction reports whether the process runs in production mode.
func (a AppConfig) IsProduction() bool {
	return a.Environment == EnvProduction
}

// TelegramConfig holds the bot credentials and transport settings.
type TelegramConfig struct {
	Token              string `mapstructure:"token"                validate:"required"`
	AdminUserID        int64  `mapstructure:"admin_user_id"        validate:"gte=0"`
	WebhookURL         string `mapstructure:"webhook_url"`
	WebhookSecret      string `mapstructure:"webhook_secret"`
	DropPendingUpdates bool   `mapstructure:"drop_pending_updates"`
}

// HTTPConfig configures the health/webhook HTTP listener.
type HTTPConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,min=1s"`
}

// Channel is a channel a user must join. Order is significant: it is the
// order used in keyboards and in membership result vectors.
type Channel struct {
	Name string `mapstructure:"name" validate:"required"`
	URL  string `mapstructure:"url"  validate:"required,url"`
	ID   string `mapstructure:"id"   validate:"required"`
}

// GateConfig describes what is gated and what is granted.
type GateConfig struct {
	WebsiteURL string    `mapstructure:"website_url" validate:"required,url"`
	Channels   []Channel `mapstructure:"channels"    validate:"required,min=1,dive"`
}

// VerifierConfig tunes the membership checks.
type VerifierConfig struct {
	QueryTimeout time.Duration `mapstructure:"query_timeout" validate:"required,min=100ms,max=1m"`
}

// DebounceConfig configures the anti-spam guards.
type DebounceConfig struct {
	Backend        string        `mapstructure:"backend"         validate:"required,oneof=memory valkey"`
	ValkeyURL      string        `mapstructure:"valkey_url"      validate:"required_if=Backend valkey"`
	StartThreshold time.Duration `mapstructure:"start_threshold" validate:"required,min=1ms"`
	CheckThreshold time.Duration `mapstructure:"check_threshold" validate:"required,min=1ms"`
	Retention      time.Duration `mapstructure:"retention"       validate:"required"`
}

// DatabaseConfig configures the verification log.
type DatabaseConfig struct {
	Path      string        `mapstructure:"path"      validate:"required"`
	Retention time.Duration `mapstructure:"retention" validate:"required,min=1h"`
}

// TaskConfig configures one scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// LoggerConfig configures the slog handler and optional file rotation.
type LoggerConfig struct {
	Level      string `mapstructure:"level"        validate:"oneof=debug info warn error"`
	JSON       bool   `mapstructure:"json"`
	Dir        string `mapstructure:"dir"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"  validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups"  validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}
