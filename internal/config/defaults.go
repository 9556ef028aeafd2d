package config

import "time"

// Default values for configuration
const (
	DefaultEnvironment = EnvDevelopment

	DefaultHTTPPort            = 3000
	DefaultHTTPShutdownTimeout = 10 * time.Second

	DefaultWebsiteURL = "https://imtihonnnitopshirishuchunmengabos.netlify.app/"

	DefaultQueryTimeout = 5 * time.Second

	DefaultDebounceBackend   = DebounceBackendMemory
	DefaultStartThreshold    = 3 * time.Second
	DefaultCheckThreshold    = 2 * time.Second
	DefaultDebounceRetention = 10 * time.Minute

	DefaultDBPath      = "gatebot.db"
	DefaultDBRetention = 30 * 24 * time.Hour

	DefaultLogLevel = "info"
)

// DefaultChannels is the channel set the gate ships with.
var DefaultChannels = []Channel{
	{Name: "CEFR Demo", URL: "https://t.me/cefrwithdemo", ID: "@cefrwithdemo"},
	{Name: "Demo Materials", URL: "https://t.me/demo_materials", ID: "@demo_materials"},
	{Name: "Study Need Future", URL: "https://t.me/studyneedfuture", ID: "@studyneedfuture"},
}

// DebounceEvictionTask is the scheduled task that trims the in-memory
// debounce store. It has nothing to do with the valkey backend.
const DebounceEvictionTask = "debounce_eviction"

// DefaultTasks are the scheduled maintenance tasks enabled out of the box.
var DefaultTasks = map[string]TaskConfig{
	DebounceEvictionTask: {Enabled: true, Schedule: "0 * * * * *"},
	"verification_prune": {Enabled: true, Schedule: "0 30 3 * * *"},
	"sql_maintenance":    {Enabled: true, Schedule: "0 0 4 * * 0"},
}

var defaults = map[string]any{
	"app.environment": DefaultEnvironment,

	"telegram.token":                "",
	"telegram.admin_user_id":        0,
	"telegram.webhook_url":          "",
	"telegram.webhook_secret":       "",
	"telegram.drop_pending_updates": false,

	"http.port":             DefaultHTTPPort,
	"http.shutdown_timeout": DefaultHTTPShutdownTimeout,

	"gate.website_url": DefaultWebsiteURL,

	"verifier.query_timeout": DefaultQueryTimeout,

	"debounce.backend":         DefaultDebounceBackend,
	"debounce.valkey_url":      "",
	"debounce.start_threshold": DefaultStartThreshold,
	"debounce.check_threshold": DefaultCheckThreshold,
	"debounce.retention":       DefaultDebounceRetention,

	"database.path":      DefaultDBPath,
	"database.retention": DefaultDBRetention,

	"log.level":        DefaultLogLevel,
	"log.json":         false,
	"log.dir":          "",
	"log.max_size_mb":  50,
	"log.max_backups":  3,
	"log.max_age_days": 14,
}

// legacyEnv maps configuration keys to the bare environment variable names
// used by earlier deployments. They are consulted after GATEBOT_* names.
var legacyEnv = map[string]string{
	"telegram.token":       "BOT_TOKEN",
	"telegram.webhook_url": "WEBHOOK_URL",
	"gate.website_url":     "WEBSITE_URL",
	"http.port":            "PORT",
	"app.environment":      "NODE_ENV",
}

func channelDefaults() []map[string]any {
	out := make([]map[string]any, 0, len(DefaultChannels))
	for _, ch := range DefaultChannels {
		out = append(out, map[string]any{"name": ch.Name, "url": ch.URL, "id": ch.ID})
	}
	return out
}

func taskDefaults() map[string]any {
	out := make(map[string]any, len(DefaultTasks))
	for name, t := range DefaultTasks {
		out[name] = map[string]any{"enabled": t.Enabled, "schedule": t.Schedule}
	}
	return out
}
