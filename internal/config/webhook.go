package config

import (
	"net/url"
	"strings"
)

// DefaultWebhookPath is used when the webhook URL carries no path.
const DefaultWebhookPath = "/telegram/webhook"

// placeholderWebhookHost is the host shipped in sample env files; a webhook
// URL pointing at it is treated as unset.
const placeholderWebhookHost = "yourdomain.com"

// Webhook describes where Telegram delivers updates in webhook mode.
type Webhook struct {
	URL  string // full public URL registered with Telegram
	Path string // local route the HTTP server serves
}

// ParseWebhook returns the webhook settings for raw, or false when raw is
// empty, malformed, not absolute or still the placeholder host.
func ParseWebhook(raw string) (Webhook, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Webhook{}, false
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Webhook{}, false
	}
	if strings.EqualFold(u.Hostname(), placeholderWebhookHost) {
		return Webhook{}, false
	}

	path := u.Path
	if path == "" || path == "/" {
		path = DefaultWebhookPath
		u.Path = path
	}

	return Webhook{URL: u.String(), Path: path}, true
}

// WebhookMode reports whether updates should arrive by webhook rather than
// long polling, and with which settings. Webhooks are used only in
// production with a usable URL.
func (c *Config) WebhookMode() (Webhook, bool) {
	if !c.App.IsProduction() {
		return Webhook{}, false
	}
	return ParseWebhook(c.Telegram.WebhookURL)
}
