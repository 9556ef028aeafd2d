package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-telegram/bot"
)

// webhookRegistrar is the part of the Bot API used to switch delivery modes.
type webhookRegistrar interface {
	SetWebhook(ctx context.Context, params *bot.SetWebhookParams) (bool, error)
	DeleteWebhook(ctx context.Context, params *bot.DeleteWebhookParams) (bool, error)
}

// TransportOptions selects how updates reach the bot.
type TransportOptions struct {
	Webhook            bool
	WebhookURL         string
	WebhookSecret      string
	DropPendingUpdates bool
}

// Transport runs the update listener in webhook or long-polling mode.
type Transport struct {
	bot        *bot.Bot
	registrar  webhookRegistrar
	opts       TransportOptions
	logger     *slog.Logger
	newBackoff func() backoff.BackOff
}

// NewTransport creates a transport for b.
func NewTransport(b *bot.Bot, opts TransportOptions, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		bot:        b,
		registrar:  b,
		opts:       opts,
		logger:     logger.With("component", "telegram_transport"),
		newBackoff: defaultBackoff,
	}
}

func defaultBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxElapsedTime = time.Minute
	return bo
}

// Mode returns "webhook" or "polling".
func (t *Transport) Mode() string {
	if t.opts.Webhook {
		return "webhook"
	}
	return "polling"
}

// WebhookHandler returns the HTTP handler Telegram posts updates to, or nil
// in polling mode.
func (t *Transport) WebhookHandler() http.Handler {
	if !t.opts.Webhook {
		return nil
	}
	return t.bot.WebhookHandler()
}

// Run registers the delivery mode with Telegram and processes updates until
// ctx is cancelled.
func (t *Transport) Run(ctx context.Context) error {
	if t.opts.Webhook {
		if err := t.registerWebhook(ctx); err != nil {
			return err
		}
		t.logger.Info("Bot is running in webhook mode", "url", t.opts.WebhookURL)
		t.bot.StartWebhook(ctx)
		return nil
	}

	if _, err := t.registrar.DeleteWebhook(ctx, &bot.DeleteWebhookParams{
		DropPendingUpdates: t.opts.DropPendingUpdates,
	}); err != nil {
		// Polling still works if no webhook was ever set.
		t.logger.Warn("Failed to delete webhook before polling", "error", err)
	}
	t.logger.Info("Bot is running in long polling mode")
	t.bot.Start(ctx)
	return nil
}

func (t *Transport) registerWebhook(ctx context.Context) error {
	params := &bot.SetWebhookParams{
		URL:                t.opts.WebhookURL,
		SecretToken:        t.opts.WebhookSecret,
		DropPendingUpdates: t.opts.DropPendingUpdates,
	}

	op := func() error {
		ok, err := t.registrar.SetWebhook(ctx, params)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("telegram refused the webhook")
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		t.logger.Warn("Webhook registration failed, retrying", "error", err, "retry_in", wait)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(t.newBackoff(), ctx), notify); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}
	return nil
}
