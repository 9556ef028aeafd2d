package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func TestIsMessageNotModified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad request not modified", fmt.Errorf("%w, Bad Request: message is not modified: specified new message content and reply markup are exactly the same", bot.ErrorBadRequest), true},
		{"upper case", errors.New("MESSAGE IS NOT MODIFIED"), true},
		{"other bad request", fmt.Errorf("%w, Bad Request: message to edit not found", bot.ErrorBadRequest), false},
		{"network", errors.New("dial tcp: i/o timeout"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsMessageNotModified(tt.err); got != tt.want {
				t.Errorf("IsMessageNotModified(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestApplyMiddlewareOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) bot.Middleware {
		return func(next bot.HandlerFunc) bot.HandlerFunc {
			return func(ctx context.Context, b *bot.Bot, update *models.Update) {
				order = append(order, name)
				next(ctx, b, update)
			}
		}
	}
	h := applyMiddleware(func(context.Context, *bot.Bot, *models.Update) {
		order = append(order, "handler")
	}, []bot.Middleware{mw("outer"), mw("inner")})

	h(context.Background(), nil, &models.Update{})

	want := []string{"outer", "inner", "handler"}
	if fmt.Sprint(order) != fmt.Sprint(want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

type fakeRegistrar struct {
	failures int
	calls    int
	params   *bot.SetWebhookParams
}

func (f *fakeRegistrar) SetWebhook(_ context.Context, params *bot.SetWebhookParams) (bool, error) {
	f.calls++
	f.params = params
	if f.calls <= f.failures {
		return false, errors.New("too many requests")
	}
	return true, nil
}

func (f *fakeRegistrar) DeleteWebhook(context.Context, *bot.DeleteWebhookParams) (bool, error) {
	return true, nil
}

func newTestTransport(reg *fakeRegistrar, maxRetries uint64) *Transport {
	return &Transport{
		registrar: reg,
		opts: TransportOptions{
			Webhook:       true,
			WebhookURL:    "https://bot.example.com/hook",
			WebhookSecret: "s3cret",
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newBackoff: func() backoff.BackOff {
			return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, maxRetries)
		},
	}
}

func TestRegisterWebhookRetries(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistrar{failures: 2}
	tr := newTestTransport(reg, 5)

	if err := tr.registerWebhook(context.Background()); err != nil {
		t.Fatalf("registerWebhook() error = %v", err)
	}
	if reg.calls != 3 {
		t.Errorf("SetWebhook calls = %d, want 3", reg.calls)
	}
	if reg.params.URL != "https://bot.example.com/hook" || reg.params.SecretToken != "s3cret" {
		t.Errorf("unexpected params %+v", reg.params)
	}
}

func TestRegisterWebhookGivesUp(t *testing.T) {
	t.Parallel()

	reg := &fakeRegistrar{failures: 10}
	tr := newTestTransport(reg, 2)

	if err := tr.registerWebhook(context.Background()); err == nil {
		t.Fatal("registerWebhook() expected error after retries are exhausted")
	}
	if reg.calls != 3 {
		t.Errorf("SetWebhook calls = %d, want 3 (1 + 2 retries)", reg.calls)
	}
}

func TestTransportMode(t *testing.T) {
	t.Parallel()

	if got := (&Transport{opts: TransportOptions{Webhook: true}}).Mode(); got != "webhook" {
		t.Errorf("Mode() = %q, want webhook", got)
	}
	polling := &Transport{}
	if got := polling.Mode(); got != "polling" {
		t.Errorf("Mode() = %q, want polling", got)
	}
	if polling.WebhookHandler() != nil {
		t.Error("WebhookHandler() should be nil in polling mode")
	}
}
