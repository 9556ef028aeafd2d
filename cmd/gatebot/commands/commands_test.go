package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/gatebot/internal/config"
	"github.com/edgard/gatebot/internal/debounce"
	"github.com/edgard/gatebot/internal/verifier"
)

func TestPrintMemberships(t *testing.T) {
	t.Parallel()

	details := []verifier.Membership{
		{Channel: config.Channel{Name: "Alpha", ID: "@alpha"}, Status: models.ChatMemberTypeMember, Subscribed: true},
		{Channel: config.Channel{Name: "Beta", ID: "@beta"}, Err: errors.New("chat not found")},
	}

	var buf bytes.Buffer
	if printMemberships(&buf, details) {
		t.Error("printMemberships() = true with a failed channel")
	}

	out := buf.String()
	for _, want := range []string{"CHANNEL", "@alpha", "member", "yes", "@beta", "error: chat not found", "no"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNewDebounceStore(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, evictor, closeFn, err := newDebounceStore(context.Background(), config.DebounceConfig{Backend: config.DebounceBackendMemory}, log)
	if err != nil {
		t.Fatalf("memory backend error = %v", err)
	}
	defer closeFn()
	if _, ok := store.(*debounce.MemoryStore); !ok || evictor == nil {
		t.Errorf("memory backend = %T, evictor %v", store, evictor)
	}

	if _, _, _, err := newDebounceStore(context.Background(), config.DebounceConfig{Backend: "etcd"}, log); err == nil {
		t.Error("unknown backend expected error")
	}
}

func TestNewDebounceStoreValkey(t *testing.T) {
	mini := miniredis.RunT(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.DebounceConfig{Backend: config.DebounceBackendValkey, ValkeyURL: "redis://" + mini.Addr(), Retention: time.Minute}
	store, evictor, closeFn, err := newDebounceStore(context.Background(), cfg, log)
	if err != nil {
		t.Fatalf("valkey backend error = %v", err)
	}
	defer closeFn()
	if _, ok := store.(*debounce.ValkeyStore); !ok {
		t.Errorf("valkey backend = %T", store)
	}
	if evictor != nil {
		t.Error("valkey backend should not need eviction")
	}
}

func TestCheckRejectsBadUserID(t *testing.T) {
	err := checkCmd.RunE(checkCmd, []string{"not-a-number"})
	if err == nil || !strings.Contains(err.Error(), "invalid user id") {
		t.Errorf("RunE() error = %v, want invalid user id", err)
	}
}

func TestSetupReadsConfigFromWorkingDirectory(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("GATEBOT_TELEGRAM_TOKEN", "")

	dir := t.TempDir()
	body := "telegram:\n  token: \"123:from-file\"\ngate:\n  website_url: \"https://from-config-yaml.example/\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Chdir(dir)

	flag := rootCmd.PersistentFlags().Lookup("config")
	if flag == nil || flag.DefValue != "./config.yaml" {
		t.Fatalf("--config default = %v, want ./config.yaml", flag)
	}
	cfgFile = flag.DefValue

	cfg, _, err := setup()
	if err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	if cfg.Telegram.Token != "123:from-file" || cfg.Gate.WebsiteURL != "https://from-config-yaml.example/" {
		t.Errorf("config.yaml in the working directory was not loaded: token %q, website %q",
			cfg.Telegram.Token, cfg.Gate.WebsiteURL)
	}
}
