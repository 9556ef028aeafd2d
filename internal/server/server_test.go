package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func newTestServer(opts Options) *Server {
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = time.Second
	}
	return New(opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		db         Pinger
		wantCode   int
		wantStatus string
		wantDB     string
	}{
		{"root without db", "/", nil, http.StatusOK, "ok", ""},
		{"healthy db", "/health", pinger{}, http.StatusOK, "ok", "ok"},
		{"db down", "/health", pinger{err: errors.New("closed")}, http.StatusServiceUnavailable, "degraded", "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(Options{Mode: "polling", Database: tt.db})
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			var got healthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode body %q: %v", rec.Body.String(), err)
			}
			if got.Status != tt.wantStatus || got.Database != tt.wantDB || got.Mode != "polling" {
				t.Errorf("body = %+v", got)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(Options{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output missing runtime collectors")
	}
}

func TestWebhookRoute(t *testing.T) {
	t.Parallel()

	var hits int
	hook := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	})

	srv := newTestServer(Options{Mode: "webhook", WebhookPath: "/telegram/webhook", Webhook: hook})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader("{}")))
	if rec.Code != http.StatusOK || hits != 1 {
		t.Errorf("POST webhook: code %d, hits %d", rec.Code, hits)
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/telegram/webhook", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET webhook: code %d, want 405", rec.Code)
	}
}

func TestNoWebhookRouteInPolling(t *testing.T) {
	t.Parallel()

	srv := newTestServer(Options{Mode: "polling", WebhookPath: "/telegram/webhook"})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/telegram/webhook", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rec.Code)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	srv := newTestServer(Options{Port: 0})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
