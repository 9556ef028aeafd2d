package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCheck(t *testing.T) {
	passed := testutil.ToFloat64(membershipChecksTotal.WithLabelValues("passed"))
	failed := testutil.ToFloat64(membershipChecksTotal.WithLabelValues("failed"))

	ObserveCheck(true, 10*time.Millisecond)
	ObserveCheck(false, 20*time.Millisecond)
	ObserveCheck(false, 30*time.Millisecond)

	if got := testutil.ToFloat64(membershipChecksTotal.WithLabelValues("passed")) - passed; got != 1 {
		t.Errorf("passed delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(membershipChecksTotal.WithLabelValues("failed")) - failed; got != 2 {
		t.Errorf("failed delta = %v, want 2", got)
	}
}

func TestLabelNormalization(t *testing.T) {
	IncDebounceSuppressed("  Check ")
	if got := testutil.ToFloat64(debounceSuppressedTotal.WithLabelValues("check")); got < 1 {
		t.Errorf("normalized counter = %v, want >= 1", got)
	}
	if norm("") != "unknown" {
		t.Errorf("norm(\"\") = %q, want unknown", norm(""))
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	IncCommand("start")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "gatebot_telegram_commands_total") {
		t.Error("scrape output is missing gatebot_telegram_commands_total")
	}
}
