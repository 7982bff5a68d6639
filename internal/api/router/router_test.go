package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicahortense/concierge/internal/catalog"
	"github.com/clinicahortense/concierge/internal/dispatch"
	"github.com/clinicahortense/concierge/internal/engine"
	"github.com/clinicahortense/concierge/internal/observability/metrics"
	"github.com/clinicahortense/concierge/internal/session"
	"github.com/clinicahortense/concierge/internal/whatsapp"
	"github.com/clinicahortense/concierge/pkg/logging"
)

type nopMessenger struct{}

func (nopMessenger) SendText(_ context.Context, _, _ string) error { return nil }

func (nopMessenger) SendList(_ context.Context, _ string, _ *catalog.MenuNode) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	registry := prometheus.NewRegistry()
	m := metrics.NewConciergeMetrics(registry)
	messenger := nopMessenger{}
	handler := whatsapp.NewHandler(whatsapp.HandlerConfig{
		VerifyToken: "verify-me",
		Store:       session.NewMemoryStore(),
		Engine:      engine.New(catalog.MustDefault()),
		Dispatcher:  dispatch.New(messenger, time.Second, nil, m),
		Metrics:     m,
		Logger:      logging.New("error"),
	})
	return New(&Config{
		Logger:         logging.New("error"),
		Webhook:        handler,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}
}

func TestWebhookRoutesMounted(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=abc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "abc" {
		t.Fatalf("handshake not routed: code=%d body=%s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(`{"entry":[]}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook post not routed: %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
