package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicahortense/concierge/internal/catalog"
	"github.com/clinicahortense/concierge/internal/dispatch"
	"github.com/clinicahortense/concierge/internal/engine"
	"github.com/clinicahortense/concierge/internal/events"
	"github.com/clinicahortense/concierge/internal/observability/metrics"
	"github.com/clinicahortense/concierge/internal/session"
)

type channelMessenger struct {
	sent chan string
	err  error
}

func newChannelMessenger() *channelMessenger {
	return &channelMessenger{sent: make(chan string, 16)}
}

func (m *channelMessenger) SendText(_ context.Context, _, body string) error {
	m.sent <- "text:" + body
	return m.err
}

func (m *channelMessenger) SendList(_ context.Context, _ string, menu *catalog.MenuNode) error {
	m.sent <- "list:" + menu.Key
	return m.err
}

func (m *channelMessenger) wait(t *testing.T) string {
	t.Helper()
	select {
	case s := <-m.sent:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbound send")
		return ""
	}
}

func (m *channelMessenger) expectSilence(t *testing.T) {
	t.Helper()
	select {
	case s := <-m.sent:
		t.Fatalf("expected silence, got send %q", s)
	case <-time.After(150 * time.Millisecond):
	}
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (session.Session, error) {
	return session.Session{}, errors.New("store down")
}

func (failingStore) Put(context.Context, string, session.Session) error {
	return errors.New("store down")
}

func newTestHandler(t *testing.T, opts func(*HandlerConfig)) (*Handler, *channelMessenger) {
	t.Helper()
	messenger := newChannelMessenger()
	m := metrics.NewConciergeMetrics(prometheus.NewRegistry())
	cfg := HandlerConfig{
		VerifyToken: "verify-me",
		Store:       session.NewMemoryStore(),
		Engine:      engine.New(catalog.MustDefault()),
		Dispatcher:  dispatch.New(messenger, time.Second, nil, m),
		Deduper:     events.NewMemoryDeduper(time.Hour),
		Metrics:     m,
		Messenger:   messenger,
	}
	if opts != nil {
		opts(&cfg)
	}
	return NewHandler(cfg), messenger
}

func postDelivery(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)
	return rec
}

func deliveryWithText(msgID, from, text string) string {
	return fmt.Sprintf(`{"entry":[{"changes":[{"value":{"messages":[{"from":%q,"id":%q,"type":"text","text":{"body":%q}}]}}]}]}`, from, msgID, text)
}

func TestVerifyHandshake(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345", rec.Body.String())
}

func TestVerifyHandshakeWrongToken(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, "12345", rec.Body.String(), "challenge must not be echoed for a bad token")
}

func TestVerifyPingProbe(t *testing.T) {
	h, messenger := newTestHandler(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/webhooks/whatsapp?ping=1&to=5561996531507", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PING_OK", rec.Body.String())
	assert.Equal(t, "text:PING ✅", messenger.wait(t))
}

func TestReceiveGreetingSendsRootMenu(t *testing.T) {
	h, messenger := newTestHandler(t, nil)
	rec := postDelivery(h, deliveryWithText("wamid.1", "5561996531507", "oi"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "list:"+catalog.MenuMain, messenger.wait(t))
}

func TestReceiveAcksBeforeSendCompletes(t *testing.T) {
	h, messenger := newTestHandler(t, nil)
	messenger.err = errors.New("graph down")

	rec := postDelivery(h, deliveryWithText("wamid.2", "5561996531507", "oi"))
	assert.Equal(t, http.StatusOK, rec.Code, "ack must not depend on the outbound send")
	messenger.wait(t)
}

func TestReceiveDuplicateDeliveryDropped(t *testing.T) {
	h, messenger := newTestHandler(t, nil)

	rec := postDelivery(h, deliveryWithText("wamid.dup", "5561996531507", "oi"))
	assert.Equal(t, http.StatusOK, rec.Code)
	messenger.wait(t)

	rec = postDelivery(h, deliveryWithText("wamid.dup", "5561996531507", "oi"))
	assert.Equal(t, http.StatusOK, rec.Code)
	messenger.expectSilence(t)
}

func TestReceiveStatusOnlyDeliveryIsNoop(t *testing.T) {
	h, messenger := newTestHandler(t, nil)
	rec := postDelivery(h, statusOnlyDelivery)
	assert.Equal(t, http.StatusOK, rec.Code)
	messenger.expectSilence(t)
}

func TestReceiveMalformedBodyStillAcked(t *testing.T) {
	h, messenger := newTestHandler(t, nil)
	rec := postDelivery(h, "{broken")
	assert.Equal(t, http.StatusOK, rec.Code)
	messenger.expectSilence(t)
}

func TestReceiveRejectsBadSignature(t *testing.T) {
	h, messenger := newTestHandler(t, func(cfg *HandlerConfig) {
		cfg.AppSecret = "app-secret"
	})
	body := deliveryWithText("wamid.3", "5561996531507", "oi")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	messenger.expectSilence(t)
}

func TestReceiveAcceptsValidSignature(t *testing.T) {
	h, messenger := newTestHandler(t, func(cfg *HandlerConfig) {
		cfg.AppSecret = "app-secret"
	})
	body := deliveryWithText("wamid.4", "5561996531507", "oi")
	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", signBody([]byte(body), "app-secret"))
	rec := httptest.NewRecorder()
	h.Receive(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	messenger.wait(t)
}

func TestReceiveProceedsWhenStoreIsDown(t *testing.T) {
	h, messenger := newTestHandler(t, func(cfg *HandlerConfig) {
		cfg.Store = failingStore{}
	})
	rec := postDelivery(h, deliveryWithText("wamid.5", "5561996531507", "oi"))

	require.Equal(t, http.StatusOK, rec.Code)
	// Degraded mode: the default session still answers the greeting.
	assert.Equal(t, "list:"+catalog.MenuMain, messenger.wait(t))
}

func TestReceiveSuppressedContactGetsSilence(t *testing.T) {
	store := session.NewMemoryStore()
	_ = store.Put(context.Background(), "5561996531507", session.Session{
		SuppressUntil: time.Now().Add(time.Hour),
	})
	h, messenger := newTestHandler(t, func(cfg *HandlerConfig) {
		cfg.Store = store
	})

	rec := postDelivery(h, deliveryWithText("wamid.6", "5561996531507", "oi"))
	assert.Equal(t, http.StatusOK, rec.Code, "suppressed turns are still acknowledged")
	messenger.expectSilence(t)
}
