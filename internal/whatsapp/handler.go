package whatsapp

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/clinicahortense/concierge/internal/dispatch"
	"github.com/clinicahortense/concierge/internal/engine"
	"github.com/clinicahortense/concierge/internal/events"
	"github.com/clinicahortense/concierge/internal/observability/metrics"
	"github.com/clinicahortense/concierge/internal/session"
	"github.com/clinicahortense/concierge/pkg/logging"
)

const maxBodyBytes = 1 << 20

// Handler owns the webhook ingress: handshake verification, envelope
// decoding, dedup, and the per-contact turn cycle. The upstream platform
// is acknowledged before reply generation runs; a slow or failing send can
// never cause a delivery retry.
type Handler struct {
	verifyToken string
	appSecret   string
	store       session.Store
	engine      *engine.Engine
	dispatcher  *dispatch.Dispatcher
	deduper     events.Deduper
	metrics     *metrics.ConciergeMetrics
	locks       *session.KeyedMutex
	messenger   dispatch.Messenger
	logger      *logging.Logger
	tracer      trace.Tracer

	now func() time.Time
}

// HandlerConfig wires the ingress handler.
type HandlerConfig struct {
	VerifyToken string
	AppSecret   string
	Store       session.Store
	Engine      *engine.Engine
	Dispatcher  *dispatch.Dispatcher
	Deduper     events.Deduper
	Metrics     *metrics.ConciergeMetrics
	Messenger   dispatch.Messenger
	Logger      *logging.Logger
}

// NewHandler creates the webhook ingress handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Store == nil {
		panic("whatsapp: session store cannot be nil")
	}
	if cfg.Engine == nil {
		panic("whatsapp: engine cannot be nil")
	}
	if cfg.Dispatcher == nil {
		panic("whatsapp: dispatcher cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		verifyToken: cfg.VerifyToken,
		appSecret:   cfg.AppSecret,
		store:       cfg.Store,
		engine:      cfg.Engine,
		dispatcher:  cfg.Dispatcher,
		deduper:     cfg.Deduper,
		metrics:     cfg.Metrics,
		locks:       session.NewKeyedMutex(),
		messenger:   cfg.Messenger,
		logger:      logger,
		tracer:      otel.Tracer("concierge.internal.whatsapp.webhook"),
		now:         time.Now,
	}
}

// Verify handles GET /webhooks/whatsapp: the hub.challenge handshake, plus
// an optional ping probe that exercises the outbound credentials.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.verifyToken && h.verifyToken != "" {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
		return
	}

	if q.Get("ping") == "1" && h.messenger != nil {
		to := q.Get("to")
		if to == "" {
			http.Error(w, "missing to", http.StatusBadRequest)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()
		if err := h.messenger.SendText(ctx, to, "PING ✅"); err != nil {
			h.logger.Error("ping send failed", "error", err, "to", to)
			http.Error(w, "PING_FAIL", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("PING_OK"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Receive handles POST /webhooks/whatsapp. The delivery is acknowledged
// unconditionally once decoded; routing and sending happen asynchronously.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "whatsapp.webhook.receive")
	defer span.End()
	start := h.now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.metrics.ObserveInbound("unknown", "read_error")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if h.appSecret != "" {
		if !VerifySignature(r.Header.Get("X-Hub-Signature-256"), body, h.appSecret) {
			h.logger.Warn("invalid webhook signature")
			h.metrics.ObserveInbound("unknown", "bad_signature")
			span.RecordError(errInvalidSignature)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	delivery, err := ParseDelivery(body)
	if err != nil {
		// Malformed payloads are acknowledged so the platform stops
		// retrying them; there is nothing to process.
		h.logger.Warn("malformed delivery", "error", err)
		h.metrics.ObserveInbound("unknown", "malformed")
		w.WriteHeader(http.StatusOK)
		return
	}

	msg := delivery.Message()
	ev, ok := Normalize(msg)
	if !ok {
		h.metrics.ObserveInbound("none", "empty")
		w.WriteHeader(http.StatusOK)
		return
	}
	span.SetAttributes(
		attribute.String("concierge.contact", ev.Contact),
		attribute.String("concierge.event_kind", string(ev.Kind)),
	)

	if h.deduper != nil && msg.ID != "" {
		first, dedupErr := h.deduper.MarkProcessed(ctx, msg.ID)
		if dedupErr != nil {
			// Dedup unavailability must not block the turn.
			h.logger.Warn("dedup check failed", "error", dedupErr, "message_id", msg.ID)
		} else if !first {
			h.logger.Info("duplicate delivery dropped", "message_id", msg.ID, "contact", ev.Contact)
			h.metrics.ObserveInbound(string(ev.Kind), "duplicate")
			w.WriteHeader(http.StatusOK)
			return
		}
	}

	h.metrics.ObserveInbound(string(ev.Kind), "accepted")
	w.WriteHeader(http.StatusOK)

	go h.processTurn(ev)
	h.metrics.ObserveWebhookLatency(string(ev.Kind), h.now().Sub(start).Seconds())
}

// processTurn runs the serialized get/decide/put cycle for one contact and
// hands the render instructions to the dispatcher. It runs detached from
// the request context: the ack has already gone out.
func (h *Handler) processTurn(ev engine.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx, span := h.tracer.Start(ctx, "whatsapp.webhook.process_turn")
	defer span.End()

	unlock := h.locks.Lock(ev.Contact)
	defer unlock()

	sess, err := h.store.Get(ctx, ev.Contact)
	if err != nil {
		// Degraded mode: losing suppression state beats losing the ability
		// to respond at all.
		h.logger.Error("session read failed, using default session", "error", err, "contact", ev.Contact)
		span.RecordError(err)
		sess = session.Session{}
	}

	instructions, newSess := h.engine.Handle(ev, sess, h.now())

	if err := h.store.Put(ctx, ev.Contact, newSess); err != nil {
		h.logger.Error("session write failed", "error", err, "contact", ev.Contact)
		span.RecordError(err)
	}

	if len(instructions) == 0 {
		h.metrics.ObserveSuppressedTurn()
		return
	}
	h.dispatcher.Dispatch(ctx, ev.Contact, instructions)
}
