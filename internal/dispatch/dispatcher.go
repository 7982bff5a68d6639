package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/clinicahortense/concierge/internal/catalog"
	"github.com/clinicahortense/concierge/internal/engine"
	"github.com/clinicahortense/concierge/internal/observability/metrics"
	"github.com/clinicahortense/concierge/pkg/logging"
)

// Messenger delivers rendered messages to a contact.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
	SendList(ctx context.Context, to string, menu *catalog.MenuNode) error
}

// Dispatcher sends each render instruction independently, best effort. A
// failed send is logged and counted but never retried and never stops the
// sibling sends; the webhook has already been acknowledged by the time
// dispatch runs.
type Dispatcher struct {
	messenger Messenger
	timeout   time.Duration
	logger    *logging.Logger
	metrics   *metrics.ConciergeMetrics
	tracer    trace.Tracer
}

// New creates a Dispatcher. timeout bounds each individual send
// (15s when <= 0, matching the Graph API budget).
func New(messenger Messenger, timeout time.Duration, logger *logging.Logger, m *metrics.ConciergeMetrics) *Dispatcher {
	if messenger == nil {
		panic("dispatch: messenger cannot be nil")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		messenger: messenger,
		timeout:   timeout,
		logger:    logger,
		metrics:   m,
		tracer:    otel.Tracer("concierge.internal.dispatch"),
	}
}

// Dispatch sends the ordered instructions to the contact.
func (d *Dispatcher) Dispatch(ctx context.Context, contact string, instructions []engine.Instruction) {
	if len(instructions) == 0 {
		return
	}
	ctx, span := d.tracer.Start(ctx, "dispatch.send",
		trace.WithAttributes(attribute.Int("concierge.instruction_count", len(instructions))))
	defer span.End()

	attemptID := uuid.NewString()
	for i, instr := range instructions {
		if err := d.send(ctx, contact, instr); err != nil {
			span.RecordError(err)
			d.metrics.ObserveOutbound(string(instr.Kind), "error")
			d.logger.Warn("outbound send failed",
				"contact", contact,
				"attempt_id", attemptID,
				"instruction", i,
				"kind", string(instr.Kind),
				"error", err,
			)
			continue
		}
		d.metrics.ObserveOutbound(string(instr.Kind), "ok")
	}
}

func (d *Dispatcher) send(ctx context.Context, contact string, instr engine.Instruction) error {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if instr.Kind == engine.InstructionList {
		return d.messenger.SendList(sendCtx, contact, instr.Menu)
	}
	return d.messenger.SendText(sendCtx, contact, instr.Text)
}
