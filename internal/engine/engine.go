package engine

import (
	"time"

	"github.com/clinicahortense/concierge/internal/catalog"
	"github.com/clinicahortense/concierge/internal/session"
)

// EventKind classifies a normalized inbound event.
type EventKind string

const (
	KindText          EventKind = "text"
	KindListSelection EventKind = "list_selection"
	KindOther         EventKind = "other"
)

// Event is the normalized inbound record the engine consumes; the ingress
// adapter produces exactly one per delivery.
type Event struct {
	Contact     string
	Kind        EventKind
	Text        string
	SelectionID string
}

// InstructionKind discriminates the two render kinds.
type InstructionKind string

const (
	InstructionText InstructionKind = "text"
	InstructionList InstructionKind = "list"
)

// Instruction is one outbound render instruction. The ordered instruction
// slice plus the new session is the engine's entire output; it never
// touches the transport itself.
type Instruction struct {
	Kind InstructionKind
	Text string
	Menu *catalog.MenuNode
}

// Text returns a plain-text instruction.
func Text(body string) Instruction {
	return Instruction{Kind: InstructionText, Text: body}
}

// List returns a selectable-list instruction.
func List(menu *catalog.MenuNode) Instruction {
	return Instruction{Kind: InstructionList, Menu: menu}
}

// Reply copy. Static strings, not derived by the engine.
const (
	pauseConfirmation = "Tudo bem! Não vou mais enviar mensagens automáticas por 24 horas. " +
		"Digite \"menu\" quando quiser voltar. 👋"
	handoffConfirmation = "Certo! Um atendente da nossa equipe vai continuar a conversa com você " +
		"por aqui em breve. 💬"
	scheduleConfirmation = "Perfeito! Recebemos seu pedido de *agendamento de avaliação*. " +
		"Nossa equipe vai confirmar o horário com você em breve. 🗓️"
	guidanceReply = "Não entendi. 🤔 Digite \"menu\" para ver as opções ou \"sair\" para " +
		"pausar as mensagens."
	fallbackReply = "Recebi sua mensagem! Digite \"menu\" para ver as opções."
)

// Engine decides, for every inbound event, whether to show a menu, render
// a detail, count a misunderstood input, or stay silent. Pure: the only
// outputs are the instruction list and the new session.
type Engine struct {
	catalog                *catalog.Catalog
	suppressWindow         time.Duration
	misunderstoodThreshold int
}

// Option tunes engine policy.
type Option func(*Engine)

// WithSuppressWindow overrides the 24h silence window.
func WithSuppressWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.suppressWindow = d
		}
	}
}

// WithMisunderstoodThreshold overrides the consecutive-unrecognized-text
// count that triggers silent escalation.
func WithMisunderstoodThreshold(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.misunderstoodThreshold = n
		}
	}
}

// New creates an Engine over the given catalog.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	if cat == nil {
		panic("engine: catalog cannot be nil")
	}
	e := &Engine{
		catalog:                cat,
		suppressWindow:         24 * time.Hour,
		misunderstoodThreshold: 3,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle routes one inbound event. Checks run in strict priority order:
// explicit commands first (they win even while suppressed), then list
// selections, which are always honored since a tap on a list the bot sent
// must never dead-end, then free text, which is the only path suppression
// silences.
func (e *Engine) Handle(ev Event, s session.Session, now time.Time) ([]Instruction, session.Session) {
	if ev.Kind == KindText {
		switch {
		case isResetCommand(ev.Text):
			return []Instruction{List(e.catalog.Root())}, session.Reset()
		case isPauseCommand(ev.Text):
			return []Instruction{Text(pauseConfirmation)}, session.Session{
				SuppressUntil: now.Add(e.suppressWindow),
			}
		case isHandoffRequest(ev.Text):
			return []Instruction{Text(handoffConfirmation)}, session.Session{
				SuppressUntil: now.Add(e.suppressWindow),
				HandoffActive: true,
			}
		}
	}

	if ev.Kind == KindListSelection {
		return e.handleSelection(ev.SelectionID, s, now)
	}

	suppressed := s.Suppressed(now)

	if ev.Kind == KindText && isGreeting(ev.Text) {
		if suppressed {
			return nil, s
		}
		s.MisunderstoodCount = 0
		return []Instruction{List(e.catalog.Root())}, s
	}

	if suppressed {
		return nil, s
	}

	if ev.Kind != KindText {
		return []Instruction{Text(fallbackReply)}, s
	}

	s.MisunderstoodCount++
	if s.MisunderstoodCount >= e.misunderstoodThreshold {
		// Silent escalation: no reply on the triggering turn.
		s.MisunderstoodCount = 0
		s.SuppressUntil = now.Add(e.suppressWindow)
		return nil, s
	}
	return []Instruction{Text(guidanceReply)}, s
}

func (e *Engine) handleSelection(id string, s session.Session, now time.Time) ([]Instruction, session.Session) {
	route := e.catalog.Resolve(id)
	switch route.Kind {
	case catalog.RouteControl:
		switch route.Control {
		case catalog.ControlBackHome:
			return []Instruction{List(e.catalog.Root())}, session.Reset()
		case catalog.ControlHandoff:
			return []Instruction{Text(handoffConfirmation)}, session.Session{
				SuppressUntil: now.Add(e.suppressWindow),
				HandoffActive: true,
			}
		case catalog.ControlSchedule:
			return []Instruction{Text(scheduleConfirmation)}, session.Session{
				SuppressUntil: now.Add(e.suppressWindow),
				HandoffActive: true,
			}
		}
	case catalog.RouteMenu:
		s.MisunderstoodCount = 0
		return []Instruction{List(route.Menu)}, s
	case catalog.RouteDetail:
		s.MisunderstoodCount = 0
		back := e.catalog.Menu(route.Detail.BackMenu)
		return []Instruction{Text(route.Detail.Body), List(back)}, s
	}
	// Unmatched ids fall back to the root menu; a selection is never
	// silently dropped.
	return []Instruction{List(e.catalog.Root())}, s
}
