package whatsapp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clinicahortense/concierge/internal/engine"
)

// Delivery is the decoded webhook envelope. WhatsApp nests the payload
// three levels deep; only the first message of the first change matters
// for this channel (the platform sends one message per delivery).
type Delivery struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Messages         []InboundMessage `json:"messages"`
}

type InboundMessage struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Timestamp   string              `json:"timestamp"`
	Type        string              `json:"type"`
	Text        *inboundText        `json:"text,omitempty"`
	Interactive *inboundInteractive `json:"interactive,omitempty"`
}

type inboundText struct {
	Body string `json:"body"`
}

type inboundInteractive struct {
	Type        string        `json:"type"`
	ListReply   *inboundReply `json:"list_reply,omitempty"`
	ButtonReply *inboundReply `json:"button_reply,omitempty"`
}

type inboundReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ParseDelivery decodes a webhook body.
func ParseDelivery(body []byte) (*Delivery, error) {
	var d Delivery
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("whatsapp: decode delivery: %w", err)
	}
	return &d, nil
}

// Message returns the first message in the delivery, or nil when the
// delivery carries none (status updates, read receipts). A nil message is
// a no-op for the engine: acknowledge and do nothing.
func (d *Delivery) Message() *InboundMessage {
	if d == nil {
		return nil
	}
	for _, entry := range d.Entry {
		for _, change := range entry.Changes {
			if len(change.Value.Messages) > 0 {
				return &change.Value.Messages[0]
			}
		}
	}
	return nil
}

// Normalize converts an inbound message into the engine's event record.
// Both list and button replies count as selections; everything that is not
// text or a selection (media, location, contacts) maps to KindOther.
func Normalize(msg *InboundMessage) (engine.Event, bool) {
	if msg == nil || strings.TrimSpace(msg.From) == "" {
		return engine.Event{}, false
	}
	ev := engine.Event{Contact: msg.From, Kind: engine.KindOther}
	switch msg.Type {
	case "text":
		ev.Kind = engine.KindText
		if msg.Text != nil {
			ev.Text = msg.Text.Body
		}
	case "interactive":
		if msg.Interactive == nil {
			break
		}
		switch {
		case msg.Interactive.ListReply != nil:
			ev.Kind = engine.KindListSelection
			ev.SelectionID = msg.Interactive.ListReply.ID
		case msg.Interactive.ButtonReply != nil:
			ev.Kind = engine.KindListSelection
			ev.SelectionID = msg.Interactive.ButtonReply.ID
		}
	}
	return ev, true
}
