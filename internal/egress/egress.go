// Package egress is a demo outbound serializer for the WhatsApp Business
// Cloud API message shapes. Outbound delivery itself is an external
// collaborator; this package only converts the core's OutgoingMessage
// values into the provider's JSON and hands them to a Sender.
package egress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/sergiobayona/lexi-orchestrator/internal/session"
)

// Sender delivers one already-serialized WhatsApp message payload to a
// wa_id. Business-Cloud-API transport, retries, and rate limiting belong
// to the real implementation; this package only defines the seam.
type Sender interface {
	Send(ctx context.Context, waID string, payload []byte) error
}

// NullSender discards every message. Useful for tests and dry runs.
type NullSender struct{}

func (NullSender) Send(ctx context.Context, waID string, payload []byte) error { return nil }

// LogSender writes each payload to slog instead of a real transport.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, waID string, payload []byte) error {
	slog.Info("egress_send", "wa_id", waID, "payload", string(payload))
	return nil
}

const (
	maxTextChars    = 4096
	maxButtons      = 3
	maxButtonTitle  = 20
	maxListSections = 10
	maxListRows     = 10
)

// Validate enforces the WhatsApp length limits that are part of the
// core's own OutgoingMessage contract, before handing off to Serialize.
func Validate(m session.Outgoing) error {
	switch m.Kind {
	case "text":
		if utf8.RuneCountInString(m.Text) > maxTextChars {
			return fmt.Errorf("egress: text message exceeds %d characters", maxTextChars)
		}
	case "interactive":
		if m.Interactive == nil {
			return fmt.Errorf("egress: interactive message missing payload")
		}
		switch m.Interactive.SubKind {
		case "button":
			if len(m.Interactive.Buttons) > maxButtons {
				return fmt.Errorf("egress: button message exceeds %d buttons", maxButtons)
			}
			for _, b := range m.Interactive.Buttons {
				if utf8.RuneCountInString(b.Title) > maxButtonTitle {
					return fmt.Errorf("egress: button title exceeds %d characters", maxButtonTitle)
				}
			}
		case "list":
			if len(m.Interactive.Sections) > maxListSections {
				return fmt.Errorf("egress: list message exceeds %d sections", maxListSections)
			}
			for _, s := range m.Interactive.Sections {
				if len(s.Rows) > maxListRows {
					return fmt.Errorf("egress: list section exceeds %d rows", maxListRows)
				}
			}
		default:
			return fmt.Errorf("egress: unknown interactive sub_kind %q", m.Interactive.SubKind)
		}
	default:
		return fmt.Errorf("egress: unknown outgoing message kind %q", m.Kind)
	}
	return nil
}

// Serialize converts one OutgoingMessage into the Business Cloud API
// message JSON shape. Length limits on text/buttons/lists are the
// core's job to enforce before calling this; this function assumes
// valid input.
func Serialize(waID string, m session.Outgoing) ([]byte, error) {
	envelope := map[string]any{
		"messaging_product": "whatsapp",
		"to":                waID,
	}

	switch m.Kind {
	case "text":
		envelope["type"] = "text"
		envelope["text"] = map[string]any{"body": m.Text, "preview_url": false}
	case "interactive":
		envelope["type"] = "interactive"
		envelope["interactive"] = serializeInteractive(m.Interactive)
	default:
		return nil, fmt.Errorf("egress: unknown outgoing message kind %q", m.Kind)
	}

	return json.Marshal(envelope)
}

func serializeInteractive(i *session.Interactive) map[string]any {
	if i == nil {
		return map[string]any{}
	}
	switch i.SubKind {
	case "button":
		buttons := make([]map[string]any, 0, len(i.Buttons))
		for _, b := range i.Buttons {
			buttons = append(buttons, map[string]any{
				"type":  "reply",
				"reply": map[string]any{"id": b.ID, "title": b.Title},
			})
		}
		return map[string]any{
			"type":   "button",
			"body":   map[string]any{"text": i.Body},
			"action": map[string]any{"buttons": buttons},
		}
	case "list":
		sections := make([]map[string]any, 0, len(i.Sections))
		for _, s := range i.Sections {
			rows := make([]map[string]any, 0, len(s.Rows))
			for _, row := range s.Rows {
				rows = append(rows, map[string]any{
					"id":          row.ID,
					"title":       row.Title,
					"description": row.Description,
				})
			}
			sections = append(sections, map[string]any{"title": s.Title, "rows": rows})
		}
		return map[string]any{
			"type":   "list",
			"body":   map[string]any{"text": i.Body},
			"action": map[string]any{"sections": sections},
		}
	default:
		return map[string]any{}
	}
}
