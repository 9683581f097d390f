// Package turn defines the canonical, provider-neutral Turn and the
// Builder that projects an external message record into one.
package turn

// Turn is the distilled view of one inbound WhatsApp message handed to the
// core. Immutable once built.
type Turn struct {
	TenantID  string
	WaID      string
	MessageID string // provider-scoped unique id
	Text      string
	Payload   string // optional opaque interactive-element id
	Timestamp string // ISO-8601 UTC
}

// InboundMessage is the external, provider-shaped message record the
// webhook layer hands to the Turn Builder. Only the fields the
// builder needs to derive Turn.Text/Payload are modeled; everything else
// (raw payload persistence, media download) belongs to the webhook layer.
type InboundMessage struct {
	TenantID  string
	WaID      string
	MessageID string
	Type      string // "text", "interactive", "audio", "image", "video", "document", "location", "contacts", "sticker", ...
	Timestamp string

	Body string // text messages

	// Interactive messages (button/list replies).
	InteractiveLabel string
	InteractiveID    string

	// Media messages.
	Caption       string
	Transcription string
}

// Build projects an InboundMessage into a canonical Turn.
//
// text depends on message type: body for text; caption/label for
// interactive; transcription if present for audio else "[Audio message]";
// for location/document/contact/image/video/sticker, a typed placeholder
// "[<Kind> message]"; for unknown types, "[<type> message]".
func Build(m InboundMessage) Turn {
	return Turn{
		TenantID:  m.TenantID,
		WaID:      m.WaID,
		MessageID: m.MessageID,
		Text:      deriveText(m),
		Payload:   derivePayload(m),
		Timestamp: m.Timestamp,
	}
}

func deriveText(m InboundMessage) string {
	switch m.Type {
	case "text":
		return m.Body
	case "interactive":
		if m.InteractiveLabel != "" {
			return m.InteractiveLabel
		}
		return m.Caption
	case "audio", "voice":
		if m.Transcription != "" {
			return m.Transcription
		}
		return "[Audio message]"
	case "location":
		return "[Location message]"
	case "document":
		return "[Document message]"
	case "contacts":
		return "[Contact message]"
	case "image":
		return "[Image message]"
	case "video":
		return "[Video message]"
	case "sticker":
		return "[Sticker message]"
	case "":
		return "[unknown message]"
	default:
		return "[" + m.Type + " message]"
	}
}

func derivePayload(m InboundMessage) string {
	if m.Type == "interactive" && m.InteractiveID != "" {
		return m.InteractiveID
	}
	return ""
}
