package egress

import (
	"strings"
	"testing"

	"github.com/sergiobayona/lexi-orchestrator/internal/session"
)

func TestSerialize_Text(t *testing.T) {
	data, err := Serialize("57300", session.Outgoing{Kind: "text", Text: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"body":"hi"`) {
		t.Fatalf("got %s", data)
	}
}

func TestSerialize_ButtonInteractive(t *testing.T) {
	msg := session.Outgoing{
		Kind: "interactive",
		Interactive: &session.Interactive{
			SubKind: "button",
			Body:    "Pick one",
			Buttons: []session.InteractiveBtn{{ID: "a", Title: "A"}},
		},
	}
	data, err := Serialize("57300", msg)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"reply"`) {
		t.Fatalf("got %s", data)
	}
}

func TestValidate_TextTooLong(t *testing.T) {
	long := strings.Repeat("a", maxTextChars+1)
	if err := Validate(session.Outgoing{Kind: "text", Text: long}); err == nil {
		t.Fatal("expected error for oversized text")
	}
}

func TestValidate_TooManyButtons(t *testing.T) {
	btns := make([]session.InteractiveBtn, maxButtons+1)
	msg := session.Outgoing{Kind: "interactive", Interactive: &session.Interactive{SubKind: "button", Buttons: btns}}
	if err := Validate(msg); err == nil {
		t.Fatal("expected error for too many buttons")
	}
}
