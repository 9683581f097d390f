package turn

import "testing"

func TestBuild_TextMessage(t *testing.T) {
	tr := Build(InboundMessage{TenantID: "T", WaID: "W", MessageID: "m1", Type: "text", Body: "hola"})
	if tr.Text != "hola" {
		t.Fatalf("want hola, got %q", tr.Text)
	}
	if tr.Payload != "" {
		t.Fatalf("expected no payload, got %q", tr.Payload)
	}
}

func TestBuild_InteractiveMessage(t *testing.T) {
	tr := Build(InboundMessage{Type: "interactive", InteractiveLabel: "View Cart", InteractiveID: "btn_cart"})
	if tr.Text != "View Cart" {
		t.Fatalf("want label text, got %q", tr.Text)
	}
	if tr.Payload != "btn_cart" {
		t.Fatalf("want payload id, got %q", tr.Payload)
	}
}

func TestBuild_AudioWithAndWithoutTranscription(t *testing.T) {
	withTranscript := Build(InboundMessage{Type: "audio", Transcription: "hello there"})
	if withTranscript.Text != "hello there" {
		t.Fatalf("expected transcription, got %q", withTranscript.Text)
	}

	withoutTranscript := Build(InboundMessage{Type: "audio"})
	if withoutTranscript.Text != "[Audio message]" {
		t.Fatalf("expected placeholder, got %q", withoutTranscript.Text)
	}
}

func TestBuild_TypedPlaceholders(t *testing.T) {
	cases := map[string]string{
		"location": "[Location message]",
		"document": "[Document message]",
		"contacts": "[Contact message]",
		"image":    "[Image message]",
		"video":    "[Video message]",
		"sticker":  "[Sticker message]",
	}
	for typ, want := range cases {
		got := Build(InboundMessage{Type: typ}).Text
		if got != want {
			t.Errorf("type %q: got %q want %q", typ, got, want)
		}
	}
}

func TestBuild_UnknownType(t *testing.T) {
	got := Build(InboundMessage{Type: "poll"}).Text
	if got != "[poll message]" {
		t.Fatalf("got %q", got)
	}
}
