package webhook

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sergiobayona/lexi-orchestrator/internal/agent"
	"github.com/sergiobayona/lexi-orchestrator/internal/controller"
	"github.com/sergiobayona/lexi-orchestrator/internal/kv"
	"github.com/sergiobayona/lexi-orchestrator/internal/observability"
	"github.com/sergiobayona/lexi-orchestrator/internal/router"
	"github.com/sergiobayona/lexi-orchestrator/internal/session"
)

type stubAgent struct{ lane string }

func (a *stubAgent) Lane() string { return a.lane }
func (a *stubAgent) Handle(ctx context.Context, text string, s session.Session, intent string) agent.Response {
	return agent.Response{Messages: []session.Outgoing{{Kind: "text", Text: "reply from " + a.lane}}}
}

type recordingSender struct {
	payloads []string
	waIDs    []string
}

func (r *recordingSender) Send(ctx context.Context, waID string, payload []byte) error {
	r.waIDs = append(r.waIDs, waID)
	r.payloads = append(r.payloads, string(payload))
	return nil
}

func newTestHandler(t *testing.T) (*Handler, *recordingSender, *kv.MemStore) {
	t.Helper()
	store := kv.NewMemStore()
	agents := make([]agent.Agent, 0, len(session.Lanes))
	for _, lane := range session.Lanes {
		agents = append(agents, &stubAgent{lane: lane})
	}
	ctrl := &controller.Controller{
		Store:          store,
		Router:         router.New(nil, false, 0),
		Registry:       agent.NewRegistry(agents...),
		Log:            observability.New(slog.Default()),
		SessionTTL:     24 * time.Hour,
		LockTTL:        30 * time.Second,
		IdempotencyTTL: time.Hour,
		MaxBatonHops:   2,
	}
	sender := &recordingSender{}
	return &Handler{
		Controller:      ctrl,
		Store:           store,
		Sender:          sender,
		OrchestratedTTL: time.Hour,
		VerifyToken:     "secret",
		TenantID:        "t1",
	}, sender, store
}

const inboundBody = `{"entry":[{"changes":[{"value":{"messages":[
	{"from":"57300","id":"wamid.1","timestamp":"1700000000","type":"text","text":{"body":"hola"}}
]}}]}]}`

func TestHandleInbound_DeliversSerializedReply(t *testing.T) {
	h, sender, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(inboundBody))
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200 ack, got %d", w.Code)
	}
	if len(sender.payloads) != 1 {
		t.Fatalf("expected one outbound payload, got %d", len(sender.payloads))
	}
	if sender.waIDs[0] != "57300" {
		t.Fatalf("expected delivery to sender wa_id, got %q", sender.waIDs[0])
	}
	if !strings.Contains(sender.payloads[0], `"type":"text"`) {
		t.Fatalf("expected serialized text message, got %s", sender.payloads[0])
	}
}

func TestHandleInbound_DedupesByMessageID(t *testing.T) {
	h, sender, store := newTestHandler(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/webhook", bytes.NewBufferString(inboundBody))
		w := httptest.NewRecorder()
		h.Router().ServeHTTP(w, req)
	}

	if len(sender.payloads) != 1 {
		t.Fatalf("expected dedup to suppress the second delivery, got %d payloads", len(sender.payloads))
	}
	if ok, _ := store.Exists(context.Background(), kv.OrchestratedKey("wamid.1")); !ok {
		t.Fatal("expected orchestrated marker to be set")
	}
}

func TestHandleVerify(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=abc", nil)
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)
	if w.Code != 200 || w.Body.String() != "abc" {
		t.Fatalf("expected challenge echo, got %d %q", w.Code, w.Body.String())
	}

	req = httptest.NewRequest("GET", "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=abc", nil)
	w = httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)
	if w.Code != 403 {
		t.Fatalf("expected 403 for wrong token, got %d", w.Code)
	}
}
