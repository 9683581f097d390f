// Package webhook is a demo HTTP ingress for the WhatsApp Business Cloud
// API webhook shape. It is an external collaborator, not part of the
// core (signature verification, raw-payload persistence, and media
// download stay outside it): it de-duplicates inbound messages by id,
// projects the inbound JSON into a Turn, hands it to the Turn Controller,
// and delivers a successful turn's messages through an egress Sender.
package webhook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sergiobayona/lexi-orchestrator/internal/controller"
	"github.com/sergiobayona/lexi-orchestrator/internal/egress"
	"github.com/sergiobayona/lexi-orchestrator/internal/kv"
	"github.com/sergiobayona/lexi-orchestrator/internal/session"
	"github.com/sergiobayona/lexi-orchestrator/internal/turn"
)

// Handler serves the WhatsApp Business Cloud API webhook endpoints.
type Handler struct {
	Controller      *controller.Controller
	Store           kv.Store
	Sender          egress.Sender
	OrchestratedTTL time.Duration
	VerifyToken     string
	TenantID        string
}

// Router builds the mux.Router exposing the verification GET and the
// inbound POST, matching the Business Cloud API's own webhook contract.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/webhook", h.handleVerify).Methods(http.MethodGet)
	r.HandleFunc("/webhook", h.handleInbound).Methods(http.MethodPost)
	return r
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.VerifyToken {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}
	w.WriteHeader(http.StatusForbidden)
}

// inboundPayload is the subset of the WhatsApp Business Cloud API webhook
// envelope the demo ingress understands.
type inboundPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []waMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type waMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive struct {
		ButtonReply struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
		ListReply struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"list_reply"`
	} `json:"interactive"`
}

func (h *Handler) handleInbound(w http.ResponseWriter, r *http.Request) {
	var payload inboundPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Warn("webhook_decode_error", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Business Cloud API expects a 200 ack regardless of downstream
	// outcome, or it will keep retrying delivery.
	w.WriteHeader(http.StatusOK)

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				h.process(r.Context(), m)
			}
		}
	}
}

func (h *Handler) process(ctx context.Context, m waMessage) {
	dedupKey := kv.OrchestratedKey(m.ID)
	if already, err := h.Store.Exists(ctx, dedupKey); err == nil && already {
		return
	}
	_ = h.Store.SetEx(ctx, dedupKey, h.OrchestratedTTL, []byte("1"))

	label, id := interactiveFields(m)
	t := turn.Build(turn.InboundMessage{
		TenantID:         h.TenantID,
		WaID:             m.From,
		MessageID:        m.ID,
		Type:             m.Type,
		Timestamp:        m.Timestamp,
		Body:             m.Text.Body,
		InteractiveLabel: label,
		InteractiveID:    id,
	})

	result := h.Controller.HandleTurn(ctx, t)
	if !result.Success {
		slog.Warn("webhook_turn_failed", "tenant_id", h.TenantID, "wa_id", m.From, "error", result.Error)
		return
	}
	h.deliver(ctx, m.From, result.Messages)
}

// deliver validates each outgoing message against the WhatsApp length
// limits, serializes it to the Business Cloud API shape, and hands it to
// the Sender. A message that fails validation is dropped and logged; the
// rest of the batch still goes out.
func (h *Handler) deliver(ctx context.Context, waID string, messages []session.Outgoing) {
	if h.Sender == nil {
		return
	}
	for _, msg := range messages {
		if err := egress.Validate(msg); err != nil {
			slog.Warn("egress_message_invalid", "wa_id", waID, "error", err)
			continue
		}
		payload, err := egress.Serialize(waID, msg)
		if err != nil {
			slog.Warn("egress_serialize_failed", "wa_id", waID, "error", err)
			continue
		}
		if err := h.Sender.Send(ctx, waID, payload); err != nil {
			slog.Warn("egress_send_failed", "wa_id", waID, "error", err)
		}
	}
}

func interactiveFields(m waMessage) (label, id string) {
	if m.Interactive.ButtonReply.ID != "" {
		return m.Interactive.ButtonReply.Title, m.Interactive.ButtonReply.ID
	}
	if m.Interactive.ListReply.ID != "" {
		return m.Interactive.ListReply.Title, m.Interactive.ListReply.ID
	}
	return "", ""
}
