// Package controller implements the Turn Controller: the single
// public operation handle_turn(turn) → TurnResult that owns per-session
// locking, idempotency, validation, dialogue persistence, routing, and
// the bounded multi-agent baton chain.
package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sergiobayona/lexi-orchestrator/internal/agent"
	"github.com/sergiobayona/lexi-orchestrator/internal/kv"
	"github.com/sergiobayona/lexi-orchestrator/internal/observability"
	"github.com/sergiobayona/lexi-orchestrator/internal/router"
	"github.com/sergiobayona/lexi-orchestrator/internal/session"
	"github.com/sergiobayona/lexi-orchestrator/internal/turn"
)

// Result is the public outcome of handling one turn.
type Result struct {
	Success  bool
	Messages []session.Outgoing
	Lane     string
	Error    string
}

// Controller wires the store, router, and agent registry into the
// handle_turn operation.
type Controller struct {
	Store    kv.Store
	Router   *router.Router
	Registry *agent.Registry
	Log      *observability.Logger

	SessionTTL     time.Duration
	LockTTL        time.Duration
	IdempotencyTTL time.Duration
	MaxBatonHops   int
}

// HandleTurn is the core's single public operation.
func (c *Controller) HandleTurn(ctx context.Context, t turn.Turn) Result {
	sessionKey := kv.SessionKey(t.TenantID, t.WaID)
	lockKey := kv.SessionLockKey(t.TenantID, t.WaID)
	idemKey := kv.ProcessedKey(t.MessageID)

	// 1. Idempotency check.
	if done, err := c.Store.Exists(ctx, idemKey); err == nil && done {
		return Result{Success: true, Error: string(ErrDuplicateTurn)}
	}

	// 2. Lock.
	token := uuid.NewString()
	acquired, err := c.Store.TryAcquireLock(ctx, lockKey, token, c.LockTTL)
	if err != nil || !acquired {
		return Result{Success: false, Error: string(ErrLockUnavailable)}
	}
	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.Store.ReleaseLock(releaseCtx, lockKey, token)
	}()

	// 3. Load or create.
	s := c.loadOrCreate(ctx, sessionKey, t)

	// 4. Validate.
	if verr := session.Validate(s); verr != nil {
		c.Log.ValidationError(t.TenantID, t.WaID, verr.Error())
		fresh := session.NewSession(t.TenantID, t.WaID, session.DefaultLocale, session.DefaultTimezone)
		c.persist(ctx, sessionKey, fresh)
		c.markProcessed(ctx, idemKey)
		return Result{Success: false, Error: "state validation failed"}
	}

	// 5. Append user dialogue, persist immediately. The user's words must
	// survive any subsequent failure.
	s.Turns = append(s.Turns, session.DialogueEntry{
		Role:      "user",
		Timestamp: nowISO(),
		Text:      t.Text,
		MessageID: t.MessageID,
	})
	s.LastUserMsgID = t.MessageID
	if perr := c.persist(ctx, sessionKey, s); perr != nil {
		// The user entry never made it to the store, so the message is NOT
		// marked processed here: a webhook redelivery gets a clean retry.
		c.Log.TurnError(t.TenantID, t.WaID, string(ErrStoreFailure), perr.Error())
		return Result{Success: false, Error: string(ErrStoreFailure)}
	}

	return c.runRoutedTurn(ctx, t, sessionKey, idemKey, s)
}

// runRoutedTurn covers steps 6-12. A recover() here implements step 11:
// any unexpected failure after dialogue persistence is logged, marked
// processed (so the message is never retried forever), and the session as
// of step 5 — which already contains the user's turn — is what's left on
// record.
func (c *Controller) runRoutedTurn(ctx context.Context, t turn.Turn, sessionKey, idemKey string, s session.Session) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			c.Log.TurnError(t.TenantID, t.WaID, string(ErrTurnUnhandled), fmt.Sprintf("%v", r))
			c.markProcessed(ctx, idemKey)
			result = Result{Success: false, Error: fmt.Sprintf("Turn processing failed: %v", r)}
		}
	}()

	// 6. Route.
	decision := c.Router.Route(ctx, t.Text, s)
	s.CurrentLane = decision.Lane
	c.Log.TurnRouted(t.TenantID, t.WaID, decision.Lane, decision.Intent, t.Text, decision.Confidence)

	// 7. Agent baton chain.
	var accumulated []session.Outgoing
	hops := 0
	currentLane := decision.Lane
	currentIntent := decision.Intent
	var carry map[string]any

	maxHops := c.MaxBatonHops
	for {
		currentAgent := c.Registry.ForLane(currentLane)
		if currentAgent == nil {
			break
		}

		// Carried-over baton state is overlaid onto the session before the
		// next agent runs, so a handoff's context both reaches the agent
		// and survives in the persisted state.
		s.ApplyPatch(carry)

		response := currentAgent.Handle(ctx, t.Text, s.Clone(), currentIntent)

		s.ApplyPatch(response.StatePatch)
		s.Turns = append(s.Turns, session.DialogueEntry{
			Role:      "assistant",
			Lane:      currentLane,
			Messages:  response.Messages,
			Timestamp: nowISO(),
		})
		accumulated = append(accumulated, response.Messages...)

		if response.Baton == nil {
			break
		}
		if response.Baton.ToLane == currentLane {
			c.Log.BatonStop(t.TenantID, t.WaID, "same_lane_handoff", currentLane, response.Baton.ToLane)
			break
		}
		if hops >= maxHops {
			c.Log.BatonStop(t.TenantID, t.WaID, "hop_limit", currentLane, response.Baton.ToLane)
			break
		}

		currentLane = response.Baton.ToLane
		currentIntent = response.Baton.Intent
		carry = response.Baton.CarryState
		hops++
	}

	// 8. Finalize.
	s.UpdatedAt = nowISO()
	s.CurrentLane = currentLane
	if verr := session.Validate(s); verr != nil {
		c.Log.TurnError(t.TenantID, t.WaID, string(ErrStateInvalid), verr.Error())
		c.markProcessed(ctx, idemKey)
		return Result{Success: false, Error: string(ErrStateInvalid)}
	}

	// 9. Persist. A CAS-backed store would retry once on conflict;
	// SetEx-based stores always succeed here since the lock serialises
	// writers.
	if perr := c.persist(ctx, sessionKey, s); perr != nil {
		c.Log.TurnError(t.TenantID, t.WaID, string(ErrPatchConflict), perr.Error())
		return Result{Success: false, Error: string(ErrPatchConflict)}
	}

	// 10. Mark processed.
	c.markProcessed(ctx, idemKey)

	c.Log.TurnCompleted(t.TenantID, t.WaID, currentLane)

	// 12. Success.
	return Result{Success: true, Messages: accumulated, Lane: currentLane}
}

// loadOrCreate reads the stored session. An absent key or bytes that are
// not JSON at all are treated as "no session yet" and yield a fresh one;
// parseable JSON that is not a valid session (e.g. a bare array) falls
// through to FromJSON and gets caught by validation, which resets it.
func (c *Controller) loadOrCreate(ctx context.Context, sessionKey string, t turn.Turn) session.Session {
	raw, ok, err := c.Store.Get(ctx, sessionKey)
	if err == nil && ok {
		var probe any
		if json.Unmarshal(raw, &probe) == nil {
			return session.FromJSON(raw)
		}
	}
	s := session.NewSession(t.TenantID, t.WaID, session.DefaultLocale, session.DefaultTimezone)
	c.Log.SessionCreated(t.TenantID, t.WaID)
	return s
}

func (c *Controller) persist(ctx context.Context, sessionKey string, s session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.Store.SetEx(ctx, sessionKey, c.SessionTTL, data)
}

func (c *Controller) markProcessed(ctx context.Context, idemKey string) {
	_ = c.Store.SetEx(ctx, idemKey, c.IdempotencyTTL, []byte("1"))
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
