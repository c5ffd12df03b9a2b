package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/andrewsflike/officemessenger/internal/domain"
)

func newPresenceFixture() (*fixture, PresenceService) {
	f := newFixture()
	p := NewPresenceService(f.registry, f.svc, f.dispatcher, zerolog.Nop())
	return f, p
}

func TestHandleConnectEmitsHistoryToNewSessionOnly(t *testing.T) {
	f, p := newPresenceFixture()
	ctx := context.Background()

	if _, err := f.svc.PostBroadcast(ctx, "Alice", "earlier"); err != nil {
		t.Fatalf("PostBroadcast: %v", err)
	}
	f.dispatcher.events = nil

	if err := p.HandleConnect(ctx, "sess-new"); err != nil {
		t.Fatalf("HandleConnect: %v", err)
	}

	events := f.dispatcher.sentTo("sess-new")
	if len(events) != 1 || len(f.dispatcher.events) != 1 {
		t.Fatalf("history must reach only the new session: %v", f.dispatcher.events)
	}
	evt := events[0].(*domain.MessageHistoryEvent)
	if evt.Type != domain.EventMessageHistory || len(evt.Messages) != 1 {
		t.Errorf("bad history payload: %+v", evt)
	}
}

func TestHandleConnectEmptyHistory(t *testing.T) {
	f, p := newPresenceFixture()

	if err := p.HandleConnect(context.Background(), "sess-new"); err != nil {
		t.Fatalf("HandleConnect: %v", err)
	}

	evt := f.dispatcher.sentTo("sess-new")[0].(*domain.MessageHistoryEvent)
	if evt.Messages == nil || len(evt.Messages) != 0 {
		t.Errorf("fresh room must replay an empty list, got %v", evt.Messages)
	}
}

func TestHandleSetIdentityRosterFanout(t *testing.T) {
	f, p := newPresenceFixture()
	ctx := context.Background()

	if err := p.HandleSetIdentity(ctx, "sess-a", "Alice"); err != nil {
		t.Fatalf("HandleSetIdentity: %v", err)
	}

	// The namer's copy carries its own participant id.
	own := f.dispatcher.sentTo("sess-a")
	if len(own) != 1 {
		t.Fatalf("namer received %d events, want 1", len(own))
	}
	self := own[0].(*domain.UserJoinedEvent)
	if self.UserID == "" {
		t.Error("namer's copy must carry selfParticipantID")
	}
	if len(self.Users) != 1 || self.Users[0].ID != self.UserID || self.Users[0].Name != "Alice" {
		t.Errorf("bad roster in self copy: %+v", self)
	}

	// Everyone else gets the roster without a self id.
	bcasts := f.dispatcher.broadcasts()
	if len(bcasts) != 1 {
		t.Fatalf("expected one roster broadcast, got %d", len(bcasts))
	}
	if bcasts[0].exclude != "sess-a" {
		t.Errorf("broadcast must exclude the namer, excluded %q", bcasts[0].exclude)
	}
	other := bcasts[0].event.(*domain.UserJoinedEvent)
	if other.UserID != "" {
		t.Error("non-namer copies must not carry a self id")
	}
}

func TestHandleSetIdentityEmptyName(t *testing.T) {
	f, p := newPresenceFixture()

	err := p.HandleSetIdentity(context.Background(), "sess-a", "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	if len(f.dispatcher.events) != 0 {
		t.Errorf("no events may fire on invalid input: %v", f.dispatcher.events)
	}
	if len(f.registry.Roster()) != 0 {
		t.Errorf("registry must stay untouched: %v", f.registry.Roster())
	}
}

func TestRenameReMintsAndKeepsOneRosterEntry(t *testing.T) {
	f, p := newPresenceFixture()
	ctx := context.Background()

	if err := p.HandleSetIdentity(ctx, "sess-a", "Alice"); err != nil {
		t.Fatalf("HandleSetIdentity: %v", err)
	}
	first := f.dispatcher.sentTo("sess-a")[0].(*domain.UserJoinedEvent).UserID

	if err := p.HandleSetIdentity(ctx, "sess-a", "Alicia"); err != nil {
		t.Fatalf("HandleSetIdentity rename: %v", err)
	}
	second := f.dispatcher.sentTo("sess-a")[1].(*domain.UserJoinedEvent).UserID

	if first == second {
		t.Error("rename must mint a fresh participant id")
	}
	roster := f.registry.Roster()
	if len(roster) != 1 || roster[0].ID != second || roster[0].Name != "Alicia" {
		t.Errorf("roster must hold only the latest identity: %v", roster)
	}
}

func TestHandleDisconnectRestoresRoster(t *testing.T) {
	f, p := newPresenceFixture()
	ctx := context.Background()

	before := len(f.registry.Roster())
	if err := p.HandleSetIdentity(ctx, "sess-a", "Alice"); err != nil {
		t.Fatalf("HandleSetIdentity: %v", err)
	}
	f.dispatcher.events = nil

	if err := p.HandleDisconnect(ctx, "sess-a"); err != nil {
		t.Fatalf("HandleDisconnect: %v", err)
	}

	if len(f.registry.Roster()) != before {
		t.Errorf("roster after disconnect differs from before connect: %v", f.registry.Roster())
	}

	bcasts := f.dispatcher.broadcasts()
	if len(bcasts) != 1 {
		t.Fatalf("expected one user_left broadcast, got %d", len(bcasts))
	}
	left := bcasts[0].event.(*domain.UserLeftEvent)
	if left.Type != domain.EventUserLeft || len(left.Users) != 0 {
		t.Errorf("bad user_left payload: %+v", left)
	}
}

func TestHandleDisconnectAnonymousStillBroadcasts(t *testing.T) {
	f, p := newPresenceFixture()
	ctx := context.Background()

	if err := p.HandleSetIdentity(ctx, "sess-a", "Alice"); err != nil {
		t.Fatalf("HandleSetIdentity: %v", err)
	}
	f.dispatcher.events = nil

	// sess-b connected but never named itself.
	if err := p.HandleDisconnect(ctx, "sess-b"); err != nil {
		t.Fatalf("HandleDisconnect: %v", err)
	}

	bcasts := f.dispatcher.broadcasts()
	if len(bcasts) != 1 {
		t.Fatalf("roster broadcast must fire even for anonymous leavers, got %d", len(bcasts))
	}
	left := bcasts[0].event.(*domain.UserLeftEvent)
	if len(left.Users) != 1 || left.Users[0].Name != "Alice" {
		t.Errorf("roster must be unchanged: %+v", left.Users)
	}
}

// Mirrors the full client lifecycle: connect, name, chat, leave.
func TestPresenceLifecycleScenario(t *testing.T) {
	f, p := newPresenceFixture()
	ctx := context.Background()

	// Alice connects into an empty room.
	if err := p.HandleConnect(ctx, "sess-a"); err != nil {
		t.Fatalf("connect alice: %v", err)
	}
	hist := f.dispatcher.sentTo("sess-a")[0].(*domain.MessageHistoryEvent)
	if len(hist.Messages) != 0 {
		t.Fatalf("empty room must replay empty history")
	}

	// Alice names herself and learns her own id.
	if err := p.HandleSetIdentity(ctx, "sess-a", "Alice"); err != nil {
		t.Fatalf("name alice: %v", err)
	}
	aliceID := f.dispatcher.sentTo("sess-a")[1].(*domain.UserJoinedEvent).UserID
	if len(aliceID) != 8 {
		t.Fatalf("participant id %q is not an 8-char token", aliceID)
	}

	// Bob connects and names himself; the roster everyone sees now has two
	// entries.
	if err := p.HandleConnect(ctx, "sess-b"); err != nil {
		t.Fatalf("connect bob: %v", err)
	}
	if err := p.HandleSetIdentity(ctx, "sess-b", "Bob"); err != nil {
		t.Fatalf("name bob: %v", err)
	}
	bcasts := f.dispatcher.broadcasts()
	roster := bcasts[len(bcasts)-1].event.(*domain.UserJoinedEvent).Users
	if len(roster) != 2 {
		t.Fatalf("roster = %v, want Alice and Bob", roster)
	}

	// Alice broadcasts; the room-wide fan-out carries her message.
	if err := f.svc.HandleBroadcast(ctx, "Alice", "hello all"); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	bcasts = f.dispatcher.broadcasts()
	newMsg, ok := bcasts[len(bcasts)-1].event.(*domain.NewMessageEvent)
	if !ok || newMsg.Text != "hello all" || bcasts[len(bcasts)-1].exclude != "" {
		t.Fatalf("bad broadcast fan-out: %+v", bcasts[len(bcasts)-1])
	}

	// Bob disconnects; the remaining roster lists only Alice.
	if err := p.HandleDisconnect(ctx, "sess-b"); err != nil {
		t.Fatalf("disconnect bob: %v", err)
	}
	bcasts = f.dispatcher.broadcasts()
	left := bcasts[len(bcasts)-1].event.(*domain.UserLeftEvent)
	if len(left.Users) != 1 || left.Users[0].Name != "Alice" {
		t.Fatalf("roster after bob left: %+v", left.Users)
	}
}
