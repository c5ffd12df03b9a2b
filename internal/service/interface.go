package service

import (
	"context"

	"github.com/andrewsflike/officemessenger/internal/domain"
)

// Dispatcher delivers outbound events to live sessions. The websocket hub
// implements it; tests substitute a recorder.
type Dispatcher interface {
	// Broadcast fans event out to every session, skipping exclude when
	// non-empty.
	Broadcast(event interface{}, exclude string) error
	// SendTo delivers event to one session, best-effort.
	SendTo(sessionID string, event interface{}) error
}

// MessageService validates, timestamps, persists, and dispatches broadcast
// and direct messages.
type MessageService interface {
	// PostBroadcast persists a room-wide message and returns the stored
	// record for fan-out. Empty author or text is domain.ErrInvalidInput.
	PostBroadcast(ctx context.Context, author, text string) (*domain.BroadcastMessage, error)

	// PostDirect persists a direct message whether or not the recipient is
	// online. The sender must resolve against the registry
	// (domain.ErrUnknownSender); empty recipient or text is
	// domain.ErrInvalidInput. Live delivery is a separate best-effort step.
	PostDirect(ctx context.Context, fromID, toID, text string) (*domain.DirectMessage, error)

	// History returns the full broadcast history, timestamp ascending.
	History(ctx context.Context) ([]domain.BroadcastMessage, error)

	// DirectHistory returns the conversation between a and b, timestamp
	// ascending, each record labeled with the sender's display name as
	// resolved right now.
	DirectHistory(ctx context.Context, a, b string) ([]domain.DirectMessage, error)

	// HandleBroadcast is PostBroadcast plus fan-out to every session.
	HandleBroadcast(ctx context.Context, author, text string) error

	// HandleDirect resolves the calling session, posts the message, and
	// attempts live delivery to sender and recipient sessions.
	HandleDirect(ctx context.Context, sessionID, toID, text string) error

	// HandleDirectHistory loads the caller's conversation with withUserID
	// and emits it back to the calling session only.
	HandleDirectHistory(ctx context.Context, sessionID, withUserID string) error
}

// PresenceService reacts to session lifecycle events and keeps every client's
// roster current.
type PresenceService interface {
	// HandleConnect replays the broadcast history to the new session. The
	// session stays invisible to others until it names itself.
	HandleConnect(ctx context.Context, sessionID string) error

	// HandleSetIdentity binds a display name to the session (re-minting the
	// participant id on renames) and broadcasts the new roster; the calling
	// session's copy carries its own participant id.
	HandleSetIdentity(ctx context.Context, sessionID, displayName string) error

	// HandleDisconnect drops the session's registry row and broadcasts the
	// shrunken roster to everyone left. Fires for never-named sessions too.
	HandleDisconnect(ctx context.Context, sessionID string) error
}
