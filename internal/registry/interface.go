// Package registry tracks which live session is bound to which participant
// identity. It is the single source of truth for "who is online and as whom";
// rows live only as long as the process, durable history is the repository's
// job.
package registry

import "github.com/andrewsflike/officemessenger/internal/domain"

// Registry is the identity registry plus the routing table derived from it.
//
// Every operation is atomic with respect to the others: no caller ever
// observes a partially applied SetIdentity or RemoveSession.
type Registry interface {
	// SetIdentity binds sessionID to displayName under a freshly minted
	// participant id and returns that id. Calling it again for the same
	// session replaces the row and mints a new id; ids are never reused
	// across renames. Display-name collisions are allowed.
	SetIdentity(sessionID, displayName string) (string, error)

	// RemoveSession deletes the row for sessionID. Idempotent; removing an
	// unknown or never-named session is a no-op.
	RemoveSession(sessionID string)

	// Roster returns a snapshot of all named participants. Order is storage
	// order and carries no meaning.
	Roster() []domain.Participant

	// ResolveDisplayName returns the display name for a participant id.
	ResolveDisplayName(participantID string) (string, error)

	// ResolveParticipant returns the participant id bound to a session.
	ResolveParticipant(sessionID string) (string, error)

	// ResolveSession returns the live session currently bound to a
	// participant id. Used only to find direct-message delivery targets;
	// the session it names may disconnect at any moment, so delivery stays
	// best-effort.
	ResolveSession(participantID string) (string, error)
}
