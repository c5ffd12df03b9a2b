package registry

import (
	"fmt"
	"sync"

	"github.com/andrewsflike/officemessenger/internal/domain"
	"github.com/andrewsflike/officemessenger/internal/ident"
)

type row struct {
	participantID string
	displayName   string
}

// memoryRegistry keeps the live-session table in process memory. A restart
// empties it, which is exactly right: a fresh process has no live sockets,
// so it must not inherit rows claiming otherwise.
type memoryRegistry struct {
	mu            sync.RWMutex
	bySession     map[string]row    // session id -> identity
	byParticipant map[string]string // participant id -> session id
	order         []string          // session ids in insertion order
	ids           ident.Generator
}

// NewMemoryRegistry creates an empty registry minting participant ids with
// ids.
func NewMemoryRegistry(ids ident.Generator) Registry {
	return &memoryRegistry{
		bySession:     make(map[string]row),
		byParticipant: make(map[string]string),
		ids:           ids,
	}
}

func (r *memoryRegistry) SetIdentity(sessionID, displayName string) (string, error) {
	participantID, err := r.ids.Generate()
	if err != nil {
		return "", fmt.Errorf("mint participant id: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.bySession[sessionID]; ok {
		// Rename: the old participant id stops resolving immediately.
		delete(r.byParticipant, prev.participantID)
	} else {
		r.order = append(r.order, sessionID)
	}

	r.bySession[sessionID] = row{participantID: participantID, displayName: displayName}
	r.byParticipant[participantID] = sessionID
	return participantID, nil
}

func (r *memoryRegistry) RemoveSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.bySession[sessionID]
	if !ok {
		return
	}
	delete(r.bySession, sessionID)
	delete(r.byParticipant, prev.participantID)
	for i, sid := range r.order {
		if sid == sessionID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *memoryRegistry) Roster() []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roster := make([]domain.Participant, 0, len(r.bySession))
	for _, sid := range r.order {
		rw := r.bySession[sid]
		roster = append(roster, domain.Participant{ID: rw.participantID, Name: rw.displayName})
	}
	return roster
}

func (r *memoryRegistry) ResolveDisplayName(participantID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sid, ok := r.byParticipant[participantID]
	if !ok {
		return "", fmt.Errorf("%w: participant %s", domain.ErrUnknownParticipant, participantID)
	}
	return r.bySession[sid].displayName, nil
}

func (r *memoryRegistry) ResolveParticipant(sessionID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rw, ok := r.bySession[sessionID]
	if !ok {
		return "", fmt.Errorf("%w: session %s", domain.ErrUnknownParticipant, sessionID)
	}
	return rw.participantID, nil
}

func (r *memoryRegistry) ResolveSession(participantID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sid, ok := r.byParticipant[participantID]
	if !ok {
		return "", fmt.Errorf("%w: participant %s", domain.ErrUnknownParticipant, participantID)
	}
	return sid, nil
}
