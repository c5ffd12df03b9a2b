package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/andrewsflike/officemessenger/internal/domain"
)

// MemoryMessageRepository keeps history in process memory. Used as the
// storeless dev backend and by tests; everything is lost on restart.
type MemoryMessageRepository struct {
	mu         sync.RWMutex
	broadcasts []domain.BroadcastMessage
	directs    []domain.DirectMessage
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{}
}

func (r *MemoryMessageRepository) SaveBroadcast(_ context.Context, msg *domain.BroadcastMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcasts = append(r.broadcasts, *msg)
	return nil
}

func (r *MemoryMessageRepository) ListBroadcasts(_ context.Context) ([]domain.BroadcastMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.BroadcastMessage, len(r.broadcasts))
	copy(out, r.broadcasts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp.Time)
	})
	return out, nil
}

func (r *MemoryMessageRepository) SaveDirect(_ context.Context, msg *domain.DirectMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *msg
	stored.Author = "" // display names are resolved at read time, not stored
	r.directs = append(r.directs, stored)
	return nil
}

func (r *MemoryMessageRepository) ListDirectBetween(_ context.Context, a, b string) ([]domain.DirectMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.DirectMessage
	for _, m := range r.directs {
		if (m.FromUserID == a && m.ToUserID == b) || (m.FromUserID == b && m.ToUserID == a) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp.Time)
	})
	return out, nil
}

func (r *MemoryMessageRepository) Close(context.Context) error {
	return nil
}
