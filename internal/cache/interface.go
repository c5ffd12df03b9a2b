// Package cache fronts the broadcast-history read path. Every connect
// replays the full history, so keeping the list warm in Redis spares the
// store one full scan per connection.
package cache

import (
	"context"
	"errors"

	"github.com/andrewsflike/officemessenger/internal/domain"
)

// ErrCacheMiss is returned when the requested entry is not cached.
var ErrCacheMiss = errors.New("cache miss")

// HistoryCache caches the ordered broadcast history.
type HistoryCache interface {
	Get(ctx context.Context) ([]domain.BroadcastMessage, error)
	Set(ctx context.Context, messages []domain.BroadcastMessage) error
	// Invalidate drops the cached history. Called after every new
	// broadcast so replays never serve a stale list.
	Invalidate(ctx context.Context) error
	Close() error
}
