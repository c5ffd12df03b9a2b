package cache

import (
	"context"

	"github.com/andrewsflike/officemessenger/internal/domain"
)

// NoopHistoryCache satisfies HistoryCache when no Redis address is
// configured; every Get is a miss.
type NoopHistoryCache struct{}

func NewNoopHistoryCache() NoopHistoryCache { return NoopHistoryCache{} }

func (NoopHistoryCache) Get(context.Context) ([]domain.BroadcastMessage, error) {
	return nil, ErrCacheMiss
}

func (NoopHistoryCache) Set(context.Context, []domain.BroadcastMessage) error { return nil }

func (NoopHistoryCache) Invalidate(context.Context) error { return nil }

func (NoopHistoryCache) Close() error { return nil }
