// Package repository owns durable message history: broadcast messages and
// direct messages. Live-session state deliberately does not live here.
package repository

import (
	"context"

	"github.com/andrewsflike/officemessenger/internal/domain"
)

// MessageRepository persists and replays chat history. Implementations wrap
// backend failures in domain.ErrStoreUnavailable.
type MessageRepository interface {
	// SaveBroadcast stores a room-wide message.
	SaveBroadcast(ctx context.Context, msg *domain.BroadcastMessage) error

	// ListBroadcasts returns the full broadcast history ordered by
	// timestamp ascending. No pagination at this scale.
	ListBroadcasts(ctx context.Context) ([]domain.BroadcastMessage, error)

	// SaveDirect stores a direct message, whether or not the recipient is
	// online.
	SaveDirect(ctx context.Context, msg *domain.DirectMessage) error

	// ListDirectBetween returns every direct message exchanged between the
	// pair {a, b} in either direction, ordered by timestamp ascending.
	ListDirectBetween(ctx context.Context, a, b string) ([]domain.DirectMessage, error)

	Close(ctx context.Context) error
}
