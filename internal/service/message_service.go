package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/andrewsflike/officemessenger/internal/cache"
	"github.com/andrewsflike/officemessenger/internal/domain"
	"github.com/andrewsflike/officemessenger/internal/ident"
	"github.com/andrewsflike/officemessenger/internal/registry"
	"github.com/andrewsflike/officemessenger/internal/repository"
	"github.com/andrewsflike/officemessenger/pkg/log"
)

type messageService struct {
	repo       repository.MessageRepository
	cache      cache.HistoryCache
	registry   registry.Registry
	dispatcher Dispatcher
	ids        ident.Generator
	logger     zerolog.Logger
	now        func() domain.Timestamp
}

func NewMessageService(
	repo repository.MessageRepository,
	historyCache cache.HistoryCache,
	reg registry.Registry,
	dispatcher Dispatcher,
	ids ident.Generator,
	logger zerolog.Logger,
) MessageService {
	return &messageService{
		repo:       repo,
		cache:      historyCache,
		registry:   reg,
		dispatcher: dispatcher,
		ids:        ids,
		logger:     logger,
		now:        domain.Now,
	}
}

func (s *messageService) PostBroadcast(ctx context.Context, author, text string) (*domain.BroadcastMessage, error) {
	if author == "" || text == "" {
		return nil, fmt.Errorf("%w: author and text required", domain.ErrInvalidInput)
	}

	id, err := s.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("mint message id: %w", err)
	}

	msg := &domain.BroadcastMessage{
		ID:        id,
		Author:    author,
		Text:      text,
		Timestamp: s.now(),
	}
	if err := s.repo.SaveBroadcast(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate history cache")
	}
	return msg, nil
}

func (s *messageService) PostDirect(ctx context.Context, fromID, toID, text string) (*domain.DirectMessage, error) {
	senderName, err := s.registry.ResolveDisplayName(fromID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSender, fromID)
	}
	if toID == "" || text == "" {
		return nil, fmt.Errorf("%w: recipient and text required", domain.ErrInvalidInput)
	}

	id, err := s.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("mint message id: %w", err)
	}

	msg := &domain.DirectMessage{
		ID:         id,
		FromUserID: fromID,
		ToUserID:   toID,
		Author:     senderName,
		Text:       text,
		Timestamp:  s.now(),
	}
	// Persisted regardless of the recipient being online; delivery is a
	// separate step.
	if err := s.repo.SaveDirect(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *messageService) History(ctx context.Context) ([]domain.BroadcastMessage, error) {
	cached, err := s.cache.Get(ctx)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn().Err(err).Msg("history cache read failed")
	}

	messages, err := s.repo.ListBroadcasts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, messages); err != nil {
		s.logger.Warn().Err(err).Msg("history cache write failed")
	}
	return messages, nil
}

func (s *messageService) DirectHistory(ctx context.Context, a, b string) ([]domain.DirectMessage, error) {
	messages, err := s.repo.ListDirectBetween(ctx, a, b)
	if err != nil {
		return nil, err
	}

	// Sender names reflect the registry at read time; a rename changes how
	// old messages are labeled, a departed sender shows as Unknown.
	for i := range messages {
		name, err := s.registry.ResolveDisplayName(messages[i].FromUserID)
		if err != nil {
			name = domain.UnknownAuthor
		}
		messages[i].Author = name
	}
	return messages, nil
}

func (s *messageService) HandleBroadcast(ctx context.Context, author, text string) error {
	msg, err := s.PostBroadcast(ctx, author, text)
	if err != nil {
		return err
	}

	if err := s.dispatcher.Broadcast(domain.NewBroadcastDelivery(msg), ""); err != nil {
		s.logger.Error().Err(err).Str(log.FieldMessageID, msg.ID).Msg("broadcast fan-out failed")
	}
	return nil
}

func (s *messageService) HandleDirect(ctx context.Context, sessionID, toID, text string) error {
	fromID, err := s.registry.ResolveParticipant(sessionID)
	if err != nil {
		return fmt.Errorf("%w: session %s has no identity", domain.ErrUnknownSender, sessionID)
	}

	msg, err := s.PostDirect(ctx, fromID, toID, text)
	if err != nil {
		return err
	}

	s.deliverDirect(msg, sessionID)
	return nil
}

// deliverDirect attempts live delivery after a successful persist. The sender
// always sees its own message; the recipient gets a copy when a live session
// resolves and is not the sender's own (messaging oneself delivers once).
func (s *messageService) deliverDirect(msg *domain.DirectMessage, senderSessionID string) {
	event := domain.NewDirectDelivery(msg)

	if err := s.dispatcher.SendTo(senderSessionID, event); err != nil {
		s.logger.Error().Err(err).Str(log.FieldMessageID, msg.ID).Msg("direct echo failed")
	}

	recipientSession, err := s.registry.ResolveSession(msg.ToUserID)
	if err != nil || recipientSession == senderSessionID {
		return
	}
	if err := s.dispatcher.SendTo(recipientSession, event); err != nil {
		s.logger.Error().Err(err).Str(log.FieldMessageID, msg.ID).Msg("direct delivery failed")
	}
}

func (s *messageService) HandleDirectHistory(ctx context.Context, sessionID, withUserID string) error {
	callerID, err := s.registry.ResolveParticipant(sessionID)
	if err != nil {
		return fmt.Errorf("%w: session %s has no identity", domain.ErrUnknownSender, sessionID)
	}
	if withUserID == "" {
		return fmt.Errorf("%w: withUserId required", domain.ErrInvalidInput)
	}

	messages, err := s.DirectHistory(ctx, callerID, withUserID)
	if err != nil {
		return err
	}
	return s.dispatcher.SendTo(sessionID, domain.NewPrivateHistory(withUserID, messages))
}
