package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/andrewsflike/officemessenger/internal/domain"
	"github.com/andrewsflike/officemessenger/internal/registry"
	"github.com/andrewsflike/officemessenger/pkg/log"
)

type presenceService struct {
	registry   registry.Registry
	messages   MessageService
	dispatcher Dispatcher
	logger     zerolog.Logger
}

func NewPresenceService(
	reg registry.Registry,
	messages MessageService,
	dispatcher Dispatcher,
	logger zerolog.Logger,
) PresenceService {
	return &presenceService{
		registry:   reg,
		messages:   messages,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *presenceService) HandleConnect(ctx context.Context, sessionID string) error {
	history, err := s.messages.History(ctx)
	if err != nil {
		return fmt.Errorf("load history for connect: %w", err)
	}

	// Only the new session hears about this; it joins the roster when it
	// names itself.
	return s.dispatcher.SendTo(sessionID, domain.NewMessageHistory(history))
}

func (s *presenceService) HandleSetIdentity(ctx context.Context, sessionID, displayName string) error {
	if displayName == "" {
		return fmt.Errorf("%w: display name required", domain.ErrInvalidInput)
	}

	participantID, err := s.registry.SetIdentity(sessionID, displayName)
	if err != nil {
		return err
	}
	roster := s.registry.Roster()

	s.logger.Info().
		Str(log.FieldSessionID, sessionID).
		Str(log.FieldParticipantID, participantID).
		Str(log.FieldDisplayName, displayName).
		Msg("identity set")

	// Everyone sees the new roster; only the namer learns which entry is
	// itself.
	if err := s.dispatcher.SendTo(sessionID, domain.NewUserJoined(roster, participantID)); err != nil {
		return err
	}
	return s.dispatcher.Broadcast(domain.NewUserJoined(roster, ""), sessionID)
}

func (s *presenceService) HandleDisconnect(ctx context.Context, sessionID string) error {
	// Idempotent for sessions that never named themselves; the roster
	// broadcast still fires.
	s.registry.RemoveSession(sessionID)

	s.logger.Info().Str(log.FieldSessionID, sessionID).Msg("session disconnected")

	return s.dispatcher.Broadcast(domain.NewUserLeft(s.registry.Roster()), sessionID)
}
