package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/andrewsflike/officemessenger/internal/config"
	"github.com/andrewsflike/officemessenger/internal/domain"
	"github.com/andrewsflike/officemessenger/internal/hub"
	"github.com/andrewsflike/officemessenger/internal/service"
	"github.com/andrewsflike/officemessenger/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades connections and dispatches inbound frames to the
// presence and message services. Bad frames are logged and dropped so one
// session's failure never touches the others.
type WSHandler struct {
	hub      *hub.Hub
	presence service.PresenceService
	messages service.MessageService
	wsCfg    config.WebSocketConfig
}

func NewWSHandler(
	h *hub.Hub,
	presence service.PresenceService,
	messages service.MessageService,
	wsCfg config.WebSocketConfig,
) *WSHandler {
	return &WSHandler{
		hub:      h,
		presence: presence,
		messages: messages,
		wsCfg:    wsCfg,
	}
}

func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	// The session id is transport-assigned and opaque to clients.
	client := hub.NewClient(uuid.New().String(), h.hub, conn, h.wsCfg)
	h.hub.Register(client)

	ctx := context.Background()
	if err := h.presence.HandleConnect(ctx, client.ID); err != nil {
		log.L().Error().Err(err).Str(log.FieldSessionID, client.ID).Msg("connect handling failed")
	}

	go client.WritePump()
	go client.ReadPump(h.handleFrame, h.handleDisconnect)
}

func (h *WSHandler) handleDisconnect(client *hub.Client) {
	if err := h.presence.HandleDisconnect(context.Background(), client.ID); err != nil {
		log.L().Error().Err(err).Str(log.FieldSessionID, client.ID).Msg("disconnect handling failed")
	}
}

func (h *WSHandler) handleFrame(client *hub.Client, message []byte) {
	var base domain.BaseEvent
	if err := json.Unmarshal(message, &base); err != nil {
		log.L().Warn().Err(err).Str(log.FieldSessionID, client.ID).Msg("malformed frame dropped")
		return
	}

	ctx := context.Background()
	logger := log.L().With().
		Str(log.FieldSessionID, client.ID).
		Str(log.FieldEventType, base.Type).
		Logger()

	switch base.Type {
	case domain.EventSetUsername:
		var evt domain.SetUsernameEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			logger.Warn().Err(err).Msg("malformed frame dropped")
			return
		}
		if err := h.presence.HandleSetIdentity(ctx, client.ID, evt.Username); err != nil {
			logger.Warn().Err(err).Msg("event dropped")
		}

	case domain.EventSendMessage:
		var evt domain.SendMessageEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			logger.Warn().Err(err).Msg("malformed frame dropped")
			return
		}
		if err := h.messages.HandleBroadcast(ctx, evt.Username, evt.Message); err != nil {
			logger.Warn().Err(err).Msg("event dropped")
		}

	case domain.EventLoadPrivateHistory:
		var evt domain.LoadPrivateHistoryEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			logger.Warn().Err(err).Msg("malformed frame dropped")
			return
		}
		if err := h.messages.HandleDirectHistory(ctx, client.ID, evt.WithUserID); err != nil {
			logger.Warn().Err(err).Msg("event dropped")
		}

	case domain.EventSendPrivateMessage:
		var evt domain.SendPrivateMessageEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			logger.Warn().Err(err).Msg("malformed frame dropped")
			return
		}
		if err := h.messages.HandleDirect(ctx, client.ID, evt.ToUserID, evt.Message); err != nil {
			logger.Warn().Err(err).Msg("event dropped")
		}

	default:
		logger.Warn().Msg("unknown event type dropped")
	}
}

func (h *WSHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleWebSocket)
}
