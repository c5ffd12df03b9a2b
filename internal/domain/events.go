package domain

// WebSocket event types from client.
const (
	EventSetUsername        = "set_username"
	EventSendMessage        = "send_message"
	EventLoadPrivateHistory = "load_private_history"
	EventSendPrivateMessage = "send_private_message"
)

// WebSocket event types to client.
const (
	EventMessageHistory    = "message_history"
	EventUserJoined        = "user_joined"
	EventUserLeft          = "user_left"
	EventNewMessage        = "new_message"
	EventPrivateHistory    = "private_history"
	EventNewPrivateMessage = "new_private_message"
)

// BaseEvent is the envelope shared by all inbound frames.
type BaseEvent struct {
	Type string `json:"type"`
}

// Client -> Server events

type SetUsernameEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

type SendMessageEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

type LoadPrivateHistoryEvent struct {
	Type       string `json:"type"`
	WithUserID string `json:"withUserId"`
}

type SendPrivateMessageEvent struct {
	Type     string `json:"type"`
	ToUserID string `json:"toUserId"`
	Message  string `json:"message"`
}

// Server -> Client events

type MessageHistoryEvent struct {
	Type     string             `json:"type"`
	Messages []BroadcastMessage `json:"messages"`
}

// UserJoinedEvent carries the full roster. UserID is set only on the copy
// sent to the session that just set its identity, so that client can tell
// "me" apart from the rest of the roster.
type UserJoinedEvent struct {
	Type   string        `json:"type"`
	Users  []Participant `json:"users"`
	UserID string        `json:"userId,omitempty"`
}

type UserLeftEvent struct {
	Type  string        `json:"type"`
	Users []Participant `json:"users"`
}

type NewMessageEvent struct {
	Type string `json:"type"`
	BroadcastMessage
}

type PrivateHistoryEvent struct {
	Type       string          `json:"type"`
	WithUserID string          `json:"withUserId"`
	Messages   []DirectMessage `json:"messages"`
}

type NewPrivateMessageEvent struct {
	Type string `json:"type"`
	DirectMessage
}

func NewMessageHistory(messages []BroadcastMessage) *MessageHistoryEvent {
	if messages == nil {
		messages = []BroadcastMessage{}
	}
	return &MessageHistoryEvent{Type: EventMessageHistory, Messages: messages}
}

func NewUserJoined(roster []Participant, selfID string) *UserJoinedEvent {
	if roster == nil {
		roster = []Participant{}
	}
	return &UserJoinedEvent{Type: EventUserJoined, Users: roster, UserID: selfID}
}

func NewUserLeft(roster []Participant) *UserLeftEvent {
	if roster == nil {
		roster = []Participant{}
	}
	return &UserLeftEvent{Type: EventUserLeft, Users: roster}
}

func NewBroadcastDelivery(msg *BroadcastMessage) *NewMessageEvent {
	return &NewMessageEvent{Type: EventNewMessage, BroadcastMessage: *msg}
}

func NewPrivateHistory(withUserID string, messages []DirectMessage) *PrivateHistoryEvent {
	if messages == nil {
		messages = []DirectMessage{}
	}
	return &PrivateHistoryEvent{Type: EventPrivateHistory, WithUserID: withUserID, Messages: messages}
}

func NewDirectDelivery(msg *DirectMessage) *NewPrivateMessageEvent {
	return &NewPrivateMessageEvent{Type: EventNewPrivateMessage, DirectMessage: *msg}
}
