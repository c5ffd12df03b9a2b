package domain

// Participant is a display-named identity currently bound to a live session.
// The ID is a short opaque token re-minted on every naming event, never
// derived from the name.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BroadcastMessage is a room-wide message. Immutable once created; the author
// display name is captured at post time and is not rewritten on renames.
type BroadcastMessage struct {
	ID        string    `json:"id"`
	Author    string    `json:"user"`
	Text      string    `json:"text"`
	Timestamp Timestamp `json:"timestamp"`
}

// DirectMessage is a message addressed to one participant. It is persisted
// regardless of whether the recipient is online. Author carries the sender's
// display name resolved at read (or post) time, not stored.
type DirectMessage struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"fromUserId"`
	ToUserID   string    `json:"toUserId"`
	Author     string    `json:"user"`
	Text       string    `json:"text"`
	Timestamp  Timestamp `json:"timestamp"`
}

// UnknownAuthor labels direct messages whose sender can no longer be
// resolved against the registry.
const UnknownAuthor = "Unknown"
