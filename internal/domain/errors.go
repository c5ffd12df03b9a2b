package domain

import "errors"

// Error kinds surfaced by the core. Handlers match these with errors.Is;
// failures of one session's event never take the process down.
var (
	// ErrInvalidInput marks an empty or missing required field. Dropped at
	// the handler boundary after logging.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownSender means the calling session has no identity yet, so it
	// cannot author a direct message.
	ErrUnknownSender = errors.New("unknown sender")

	// ErrUnknownParticipant is a resolution miss against the identity
	// registry.
	ErrUnknownParticipant = errors.New("unknown participant")

	// ErrStoreUnavailable wraps persistence failures. Fatal to the single
	// event being processed, never retried by the core.
	ErrStoreUnavailable = errors.New("store unavailable")
)
