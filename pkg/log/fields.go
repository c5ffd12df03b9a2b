package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor
	FieldSessionID     = "session_id"
	FieldParticipantID = "participant_id"
	FieldDisplayName   = "display_name"

	// Messaging
	FieldMessageID = "message_id"
	FieldEventType = "event_type"

	// Service
	FieldService = "service"
)
