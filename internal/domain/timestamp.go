package domain

import (
	"fmt"
	"time"
)

// TimestampLayout is the wall-clock layout the web client renders verbatim.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a second-resolution wall-clock time. It serializes to JSON as
// a bare `2006-01-02 15:04:05` string.
type Timestamp struct {
	time.Time
}

// Now returns the current process-local time truncated to seconds.
func Now() Timestamp {
	return Timestamp{time.Now().Truncate(time.Second)}
}

// NewTimestamp truncates t to second resolution.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.Truncate(time.Second)}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(TimestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("timestamp must be a string, got %s", s)
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s[1:len(s)-1], time.Local)
	if err != nil {
		return fmt.Errorf("parse timestamp: %w", err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}
