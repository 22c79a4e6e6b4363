package chat

import "time"

// SessionID is the opaque per-browser conversation identifier sent to the
// chat backend with every message.
type SessionID string

func (id SessionID) String() string { return string(id) }

// TimestampLayout matches the ISO-8601 form browsers emit for Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Request is the JSON body posted to the chat endpoint.
type Request struct {
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	SessionID SessionID `json:"session_id"`
	Timestamp string    `json:"timestamp"`
}

// NewRequest stamps a request with the given send time in UTC.
func NewRequest(text, source string, sessionID SessionID, sentAt time.Time) Request {
	return Request{
		Message:   text,
		Source:    source,
		SessionID: sessionID,
		Timestamp: sentAt.UTC().Format(TimestampLayout),
	}
}
