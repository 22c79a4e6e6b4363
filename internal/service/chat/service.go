package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/adelvo/website/backend/internal/model/chat"
)

var ErrSessionRequired = errors.New("session id is required")

// Turn is one stored message of a conversation.
type Turn struct {
	Message   chat.Message
	CreatedAt time.Time
}

// Service keeps per-session conversation history in memory for responders
// that need context beyond the current message.
type Service struct {
	mu       sync.RWMutex
	maxTurns int
	sessions map[chat.SessionID][]Turn
}

// NewService returns a store keeping at most maxTurns turns per session;
// zero keeps everything.
func NewService(maxTurns int) *Service {
	return &Service{
		maxTurns: maxTurns,
		sessions: make(map[chat.SessionID][]Turn),
	}
}

// Append adds a message to the session's history.
func (s *Service) Append(_ context.Context, sessionID chat.SessionID, message chat.Message) error {
	if sessionID == "" {
		return ErrSessionRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.sessions[sessionID], Turn{Message: message, CreatedAt: time.Now().UTC()})
	if s.maxTurns > 0 && len(turns) > s.maxTurns {
		turns = append([]Turn(nil), turns[len(turns)-s.maxTurns:]...)
	}
	s.sessions[sessionID] = turns
	return nil
}

// History returns a copy of the session's turns, oldest first. Unknown
// sessions have an empty history.
func (s *Service) History(_ context.Context, sessionID chat.SessionID) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	copied := make([]Turn, len(turns))
	copy(copied, turns)
	return copied
}

// Sessions returns the number of sessions with stored history.
func (s *Service) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
