package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/adelvo/website/backend/internal/model/chat"
	"github.com/adelvo/website/backend/internal/storage"
)

const (
	DefaultKey    = "adelvo_chatbot_session_id"
	DefaultPrefix = "adelvo-"
)

// IdentityStore derives the conversation identifier of one browser profile
// and persists it in the profile's storage.
//
// When storage cannot be read the store fails open: it generates an
// identifier that lives only in memory and never writes it. The resolved
// identifier is cached, so repeated calls return the same value for the
// lifetime of the IdentityStore either way.
type IdentityStore struct {
	store  storage.Store
	key    string
	prefix string
	newID  func() string

	mu       sync.Mutex
	resolved chat.SessionID
}

// Option customises an IdentityStore.
type Option func(*IdentityStore)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *IdentityStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithPrefix overrides the namespace tag prepended to new identifiers.
func WithPrefix(prefix string) Option {
	return func(s *IdentityStore) { s.prefix = prefix }
}

// WithGenerator replaces the UUID source.
func WithGenerator(fn func() string) Option {
	return func(s *IdentityStore) { s.newID = fn }
}

// NewIdentityStore returns an IdentityStore over the given storage.
func NewIdentityStore(store storage.Store, opts ...Option) *IdentityStore {
	s := &IdentityStore{
		store:  store,
		key:    DefaultKey,
		prefix: DefaultPrefix,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the stored identifier, creating and storing one on
// first use.
func (s *IdentityStore) GetOrCreate(ctx context.Context) chat.SessionID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resolved != "" {
		return s.resolved
	}

	value, ok, err := s.store.Get(ctx, s.key)
	switch {
	case err != nil:
		s.resolved = s.generate()
		log.Warn().Err(err).Str("component", "session").Str("session_id", s.resolved.String()).
			Msg("storage unavailable, using in-memory session id")
	case ok && value != "":
		s.resolved = chat.SessionID(value)
	default:
		s.resolved = s.generate()
		if err := s.store.Set(ctx, s.key, s.resolved.String()); err != nil {
			log.Warn().Err(err).Str("component", "session").Str("session_id", s.resolved.String()).
				Msg("failed to persist session id")
		}
	}
	return s.resolved
}

// Reset removes the stored identifier so the next GetOrCreate creates a new
// one, like clearing the browser's storage.
func (s *IdentityStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resolved = ""
	return s.store.Delete(ctx, s.key)
}

func (s *IdentityStore) generate() chat.SessionID {
	return chat.SessionID(s.prefix + s.newID())
}
