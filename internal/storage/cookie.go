package storage

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// CookieMaxAge keeps values for roughly as long as browsers keep local storage.
const CookieMaxAge = 400 * 24 * time.Hour

// CookieStore reads values from the cookies of an incoming request and
// records writes as Set-Cookie headers. It serves one handshake: writes
// become visible to the browser once Header is sent with the response.
type CookieStore struct {
	mu      sync.Mutex
	request *http.Request
	secure  bool
	pending map[string]*http.Cookie
}

// NewCookieStore binds a store to the request's cookie jar.
func NewCookieStore(r *http.Request, secure bool) *CookieStore {
	return &CookieStore{
		request: r,
		secure:  secure,
		pending: make(map[string]*http.Cookie),
	}
}

func (s *CookieStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.pending[key]; ok {
		if c.MaxAge < 0 {
			return "", false, nil
		}
		return c.Value, true, nil
	}

	c, err := s.request.Cookie(key)
	if err != nil || c.Value == "" {
		return "", false, nil
	}
	return c.Value, true, nil
}

func (s *CookieStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.pending[key] = s.cookie(key, value, int(CookieMaxAge/time.Second))
	s.mu.Unlock()
	return nil
}

func (s *CookieStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	s.pending[key] = s.cookie(key, "", -1)
	s.mu.Unlock()
	return nil
}

// Header returns the Set-Cookie headers for every pending write.
func (s *CookieStore) Header() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()

	header := make(http.Header)
	for _, c := range s.pending {
		if v := c.String(); v != "" {
			header.Add("Set-Cookie", v)
		}
	}
	return header
}

func (s *CookieStore) cookie(key, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
