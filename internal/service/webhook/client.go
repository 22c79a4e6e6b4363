// Package webhook talks to the remote automation endpoints that back the chat
// widget and the booking form.
package webhook

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// maxResponseBytes bounds how much of a webhook response is read.
const maxResponseBytes = 1 << 20

var (
	// ErrStatus wraps every non-2xx response.
	ErrStatus = errors.New("unexpected status")
	// ErrMalformed is returned when a response body is not valid JSON.
	ErrMalformed = errors.New("malformed response")
	// ErrNoReply is returned when a chat response has no string reply field.
	ErrNoReply = errors.New("response has no reply")
)

// StatusError carries the status code of a rejected request.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrStatus, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// NewHTTPClient returns a client whose overall timeout is timeout; zero
// leaves the request unbounded apart from the dial and TLS limits.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConns:        20,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
