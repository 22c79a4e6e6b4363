package webhook

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// BookingClient posts booking form submissions.
type BookingClient struct {
	url    string
	client *http.Client
}

// NewBookingClient returns a client for the endpoint at url.
func NewBookingClient(url string, httpClient *http.Client) *BookingClient {
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	return &BookingClient{url: url, client: httpClient}
}

// Submit posts the form fields form-encoded. Any status in [200,299] is
// success; the response body is ignored.
func (c *BookingClient) Submit(ctx context.Context, fields url.Values) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(fields.Encode()))
	if err != nil {
		return errors.Wrap(err, "failed to build booking request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return errors.Wrap(err, "booking request failed")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	return checkStatus(resp)
}
