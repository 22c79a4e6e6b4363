package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/adelvo/website/backend/internal/model/chat"
)

// ChatClient posts widget messages to the chat webhook.
type ChatClient struct {
	url    string
	client *http.Client
}

// NewChatClient returns a client for the endpoint at url. A nil httpClient
// selects NewHTTPClient(0).
func NewChatClient(url string, httpClient *http.Client) *ChatClient {
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	return &ChatClient{url: url, client: httpClient}
}

// Reply sends one message and returns the bot's reply. Exactly one request
// is made; callers decide how to surface failures.
func (c *ChatClient) Reply(ctx context.Context, req chat.Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal chat request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to build chat request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "chat request failed")
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", errors.Wrap(err, "failed to read chat response")
	}

	return parseReply(data)
}

// parseReply extracts the string under the exact key "reply". Struct
// decoding would fold case and accept "Reply" as well.
func parseReply(data []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", errors.Wrapf(ErrMalformed, "%v", err)
	}

	raw, ok := fields["reply"]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return "", ErrNoReply
	}

	var reply string
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", ErrNoReply
	}
	return reply, nil
}
