package widget

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/adelvo/website/backend/internal/model/chat"
)

// Engine sends user messages to the Responder and appends the outcome.
type Engine struct {
	transcript *Transcript
	view       View
	responder  Responder
	sessionID  chat.SessionID
	source     string
	fallback   string
	now        func() time.Time
	// post runs fn on the loop goroutine; false means the widget is gone.
	post func(fn func()) bool
}

// Submit handles one form submission. Blank input is ignored. Otherwise the
// user message is appended and the input cleared right away, and a single
// request is started whose reply, or the fallback text on any failure, is
// appended when it completes. Submissions may overlap; replies are appended
// in the order they arrive.
func (e *Engine) Submit(ctx context.Context, raw string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return
	}

	e.transcript.Append(chat.UserMessage(text))
	e.view.ClearInput()

	req := chat.NewRequest(text, e.source, e.sessionID, e.now())
	go e.exchange(ctx, req)
}

func (e *Engine) exchange(ctx context.Context, req chat.Request) {
	reply, err := e.responder.Reply(ctx, req)
	if err != nil {
		log.Warn().Err(err).
			Str("component", "widget").
			Str("session_id", req.SessionID.String()).
			Msg("chat exchange failed")
		reply = e.fallback
	}

	if !e.post(func() { e.transcript.Append(chat.BotMessage(reply)) }) {
		log.Debug().Str("component", "widget").Str("session_id", req.SessionID.String()).
			Msg("widget closed, dropping reply")
	}
}
