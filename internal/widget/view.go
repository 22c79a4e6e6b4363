// Package widget implements the chat widget: its transcript, the open/closed
// panel state and the exchange of messages with a remote responder.
//
// A Widget owns a single event loop goroutine (Run). Every mutation of widget
// state and every View call happens on that goroutine; network exchanges run
// on their own goroutines and post their results back to the loop.
package widget

import (
	"context"

	"github.com/adelvo/website/backend/internal/model/chat"
)

// View renders widget state. Implementations are called only from the
// widget's loop goroutine.
type View interface {
	// AppendMessage renders a new transcript entry after the existing ones
	// and scrolls so that it is visible.
	AppendMessage(msg chat.Message)
	// SetVisibility applies the panel state: open/closed, large layout and
	// the aria-expanded/aria-hidden attributes.
	SetVisibility(state chat.VisibilityState)
	// FocusInput moves focus to the text entry field.
	FocusInput()
	// ClearInput empties the text entry field.
	ClearInput()
}

// Responder produces the bot reply for one user message.
type Responder interface {
	Reply(ctx context.Context, req chat.Request) (string, error)
}

// IdentitySource yields the session identifier sent with every message.
type IdentitySource interface {
	GetOrCreate(ctx context.Context) chat.SessionID
}
