package widget

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// EventType names a user interaction the widget reacts to.
type EventType string

const (
	EventToggle EventType = "toggle"
	EventOpen   EventType = "open"
	EventClose  EventType = "close"
	EventSubmit EventType = "submit"
)

// ErrUnknownEvent is returned by Dispatch for events without a handler.
var ErrUnknownEvent = errors.New("unknown widget event")

// Event is one user interaction: a click on a named control or a form submit
// carrying the entered text.
type Event struct {
	Type EventType `json:"type"`
	Text string    `json:"text,omitempty"`
}

// Handler reacts to an event on the loop goroutine.
type Handler func(ctx context.Context, ev Event)

func (w *Widget) registerDefaultHandlers() {
	w.Handle(EventToggle, func(context.Context, Event) { w.visibility.Toggle() })
	w.Handle(EventOpen, func(context.Context, Event) { w.visibility.Open() })
	w.Handle(EventClose, func(context.Context, Event) { w.visibility.Close() })
	w.Handle(EventSubmit, w.handleSubmit)
}

// Handle registers h for events of type t, replacing any previous handler.
// Handlers must be registered before Run.
func (w *Widget) Handle(t EventType, h Handler) {
	w.handlers[t] = h
}

// Dispatch queues ev for its handler. It blocks until the loop accepts the
// event or the widget has stopped.
func (w *Widget) Dispatch(ev Event) error {
	h, ok := w.handlers[ev.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	if !w.post(func() { h(w.runCtx, ev) }) {
		return ErrStopped
	}
	return nil
}

// The form lives inside the panel, so nothing can be submitted while it is
// closed.
func (w *Widget) handleSubmit(ctx context.Context, ev Event) {
	if !w.visibility.State().IsOpen {
		w.logger.Debug().Msg("submit ignored while panel is closed")
		return
	}
	w.engine.Submit(ctx, ev.Text)
}
