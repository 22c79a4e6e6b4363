package widget

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adelvo/website/backend/internal/model/chat"
)

const (
	DefaultGreeting   = "Hello! How can I help you?"
	DefaultFallback   = "Something went wrong. Please try again."
	DefaultSource     = "adelvo_website_chatbot_test"
	DefaultFocusDelay = 50 * time.Millisecond
)

var (
	// ErrStopped is returned when interacting with a widget whose loop has
	// exited.
	ErrStopped = errors.New("widget stopped")
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("widget already running")
)

// Options configures a Widget. View, Responder and Identity are required.
type Options struct {
	View       View
	Responder  Responder
	Identity   IdentitySource
	Source     string
	Greeting   string
	Fallback   string
	FocusDelay time.Duration
	Now        func() time.Time
}

// Widget is one chat widget instance, living from page load to unload.
type Widget struct {
	sessionID  chat.SessionID
	transcript *Transcript
	visibility *Visibility
	engine     *Engine
	handlers   map[EventType]Handler
	logger     zerolog.Logger

	tasks   chan func()
	done    chan struct{}
	running atomic.Bool
	runCtx  context.Context
}

// New wires a widget and renders its initial state: the greeting when the
// transcript is empty. It must not be called concurrently with Run.
func New(ctx context.Context, opts Options) (*Widget, error) {
	if opts.View == nil {
		return nil, errors.New("widget: view is required")
	}
	if opts.Responder == nil {
		return nil, errors.New("widget: responder is required")
	}
	if opts.Identity == nil {
		return nil, errors.New("widget: identity source is required")
	}
	opts = withDefaults(opts)

	sessionID := opts.Identity.GetOrCreate(ctx)
	w := &Widget{
		sessionID: sessionID,
		handlers:  make(map[EventType]Handler),
		logger:    log.With().Str("component", "widget").Str("session_id", sessionID.String()).Logger(),
		tasks:     make(chan func(), 16),
		done:      make(chan struct{}),
		runCtx:    ctx,
	}

	w.transcript = newTranscript(opts.View)
	w.visibility = newVisibility(opts.View, opts.FocusDelay, w.after)
	w.engine = &Engine{
		transcript: w.transcript,
		view:       opts.View,
		responder:  opts.Responder,
		sessionID:  sessionID,
		source:     opts.Source,
		fallback:   opts.Fallback,
		now:        opts.Now,
		post:       w.post,
	}
	w.registerDefaultHandlers()

	if w.transcript.Len() == 0 {
		w.transcript.Append(chat.BotMessage(opts.Greeting))
	}
	return w, nil
}

func withDefaults(opts Options) Options {
	if opts.Source == "" {
		opts.Source = DefaultSource
	}
	if opts.Greeting == "" {
		opts.Greeting = DefaultGreeting
	}
	if opts.Fallback == "" {
		opts.Fallback = DefaultFallback
	}
	if opts.FocusDelay == 0 {
		opts.FocusDelay = DefaultFocusDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

// SessionID returns the identifier this widget sends with its messages.
func (w *Widget) SessionID() chat.SessionID { return w.sessionID }

// Run processes events until ctx is done, which tears the widget down.
// In-flight exchanges are abandoned and their replies dropped.
func (w *Widget) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(w.done)

	w.runCtx = ctx
	w.logger.Debug().Msg("widget loop started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug().Msg("widget loop stopped")
			return nil
		case task := <-w.tasks:
			task()
		}
	}
}

// Done is closed once Run has returned.
func (w *Widget) Done() <-chan struct{} { return w.done }

// Toggle flips the panel.
func (w *Widget) Toggle() error { return w.Dispatch(Event{Type: EventToggle}) }

// Open opens the panel.
func (w *Widget) Open() error { return w.Dispatch(Event{Type: EventOpen}) }

// Close closes the panel.
func (w *Widget) Close() error { return w.Dispatch(Event{Type: EventClose}) }

// Submit submits text as if entered in the form.
func (w *Widget) Submit(text string) error {
	return w.Dispatch(Event{Type: EventSubmit, Text: text})
}

// Messages returns a snapshot of the transcript taken on the loop.
func (w *Widget) Messages(ctx context.Context) ([]chat.Message, error) {
	return query(ctx, w, w.transcript.Messages)
}

// Visibility returns a snapshot of the panel state taken on the loop.
func (w *Widget) Visibility(ctx context.Context) (chat.VisibilityState, error) {
	return query(ctx, w, w.visibility.State)
}

func query[T any](ctx context.Context, w *Widget, read func() T) (T, error) {
	var zero T
	result := make(chan T, 1)
	if !w.post(func() { result <- read() }) {
		return zero, ErrStopped
	}
	select {
	case v := <-result:
		return v, nil
	case <-w.done:
		return zero, ErrStopped
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// post hands fn to the loop goroutine.
func (w *Widget) post(fn func()) bool {
	select {
	case <-w.done:
		return false
	default:
	}

	select {
	case w.tasks <- fn:
		return true
	case <-w.done:
		return false
	}
}

// after runs fn on the loop goroutine once d has elapsed.
func (w *Widget) after(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { w.post(fn) })
}
