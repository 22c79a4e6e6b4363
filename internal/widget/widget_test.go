package widget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelvo/website/backend/internal/model/chat"
)

const waitFor = 2 * time.Second

func startWidget(t *testing.T, responder Responder) (*Widget, *recordingView) {
	t.Helper()
	view := &recordingView{}
	w, err := New(context.Background(), Options{
		View:       view,
		Responder:  responder,
		Identity:   fixedIdentity("adelvo-fixed"),
		FocusDelay: time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-w.Done()
	})
	return w, view
}

func messages(t *testing.T, w *Widget) []chat.Message {
	t.Helper()
	msgs, err := w.Messages(context.Background())
	require.NoError(t, err)
	return msgs
}

func TestNewRequiresCollaborators(t *testing.T) {
	ctx := context.Background()
	_, err := New(ctx, Options{Responder: &recordingResponder{}, Identity: fixedIdentity("x")})
	assert.Error(t, err)
	_, err = New(ctx, Options{View: &recordingView{}, Identity: fixedIdentity("x")})
	assert.Error(t, err)
	_, err = New(ctx, Options{View: &recordingView{}, Responder: &recordingResponder{}})
	assert.Error(t, err)
}

func TestNewSeedsGreeting(t *testing.T) {
	w, view := startWidget(t, &recordingResponder{reply: fixedReply("x")})

	greeting := []chat.Message{chat.BotMessage("Hello! How can I help you?")}
	assert.Equal(t, greeting, messages(t, w))
	assert.Equal(t, greeting, view.rendered())
	assert.Equal(t, chat.SessionID("adelvo-fixed"), w.SessionID())
}

func TestConcreteScenarioHi(t *testing.T) {
	release := make(chan struct{})
	responder := &recordingResponder{reply: func(ctx context.Context, req chat.Request) (string, error) {
		<-release
		return "Hello back!", nil
	}}
	w, view := startWidget(t, responder)

	require.NoError(t, w.Open())
	require.NoError(t, w.Submit("Hi"))

	assert.Equal(t, []chat.Message{
		chat.BotMessage("Hello! How can I help you?"),
		chat.UserMessage("Hi"),
	}, messages(t, w), "user message is shown before the reply arrives")
	assert.Equal(t, 1, view.clears())

	close(release)

	want := []chat.Message{
		chat.BotMessage("Hello! How can I help you?"),
		chat.UserMessage("Hi"),
		chat.BotMessage("Hello back!"),
	}
	require.Eventually(t, func() bool { return len(messages(t, w)) == 3 }, waitFor, 5*time.Millisecond)
	assert.Equal(t, want, messages(t, w))
	assert.Equal(t, want, view.rendered())

	calls := responder.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, chat.SessionID("adelvo-fixed"), calls[0].SessionID)
	assert.Equal(t, "adelvo_website_chatbot_test", calls[0].Source)
	_, err := time.Parse(chat.TimestampLayout, calls[0].Timestamp)
	assert.NoError(t, err)
}

func TestConcreteScenarioSpacesOnly(t *testing.T) {
	responder := &recordingResponder{reply: fixedReply("unused")}
	w, view := startWidget(t, responder)

	require.NoError(t, w.Open())
	require.NoError(t, w.Submit("  "))

	assert.Len(t, messages(t, w), 1)
	assert.Empty(t, responder.calls())
	assert.Zero(t, view.clears())
}

func TestFallbackOnFailureAppendsExactlyOneMessage(t *testing.T) {
	responder := &recordingResponder{reply: func(context.Context, chat.Request) (string, error) {
		return "", errors.New("502 bad gateway")
	}}
	w, _ := startWidget(t, responder)

	require.NoError(t, w.Open())
	require.NoError(t, w.Submit("Hi"))

	require.Eventually(t, func() bool { return len(messages(t, w)) == 3 }, waitFor, 5*time.Millisecond)
	msgs := messages(t, w)
	assert.Equal(t, chat.BotMessage("Something went wrong. Please try again."), msgs[2])

	time.Sleep(20 * time.Millisecond)
	assert.Len(t, messages(t, w), 3)
}

func TestOverlappingRepliesAppendInArrivalOrder(t *testing.T) {
	gates := map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
	}
	responder := &recordingResponder{reply: func(ctx context.Context, req chat.Request) (string, error) {
		<-gates[req.Message]
		return "re: " + req.Message, nil
	}}
	w, _ := startWidget(t, responder)

	require.NoError(t, w.Open())
	require.NoError(t, w.Submit("first"))
	require.NoError(t, w.Submit("second"))

	close(gates["second"])
	require.Eventually(t, func() bool { return len(messages(t, w)) == 4 }, waitFor, 5*time.Millisecond)
	close(gates["first"])
	require.Eventually(t, func() bool { return len(messages(t, w)) == 5 }, waitFor, 5*time.Millisecond)

	assert.Equal(t, []chat.Message{
		chat.BotMessage("Hello! How can I help you?"),
		chat.UserMessage("first"),
		chat.UserMessage("second"),
		chat.BotMessage("re: second"),
		chat.BotMessage("re: first"),
	}, messages(t, w))
}

func TestSubmitIgnoredWhilePanelClosed(t *testing.T) {
	responder := &recordingResponder{reply: fixedReply("x")}
	w, _ := startWidget(t, responder)

	require.NoError(t, w.Submit("Hi"))

	assert.Len(t, messages(t, w), 1)
	assert.Empty(t, responder.calls())
}

func TestFirstOpenLatchThroughLoop(t *testing.T) {
	w, view := startWidget(t, &recordingResponder{reply: fixedReply("x")})
	ctx := context.Background()

	state, err := w.Visibility(ctx)
	require.NoError(t, err)
	assert.False(t, state.HasEverOpened)

	require.NoError(t, w.Toggle())
	require.NoError(t, w.Close())
	require.NoError(t, w.Toggle())
	require.NoError(t, w.Toggle())

	state, err = w.Visibility(ctx)
	require.NoError(t, err)
	assert.False(t, state.IsOpen)
	assert.True(t, state.HasEverOpened)

	for _, s := range view.visibilityStates() {
		assert.True(t, s.Large())
	}
	require.Eventually(t, func() bool { return view.focusCount() == 2 }, waitFor, 5*time.Millisecond)
}

func TestDispatchUnknownEvent(t *testing.T) {
	w, _ := startWidget(t, &recordingResponder{reply: fixedReply("x")})

	err := w.Dispatch(Event{Type: "resize"})
	assert.True(t, errors.Is(err, ErrUnknownEvent))
}

func TestCustomHandlerRunsOnLoop(t *testing.T) {
	view := &recordingView{}
	w, err := New(context.Background(), Options{
		View:      view,
		Responder: &recordingResponder{reply: fixedReply("x")},
		Identity:  fixedIdentity("adelvo-fixed"),
	})
	require.NoError(t, err)
	w.Handle("ping", func(ctx context.Context, ev Event) {
		w.transcript.Append(chat.BotMessage("pong"))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, w.Dispatch(Event{Type: "ping"}))
	assert.Equal(t, chat.BotMessage("pong"), messages(t, w)[1])
}

func TestStoppedWidget(t *testing.T) {
	view := &recordingView{}
	w, err := New(context.Background(), Options{
		View:      view,
		Responder: &recordingResponder{reply: fixedReply("x")},
		Identity:  fixedIdentity("adelvo-fixed"),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// A served query proves the loop is running.
	_, err = w.Messages(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, w.Run(context.Background()), ErrAlreadyRunning)

	cancel()
	require.NoError(t, <-errCh)

	assert.ErrorIs(t, w.Open(), ErrStopped)
	_, err = w.Messages(context.Background())
	assert.ErrorIs(t, err, ErrStopped)
}

func TestTeardownDropsInFlightReply(t *testing.T) {
	started := make(chan struct{})
	responder := &recordingResponder{reply: func(ctx context.Context, req chat.Request) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	}}
	view := &recordingView{}
	w, err := New(context.Background(), Options{
		View:      view,
		Responder: responder,
		Identity:  fixedIdentity("adelvo-fixed"),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)

	require.NoError(t, w.Open())
	require.NoError(t, w.Submit("Hi"))
	<-started
	cancel()
	<-w.Done()

	time.Sleep(20 * time.Millisecond)
	assert.Len(t, view.rendered(), 2, "greeting and user message only")
}
