package widget

import (
	"context"
	"sync"

	"github.com/adelvo/website/backend/internal/model/chat"
)

type recordingView struct {
	mu         sync.Mutex
	messages   []chat.Message
	states     []chat.VisibilityState
	focused    int
	clearCount int
}

func (v *recordingView) AppendMessage(msg chat.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append(v.messages, msg)
}

func (v *recordingView) SetVisibility(state chat.VisibilityState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.states = append(v.states, state)
}

func (v *recordingView) FocusInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.focused++
}

func (v *recordingView) ClearInput() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clearCount++
}

func (v *recordingView) rendered() []chat.Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]chat.Message(nil), v.messages...)
}

func (v *recordingView) visibilityStates() []chat.VisibilityState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]chat.VisibilityState(nil), v.states...)
}

func (v *recordingView) focusCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.focused
}

func (v *recordingView) clears() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.clearCount
}

type responderFunc func(ctx context.Context, req chat.Request) (string, error)

type recordingResponder struct {
	mu       sync.Mutex
	requests []chat.Request
	reply    responderFunc
}

func (r *recordingResponder) Reply(ctx context.Context, req chat.Request) (string, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	return r.reply(ctx, req)
}

func (r *recordingResponder) calls() []chat.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]chat.Request(nil), r.requests...)
}

type fixedIdentity chat.SessionID

func (f fixedIdentity) GetOrCreate(context.Context) chat.SessionID { return chat.SessionID(f) }

func fixedReply(text string) responderFunc {
	return func(context.Context, chat.Request) (string, error) { return text, nil }
}
