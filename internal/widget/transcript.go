package widget

import "github.com/adelvo/website/backend/internal/model/chat"

// Transcript is the append-only, insertion-ordered message log of one widget.
type Transcript struct {
	view     View
	messages []chat.Message
}

func newTranscript(view View) *Transcript {
	return &Transcript{view: view, messages: make([]chat.Message, 0, 16)}
}

// Append records msg and renders it as the newest entry.
func (t *Transcript) Append(msg chat.Message) {
	t.messages = append(t.messages, msg)
	t.view.AppendMessage(msg)
}

// Len returns the number of entries.
func (t *Transcript) Len() int { return len(t.messages) }

// Messages returns a copy of the entries in order.
func (t *Transcript) Messages() []chat.Message {
	copied := make([]chat.Message, len(t.messages))
	copy(copied, t.messages)
	return copied
}
