package widget

import (
	"time"

	"github.com/adelvo/website/backend/internal/model/chat"
)

// Visibility is the {closed, open} state machine of the chat panel.
type Visibility struct {
	view       View
	state      chat.VisibilityState
	focusDelay time.Duration
	schedule   func(time.Duration, func())
}

func newVisibility(view View, focusDelay time.Duration, schedule func(time.Duration, func())) *Visibility {
	return &Visibility{view: view, focusDelay: focusDelay, schedule: schedule}
}

// SetOpen moves the panel to the requested state. The first open switches
// the panel to its large layout for good; every open schedules input focus.
func (v *Visibility) SetOpen(open bool) {
	if open && !v.state.HasEverOpened {
		v.state.HasEverOpened = true
	}
	v.state.IsOpen = open
	v.view.SetVisibility(v.state)

	if open {
		v.schedule(v.focusDelay, v.view.FocusInput)
	}
}

// Toggle flips the panel between open and closed.
func (v *Visibility) Toggle() { v.SetOpen(!v.state.IsOpen) }

// Open opens the panel.
func (v *Visibility) Open() { v.SetOpen(true) }

// Close closes the panel.
func (v *Visibility) Close() { v.SetOpen(false) }

// State returns the current panel state.
func (v *Visibility) State() chat.VisibilityState { return v.state }
