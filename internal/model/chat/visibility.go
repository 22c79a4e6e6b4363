package chat

// VisibilityState is the open/closed state of the chat panel.
type VisibilityState struct {
	IsOpen        bool `json:"isOpen"`
	HasEverOpened bool `json:"hasEverOpened"`
}

// Large reports whether the panel uses the expanded layout. The panel becomes
// large on its first open and stays large.
func (s VisibilityState) Large() bool { return s.HasEverOpened }

// AriaExpanded is the value of aria-expanded on the toggle control.
func (s VisibilityState) AriaExpanded() bool { return s.IsOpen }

// AriaHidden is the value of aria-hidden on the panel.
func (s VisibilityState) AriaHidden() bool { return !s.IsOpen }
