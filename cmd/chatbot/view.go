package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/adelvo/website/backend/internal/model/booking"
	"github.com/adelvo/website/backend/internal/model/chat"
)

// terminalView prints the transcript and panel state as lines of text.
type terminalView struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool

	botLabel  lipgloss.Style
	userLabel lipgloss.Style
	status    lipgloss.Style
}

func newTerminalView(out io.Writer, interactive bool) *terminalView {
	r := lipgloss.NewRenderer(out)
	return &terminalView{
		out:         out,
		interactive: interactive,
		botLabel:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		userLabel:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#AFAFAF")),
		status:      r.NewStyle().Italic(true).Foreground(lipgloss.Color("#888888")),
	}
}

func (v *terminalView) AppendMessage(msg chat.Message) {
	label := v.userLabel.Render("you")
	if msg.Origin == chat.OriginBot {
		label = v.botLabel.Render("bot")
	}
	v.printf("%s › %s\n", label, msg.Text)
}

func (v *terminalView) SetVisibility(state chat.VisibilityState) {
	switch {
	case !state.IsOpen:
		v.printf("%s\n", v.status.Render("[chat closed, /open to resume]"))
	case state.Large():
		v.printf("%s\n", v.status.Render("[chat open]"))
	}
}

func (v *terminalView) FocusInput() {
	if v.interactive {
		v.printf("%s\n", v.status.Render("type a message, /help for commands"))
	}
}

// ClearInput is a no-op: the terminal consumes the line on enter.
func (v *terminalView) ClearInput() {}

func (v *terminalView) Help() {
	v.printf("%s\n", v.status.Render("/open  /close  /toggle  /quit"))
}

func (v *terminalView) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

func (v *terminalView) BookingStatus(status booking.Status) {
	line := status.Message
	if len(status.Missing) > 0 {
		line += " (" + strings.Join(status.Missing, ", ") + ")"
	}
	style := v.status
	if status.OK() {
		style = v.botLabel
	}
	v.printf("%s\n", style.Render(line))
}
