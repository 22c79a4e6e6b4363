package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/adelvo/website/backend/internal/model/chat"
)

const writeWait = 10 * time.Second

const (
	frameSession    = "session"
	frameMessage    = "message"
	frameVisibility = "visibility"
	frameFocus      = "focus"
	frameClearInput = "clear_input"
	frameError      = "error"
)

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type visibilityData struct {
	IsOpen       bool `json:"isOpen"`
	Large        bool `json:"large"`
	AriaExpanded bool `json:"ariaExpanded"`
	AriaHidden   bool `json:"ariaHidden"`
}

// socketView renders the widget into websocket frames. The widget calls it
// from its loop while pings and errors are written from other goroutines, so
// writes are serialized.
type socketView struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	sessionID string
	logger    zerolog.Logger
}

func newSocketView(conn *websocket.Conn, sessionID chat.SessionID, logger zerolog.Logger) *socketView {
	return &socketView{conn: conn, sessionID: sessionID.String(), logger: logger}
}

func (v *socketView) AppendMessage(msg chat.Message) {
	v.send(frameMessage, msg)
}

func (v *socketView) SetVisibility(state chat.VisibilityState) {
	v.send(frameVisibility, visibilityData{
		IsOpen:       state.IsOpen,
		Large:        state.Large(),
		AriaExpanded: state.AriaExpanded(),
		AriaHidden:   state.AriaHidden(),
	})
}

func (v *socketView) FocusInput() { v.send(frameFocus, nil) }

func (v *socketView) ClearInput() { v.send(frameClearInput, nil) }

func (v *socketView) sendSession() { v.send(frameSession, nil) }

func (v *socketView) sendError(message string) {
	v.send(frameError, map[string]string{"message": message})
}

func (v *socketView) send(frameType string, data interface{}) {
	msg := outgoingMessage{
		Type:      frameType,
		SessionID: v.sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := v.conn.WriteJSON(msg); err != nil {
		v.logger.Debug().Err(err).Str("frame", frameType).Msg("write failed")
	}
}

func (v *socketView) ping() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}
