// Package chat serves the chat widget over a websocket. Each connection is
// one page session with its own widget instance.
package chat

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adelvo/website/backend/internal/config"
	"github.com/adelvo/website/backend/internal/service/session"
	"github.com/adelvo/website/backend/internal/storage"
	"github.com/adelvo/website/backend/internal/widget"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// WebSocketHandler bridges browser connections to widget instances.
type WebSocketHandler struct {
	responder    widget.Responder
	cfg          config.ChatConfig
	cookieSecure bool
	upgrader     websocket.Upgrader
}

// NewWebSocketHandler creates the bridge. checkOrigin may be nil to accept
// any origin.
func NewWebSocketHandler(responder widget.Responder, cfg config.ChatConfig, cookieSecure bool, checkOrigin func(*http.Request) bool) *WebSocketHandler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &WebSocketHandler{
		responder:    responder,
		cfg:          cfg,
		cookieSecure: cookieSecure,
		upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the websocket endpoint.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// The identifier is resolved before the upgrade so a new one can be
	// stored with the handshake response.
	store := storage.NewCookieStore(r, h.cookieSecure)
	identity := session.NewIdentityStore(store,
		session.WithKey(h.cfg.StorageKey),
		session.WithPrefix(h.cfg.SessionPrefix),
	)
	sessionID := identity.GetOrCreate(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, store.Header())
	if err != nil {
		log.Warn().Str("component", "websocket").Err(err).Msg("upgrade failed")
		return
	}
	defer conn.Close()

	logger := log.With().Str("component", "websocket").Str("session_id", sessionID.String()).Logger()
	logger.Info().Msg("connection opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	view := newSocketView(conn, sessionID, logger)
	view.sendSession()

	wdg, err := widget.New(ctx, widget.Options{
		View:       view,
		Responder:  h.responder,
		Identity:   identity,
		Source:     h.cfg.Source,
		Greeting:   h.cfg.Greeting,
		Fallback:   h.cfg.Fallback,
		FocusDelay: h.cfg.FocusDelay,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to create widget")
		view.sendError("chat unavailable")
		return
	}

	go func() {
		if err := wdg.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("widget loop failed")
		}
	}()
	go h.pingLoop(ctx, view)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.readLoop(conn, wdg, view, logger)

	cancel()
	<-wdg.Done()
	logger.Info().Msg("connection closed")
}

func (h *WebSocketHandler) readLoop(conn *websocket.Conn, wdg *widget.Widget, view *socketView, logger zerolog.Logger) {
	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("read error")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		err := wdg.Dispatch(widget.Event{Type: widget.EventType(msg.Type), Text: msg.Text})
		switch {
		case err == nil:
		case errors.Is(err, widget.ErrUnknownEvent):
			view.sendError("unknown event type")
		default:
			return
		}
	}
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, view *socketView) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := view.ping(); err != nil {
				return
			}
		}
	}
}
