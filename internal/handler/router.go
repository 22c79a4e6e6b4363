package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/adelvo/website/backend/internal/config"
	"github.com/adelvo/website/backend/internal/handler/booking"
	"github.com/adelvo/website/backend/internal/handler/chat"
	middlewarePkg "github.com/adelvo/website/backend/internal/middleware"
	bookingService "github.com/adelvo/website/backend/internal/service/booking"
	"github.com/adelvo/website/backend/internal/widget"
	"github.com/adelvo/website/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(cfg *config.Config, responder widget.Responder, bookingSvc *bookingService.Service, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	chatHandler := chat.NewWebSocketHandler(responder, cfg.Chat, cfg.Server.CookieSecure, originChecker(cfg.Server.AllowedOrigins))
	bookingHandler := booking.New(bookingSvc)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		bookingHandler.RegisterRoutes(api)
	})

	if cfg.Server.SiteDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.Server.SiteDir)))
	}

	return r
}

// originChecker applies the CORS origin list to websocket handshakes, which
// browsers send without a preflight.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if set[origin] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}
