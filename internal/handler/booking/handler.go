// Package booking serves the consultation booking form.
package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	model "github.com/adelvo/website/backend/internal/model/booking"
	bookingservice "github.com/adelvo/website/backend/internal/service/booking"
	"github.com/adelvo/website/backend/pkg/utils"
)

const maxFormBytes = 64 << 10

// Handler is the HTTP handler for booking submissions.
type Handler struct {
	service *bookingservice.Service
}

// New creates a booking handler.
func New(service *bookingservice.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the booking routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/booking", h.handleSubmit)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	// A request is one page's form, so the busy guard never trips here.
	status := bookingservice.NewForm(h.service).Submit(r.Context(), r.PostForm)
	utils.RespondJSON(w, statusCode(status), status)
}

func statusCode(status model.Status) int {
	switch status.State {
	case model.StateSuccess:
		return http.StatusOK
	case model.StateInvalid:
		return http.StatusBadRequest
	case model.StateBusy:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
