// Package bootstrap builds the services shared by the API server and the
// chatbot CLI from a loaded configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/adelvo/website/backend/internal/config"
	"github.com/adelvo/website/backend/internal/service/ai"
	bookingservice "github.com/adelvo/website/backend/internal/service/booking"
	chatservice "github.com/adelvo/website/backend/internal/service/chat"
	"github.com/adelvo/website/backend/internal/service/webhook"
	"github.com/adelvo/website/backend/internal/widget"
)

// NewResponder picks the chat backend: the webhook when one is configured,
// otherwise the Ark model when its credentials are present.
func NewResponder(ctx context.Context, cfg *config.Config) (widget.Responder, error) {
	if cfg.Chat.WebhookURL != "" {
		log.Info().Str("component", "bootstrap").Str("url", cfg.Chat.WebhookURL).Msg("using chat webhook")
		return webhook.NewChatClient(cfg.Chat.WebhookURL, webhook.NewHTTPClient(cfg.Chat.Timeout)), nil
	}

	if !cfg.AI.Enabled() {
		return nil, fmt.Errorf("no chat backend: set chat.webhook_url or the ai credentials")
	}

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	responder, err := ai.NewResponder(ctx, chatModel, chatservice.NewService(cfg.AI.HistoryLimit*4), cfg.AI.SystemPrompt, cfg.AI.HistoryLimit)
	if err != nil {
		return nil, err
	}
	log.Info().Str("component", "bootstrap").Str("model", cfg.AI.Model).Msg("using ark chat model")
	return responder, nil
}

// NewBookingService wires the booking form to its webhook.
func NewBookingService(cfg *config.Config) *bookingservice.Service {
	client := webhook.NewBookingClient(cfg.Booking.WebhookURL, webhook.NewHTTPClient(cfg.Booking.Timeout))
	return bookingservice.NewService(client, cfg.Booking.RequiredFields)
}
