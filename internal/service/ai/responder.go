package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/adelvo/website/backend/internal/model/chat"
	chatservice "github.com/adelvo/website/backend/internal/service/chat"
)

// ErrEmptyReply is returned when the model produced no text.
var ErrEmptyReply = errors.New("model returned an empty reply")

// Responder answers widget messages with a chat model instead of the remote
// webhook. Conversation history is kept per session.
type Responder struct {
	history      *chatservice.Service
	systemPrompt string
	historyLimit int
	chain        compose.Runnable[map[string]any, *schema.Message]
}

// NewResponder compiles the prompt chain around chatModel.
func NewResponder(ctx context.Context, chatModel model.BaseChatModel, history *chatservice.Service, systemPrompt string, historyLimit int) (*Responder, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Responder{
		history:      history,
		systemPrompt: systemPrompt,
		historyLimit: historyLimit,
		chain:        runnable,
	}, nil
}

// Reply runs the chain for one message and records the exchange.
func (r *Responder) Reply(ctx context.Context, req chat.Request) (string, error) {
	input := map[string]any{
		"system":  r.systemPrompt,
		"history": r.historyMessages(ctx, req.SessionID),
		"query":   req.Message,
	}

	response, err := r.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}

	reply := strings.TrimSpace(response.Content)
	if reply == "" {
		return "", ErrEmptyReply
	}

	if err := r.history.Append(ctx, req.SessionID, chat.UserMessage(req.Message)); err != nil {
		return "", err
	}
	if err := r.history.Append(ctx, req.SessionID, chat.BotMessage(reply)); err != nil {
		return "", err
	}

	log.Debug().Str("component", "ai").Str("session_id", req.SessionID.String()).
		Int("length", len(reply)).Msg("generated reply")
	return reply, nil
}

func (r *Responder) historyMessages(ctx context.Context, sessionID chat.SessionID) []*schema.Message {
	turns := r.history.History(ctx, sessionID)
	if len(turns) > r.historyLimit && r.historyLimit > 0 {
		turns = turns[len(turns)-r.historyLimit:]
	}

	messages := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Message.Origin {
		case chat.OriginUser:
			messages = append(messages, schema.UserMessage(turn.Message.Text))
		case chat.OriginBot:
			messages = append(messages, schema.AssistantMessage(turn.Message.Text, nil))
		}
	}
	return messages
}
