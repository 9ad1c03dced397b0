package usecase

import (
	"context"

	"spark/internal/domain/entity"

	"github.com/google/uuid"
)

// PostMessageInput is a message sent to a chat.
type PostMessageInput struct {
	ChatID uuid.UUID
	Body   string
}

// ChatUsecase defines the chat gate.
type ChatUsecase interface {
	ListChats(ctx context.Context, accountID uuid.UUID) ([]*entity.Chat, error)
	PostMessage(ctx context.Context, accountID uuid.UUID, input *PostMessageInput) (*entity.Message, error)
	// ListMessages returns the chat's messages, most recent first.
	ListMessages(ctx context.Context, accountID, chatID uuid.UUID) ([]*entity.Message, error)
}
