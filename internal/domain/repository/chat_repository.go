package repository

import (
	"context"

	"spark/internal/domain/entity"
	"spark/internal/errors"

	"github.com/google/uuid"
)

// ErrChatNotFound is returned when a chat is not found.
var ErrChatNotFound = errors.New("chat not found")

// ChatRepository defines the operations on chats and their messages.
type ChatRepository interface {
	// EnsureForPair returns the chat of the unordered pair {chat.User1ID, chat.User2ID},
	// inserting chat when none exists. created reports whether this call inserted it.
	EnsureForPair(ctx context.Context, chat *entity.Chat) (stored *entity.Chat, created bool, err error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error)

	// FindByPair returns the chat of the unordered pair of a and b.
	FindByPair(ctx context.Context, a, b uuid.UUID) (*entity.Chat, error)

	// ListForProfile returns every chat in which profileID is user1 or user2.
	ListForProfile(ctx context.Context, profileID uuid.UUID) ([]*entity.Chat, error)

	CreateMessage(ctx context.Context, message *entity.Message) error

	// ListMessages returns the chat's messages, most recent first.
	ListMessages(ctx context.Context, chatID uuid.UUID) ([]*entity.Message, error)
}
