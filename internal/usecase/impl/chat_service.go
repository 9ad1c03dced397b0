package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "spark/internal/delivery/context"
	"spark/internal/domain/entity"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/domain/matching"
	"spark/internal/domain/repository"
	"spark/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// chatService implements the ChatUsecase interface.
type chatService struct {
	repos  repository.RepositoryFactory
	logger *slog.Logger
	now    func() time.Time
}

// ChatServiceParams holds dependencies for ChatService, injected by Fx.
type ChatServiceParams struct {
	fx.In

	Repositories repository.RepositoryFactory
	Logger       *slog.Logger
}

// NewChatService is the constructor for chatService.
func NewChatService(params ChatServiceParams) usecase.ChatUsecase {
	return &chatService{
		repos:  params.Repositories,
		logger: params.Logger,
		now:    time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *chatService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListChats returns the chats the caller takes part in.
func (srv *chatService) ListChats(ctx context.Context, accountID uuid.UUID) ([]*entity.Chat, error) {
	profile, err := findOwnProfile(ctx, srv.repos.NewProfileRepository(), accountID)
	if err != nil {
		return nil, err
	}

	chats, err := srv.repos.NewChatRepository().ListForProfile(ctx, profile.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list chats")
	}

	return chats, nil
}

// PostMessage appends a message to a chat the caller takes part in.
func (srv *chatService) PostMessage(ctx context.Context, accountID uuid.UUID, input *usecase.PostMessageInput) (*entity.Message, error) {
	if input.ChatID == uuid.Nil {
		return nil, domainerrors.ErrMissingField.WithDetails("chat is required")
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, domainerrors.ErrMissingField.WithDetails("body is required")
	}

	chat, sender, err := srv.loadChatFor(ctx, accountID, input.ChatID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		ID:        uuid.New(),
		ChatID:    chat.ID,
		SenderID:  sender.ID,
		Body:      input.Body,
		CreatedAt: srv.now(),
	}
	if err := srv.repos.NewChatRepository().CreateMessage(ctx, message); err != nil {
		return nil, errors.Wrap(err, "failed to create message")
	}

	srv.log(ctx).Debug("Message posted", slog.Any("chatID", chat.ID), slog.Any("messageID", message.ID))

	return message, nil
}

// ListMessages returns a chat's messages, most recent first.
func (srv *chatService) ListMessages(ctx context.Context, accountID, chatID uuid.UUID) ([]*entity.Message, error) {
	chat, _, err := srv.loadChatFor(ctx, accountID, chatID)
	if err != nil {
		return nil, err
	}

	messages, err := srv.repos.NewChatRepository().ListMessages(ctx, chat.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list messages")
	}

	return messages, nil
}

// loadChatFor returns the chat and the caller's profile, or ErrNotParticipant.
func (srv *chatService) loadChatFor(ctx context.Context, accountID, chatID uuid.UUID) (*entity.Chat, *entity.Profile, error) {
	profile, err := findOwnProfile(ctx, srv.repos.NewProfileRepository(), accountID)
	if err != nil {
		return nil, nil, err
	}

	chat, err := srv.repos.NewChatRepository().FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrChatNotFound) {
			return nil, nil, errors.Wrap(domainerrors.ErrChatNotFound, "chat lookup failed")
		}

		return nil, nil, errors.Wrap(err, "failed to find chat")
	}

	if !matching.CanParticipate(profile.ID, chat) {
		srv.log(ctx).Warn("Chat access denied", slog.Any("chatID", chatID), slog.Any("profileID", profile.ID))

		return nil, nil, domainerrors.ErrNotParticipant
	}

	return chat, profile, nil
}
