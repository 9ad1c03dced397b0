package postgres

import (
	"context"

	"spark/internal/domain/entity"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/domain/repository"
	"spark/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// chatRepository implements the repository.ChatRepository interface.
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository is the constructor for chatRepository.
func NewChatRepository(db *gorm.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

// EnsureForPair inserts the chat with ON CONFLICT DO NOTHING on the sorted pair
// and then reads whichever row owns the pair.
func (repo *chatRepository) EnsureForPair(ctx context.Context, chat *entity.Chat) (*entity.Chat, bool, error) {
	chatM := fromChatDomain(chat)

	result := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_low"}, {Name: "pair_high"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(chatM)
	if result.Error != nil {
		return nil, false, domainerrors.NewStorageError(result.Error, "create chat")
	}

	stored, err := repo.FindByPair(ctx, chat.User1ID, chat.User2ID)
	if err != nil {
		return nil, false, err
	}

	return stored, result.RowsAffected == 1, nil
}

// FindByID retrieves a chat by its unique ID.
func (repo *chatRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Chat, error) {
	var chatM model.ChatModel

	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&chatM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrChatNotFound
		}

		return nil, errors.Wrap(err, "failed to find chat")
	}

	return toChatDomain(&chatM), nil
}

// FindByPair retrieves the chat of the unordered pair {a, b}.
func (repo *chatRepository) FindByPair(ctx context.Context, a, b uuid.UUID) (*entity.Chat, error) {
	var chatM model.ChatModel
	pair := entity.NewProfilePair(a, b)

	if err := repo.db.WithContext(ctx).
		Where("pair_low = ? AND pair_high = ?", pair.Low, pair.High).
		First(&chatM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrChatNotFound
		}

		return nil, errors.Wrap(err, "failed to find chat by pair")
	}

	return toChatDomain(&chatM), nil
}

// ListForProfile returns the chats where profileID is user1 or user2.
func (repo *chatRepository) ListForProfile(ctx context.Context, profileID uuid.UUID) ([]*entity.Chat, error) {
	var chatModels []*model.ChatModel

	if err := repo.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", profileID, profileID).
		Order("created_at ASC, id ASC").
		Find(&chatModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list chats")
	}

	chats := make([]*entity.Chat, 0, len(chatModels))
	for _, chatM := range chatModels {
		chats = append(chats, toChatDomain(chatM))
	}

	return chats, nil
}

// CreateMessage appends a message to a chat.
func (repo *chatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	messageM := &model.MessageModel{
		ID:        message.ID,
		ChatID:    message.ChatID,
		SenderID:  message.SenderID,
		Body:      message.Body,
		CreatedAt: message.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(messageM).Error; err != nil {
		if constraintOf(err) == foreignKeyViolation {
			return repository.ErrChatNotFound
		}

		return domainerrors.NewStorageError(err, "create message")
	}

	message.ID = messageM.ID
	message.CreatedAt = messageM.CreatedAt

	return nil
}

// ListMessages returns the chat's messages, most recent first.
func (repo *chatRepository) ListMessages(ctx context.Context, chatID uuid.UUID) ([]*entity.Message, error) {
	var messageModels []*model.MessageModel

	if err := repo.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC, id DESC").
		Find(&messageModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list messages")
	}

	messages := make([]*entity.Message, 0, len(messageModels))
	for _, messageM := range messageModels {
		messages = append(messages, &entity.Message{
			ID:        messageM.ID,
			ChatID:    messageM.ChatID,
			SenderID:  messageM.SenderID,
			Body:      messageM.Body,
			CreatedAt: messageM.CreatedAt,
		})
	}

	return messages, nil
}

func toChatDomain(data *model.ChatModel) *entity.Chat {
	return &entity.Chat{
		ID:        data.ID,
		User1ID:   data.User1ID,
		User2ID:   data.User2ID,
		CreatedAt: data.CreatedAt,
	}
}

func fromChatDomain(data *entity.Chat) *model.ChatModel {
	pair := data.Pair()

	return &model.ChatModel{
		ID:        data.ID,
		User1ID:   data.User1ID,
		User2ID:   data.User2ID,
		PairLow:   pair.Low,
		PairHigh:  pair.High,
		CreatedAt: data.CreatedAt,
	}
}
