package memory

import (
	"context"
	"slices"

	"spark/internal/domain/entity"
	"spark/internal/domain/repository"

	"github.com/google/uuid"
)

type chatRepository struct {
	sess *session
}

func (repo *chatRepository) EnsureForPair(_ context.Context, chat *entity.Chat) (*entity.Chat, bool, error) {
	var (
		stored  entity.Chat
		created bool
	)
	err := repo.sess.run(func(d *dataset) error {
		pair := chat.Pair()
		if id, ok := d.chatByPair[pair]; ok {
			stored = d.chats[id]

			return nil
		}

		ensureID(&chat.ID)
		ensureTime(&chat.CreatedAt)
		d.chats[chat.ID] = *chat
		d.chatByPair[pair] = chat.ID
		stored = *chat
		created = true

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return &stored, created, nil
}

func (repo *chatRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Chat, error) {
	var found entity.Chat
	err := repo.sess.run(func(d *dataset) error {
		chat, ok := d.chats[id]
		if !ok {
			return repository.ErrChatNotFound
		}
		found = chat

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &found, nil
}

func (repo *chatRepository) FindByPair(ctx context.Context, a, b uuid.UUID) (*entity.Chat, error) {
	var id uuid.UUID
	err := repo.sess.run(func(d *dataset) error {
		chatID, ok := d.chatByPair[entity.NewProfilePair(a, b)]
		if !ok {
			return repository.ErrChatNotFound
		}
		id = chatID

		return nil
	})
	if err != nil {
		return nil, err
	}

	return repo.FindByID(ctx, id)
}

func (repo *chatRepository) ListForProfile(_ context.Context, profileID uuid.UUID) ([]*entity.Chat, error) {
	var chats []*entity.Chat
	err := repo.sess.run(func(d *dataset) error {
		for _, chat := range d.chats {
			if chat.HasParticipant(profileID) {
				chats = append(chats, &chat)
			}
		}

		return nil
	})

	slices.SortFunc(chats, func(a, b *entity.Chat) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return compareIDs(a.ID, b.ID)
	})

	return chats, err
}

func (repo *chatRepository) CreateMessage(_ context.Context, message *entity.Message) error {
	return repo.sess.run(func(d *dataset) error {
		if _, ok := d.chats[message.ChatID]; !ok {
			return repository.ErrChatNotFound
		}

		ensureID(&message.ID)
		ensureTime(&message.CreatedAt)
		d.messages = append(d.messages, *message)

		return nil
	})
}

func (repo *chatRepository) ListMessages(_ context.Context, chatID uuid.UUID) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := repo.sess.run(func(d *dataset) error {
		// Walk backwards so equal timestamps keep newest-inserted first.
		for i := len(d.messages) - 1; i >= 0; i-- {
			if d.messages[i].ChatID == chatID {
				message := d.messages[i]
				messages = append(messages, &message)
			}
		}

		return nil
	})

	slices.SortStableFunc(messages, func(a, b *entity.Message) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return messages, err
}
