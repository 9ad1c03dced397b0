package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatModel mirrors the 'chats' table. PairLow/PairHigh hold the participants in
// sorted order so the unique index covers the unordered pair.
type ChatModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	User1ID   uuid.UUID `gorm:"column:user1_id;type:uuid;not null;index"`
	User2ID   uuid.UUID `gorm:"column:user2_id;type:uuid;not null;index"`
	PairLow   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chats_pair,priority:1"`
	PairHigh  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chats_pair,priority:2"`
	CreatedAt time.Time

	Messages []MessageModel `gorm:"foreignKey:ChatID"`
}

// TableName explicitly sets the table name for GORM.
func (ChatModel) TableName() string {
	return "chats"
}

// MessageModel mirrors the 'messages' table.
type MessageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ChatID    uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_chat_created,priority:1"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"index:idx_messages_chat_created,priority:2"`
}

// TableName explicitly sets the table name for GORM.
func (MessageModel) TableName() string {
	return "messages"
}
