package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"column:userId;type:uuid;not null;index"`
	Title     string    `gorm:"column:title;type:varchar(255);not null;default:'New Chat'"`
	CreatedAt time.Time `gorm:"column:createdAt;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updatedAt"`

	User User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}

type ChatMessage struct {
	Id        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID `gorm:"column:sessionId;type:uuid;not null;index"`
	Role      string    `gorm:"column:role;type:varchar(32);not null"`
	Content   string    `gorm:"column:content;type:text;not null"`
	Timestamp time.Time `gorm:"column:timestamp;autoCreateTime"`

	Session ChatSession `gorm:"foreignKey:SessionId;constraint:OnDelete:CASCADE"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
