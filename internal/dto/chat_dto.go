package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatSessionResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatSessionDetailResponse struct {
	Id        uuid.UUID             `json:"id"`
	Title     string                `json:"title"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	Messages  []ChatMessageResponse `json:"messages"`
}

type RenameSessionRequest struct {
	Title string `json:"title" validate:"required,min=1,max=100"`
}

type SendChatRequest struct {
	Message string `json:"message" validate:"required"`
	// SessionId is optional; when absent a new session is created.
	SessionId *uuid.UUID `json:"sessionId,omitempty"`
}

type SendChatResponse struct {
	SessionId uuid.UUID           `json:"sessionId"`
	Title     string              `json:"title"`
	Reply     ChatMessageResponse `json:"reply"`
}

// ChatMessageAppendedMessage is the internal bus payload emitted after a
// message is persisted, consumed for fan-out to NATS and websocket clients.
type ChatMessageAppendedMessage struct {
	UserId    uuid.UUID `json:"user_id"`
	SessionId uuid.UUID `json:"session_id"`
	MessageId uuid.UUID `json:"message_id"`
	Role      string    `json:"role"`
	Title     string    `json:"title"`
}

type UserStatsResponse struct {
	SessionCount int64      `json:"sessionCount"`
	MessageCount int64      `json:"messageCount"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
}
