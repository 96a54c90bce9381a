package contract

import (
	"context"

	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
