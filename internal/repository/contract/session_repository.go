package contract

import (
	"context"
	"time"

	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) error
}
