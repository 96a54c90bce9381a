package contract

import (
	"context"

	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)

	SaveAccount(ctx context.Context, account *entity.Account) error
	FindAccount(ctx context.Context, specs ...specification.Specification) (*entity.Account, error)

	CreateVerificationToken(ctx context.Context, token *entity.VerificationToken) error
	FindVerificationToken(ctx context.Context, specs ...specification.Specification) (*entity.VerificationToken, error)
	DeleteVerificationToken(ctx context.Context, identifier, token string) error
}
