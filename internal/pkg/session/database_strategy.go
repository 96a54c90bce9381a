package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/repository/specification"
	"auth-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// DatabaseStrategy stores opaque tokens in the session table. Resolving a
// token is two reads: the session row (expiry-checked) and its user. An
// expired or unknown token resolves to Anonymous; rows are reaped by a
// cleanup pass, never as a side effect of resolution.
type DatabaseStrategy struct {
	uowFactory unitofwork.RepositoryFactory
	ttl        time.Duration
}

var _ Resolver = (*DatabaseStrategy)(nil)
var _ Issuer = (*DatabaseStrategy)(nil)

func NewDatabaseStrategy(uowFactory unitofwork.RepositoryFactory, ttl time.Duration) *DatabaseStrategy {
	return &DatabaseStrategy{
		uowFactory: uowFactory,
		ttl:        ttl,
	}
}

func (s *DatabaseStrategy) Issue(ctx context.Context, user *entity.User) (string, time.Time, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, err
	}
	token := base64.RawURLEncoding.EncodeToString(b)
	expires := time.Now().Add(s.ttl)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.SessionRepository().Create(ctx, &entity.Session{
		SessionToken: token,
		UserId:       user.Id,
		Expires:      expires,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (s *DatabaseStrategy) Resolve(ctx context.Context, token string) Identity {
	if token == "" {
		return Anonymous()
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sess, err := uow.SessionRepository().FindOne(ctx, specification.BySessionToken{Token: token})
	if err != nil || sess == nil {
		return Anonymous()
	}
	if sess.Expired(time.Now()) {
		return Anonymous()
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sess.UserId})
	if err != nil || user == nil {
		return Anonymous()
	}

	name := ""
	if user.Name != nil {
		name = *user.Name
	}
	return Identity{
		UserID: user.Id,
		Role:   user.Role,
		Name:   name,
		Email:  user.Email,
	}
}

func (s *DatabaseStrategy) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SessionRepository().Delete(ctx, token)
}

// RevokeAll drops every session row the user holds, logging the user out on
// all devices at once.
func (s *DatabaseStrategy) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SessionRepository().DeleteAllByUserId(ctx, userID)
}

// PurgeExpired removes stale session rows. Intended for a periodic
// background sweep, not the request path.
func (s *DatabaseStrategy) PurgeExpired(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SessionRepository().DeleteExpired(ctx, time.Now())
}
