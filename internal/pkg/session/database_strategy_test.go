package session

import (
	"context"
	"testing"
	"time"

	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/repository/contract"
	"auth-chat-be/internal/repository/specification"
	"auth-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	users    map[uuid.UUID]*entity.User
	sessions map[string]*entity.Session
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[string]*entity.Session),
	}
}

type memFactory struct {
	store *memStore
}

func (f *memFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &memUnitOfWork{store: f.store}
}

type memUnitOfWork struct {
	store *memStore
}

func (u *memUnitOfWork) Begin(context.Context) error { return nil }
func (u *memUnitOfWork) Commit() error               { return nil }
func (u *memUnitOfWork) Rollback() error             { return nil }

func (u *memUnitOfWork) UserRepository() contract.UserRepository {
	return &memUserRepository{store: u.store}
}

func (u *memUnitOfWork) SessionRepository() contract.SessionRepository {
	return &memSessionRepository{store: u.store}
}

func (u *memUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository { return nil }
func (u *memUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository { return nil }

type memUserRepository struct {
	store *memStore
}

func (r *memUserRepository) Create(_ context.Context, user *entity.User) error {
	r.store.users[user.Id] = user
	return nil
}

func (r *memUserRepository) Update(_ context.Context, user *entity.User) error {
	r.store.users[user.Id] = user
	return nil
}

func (r *memUserRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, user := range r.store.users {
		matched := true
		for _, spec := range specs {
			if s, ok := spec.(specification.ByID); ok && user.Id != s.ID {
				matched = false
			}
		}
		if matched {
			return user, nil
		}
	}
	return nil, nil
}

func (r *memUserRepository) SaveAccount(context.Context, *entity.Account) error { return nil }

func (r *memUserRepository) FindAccount(context.Context, ...specification.Specification) (*entity.Account, error) {
	return nil, nil
}

func (r *memUserRepository) CreateVerificationToken(context.Context, *entity.VerificationToken) error {
	return nil
}

func (r *memUserRepository) FindVerificationToken(context.Context, ...specification.Specification) (*entity.VerificationToken, error) {
	return nil, nil
}

func (r *memUserRepository) DeleteVerificationToken(context.Context, string, string) error {
	return nil
}

type memSessionRepository struct {
	store *memStore
}

func (r *memSessionRepository) Create(_ context.Context, session *entity.Session) error {
	r.store.sessions[session.SessionToken] = session
	return nil
}

func (r *memSessionRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Session, error) {
	for _, session := range r.store.sessions {
		matched := true
		for _, spec := range specs {
			if s, ok := spec.(specification.BySessionToken); ok && session.SessionToken != s.Token {
				matched = false
			}
		}
		if matched {
			return session, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepository) Delete(_ context.Context, token string) error {
	delete(r.store.sessions, token)
	return nil
}

func (r *memSessionRepository) DeleteAllByUserId(_ context.Context, userId uuid.UUID) error {
	for token, session := range r.store.sessions {
		if session.UserId == userId {
			delete(r.store.sessions, token)
		}
	}
	return nil
}

func (r *memSessionRepository) DeleteExpired(_ context.Context, now time.Time) error {
	for token, session := range r.store.sessions {
		if session.Expired(now) {
			delete(r.store.sessions, token)
		}
	}
	return nil
}

func storedUser(store *memStore, role entity.UserRole) *entity.User {
	name := "Stored User"
	user := &entity.User{
		Id:    uuid.New(),
		Name:  &name,
		Email: "stored@example.com",
		Role:  role,
	}
	store.users[user.Id] = user
	return user
}

func TestDatabaseStrategyIssueAndResolve(t *testing.T) {
	store := newMemStore()
	strategy := NewDatabaseStrategy(&memFactory{store: store}, time.Hour)
	ctx := context.Background()
	user := storedUser(store, entity.UserRoleAdmin)

	token, expires, err := strategy.Issue(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	identity := strategy.Resolve(ctx, token)
	assert.Equal(t, user.Id, identity.UserID)
	assert.Equal(t, "stored@example.com", identity.Email)
	assert.Equal(t, "Stored User", identity.Name)
	assert.True(t, identity.IsAdmin())
}

func TestDatabaseStrategyResolveInvalid(t *testing.T) {
	store := newMemStore()
	strategy := NewDatabaseStrategy(&memFactory{store: store}, time.Hour)
	ctx := context.Background()

	assert.True(t, strategy.Resolve(ctx, "").IsAnonymous())
	assert.True(t, strategy.Resolve(ctx, "no-such-token").IsAnonymous())

	// An expired row resolves to anonymous but is not deleted here.
	user := storedUser(store, entity.UserRoleClient)
	store.sessions["stale"] = &entity.Session{
		SessionToken: "stale",
		UserId:       user.Id,
		Expires:      time.Now().Add(-time.Minute),
	}
	assert.True(t, strategy.Resolve(ctx, "stale").IsAnonymous())
	assert.Contains(t, store.sessions, "stale")

	// A session whose user vanished resolves to anonymous.
	store.sessions["orphan"] = &entity.Session{
		SessionToken: "orphan",
		UserId:       uuid.New(),
		Expires:      time.Now().Add(time.Hour),
	}
	assert.True(t, strategy.Resolve(ctx, "orphan").IsAnonymous())
}

func TestDatabaseStrategyRevoke(t *testing.T) {
	store := newMemStore()
	strategy := NewDatabaseStrategy(&memFactory{store: store}, time.Hour)
	ctx := context.Background()
	user := storedUser(store, entity.UserRoleClient)

	token, _, err := strategy.Issue(ctx, user)
	require.NoError(t, err)
	require.False(t, strategy.Resolve(ctx, token).IsAnonymous())

	require.NoError(t, strategy.Revoke(ctx, token))
	assert.True(t, strategy.Resolve(ctx, token).IsAnonymous())

	require.NoError(t, strategy.Revoke(ctx, ""))
}

func TestDatabaseStrategyRevokeAll(t *testing.T) {
	store := newMemStore()
	strategy := NewDatabaseStrategy(&memFactory{store: store}, time.Hour)
	ctx := context.Background()
	user := storedUser(store, entity.UserRoleClient)

	// Two devices for the user, one session for somebody else.
	first, _, err := strategy.Issue(ctx, user)
	require.NoError(t, err)
	second, _, err := strategy.Issue(ctx, user)
	require.NoError(t, err)
	store.sessions["other"] = &entity.Session{
		SessionToken: "other",
		UserId:       uuid.New(),
		Expires:      time.Now().Add(time.Hour),
	}

	require.NoError(t, strategy.RevokeAll(ctx, user.Id))
	assert.True(t, strategy.Resolve(ctx, first).IsAnonymous())
	assert.True(t, strategy.Resolve(ctx, second).IsAnonymous())
	assert.Contains(t, store.sessions, "other")
}

func TestDatabaseStrategyPurgeExpired(t *testing.T) {
	store := newMemStore()
	strategy := NewDatabaseStrategy(&memFactory{store: store}, time.Hour)
	ctx := context.Background()
	user := storedUser(store, entity.UserRoleClient)

	live, _, err := strategy.Issue(ctx, user)
	require.NoError(t, err)
	store.sessions["stale"] = &entity.Session{
		SessionToken: "stale",
		UserId:       user.Id,
		Expires:      time.Now().Add(-time.Hour),
	}

	require.NoError(t, strategy.PurgeExpired(ctx))
	assert.NotContains(t, store.sessions, "stale")
	assert.Contains(t, store.sessions, live)
}
