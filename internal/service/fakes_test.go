package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/repository/contract"
	"auth-chat-be/internal/repository/specification"
	"auth-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// In-memory repositories interpreting the specification structs directly,
// so service logic runs without a database.

type fakeStore struct {
	users     map[uuid.UUID]*entity.User
	accounts  []*entity.Account
	tokens    []*entity.VerificationToken
	sessions  map[string]*entity.Session
	chats     map[uuid.UUID]*entity.ChatSession
	messages  []*entity.ChatMessage
	committed int
	rolled    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*entity.User),
		sessions: make(map[string]*entity.Session),
		chats:    make(map[uuid.UUID]*entity.ChatSession),
	}
}

func (s *fakeStore) factory() unitofwork.RepositoryFactory {
	return &fakeFactory{store: s}
}

type fakeFactory struct {
	store *fakeStore
}

func (f *fakeFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) Begin(context.Context) error { return nil }

func (u *fakeUnitOfWork) Commit() error {
	u.store.committed++
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.store.rolled++
	return nil
}

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository {
	return &fakeUserRepository{store: u.store}
}

func (u *fakeUnitOfWork) SessionRepository() contract.SessionRepository {
	return &fakeSessionRepository{store: u.store}
}

func (u *fakeUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeChatSessionRepository{store: u.store}
}

func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeChatMessageRepository{store: u.store}
}

// --- collaborators ---

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

type fakeIssuer struct {
	token      string
	expires    time.Time
	issued     []uuid.UUID
	revoked    []string
	revokedAll []uuid.UUID
	err        error
}

func (i *fakeIssuer) Issue(_ context.Context, user *entity.User) (string, time.Time, error) {
	if i.err != nil {
		return "", time.Time{}, i.err
	}
	i.issued = append(i.issued, user.Id)
	return i.token, i.expires, nil
}

func (i *fakeIssuer) Revoke(_ context.Context, token string) error {
	i.revoked = append(i.revoked, token)
	return nil
}

func (i *fakeIssuer) RevokeAll(_ context.Context, userID uuid.UUID) error {
	i.revokedAll = append(i.revokedAll, userID)
	return nil
}

type fakeEmailService struct {
	sent chan string
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{sent: make(chan string, 4)}
}

func (m *fakeEmailService) SendVerificationLink(toEmail, _ string) error {
	m.sent <- toEmail
	return nil
}

type fakePublisherService struct {
	published [][]byte
}

func (p *fakePublisherService) Publish(_ context.Context, payload []byte) error {
	p.published = append(p.published, payload)
	return nil
}

// --- users ---

type fakeUserRepository struct {
	store *fakeStore
}

func (r *fakeUserRepository) Create(_ context.Context, user *entity.User) error {
	copied := *user
	r.store.users[user.Id] = &copied
	return nil
}

func (r *fakeUserRepository) Update(_ context.Context, user *entity.User) error {
	copied := *user
	r.store.users[user.Id] = &copied
	return nil
}

func (r *fakeUserRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, user := range r.store.users {
		if userMatches(user, specs) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func userMatches(user *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByEmail:
			if user.Email != s.Email {
				return false
			}
		case specification.ByID:
			if user.Id != s.ID {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepository) SaveAccount(_ context.Context, account *entity.Account) error {
	for i, existing := range r.store.accounts {
		if existing.Provider == account.Provider && existing.ProviderAccountId == account.ProviderAccountId {
			copied := *account
			r.store.accounts[i] = &copied
			return nil
		}
	}
	copied := *account
	r.store.accounts = append(r.store.accounts, &copied)
	return nil
}

func (r *fakeUserRepository) FindAccount(_ context.Context, specs ...specification.Specification) (*entity.Account, error) {
	for _, account := range r.store.accounts {
		matched := true
		for _, spec := range specs {
			if s, ok := spec.(specification.ByProviderAccount); ok {
				if account.Provider != s.Provider || account.ProviderAccountId != s.ProviderAccountId {
					matched = false
				}
			}
		}
		if matched {
			copied := *account
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) CreateVerificationToken(_ context.Context, token *entity.VerificationToken) error {
	copied := *token
	r.store.tokens = append(r.store.tokens, &copied)
	return nil
}

func (r *fakeUserRepository) FindVerificationToken(_ context.Context, specs ...specification.Specification) (*entity.VerificationToken, error) {
	for _, token := range r.store.tokens {
		matched := true
		for _, spec := range specs {
			if s, ok := spec.(specification.ByVerificationToken); ok {
				if token.Identifier != s.Identifier || token.Token != s.Token {
					matched = false
				}
			}
		}
		if matched {
			copied := *token
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) DeleteVerificationToken(_ context.Context, identifier, token string) error {
	kept := r.store.tokens[:0]
	for _, t := range r.store.tokens {
		if t.Identifier != identifier || t.Token != token {
			kept = append(kept, t)
		}
	}
	r.store.tokens = kept
	return nil
}

// --- sessions ---

type fakeSessionRepository struct {
	store *fakeStore
}

func (r *fakeSessionRepository) Create(_ context.Context, session *entity.Session) error {
	copied := *session
	r.store.sessions[session.SessionToken] = &copied
	return nil
}

func (r *fakeSessionRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Session, error) {
	for _, session := range r.store.sessions {
		matched := true
		for _, spec := range specs {
			if s, ok := spec.(specification.BySessionToken); ok && session.SessionToken != s.Token {
				matched = false
			}
		}
		if matched {
			copied := *session
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepository) Delete(_ context.Context, token string) error {
	delete(r.store.sessions, token)
	return nil
}

func (r *fakeSessionRepository) DeleteAllByUserId(_ context.Context, userId uuid.UUID) error {
	for token, session := range r.store.sessions {
		if session.UserId == userId {
			delete(r.store.sessions, token)
		}
	}
	return nil
}

func (r *fakeSessionRepository) DeleteExpired(_ context.Context, now time.Time) error {
	for token, session := range r.store.sessions {
		if session.Expired(now) {
			delete(r.store.sessions, token)
		}
	}
	return nil
}

// --- chat sessions ---

type fakeChatSessionRepository struct {
	store *fakeStore
}

func (r *fakeChatSessionRepository) Create(_ context.Context, session *entity.ChatSession) error {
	copied := *session
	r.store.chats[session.Id] = &copied
	return nil
}

func (r *fakeChatSessionRepository) Update(_ context.Context, session *entity.ChatSession) error {
	copied := *session
	r.store.chats[session.Id] = &copied
	return nil
}

func (r *fakeChatSessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store.chats, id)
	return nil
}

func (r *fakeChatSessionRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, session := range r.store.chats {
		if chatMatches(session, specs) {
			copied := *session
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeChatSessionRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var out []*entity.ChatSession
	for _, session := range r.store.chats {
		if chatMatches(session, specs) {
			copied := *session
			out = append(out, &copied)
		}
	}
	applyChatSessionOrder(out, specs)
	return out, nil
}

func (r *fakeChatSessionRepository) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	for _, session := range r.store.chats {
		if chatMatches(session, specs) {
			n++
		}
	}
	return n, nil
}

func chatMatches(session *entity.ChatSession, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if session.Id != s.ID {
				return false
			}
		case specification.UserOwnedBy:
			if session.UserId != s.UserID {
				return false
			}
		}
	}
	return true
}

func applyChatSessionOrder(sessions []*entity.ChatSession, specs []specification.Specification) {
	for _, spec := range specs {
		if s, ok := spec.(specification.OrderBy); ok && strings.Contains(s.Field, "updatedAt") {
			sort.SliceStable(sessions, func(i, j int) bool {
				if s.Desc {
					return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
				}
				return sessions[i].UpdatedAt.Before(sessions[j].UpdatedAt)
			})
		}
	}
}

// --- chat messages ---

type fakeChatMessageRepository struct {
	store *fakeStore
}

func (r *fakeChatMessageRepository) Create(_ context.Context, message *entity.ChatMessage) error {
	copied := *message
	r.store.messages = append(r.store.messages, &copied)
	return nil
}

func (r *fakeChatMessageRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var out []*entity.ChatMessage
	for _, message := range r.store.messages {
		if messageMatches(message, specs) {
			copied := *message
			out = append(out, &copied)
		}
	}

	desc := false
	for _, spec := range specs {
		if s, ok := spec.(specification.OrderBy); ok && s.Field == "timestamp" {
			desc = s.Desc
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].Timestamp, out[j].Timestamp
		if ti.Equal(tj) {
			if desc {
				return out[i].Id.String() > out[j].Id.String()
			}
			return out[i].Id.String() < out[j].Id.String()
		}
		if desc {
			return ti.After(tj)
		}
		return ti.Before(tj)
	})

	for _, spec := range specs {
		if s, ok := spec.(specification.Limit); ok && len(out) > s.N {
			out = out[:s.N]
		}
	}
	return out, nil
}

func (r *fakeChatMessageRepository) DeleteBySessionId(_ context.Context, sessionId uuid.UUID) error {
	kept := r.store.messages[:0]
	for _, message := range r.store.messages {
		if message.SessionId != sessionId {
			kept = append(kept, message)
		}
	}
	r.store.messages = kept
	return nil
}

func (r *fakeChatMessageRepository) Count(_ context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	for _, message := range r.store.messages {
		if messageMatches(message, specs) {
			n++
		}
	}
	return n, nil
}

func messageMatches(message *entity.ChatMessage, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.BySessionID:
			if message.SessionId != s.SessionID {
				return false
			}
		case specification.BySessionIDs:
			found := false
			for _, id := range s.SessionIDs {
				if message.SessionId == id {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}
