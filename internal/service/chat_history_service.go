package service

import (
	"context"
	"strings"
	"time"

	"auth-chat-be/internal/constant"
	"auth-chat-be/internal/dto"
	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/pkg/logger"
	"auth-chat-be/internal/repository/specification"
	"auth-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const titleMaxLen = 50

type IChatHistoryService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.ChatSessionResponse, error)
	ListSessions(ctx context.Context, userId uuid.UUID) ([]dto.ChatSessionResponse, error)
	GetSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.ChatSessionDetailResponse, error)
	RenameSession(ctx context.Context, userId, sessionId uuid.UUID, title string) (*dto.ChatSessionResponse, error)
	DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error
	AppendMessage(ctx context.Context, userId, sessionId uuid.UUID, role, content string) (*entity.ChatMessage, *entity.ChatSession, error)
	RecentMessages(ctx context.Context, userId, sessionId uuid.UUID, limit int) ([]*entity.ChatMessage, error)
	UserStats(ctx context.Context, userId uuid.UUID) (*dto.UserStatsResponse, error)
}

type chatHistoryService struct {
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewChatHistoryService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IChatHistoryService {
	return &chatHistoryService{
		uowFactory: uowFactory,
		log:        log,
	}
}

// DeriveTitle turns the first user message into a session title. Greeting
// openers are stripped so "Hello, how do I reset my password?" titles as
// "how do I reset my password". Anything too short to be meaningful falls
// back to a generic title.
func DeriveTitle(content string) string {
	title := strings.TrimSpace(content)

	lower := strings.ToLower(title)
	for _, greeting := range constant.GreetingPrefixes {
		if strings.HasPrefix(lower, greeting) {
			title = strings.TrimSpace(title[len(greeting):])
			title = strings.TrimLeft(title, ",:;! ")
			title = strings.TrimSpace(title)
			break
		}
	}

	title = strings.TrimRight(title, ".!?")

	runes := []rune(title)
	if len(runes) > titleMaxLen {
		title = string(runes[:titleMaxLen-3]) + "..."
	}

	if len([]rune(title)) < 3 {
		return constant.FallbackSessionTitle
	}
	return title
}

func (s *chatHistoryService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     constant.DefaultSessionTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	resp := toSessionResponse(session)
	return &resp, nil
}

func (s *chatHistoryService) ListSessions(ctx context.Context, userId uuid.UUID) ([]dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: `"updatedAt"`, Desc: true},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.ChatSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, toSessionResponse(session))
	}
	return resp, nil
}

func (s *chatHistoryService) GetSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.ChatSessionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "timestamp"},
		specification.OrderBy{Field: "id"},
	)
	if err != nil {
		return nil, err
	}

	detail := &dto.ChatSessionDetailResponse{
		Id:        session.Id,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Messages:  make([]dto.ChatMessageResponse, 0, len(messages)),
	}
	for _, msg := range messages {
		detail.Messages = append(detail.Messages, toMessageResponse(msg))
	}
	return detail, nil
}

func (s *chatHistoryService) RenameSession(ctx context.Context, userId, sessionId uuid.UUID, title string) (*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	session.Title = strings.TrimSpace(title)
	session.UpdatedAt = time.Now()
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	resp := toSessionResponse(session)
	return &resp, nil
}

func (s *chatHistoryService) DeleteSession(ctx context.Context, userId, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.findOwnedSession(ctx, uow, userId, sessionId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// The FK cascades too, but deleting explicitly keeps the behavior
	// independent of the schema.
	if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}

	return uow.Commit()
}

// AppendMessage stores a message, bumps the session's activity timestamp and
// derives a title from the first user message, all in one transaction.
func (s *chatHistoryService) AppendMessage(ctx context.Context, userId, sessionId uuid.UUID, role, content string) (*entity.ChatMessage, *entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer uow.Rollback()

	now := time.Now()
	message := &entity.ChatMessage{
		Id:        uuid.New(),
		SessionId: sessionId,
		Role:      role,
		Content:   content,
		Timestamp: now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		return nil, nil, err
	}

	session.UpdatedAt = now
	if role == constant.ChatMessageRoleUser && session.Title == constant.DefaultSessionTitle {
		session.Title = DeriveTitle(content)
	}
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, err
	}
	return message, session, nil
}

// RecentMessages returns the last limit messages, most recent first. This is
// the reverse of GetSession's chronological order; callers that feed a model
// flip it themselves.
func (s *chatHistoryService) RecentMessages(ctx context.Context, userId, sessionId uuid.UUID, limit int) ([]*entity.ChatMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.findOwnedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	return uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "timestamp", Desc: true},
		specification.OrderBy{Field: "id", Desc: true},
		specification.Limit{N: limit},
	)
}

func (s *chatHistoryService) UserStats(ctx context.Context, userId uuid.UUID) (*dto.UserStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: `"updatedAt"`, Desc: true},
	)
	if err != nil {
		return nil, err
	}

	stats := &dto.UserStatsResponse{
		SessionCount: int64(len(sessions)),
	}
	if len(sessions) == 0 {
		return stats, nil
	}

	lastActivity := sessions[0].UpdatedAt
	stats.LastActivity = &lastActivity

	ids := make([]uuid.UUID, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.Id)
	}
	messageCount, err := uow.ChatMessageRepository().Count(ctx, specification.BySessionIDs{SessionIDs: ids})
	if err != nil {
		return nil, err
	}
	stats.MessageCount = messageCount

	return stats, nil
}

// findOwnedSession loads a session scoped to its owner. A missing session and
// someone else's session are indistinguishable to the caller.
func (s *chatHistoryService) findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	return session, nil
}

func toSessionResponse(session *entity.ChatSession) dto.ChatSessionResponse {
	return dto.ChatSessionResponse{
		Id:        session.Id,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func toMessageResponse(msg *entity.ChatMessage) dto.ChatMessageResponse {
	return dto.ChatMessageResponse{
		Id:        msg.Id,
		Role:      msg.Role,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}
}
