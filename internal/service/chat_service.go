package service

import (
	"context"
	"encoding/json"

	"auth-chat-be/internal/constant"
	"auth-chat-be/internal/dto"
	"auth-chat-be/internal/entity"
	"auth-chat-be/internal/pkg/logger"
	"auth-chat-be/pkg/llm"

	"github.com/google/uuid"
)

type IChatService interface {
	Send(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	// Stream relays the model response chunk by chunk. onStart fires once
	// the session is known, before the first chunk; onChunk fires per piece
	// of model output. Nothing is persisted until the stream finishes
	// cleanly; both the prompt and the reply commit together at the end.
	Stream(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest, onStart func(sessionId uuid.UUID) error, onChunk llm.ChunkHandler) (*dto.SendChatResponse, error)
}

type chatService struct {
	historyService   IChatHistoryService
	publisherService IPublisherService
	provider         llm.LLMProvider
	contextLimit     int
	log              logger.ILogger
}

func NewChatService(
	historyService IChatHistoryService,
	publisherService IPublisherService,
	provider llm.LLMProvider,
	contextLimit int,
	log logger.ILogger,
) IChatService {
	return &chatService{
		historyService:   historyService,
		publisherService: publisherService,
		provider:         provider,
		contextLimit:     contextLimit,
		log:              log,
	}
}

func (s *chatService) Send(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	sessionId, err := s.ensureSession(ctx, userId, req)
	if err != nil {
		return nil, err
	}

	history, err := s.buildContext(ctx, userId, sessionId, req.Message)
	if err != nil {
		return nil, err
	}

	replyText, err := s.provider.Chat(ctx, history)
	if err != nil {
		return nil, err
	}

	return s.persistExchange(ctx, userId, sessionId, req.Message, replyText)
}

func (s *chatService) Stream(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest, onStart func(sessionId uuid.UUID) error, onChunk llm.ChunkHandler) (*dto.SendChatResponse, error) {
	sessionId, err := s.ensureSession(ctx, userId, req)
	if err != nil {
		return nil, err
	}

	history, err := s.buildContext(ctx, userId, sessionId, req.Message)
	if err != nil {
		return nil, err
	}

	if onStart != nil {
		if err := onStart(sessionId); err != nil {
			return nil, err
		}
	}

	full, err := s.provider.ChatStream(ctx, history, onChunk)
	if err != nil {
		// Whatever chunks were emitted reached the client, but nothing
		// was committed; the session row is untouched.
		s.log.Error("chat", "stream aborted before completion", map[string]interface{}{
			"session_id": sessionId,
			"partial":    len(full),
			"error":      err.Error(),
		})
		return nil, err
	}

	return s.persistExchange(ctx, userId, sessionId, req.Message, full)
}

// persistExchange commits the prompt and the completed reply, in that order,
// and notifies subscribers about both.
func (s *chatService) persistExchange(ctx context.Context, userId, sessionId uuid.UUID, prompt, replyText string) (*dto.SendChatResponse, error) {
	userMsg, session, err := s.historyService.AppendMessage(ctx, userId, sessionId, constant.ChatMessageRoleUser, prompt)
	if err != nil {
		return nil, err
	}
	s.notifyAppended(ctx, userId, session, userMsg)

	reply, session, err := s.historyService.AppendMessage(ctx, userId, sessionId, constant.ChatMessageRoleAssistant, replyText)
	if err != nil {
		return nil, err
	}
	s.notifyAppended(ctx, userId, session, reply)

	return &dto.SendChatResponse{
		SessionId: sessionId,
		Title:     session.Title,
		Reply: dto.ChatMessageResponse{
			Id:        reply.Id,
			Role:      reply.Role,
			Content:   reply.Content,
			Timestamp: reply.Timestamp,
		},
	}, nil
}

func (s *chatService) ensureSession(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (uuid.UUID, error) {
	if req.SessionId != nil {
		return *req.SessionId, nil
	}
	created, err := s.historyService.CreateSession(ctx, userId)
	if err != nil {
		return uuid.Nil, err
	}
	return created.Id, nil
}

// buildContext assembles the recent window of the conversation, flipped to
// oldest first for the model, with the not-yet-committed prompt as the
// final turn.
func (s *chatService) buildContext(ctx context.Context, userId, sessionId uuid.UUID, prompt string) ([]llm.Message, error) {
	messages, err := s.historyService.RecentMessages(ctx, userId, sessionId, s.contextLimit)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(messages)+1)
	for i := len(messages) - 1; i >= 0; i-- {
		history = append(history, llm.Message{
			Role:    messages[i].Role,
			Content: messages[i].Content,
		})
	}
	history = append(history, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: prompt,
	})
	return history, nil
}

func (s *chatService) notifyAppended(ctx context.Context, userId uuid.UUID, session *entity.ChatSession, msg *entity.ChatMessage) {
	if s.publisherService == nil {
		return
	}

	payload, err := json.Marshal(dto.ChatMessageAppendedMessage{
		UserId:    userId,
		SessionId: session.Id,
		MessageId: msg.Id,
		Role:      msg.Role,
		Title:     session.Title,
	})
	if err != nil {
		return
	}

	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Warn("chat", "failed to publish bus message", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}
}
