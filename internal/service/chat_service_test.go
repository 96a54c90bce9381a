package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"auth-chat-be/internal/constant"
	"auth-chat-be/internal/dto"
	"auth-chat-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	chunks    []string
	streamErr error
	// history captured from the last call, for context-window assertions.
	lastHistory []llm.Message
}

func (p *fakeProvider) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	p.lastHistory = history
	var full string
	for _, chunk := range p.chunks {
		full += chunk
	}
	return full, nil
}

func (p *fakeProvider) ChatStream(_ context.Context, history []llm.Message, onChunk llm.ChunkHandler, _ ...llm.Option) (string, error) {
	p.lastHistory = history
	var full string
	for _, chunk := range p.chunks {
		full += chunk
		if onChunk != nil {
			if err := onChunk(chunk); err != nil {
				return full, err
			}
		}
	}
	if p.streamErr != nil {
		return full, p.streamErr
	}
	return full, nil
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func newChatServiceUnderTest(store *fakeStore, provider llm.LLMProvider, publisher IPublisherService) (IChatService, IChatHistoryService) {
	history := NewChatHistoryService(store.factory(), noopLogger{})
	return NewChatService(history, publisher, provider, 20, noopLogger{}), history
}

func TestSendCreatesSessionAndPersistsBothMessages(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{chunks: []string{"Paris ", "is the capital."}}
	publisher := &fakePublisherService{}
	svc, historySvc := newChatServiceUnderTest(store, provider, publisher)
	ctx := context.Background()
	userId := uuid.New()

	res, err := svc.Send(ctx, userId, &dto.SendChatRequest{Message: "What is the capital of France?"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.SessionId)
	assert.Equal(t, "What is the capital of France", res.Title)
	assert.Equal(t, constant.ChatMessageRoleAssistant, res.Reply.Role)
	assert.Equal(t, "Paris is the capital.", res.Reply.Content)

	detail, err := historySvc.GetSession(ctx, userId, res.SessionId)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, detail.Messages[0].Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, detail.Messages[1].Role)

	// One bus message per stored message.
	require.Len(t, publisher.published, 2)
	var notice dto.ChatMessageAppendedMessage
	require.NoError(t, json.Unmarshal(publisher.published[1], &notice))
	assert.Equal(t, userId, notice.UserId)
	assert.Equal(t, res.SessionId, notice.SessionId)
	assert.Equal(t, constant.ChatMessageRoleAssistant, notice.Role)
}

func TestSendContinuesExistingSession(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{chunks: []string{"sure"}}
	svc, historySvc := newChatServiceUnderTest(store, provider, nil)
	ctx := context.Background()
	userId := uuid.New()

	created, err := historySvc.CreateSession(ctx, userId)
	require.NoError(t, err)

	sessionId := created.Id
	res, err := svc.Send(ctx, userId, &dto.SendChatRequest{Message: "continue please", SessionId: &sessionId})
	require.NoError(t, err)
	assert.Equal(t, sessionId, res.SessionId)

	// The in-flight prompt is the final turn the model sees.
	require.NotEmpty(t, provider.lastHistory)
	assert.Equal(t, "continue please", provider.lastHistory[len(provider.lastHistory)-1].Content)
}

func TestSendRejectsForeignSession(t *testing.T) {
	store := newFakeStore()
	svc, historySvc := newChatServiceUnderTest(store, &fakeProvider{}, nil)
	ctx := context.Background()

	created, err := historySvc.CreateSession(ctx, uuid.New())
	require.NoError(t, err)

	sessionId := created.Id
	_, err = svc.Send(ctx, uuid.New(), &dto.SendChatRequest{Message: "not mine", SessionId: &sessionId})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStreamDeliversChunksThenPersists(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{chunks: []string{"hel", "lo ", "there"}}
	svc, historySvc := newChatServiceUnderTest(store, provider, nil)
	ctx := context.Background()
	userId := uuid.New()

	var started []uuid.UUID
	var received []string
	res, err := svc.Stream(ctx, userId, &dto.SendChatRequest{Message: "greet me"},
		func(sessionId uuid.UUID) error {
			started = append(started, sessionId)
			return nil
		},
		func(chunk string) error {
			received = append(received, chunk)
			return nil
		},
	)
	require.NoError(t, err)
	require.Len(t, started, 1)
	assert.Equal(t, res.SessionId, started[0])
	assert.Equal(t, []string{"hel", "lo ", "there"}, received)
	assert.Equal(t, "hello there", res.Reply.Content)

	detail, err := historySvc.GetSession(ctx, userId, res.SessionId)
	require.NoError(t, err)
	require.Len(t, detail.Messages, 2)
	assert.Equal(t, "hello there", detail.Messages[1].Content)
}

func TestStreamFailureKeepsPartialOutOfHistory(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{chunks: []string{"partial "}, streamErr: errors.New("connection reset")}
	svc, historySvc := newChatServiceUnderTest(store, provider, nil)
	ctx := context.Background()
	userId := uuid.New()

	_, err := svc.Stream(ctx, userId, &dto.SendChatRequest{Message: "doomed request"}, nil, func(string) error { return nil })
	require.Error(t, err)

	// The session exists but nothing was committed, not even the prompt.
	sessions, err := historySvc.ListSessions(ctx, userId)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, constant.DefaultSessionTitle, sessions[0].Title)

	detail, err := historySvc.GetSession(ctx, userId, sessions[0].Id)
	require.NoError(t, err)
	assert.Empty(t, detail.Messages)
}

func TestStreamOnStartErrorAborts(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{chunks: []string{"never sent"}}
	svc, _ := newChatServiceUnderTest(store, provider, nil)
	ctx := context.Background()

	wantErr := errors.New("client went away")
	_, err := svc.Stream(ctx, uuid.New(), &dto.SendChatRequest{Message: "hello"},
		func(uuid.UUID) error { return wantErr },
		func(string) error { return nil },
	)
	assert.ErrorIs(t, err, wantErr)
	assert.Nil(t, provider.lastHistory)
}

func TestBuildContextRespectsLimit(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{chunks: []string{"ok"}}
	history := NewChatHistoryService(store.factory(), noopLogger{})
	svc := NewChatService(history, nil, provider, 2, noopLogger{})
	ctx := context.Background()
	userId := uuid.New()

	created, err := history.CreateSession(ctx, userId)
	require.NoError(t, err)
	for _, content := range []string{"one", "two", "three"} {
		_, _, err := history.AppendMessage(ctx, userId, created.Id, constant.ChatMessageRoleUser, content)
		require.NoError(t, err)
	}

	sessionId := created.Id
	_, err = svc.Send(ctx, userId, &dto.SendChatRequest{Message: "four", SessionId: &sessionId})
	require.NoError(t, err)

	// Two stored turns plus the in-flight prompt.
	require.Len(t, provider.lastHistory, 3)
	assert.Equal(t, "two", provider.lastHistory[0].Content)
	assert.Equal(t, "three", provider.lastHistory[1].Content)
	assert.Equal(t, "four", provider.lastHistory[2].Content)
}
