package service

import (
	"context"
	"encoding/json"
	"time"

	"auth-chat-be/internal/dto"
	"auth-chat-be/internal/pkg/logger"
	"auth-chat-be/internal/websocket"
	"auth-chat-be/pkg/events"
	pktNats "auth-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process bus and fans each chat update out to
// the websocket hub and the NATS event stream. Keeping the fan-out off the
// request path means a slow subscriber never delays a chat response.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	hub            *websocket.Hub
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		hub:            hub,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ChatMessageAppendedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal bus message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed, retrying cannot help
		return
	}

	if cs.hub != nil {
		cs.hub.NotifyChatUpdate(payload.UserId, payload)
	}

	if cs.eventPublisher != nil {
		event := events.BaseEvent{
			Type: "CHAT_MESSAGE_APPENDED",
			Data: map[string]interface{}{
				"user_id":    payload.UserId,
				"session_id": payload.SessionId,
				"message_id": payload.MessageId,
				"role":       payload.Role,
				"title":      payload.Title,
			},
			OccurredAt: time.Now(),
		}
		if err := cs.eventPublisher.Publish(ctx, event); err != nil {
			cs.log.Warn("consumer", "failed to publish NATS event", map[string]interface{}{"error": err.Error()})
		}
	}

	msg.Ack()
}
