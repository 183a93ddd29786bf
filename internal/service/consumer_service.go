package service

import (
	"context"
	"encoding/json"

	"voice-ai-be/internal/dto"
	"voice-ai-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// SessionNotifier pushes a server event to every live connection that joined
// with the given session id. Implemented by the websocket hub.
type SessionNotifier interface {
	Send(sessionID string, event dto.WSEvent)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService forwards knowledge base events from the in-process bus to
// the websocket layer so clients see uploads and deletions live.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	notifier  SessionNotifier
	logger    logger.ILogger
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, notifier SessionNotifier, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		notifier:  notifier,
		logger:    log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var envelope eventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	sessionID, _ := envelope.Data["session_id"].(string)
	if sessionID == "" {
		msg.Ack()
		return
	}

	data := map[string]interface{}{"event": envelope.Type}
	for k, v := range envelope.Data {
		data[k] = v
	}

	cs.notifier.Send(sessionID, dto.WSEvent{
		Type: dto.WSEventNotification,
		Data: data,
	})
	msg.Ack()
}
