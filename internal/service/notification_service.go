package service

import (
	"context"

	"studynotes-be/internal/pkg/logger"
	"studynotes-be/internal/websocket"
	"studynotes-be/pkg/events"
	pktNats "studynotes-be/pkg/nats"
)

// NotificationService relays domain events from the event bus to the
// websocket hub. Events are transient here: clients that are offline
// simply miss them, there is no notification inbox.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, hub *websocket.Hub, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		hub:        hub,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No event bus configured, notifications disabled", nil)
		return
	}
	if err := s.subscriber.Subscribe("events.>", "notif-relay-worker", s.handleEvent); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification relay started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	msg := websocket.Message{
		Type: "notification",
		Data: map[string]interface{}{
			"event":   event.EventType(),
			"payload": payload,
			"at":      event.Timestamp(),
		},
	}

	// Events addressed to a user go to that user's connections only;
	// everything else fans out.
	if userId, ok := payload["user_id"].(string); ok && userId != "" {
		s.hub.Send(userId, msg)
		return nil
	}
	s.hub.Broadcast(msg)
	return nil
}
