package service

import (
	"context"
	"encoding/json"
	"time"

	"studynotes-be/internal/dto"
	"studynotes-be/internal/entity"
	"studynotes-be/internal/pkg/logger"
	"studynotes-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process activity bus and persists study
// activity rows. Activity recording is fire-and-forget from the caller's
// point of view; this worker makes it durable.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
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
	var payload dto.PublishStudyActivityMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal activity message", map[string]interface{}{"error": err})
		msg.Ack() // malformed messages would retry forever
		return
	}

	activity := &entity.StudyActivity{
		Id:         uuid.New(),
		UserId:     payload.UserId,
		Action:     payload.Action,
		ClassLevel: payload.ClassLevel,
		Subject:    payload.Subject,
		Topic:      payload.Topic,
		CreatedAt:  time.Now(),
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.StudyActivityRepository().Create(ctx, activity); err != nil {
		cs.logger.Error("ConsumerService", "Failed to persist study activity", map[string]interface{}{"error": err})
		msg.Nack()
		return
	}

	msg.Ack()
}
