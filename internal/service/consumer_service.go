package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"shopquery-be/internal/entity"
	"shopquery-be/internal/pkg/logger"
	"shopquery-be/internal/repository/unitofwork"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the activity bus and mirrors every event that
// names a user into the user_events table. The mirror is best-effort:
// a row that cannot be written is dropped, never retried into a loop.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
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
		log:        log,
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

type eventEnvelope struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var env eventEnvelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		cs.log.Warn("consumer", "failed to unmarshal event", map[string]interface{}{
			"error": err.Error(),
		})
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	userIdStr, _ := env.Payload["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		// Events without a user are not mirrored.
		msg.Ack()
		return
	}

	createdAt := env.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	record := &entity.UserEvent{
		Id:        uuid.New(),
		UserId:    userId,
		EventType: env.Type,
		EventData: env.Payload,
		CreatedAt: createdAt,
	}
	if err := uow.UserEventRepository().Create(ctx, record); err != nil {
		cs.log.Warn("consumer", "failed to mirror event", map[string]interface{}{
			"event": env.Type,
			"error": err.Error(),
		})
	}

	msg.Ack()
}
