package implementation

import (
	"context"

	"studynotes-be/internal/entity"
	"studynotes-be/internal/mapper"
	"studynotes-be/internal/model"
	"studynotes-be/internal/repository/contract"
	"studynotes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	modelMessage := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(modelMessage).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(modelMessage)
	return nil
}

func (r *ChatMessageRepositoryImpl) CreateBatch(ctx context.Context, messages []*entity.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}
	modelMessages := make([]*model.ChatMessage, 0, len(messages))
	for _, m := range messages {
		modelMessages = append(modelMessages, r.mapper.MessageToModel(m))
	}
	if err := r.db.WithContext(ctx).Create(&modelMessages).Error; err != nil {
		return err
	}
	for i, mm := range modelMessages {
		*messages[i] = *r.mapper.MessageToEntity(mm)
	}
	return nil
}

func (r *ChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var modelMessages []*model.ChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelMessages).Error; err != nil {
		return nil, err
	}

	messages := make([]*entity.ChatMessage, 0, len(modelMessages))
	for _, mm := range modelMessages {
		messages = append(messages, r.mapper.MessageToEntity(mm))
	}
	return messages, nil
}

func (r *ChatMessageRepositoryImpl) DeleteBySession(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("chat_session_id = ?", sessionId).
		Delete(&model.ChatMessage{}).Error
}
