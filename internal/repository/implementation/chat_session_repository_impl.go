package implementation

import (
	"context"
	"errors"
	"time"

	"studynotes-be/internal/entity"
	"studynotes-be/internal/mapper"
	"studynotes-be/internal/model"
	"studynotes-be/internal/repository/contract"
	"studynotes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatSessionRepository(db *gorm.DB) contract.ChatSessionRepository {
	return &ChatSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatSessionRepositoryImpl) Create(ctx context.Context, session *entity.ChatSession) error {
	modelSession := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(modelSession).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(modelSession)
	return nil
}

func (r *ChatSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	var modelSession model.ChatSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelSession).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.SessionToEntity(&modelSession), nil
}

func (r *ChatSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var modelSessions []*model.ChatSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelSessions).Error; err != nil {
		return nil, err
	}

	sessions := make([]*entity.ChatSession, 0, len(modelSessions))
	for _, ms := range modelSessions {
		sessions = append(sessions, r.mapper.SessionToEntity(ms))
	}
	return sessions, nil
}

func (r *ChatSessionRepositoryImpl) Touch(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ChatSession{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

func (r *ChatSessionRepositoryImpl) Delete(ctx context.Context, userId string, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userId).
		Delete(&model.ChatSession{}).Error
}
