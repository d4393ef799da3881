package contract

import (
	"context"

	"studynotes-be/internal/entity"
	"studynotes-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	Touch(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, userId string, id uuid.UUID) error
}
