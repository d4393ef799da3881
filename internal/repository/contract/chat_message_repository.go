package contract

import (
	"context"

	"studynotes-be/internal/entity"
	"studynotes-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	CreateBatch(ctx context.Context, messages []*entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	DeleteBySession(ctx context.Context, sessionId uuid.UUID) error
}
