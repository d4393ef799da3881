package contract

import (
	"context"

	"studynotes-be/internal/entity"
	"studynotes-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BookmarkRepository interface {
	Create(ctx context.Context, bookmark *entity.Bookmark) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bookmark, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Bookmark, error)
	Delete(ctx context.Context, userId string, id uuid.UUID) error
}
