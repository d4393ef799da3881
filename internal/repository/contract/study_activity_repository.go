package contract

import (
	"context"

	"studynotes-be/internal/entity"
	"studynotes-be/internal/repository/specification"
)

type StudyActivityRepository interface {
	Create(ctx context.Context, activity *entity.StudyActivity) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StudyActivity, error)
}
