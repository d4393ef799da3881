package service

import (
	"context"

	"studynotes-be/internal/dto"
	"studynotes-be/internal/repository/specification"
	"studynotes-be/internal/repository/unitofwork"
)

const (
	defaultActivityPageSize = 20
	maxActivityPageSize     = 100
)

type IActivityService interface {
	History(ctx context.Context, userId string, limit, offset int) ([]dto.StudyActivityResponse, error)
}

type activityService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewActivityService(uowFactory unitofwork.RepositoryFactory) IActivityService {
	return &activityService{uowFactory: uowFactory}
}

func (s *activityService) History(ctx context.Context, userId string, limit, offset int) ([]dto.StudyActivityResponse, error) {
	// 1. Clamp the page
	if limit <= 0 {
		limit = defaultActivityPageSize
	}
	if limit > maxActivityPageSize {
		limit = maxActivityPageSize
	}
	if offset < 0 {
		offset = 0
	}

	// 2. Read the user's slice of the log
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.StudyActivityRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	// 3. Map to the response shape
	res := make([]dto.StudyActivityResponse, 0, len(rows))
	for _, row := range rows {
		res = append(res, dto.StudyActivityResponse{
			Id:         row.Id.String(),
			Action:     row.Action,
			ClassLevel: row.ClassLevel,
			Subject:    row.Subject,
			Topic:      row.Topic,
			CreatedAt:  row.CreatedAt,
		})
	}
	return res, nil
}
