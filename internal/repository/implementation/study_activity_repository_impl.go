package implementation

import (
	"context"

	"studynotes-be/internal/entity"
	"studynotes-be/internal/model"
	"studynotes-be/internal/repository/contract"
	"studynotes-be/internal/repository/scope"
	"studynotes-be/internal/repository/specification"

	"gorm.io/gorm"
)

type StudyActivityRepositoryImpl struct {
	db *gorm.DB
}

func NewStudyActivityRepository(db *gorm.DB) contract.StudyActivityRepository {
	return &StudyActivityRepositoryImpl{db: db}
}

func (r *StudyActivityRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *StudyActivityRepositoryImpl) Create(ctx context.Context, activity *entity.StudyActivity) error {
	modelActivity := toActivityModel(activity)
	if err := r.db.WithContext(ctx).Create(modelActivity).Error; err != nil {
		return err
	}
	*activity = *toActivityEntity(modelActivity)
	return nil
}

func (r *StudyActivityRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StudyActivity, error) {
	var modelActivities []*model.StudyActivity

	// the activity log always reads newest first
	query := r.applySpecifications(r.db.WithContext(ctx).Scopes(scope.OrderByCreatedDesc), specs...)

	if err := query.Find(&modelActivities).Error; err != nil {
		return nil, err
	}

	activities := make([]*entity.StudyActivity, 0, len(modelActivities))
	for _, ma := range modelActivities {
		activities = append(activities, toActivityEntity(ma))
	}
	return activities, nil
}

// Activity rows are flat; an inline mapping keeps the mapper package for
// the shapes that need real conversion.
func toActivityModel(a *entity.StudyActivity) *model.StudyActivity {
	return &model.StudyActivity{
		Id:         a.Id,
		UserId:     a.UserId,
		Action:     a.Action,
		ClassLevel: a.ClassLevel,
		Subject:    a.Subject,
		Topic:      a.Topic,
		CreatedAt:  a.CreatedAt,
	}
}

func toActivityEntity(m *model.StudyActivity) *entity.StudyActivity {
	return &entity.StudyActivity{
		Id:         m.Id,
		UserId:     m.UserId,
		Action:     m.Action,
		ClassLevel: m.ClassLevel,
		Subject:    m.Subject,
		Topic:      m.Topic,
		CreatedAt:  m.CreatedAt,
	}
}
