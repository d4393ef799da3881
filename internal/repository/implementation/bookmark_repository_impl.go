package implementation

import (
	"context"
	"errors"

	"studynotes-be/internal/entity"
	"studynotes-be/internal/mapper"
	"studynotes-be/internal/model"
	"studynotes-be/internal/repository/contract"
	"studynotes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookmarkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BookmarkMapper
}

func NewBookmarkRepository(db *gorm.DB) contract.BookmarkRepository {
	return &BookmarkRepositoryImpl{
		db:     db,
		mapper: mapper.NewBookmarkMapper(),
	}
}

func (r *BookmarkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BookmarkRepositoryImpl) Create(ctx context.Context, bookmark *entity.Bookmark) error {
	modelBookmark, err := r.mapper.ToModel(bookmark)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(modelBookmark).Error; err != nil {
		return err
	}
	saved, err := r.mapper.ToEntity(modelBookmark)
	if err != nil {
		return err
	}
	*bookmark = *saved
	return nil
}

func (r *BookmarkRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Bookmark, error) {
	var modelBookmark model.Bookmark
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelBookmark).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelBookmark)
}

func (r *BookmarkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Bookmark, error) {
	var modelBookmarks []*model.Bookmark
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelBookmarks).Error; err != nil {
		return nil, err
	}

	bookmarks := make([]*entity.Bookmark, 0, len(modelBookmarks))
	for _, mb := range modelBookmarks {
		b, err := r.mapper.ToEntity(mb)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, nil
}

func (r *BookmarkRepositoryImpl) Delete(ctx context.Context, userId string, id uuid.UUID) error {
	// scoped by owner; deleting an absent id is a no-op
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userId).
		Delete(&model.Bookmark{}).Error
}
