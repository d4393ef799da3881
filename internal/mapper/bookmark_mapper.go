package mapper

import (
	"encoding/json"
	"fmt"

	"studynotes-be/internal/entity"
	"studynotes-be/internal/model"
)

type BookmarkMapper struct{}

func NewBookmarkMapper() *BookmarkMapper {
	return &BookmarkMapper{}
}

func (m *BookmarkMapper) ToEntity(b *model.Bookmark) (*entity.Bookmark, error) {
	if b == nil {
		return nil, nil
	}
	var note entity.StudyNote
	if err := json.Unmarshal(b.NoteData, &note); err != nil {
		return nil, fmt.Errorf("decode bookmark note data %s: %w", b.Id, err)
	}
	return &entity.Bookmark{
		Id:           b.Id,
		UserId:       b.UserId,
		Type:         entity.BookmarkType(b.Type),
		Title:        b.Title,
		Subtitle:     b.Subtitle,
		NoteData:     note,
		SectionIndex: b.SectionIndex,
		CreatedAt:    b.CreatedAt,
	}, nil
}

func (m *BookmarkMapper) ToModel(b *entity.Bookmark) (*model.Bookmark, error) {
	if b == nil {
		return nil, nil
	}
	noteData, err := json.Marshal(b.NoteData)
	if err != nil {
		return nil, fmt.Errorf("encode bookmark note data: %w", err)
	}
	return &model.Bookmark{
		Id:           b.Id,
		UserId:       b.UserId,
		Type:         string(b.Type),
		Title:        b.Title,
		Subtitle:     b.Subtitle,
		NoteData:     noteData,
		SectionIndex: b.SectionIndex,
		CreatedAt:    b.CreatedAt,
	}, nil
}
