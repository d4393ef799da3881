package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studynotes-be/internal/dto"
	"studynotes-be/internal/entity"
	"studynotes-be/internal/repository/specification"
	"studynotes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var ErrInvalidSectionIndex = errors.New("section index out of range")

type IBookmarkService interface {
	List(ctx context.Context, userId string) ([]*dto.BookmarkResponse, error)
	Add(ctx context.Context, userId string, req *dto.AddBookmarkRequest) (*dto.BookmarkResponse, error)
	Remove(ctx context.Context, userId string, id uuid.UUID) error
}

type bookmarkService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewBookmarkService(uowFactory unitofwork.RepositoryFactory) IBookmarkService {
	return &bookmarkService{uowFactory: uowFactory}
}

func (s *bookmarkService) List(ctx context.Context, userId string) ([]*dto.BookmarkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.BookmarkRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.BookmarkResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, bookmarkToDTO(row))
	}
	return out, nil
}

// Add saves a topic or section bookmark. Adding the same target twice is
// idempotent: the stored entry is returned unchanged, preserving its id
// and saved-at time.
func (s *bookmarkService) Add(ctx context.Context, userId string, req *dto.AddBookmarkRequest) (*dto.BookmarkResponse, error) {
	bookmarkType := entity.BookmarkType(req.Type)
	if bookmarkType == entity.BookmarkTypeSection {
		if req.SectionIndex == nil || *req.SectionIndex < 0 || *req.SectionIndex >= len(req.Note.Sections) {
			return nil, ErrInvalidSectionIndex
		}
	} else {
		req.SectionIndex = nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Dedup on the identity triple
	existing, err := uow.BookmarkRepository().FindOne(ctx,
		specification.OwnedBy{UserID: userId},
		specification.ByDedupKey{Type: req.Type, Topic: req.Note.Topic, SectionIndex: req.SectionIndex},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return bookmarkToDTO(existing), nil
	}

	// 2. Derive the display pair from the note, never from the client
	title, subtitle := bookmarkDisplay(bookmarkType, &req.Note, req.SectionIndex)

	bookmark := &entity.Bookmark{
		Id:           uuid.New(),
		UserId:       userId,
		Type:         bookmarkType,
		Title:        title,
		Subtitle:     subtitle,
		NoteData:     req.Note,
		SectionIndex: req.SectionIndex,
		CreatedAt:    time.Now(),
	}
	if err := uow.BookmarkRepository().Create(ctx, bookmark); err != nil {
		return nil, err
	}

	return bookmarkToDTO(bookmark), nil
}

// Remove deletes the bookmark when it exists and is owned by the caller;
// removing an absent bookmark is a no-op.
func (s *bookmarkService) Remove(ctx context.Context, userId string, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.BookmarkRepository().Delete(ctx, userId, id)
}

func bookmarkDisplay(t entity.BookmarkType, note *entity.StudyNote, sectionIndex *int) (title, subtitle string) {
	if t == entity.BookmarkTypeSection {
		return note.Sections[*sectionIndex].Heading, note.Topic
	}
	return note.Topic, fmt.Sprintf("Class %s · %s", note.ClassLevel, note.Subject)
}

func bookmarkToDTO(b *entity.Bookmark) *dto.BookmarkResponse {
	return &dto.BookmarkResponse{
		Id:           b.Id,
		Type:         string(b.Type),
		Title:        b.Title,
		Subtitle:     b.Subtitle,
		NoteData:     b.NoteData,
		SectionIndex: b.SectionIndex,
		CreatedAt:    b.CreatedAt,
	}
}
