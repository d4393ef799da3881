package service

import (
	"context"
	"testing"
	"time"

	"studynotes-be/internal/dto"
	"studynotes-be/internal/entity"
	"studynotes-be/internal/repository/contract"
	"studynotes-be/internal/repository/specification"
	"studynotes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookmarkRepo interprets the specifications the service actually
// uses instead of translating them to SQL.
type fakeBookmarkRepo struct {
	rows []*entity.Bookmark
}

func (r *fakeBookmarkRepo) Create(_ context.Context, bookmark *entity.Bookmark) error {
	clone := *bookmark
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *fakeBookmarkRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Bookmark, error) {
	for _, row := range r.rows {
		if matchBookmark(row, specs) {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeBookmarkRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Bookmark, error) {
	var out []*entity.Bookmark
	for _, row := range r.rows {
		if matchBookmark(row, specs) {
			clone := *row
			out = append(out, &clone)
		}
	}
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok && order.Desc {
			for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeBookmarkRepo) Delete(_ context.Context, userId string, id uuid.UUID) error {
	for i, row := range r.rows {
		if row.Id == id && row.UserId == userId {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func matchBookmark(row *entity.Bookmark, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.OwnedBy:
			if row.UserId != s.UserID {
				return false
			}
		case specification.ByID:
			if row.Id != s.ID {
				return false
			}
		case specification.ByDedupKey:
			if string(row.Type) != s.Type || row.NoteData.Topic != s.Topic {
				return false
			}
			if (row.SectionIndex == nil) != (s.SectionIndex == nil) {
				return false
			}
			if row.SectionIndex != nil && *row.SectionIndex != *s.SectionIndex {
				return false
			}
		}
	}
	return true
}

type fakeUow struct {
	bookmarks contract.BookmarkRepository
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository { return nil }

func (u *fakeUow) BookmarkRepository() contract.BookmarkRepository { return u.bookmarks }

func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository { return nil }

func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository { return nil }

func (u *fakeUow) StudyActivityRepository() contract.StudyActivityRepository { return nil }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func sampleStudyNote() entity.StudyNote {
	return entity.StudyNote{
		Topic:      "Light",
		Subject:    "Science",
		ClassLevel: "10",
		Sections: []entity.NoteSection{
			{Heading: "Reflection", ContentPoints: []string{"Angle of incidence equals angle of reflection"}},
			{Heading: "Refraction", ContentPoints: []string{"Light bends entering a denser medium"}},
		},
	}
}

func newBookmarkServiceForTest() (IBookmarkService, *fakeBookmarkRepo) {
	repo := &fakeBookmarkRepo{}
	return NewBookmarkService(&fakeUowFactory{uow: &fakeUow{bookmarks: repo}}), repo
}

func TestAddTopicBookmarkDerivesDisplayPair(t *testing.T) {
	svc, _ := newBookmarkServiceForTest()

	res, err := svc.Add(context.Background(), "user-1", &dto.AddBookmarkRequest{
		Type: "topic",
		Note: sampleStudyNote(),
	})

	require.NoError(t, err)
	assert.Equal(t, "Light", res.Title)
	assert.Equal(t, "Class 10 · Science", res.Subtitle)
	assert.Nil(t, res.SectionIndex)
}

func TestAddSectionBookmarkUsesHeading(t *testing.T) {
	svc, _ := newBookmarkServiceForTest()
	idx := 1

	res, err := svc.Add(context.Background(), "user-1", &dto.AddBookmarkRequest{
		Type:         "section",
		Note:         sampleStudyNote(),
		SectionIndex: &idx,
	})

	require.NoError(t, err)
	assert.Equal(t, "Refraction", res.Title)
	assert.Equal(t, "Light", res.Subtitle)
	require.NotNil(t, res.SectionIndex)
	assert.Equal(t, 1, *res.SectionIndex)
}

func TestAddSectionBookmarkRejectsBadIndex(t *testing.T) {
	svc, _ := newBookmarkServiceForTest()
	idx := 5

	_, err := svc.Add(context.Background(), "user-1", &dto.AddBookmarkRequest{
		Type:         "section",
		Note:         sampleStudyNote(),
		SectionIndex: &idx,
	})

	assert.ErrorIs(t, err, ErrInvalidSectionIndex)
}

func TestDuplicateAddReturnsStoredEntry(t *testing.T) {
	svc, repo := newBookmarkServiceForTest()

	first, err := svc.Add(context.Background(), "user-1", &dto.AddBookmarkRequest{Type: "topic", Note: sampleStudyNote()})
	require.NoError(t, err)

	second, err := svc.Add(context.Background(), "user-1", &dto.AddBookmarkRequest{Type: "topic", Note: sampleStudyNote()})
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Len(t, repo.rows, 1)
}

func TestTopicAndSectionBookmarksCoexist(t *testing.T) {
	svc, repo := newBookmarkServiceForTest()
	idx := 0

	_, err := svc.Add(context.Background(), "user-1", &dto.AddBookmarkRequest{Type: "topic", Note: sampleStudyNote()})
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "user-1", &dto.AddBookmarkRequest{Type: "section", Note: sampleStudyNote(), SectionIndex: &idx})
	require.NoError(t, err)

	assert.Len(t, repo.rows, 2)
}

func TestListReturnsNewestFirst(t *testing.T) {
	svc, repo := newBookmarkServiceForTest()

	older := sampleStudyNote()
	newer := sampleStudyNote()
	newer.Topic = "Sound"

	repo.rows = append(repo.rows,
		&entity.Bookmark{Id: uuid.New(), UserId: "user-1", Type: entity.BookmarkTypeTopic, Title: "Light", NoteData: older, CreatedAt: time.Now().Add(-time.Hour)},
		&entity.Bookmark{Id: uuid.New(), UserId: "user-1", Type: entity.BookmarkTypeTopic, Title: "Sound", NoteData: newer, CreatedAt: time.Now()},
	)

	out, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Sound", out[0].Title)
}

func TestListIsScopedToOwner(t *testing.T) {
	svc, repo := newBookmarkServiceForTest()
	repo.rows = append(repo.rows,
		&entity.Bookmark{Id: uuid.New(), UserId: "user-1", Type: entity.BookmarkTypeTopic, NoteData: sampleStudyNote()},
		&entity.Bookmark{Id: uuid.New(), UserId: "guest-123456", Type: entity.BookmarkTypeTopic, NoteData: sampleStudyNote()},
	)

	out, err := svc.List(context.Background(), "guest-123456")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestRemoveMissingBookmarkIsNoop(t *testing.T) {
	svc, _ := newBookmarkServiceForTest()

	err := svc.Remove(context.Background(), "user-1", uuid.New())
	assert.NoError(t, err)
}
