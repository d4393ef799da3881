package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"studynotes-be/internal/dto"
	"studynotes-be/internal/entity"
	"studynotes-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

// fakeNotesService blocks chapter fetches on release so tests can observe
// the loading window deterministically.
type fakeNotesService struct {
	chapters   []entity.ChapterCategory
	chapterErr error
	note       *entity.StudyNote
	noteErr    error
	release    chan struct{}
}

func (f *fakeNotesService) GetChapters(ctx context.Context, class entity.ClassLevel, subject entity.Subject) ([]entity.ChapterCategory, error) {
	if f.release != nil {
		<-f.release
	}
	return f.chapters, f.chapterErr
}

func (f *fakeNotesService) GenerateNotes(ctx context.Context, userId string, class entity.ClassLevel, subject entity.Subject, topic string) (*entity.StudyNote, error) {
	if f.noteErr != nil {
		return nil, f.noteErr
	}
	note := *f.note
	note.Topic = topic
	return &note, nil
}

func newNavServiceForTest(notes *fakeNotesService, bookmarks *fakeBookmarkRepo) INavigationService {
	if bookmarks == nil {
		bookmarks = &fakeBookmarkRepo{}
	}
	return NewNavigationService(
		memory.NewViewStateRepository(),
		notes,
		&fakeUowFactory{uow: &fakeUow{bookmarks: bookmarks}},
		noopLogger{},
	)
}

func TestSelectSubjectFetchesChaptersInBackground(t *testing.T) {
	notes := &fakeNotesService{
		chapters: []entity.ChapterCategory{{Category: "Physics", Chapters: []string{"Light"}}},
		release:  make(chan struct{}),
	}
	svc := newNavServiceForTest(notes, nil)

	_, err := svc.SelectClass("user-1", &dto.SelectClassRequest{ClassLevel: "10"})
	require.NoError(t, err)

	snap, err := svc.SelectSubject("user-1", &dto.SelectSubjectRequest{Subject: "Science"})
	require.NoError(t, err)
	assert.Equal(t, "topic_select", snap.CurrentView)
	assert.True(t, snap.IsLoadingChapters)

	close(notes.release)
	assert.Eventually(t, func() bool {
		return !svc.Snapshot("user-1").IsLoadingChapters
	}, time.Second, 10*time.Millisecond)

	snap = svc.Snapshot("user-1")
	require.Len(t, snap.AvailableChapters, 1)
	assert.Equal(t, "Physics", snap.AvailableChapters[0].Category)
	assert.Empty(t, snap.ChapterError)
}

func TestSelectSubjectWithoutClassFails(t *testing.T) {
	svc := newNavServiceForTest(&fakeNotesService{}, nil)

	_, err := svc.SelectSubject("user-1", &dto.SelectSubjectRequest{Subject: "Science"})
	assert.Error(t, err)
}

func TestChapterFetchFailureLeavesViewUsable(t *testing.T) {
	notes := &fakeNotesService{chapterErr: errors.New("upstream down")}
	svc := newNavServiceForTest(notes, nil)

	_, err := svc.SelectClass("user-1", &dto.SelectClassRequest{ClassLevel: "10"})
	require.NoError(t, err)
	_, err = svc.SelectSubject("user-1", &dto.SelectSubjectRequest{Subject: "Science"})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		snap := svc.Snapshot("user-1")
		return !snap.IsLoadingChapters && snap.ChapterError != ""
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "topic_select", svc.Snapshot("user-1").CurrentView)
}

func TestGenerateNotesEntersNotesView(t *testing.T) {
	note := sampleStudyNote()
	svc := newNavServiceForTest(&fakeNotesService{note: &note}, nil)

	_, err := svc.SelectClass("user-1", &dto.SelectClassRequest{ClassLevel: "10"})
	require.NoError(t, err)
	_, err = svc.SelectSubject("user-1", &dto.SelectSubjectRequest{Subject: "Science"})
	require.NoError(t, err)

	snap, err := svc.GenerateNotes(context.Background(), "user-1", &dto.GenerateNotesRequest{Topic: "Sound"})
	require.NoError(t, err)
	assert.Equal(t, "notes", snap.CurrentView)
	assert.Equal(t, "Sound", snap.SelectedTopic)
	require.NotNil(t, snap.NotesData)
}

func TestGenerateNotesFailureKeepsCurrentView(t *testing.T) {
	svc := newNavServiceForTest(&fakeNotesService{noteErr: errors.New("model unavailable")}, nil)

	_, err := svc.SelectClass("user-1", &dto.SelectClassRequest{ClassLevel: "10"})
	require.NoError(t, err)
	_, err = svc.SelectSubject("user-1", &dto.SelectSubjectRequest{Subject: "Science"})
	require.NoError(t, err)

	_, err = svc.GenerateNotes(context.Background(), "user-1", &dto.GenerateNotesRequest{Topic: "Sound"})
	require.Error(t, err)

	snap := svc.Snapshot("user-1")
	assert.Equal(t, "topic_select", snap.CurrentView)
	assert.NotEmpty(t, snap.NotesError)
	assert.Nil(t, snap.NotesData)
}

func TestOpenBookmarkRestoresSelectionAndTarget(t *testing.T) {
	bookmarks := &fakeBookmarkRepo{}
	idx := 1
	saved := &entity.Bookmark{
		Id:           uuid.New(),
		UserId:       "user-1",
		Type:         entity.BookmarkTypeSection,
		NoteData:     sampleStudyNote(),
		SectionIndex: &idx,
		CreatedAt:    time.Now(),
	}
	bookmarks.rows = append(bookmarks.rows, saved)

	svc := newNavServiceForTest(&fakeNotesService{}, bookmarks)

	snap, err := svc.OpenBookmark(context.Background(), "user-1", &dto.OpenBookmarkRequest{BookmarkId: saved.Id.String()})
	require.NoError(t, err)
	assert.Equal(t, "notes", snap.CurrentView)
	assert.Equal(t, "10", snap.SelectedClass)
	assert.Equal(t, "Science", snap.SelectedSubject)
	assert.Equal(t, "Light", snap.SelectedTopic)

	target := svc.ConsumeTargetSection("user-1")
	assert.True(t, target.Present)
	assert.Equal(t, 1, target.SectionIndex)

	// one-shot
	target = svc.ConsumeTargetSection("user-1")
	assert.False(t, target.Present)

	// back from a bookmarked note returns to the library
	snap = svc.Back("user-1")
	assert.Equal(t, "bookmarks", snap.CurrentView)
}

func TestOpenBookmarkOwnedByAnotherUserIsNotFound(t *testing.T) {
	bookmarks := &fakeBookmarkRepo{}
	saved := &entity.Bookmark{Id: uuid.New(), UserId: "user-2", Type: entity.BookmarkTypeTopic, NoteData: sampleStudyNote()}
	bookmarks.rows = append(bookmarks.rows, saved)

	svc := newNavServiceForTest(&fakeNotesService{}, bookmarks)

	_, err := svc.OpenBookmark(context.Background(), "user-1", &dto.OpenBookmarkRequest{BookmarkId: saved.Id.String()})
	assert.ErrorIs(t, err, ErrBookmarkNotFound)
}

func TestAskTutorHandoffIsOneShot(t *testing.T) {
	svc := newNavServiceForTest(&fakeNotesService{}, nil)

	snap := svc.AskTutor("user-1", &dto.AskTutorRequest{Query: "Explain refraction"})
	assert.Equal(t, "ai_tutor", snap.CurrentView)

	q := svc.ConsumeTutorQuery("user-1")
	assert.True(t, q.Present)
	assert.Equal(t, "Explain refraction", q.Query)

	q = svc.ConsumeTutorQuery("user-1")
	assert.False(t, q.Present)
}

func TestResetHomeClearsSelections(t *testing.T) {
	note := sampleStudyNote()
	svc := newNavServiceForTest(&fakeNotesService{note: &note}, nil)

	_, err := svc.SelectClass("user-1", &dto.SelectClassRequest{ClassLevel: "10"})
	require.NoError(t, err)

	snap := svc.ResetHome("user-1")
	assert.Equal(t, "landing", snap.CurrentView)
	assert.Empty(t, snap.SelectedClass)
}
