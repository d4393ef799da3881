package navigation

import (
	"errors"
	"testing"

	"studynotes-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleNote(topic string) *entity.StudyNote {
	return &entity.StudyNote{
		Topic:      topic,
		Subject:    string(entity.SubjectScience),
		ClassLevel: string(entity.Class10),
		Sections:   []entity.NoteSection{{Heading: "Reflection", ContentPoints: []string{"Light bounces off surfaces"}}},
	}
}

func TestHappyPathClassSubjectTopicToNotes(t *testing.T) {
	s := NewState()
	s.Start()

	require.NoError(t, s.SelectClass(entity.Class10))
	assert.Equal(t, ViewSubjectSelect, s.Snapshot().CurrentView)

	token, err := s.BeginSubjectSelect(entity.SubjectScience)
	require.NoError(t, err)
	assert.True(t, s.Snapshot().IsLoadingChapters)

	applied := s.CompleteChapterFetch(token, []entity.ChapterCategory{{Category: "Physics", Chapters: []string{"Light"}}}, nil)
	assert.True(t, applied)
	assert.False(t, s.Snapshot().IsLoadingChapters)

	notesToken := s.BeginNotesFetch()
	assert.True(t, s.CompleteNotesFetch(notesToken, "Light", sampleNote("Light")))

	snap := s.Snapshot()
	assert.Equal(t, ViewNotes, snap.CurrentView)
	assert.Equal(t, entity.Class10, snap.SelectedClass)
	assert.Equal(t, entity.SubjectScience, snap.SelectedSubject)
	assert.Equal(t, "Light", snap.SelectedTopic)
	require.NotNil(t, snap.NotesData)

	s.Back()
	assert.Equal(t, ViewTopicSelect, s.Snapshot().CurrentView)
	assert.Nil(t, s.Snapshot().NotesData)
}

func TestSubjectRequiresClass(t *testing.T) {
	s := NewState()
	_, err := s.BeginSubjectSelect(entity.SubjectScience)
	assert.ErrorIs(t, err, ErrNoClassSelected)
}

func TestStaleChapterFetchIsDiscarded(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SelectClass(entity.Class9))

	oldToken, err := s.BeginSubjectSelect(entity.SubjectScience)
	require.NoError(t, err)

	// user changes their mind before the first fetch resolves
	newToken, err := s.BeginSubjectSelect(entity.SubjectMathematics)
	require.NoError(t, err)

	applied := s.CompleteChapterFetch(oldToken, []entity.ChapterCategory{{Category: "Physics"}}, nil)
	assert.False(t, applied, "stale completion must not overwrite newer state")
	assert.True(t, s.Snapshot().IsLoadingChapters, "newer fetch still pending")

	assert.True(t, s.CompleteChapterFetch(newToken, []entity.ChapterCategory{{Category: "Mathematics", Chapters: []string{"Polynomials"}}}, nil))
	snap := s.Snapshot()
	assert.Equal(t, entity.SubjectMathematics, snap.SelectedSubject)
	assert.Equal(t, "Mathematics", snap.AvailableChapters[0].Category)
}

func TestChapterFetchFailureIsNonFatal(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SelectClass(entity.Class8))
	token, err := s.BeginSubjectSelect(entity.SubjectEnglish)
	require.NoError(t, err)

	s.CompleteChapterFetch(token, nil, errors.New("upstream down"))

	snap := s.Snapshot()
	assert.Equal(t, ViewTopicSelect, snap.CurrentView, "view stays usable for manual topic entry")
	assert.Empty(t, snap.AvailableChapters)
	assert.NotEmpty(t, snap.ChapterError)
}

func TestFailedNotesGenerationKeepsCurrentView(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SelectClass(entity.Class10))
	chapterToken, err := s.BeginSubjectSelect(entity.SubjectScience)
	require.NoError(t, err)
	s.CompleteChapterFetch(chapterToken, nil, nil)

	token := s.BeginNotesFetch()
	assert.True(t, s.FailNotesFetch(token))

	snap := s.Snapshot()
	assert.Equal(t, ViewTopicSelect, snap.CurrentView, "never transition to a broken Notes view")
	assert.Nil(t, snap.NotesData)
	assert.NotEmpty(t, snap.NotesError)
}

func TestStaleNotesCompletionIsDiscarded(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SelectClass(entity.Class10))
	chapterToken, _ := s.BeginSubjectSelect(entity.SubjectScience)
	s.CompleteChapterFetch(chapterToken, nil, nil)

	oldToken := s.BeginNotesFetch()
	newToken := s.BeginNotesFetch()

	assert.False(t, s.CompleteNotesFetch(oldToken, "Light", sampleNote("Light")))
	assert.Equal(t, ViewTopicSelect, s.Snapshot().CurrentView)

	assert.True(t, s.CompleteNotesFetch(newToken, "Sound", sampleNote("Sound")))
	assert.Equal(t, "Sound", s.Snapshot().SelectedTopic)
}

func TestOpenBookmarkThenBackReturnsToBookmarks(t *testing.T) {
	s := NewState()
	s.OpenBookmarks()

	idx := 0
	s.OpenBookmark(sampleNote("Photosynthesis"), &idx)

	snap := s.Snapshot()
	assert.Equal(t, ViewNotes, snap.CurrentView)
	assert.Equal(t, entity.Class10, snap.SelectedClass)
	assert.Equal(t, "Photosynthesis", snap.SelectedTopic)

	got, ok := s.ConsumeTargetSection()
	assert.True(t, ok)
	assert.Equal(t, 0, got)
	_, ok = s.ConsumeTargetSection()
	assert.False(t, ok, "scroll target is one-shot")

	s.Back()
	assert.Equal(t, ViewBookmarks, s.Snapshot().CurrentView)
}

func TestAskTutorHandoffIsOneShot(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SelectClass(entity.Class10))
	chapterToken, _ := s.BeginSubjectSelect(entity.SubjectScience)
	s.CompleteChapterFetch(chapterToken, nil, nil)
	token := s.BeginNotesFetch()
	s.CompleteNotesFetch(token, "Light", sampleNote("Light"))

	s.AskTutor("Why does refraction happen?")
	assert.Equal(t, ViewAiTutor, s.Snapshot().CurrentView)
	assert.Equal(t, ViewNotes, s.Snapshot().PreviousView)

	q, ok := s.ConsumeTutorQuery()
	assert.True(t, ok)
	assert.Equal(t, "Why does refraction happen?", q)
	_, ok = s.ConsumeTutorQuery()
	assert.False(t, ok)
}

func TestStartFromNotesDropsNoteAndTopic(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SelectClass(entity.Class10))
	chapterToken, _ := s.BeginSubjectSelect(entity.SubjectScience)
	s.CompleteChapterFetch(chapterToken, nil, nil)
	token := s.BeginNotesFetch()
	require.True(t, s.CompleteNotesFetch(token, "Light", sampleNote("Light")))

	s.Start()

	snap := s.Snapshot()
	assert.Equal(t, ViewClassSelect, snap.CurrentView)
	assert.Nil(t, snap.NotesData, "a note only renders on the Notes view")
	assert.Empty(t, snap.SelectedTopic)
}

func TestBackWithoutHistoryLandsOnLanding(t *testing.T) {
	s := NewState()
	s.Back()
	assert.Equal(t, ViewLanding, s.Snapshot().CurrentView)
}

func TestResetHomeClearsEverything(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SelectClass(entity.Class7))
	chapterToken, _ := s.BeginSubjectSelect(entity.SubjectScience)
	s.CompleteChapterFetch(chapterToken, nil, errors.New("boom"))
	s.AskTutor("pending question")

	s.ResetHome()

	snap := s.Snapshot()
	assert.Equal(t, ViewLanding, snap.CurrentView)
	assert.Empty(t, snap.SelectedClass)
	assert.Empty(t, snap.SelectedSubject)
	assert.Empty(t, snap.ChapterError)
	_, ok := s.ConsumeTutorQuery()
	assert.False(t, ok)
}

func TestChapterCategoryPolicy(t *testing.T) {
	assert.Equal(t, []string{"Physics", "Chemistry", "Biology"}, entity.ChapterCategoryNames(entity.Class10, entity.SubjectScience))
	assert.Equal(t, []string{"History", "Geography", "Political Science", "Economics"}, entity.ChapterCategoryNames(entity.Class9, entity.SubjectSocialScience))
	assert.Equal(t, []string{"Mathematics"}, entity.ChapterCategoryNames(entity.Class11, entity.SubjectMathematics))
}
